package dto

import "sales-assistant/internal/domain/entities"

type PricingRequest struct {
	ConversationID string                 `json:"conversation_id,omitempty"`
	ClientID       string                 `json:"client_id,omitempty"`
	Industry       string                 `json:"industry,omitempty"`
	CompanySize    string                 `json:"company_size,omitempty"`
	Region         string                 `json:"region,omitempty"`
	Requirements   []entities.Requirement `json:"requirements"`
}

// Attributes returns the client attributes pricing compares deals on.
func (p PricingRequest) Attributes() entities.ClientAttributes {
	return entities.ClientAttributes{
		ClientID:    p.ClientID,
		Industry:    p.Industry,
		CompanySize: p.CompanySize,
		Region:      p.Region,
	}
}

type OrderRequest struct {
	ConversationID string                 `json:"conversation_id"`
	ClientID       string                 `json:"client_id"`
	Requirements   []entities.Requirement `json:"requirements"`
	Price          float64                `json:"price"`
}

type OrderResponse struct {
	OrderID   string `json:"order_id"`
	InquiryID string `json:"inquiry_id"`
	Status    string `json:"status"`
}
