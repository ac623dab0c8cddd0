package entities

import "time"

const OrderStatusPending = "pending"

type OrderInquiry struct {
	OrderID        string        `json:"order_id" bson:"order_id"`
	InquiryID      string        `json:"inquiry_id" bson:"inquiry_id"`
	ConversationID string        `json:"conversation_id" bson:"conversation_id"`
	ClientID       string        `json:"client_id" bson:"client_id"`
	Requirements   []Requirement `json:"requirements" bson:"requirements"`
	Price          float64       `json:"price" bson:"price"`
	Currency       string        `json:"currency" bson:"currency"`
	Status         string        `json:"status" bson:"status"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at"`
}
