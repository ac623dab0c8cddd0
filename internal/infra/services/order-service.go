package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sales-assistant/internal/domain/dto"
	"sales-assistant/internal/domain/entities"
	"sales-assistant/internal/domain/interfaces/repository"
	repocontants "sales-assistant/internal/domain/interfaces/repository/contants"
	"sales-assistant/internal/infra/logger"
	"sales-assistant/internal/infra/provider"
)

const orderSource = "ai_chatbot"

var ErrInvalidOrder = errors.New("invalid order request")

// OrderService prices requirements on demand and records order inquiries in
// the CRM.
type OrderService struct {
	Logger          *logger.Logger
	CRM             provider.ICRMProvider
	OrderRepository repository.Repository[entities.OrderInquiry]
	Pricer          Pricer
	Currency        string
	now             func() time.Time
}

func NewOrderService(logger *logger.Logger, crm provider.ICRMProvider, orderRepository repository.Repository[entities.OrderInquiry], pricer Pricer, currency string) *OrderService {
	if currency == "" {
		currency = "USD"
	}
	return &OrderService{Logger: logger, CRM: crm, OrderRepository: orderRepository, Pricer: pricer, Currency: currency, now: time.Now}
}

func (th *OrderService) ComputePricing(ctx context.Context, req dto.PricingRequest) (entities.PricingResult, error) {
	result, err := th.Pricer.Compute(ctx, req.Requirements, req.Attributes())
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Error calculating pricing: %v", err))
		return entities.PricingResult{}, err
	}
	return result, nil
}

// CreateOrder sends an inquiry to the CRM and records it. CRM failures are
// returned wrapped in provider.ErrOrderFailed.
func (th *OrderService) CreateOrder(ctx context.Context, req dto.OrderRequest) (dto.OrderResponse, error) {
	if req.ConversationID == "" {
		return dto.OrderResponse{}, fmt.Errorf("%w: conversation_id is required", ErrInvalidOrder)
	}
	if req.Price < 0 {
		return dto.OrderResponse{}, fmt.Errorf("%w: price must not be negative", ErrInvalidOrder)
	}

	createdAt := th.now().UTC()
	inquiryID := "INQ-" + provider.ShortID()

	lines := make([]provider.CRMRequirement, 0, len(req.Requirements))
	for _, r := range req.Requirements {
		lines = append(lines, provider.CRMRequirement{
			FeatureID:   r.FeatureID,
			FeatureName: r.FeatureName,
			Quantity:    r.Units(),
			Notes:       r.Notes,
		})
	}
	payload := provider.CRMOrderPayload{
		Type:                  "inquiry",
		ClientID:              req.ClientID,
		ConversationReference: req.ConversationID,
		Requirements:          lines,
		Price:                 provider.CRMPrice{Amount: req.Price, Currency: th.Currency},
		Metadata:              provider.CRMMetadata{Source: orderSource, InquiryID: inquiryID, CreatedAt: createdAt},
	}

	orderID, err := th.CRM.CreateOrder(ctx, payload)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Error creating order inquiry %s: %v", inquiryID, err))
		if !errors.Is(err, provider.ErrOrderFailed) {
			err = fmt.Errorf("%w: %v", provider.ErrOrderFailed, err)
		}
		return dto.OrderResponse{}, err
	}

	inquiry := entities.OrderInquiry{
		OrderID:        orderID,
		InquiryID:      inquiryID,
		ConversationID: req.ConversationID,
		ClientID:       req.ClientID,
		Requirements:   req.Requirements,
		Price:          req.Price,
		Currency:       th.Currency,
		Status:         entities.OrderStatusPending,
		CreatedAt:      createdAt,
	}
	if _, err := th.OrderRepository.Create(ctx, repocontants.ORDER_COLLECTION, inquiry); err != nil {
		th.Logger.Error(fmt.Sprintf("Order %s created in CRM but not recorded locally: %v", orderID, err))
	}

	return dto.OrderResponse{OrderID: orderID, InquiryID: inquiryID, Status: "created"}, nil
}
