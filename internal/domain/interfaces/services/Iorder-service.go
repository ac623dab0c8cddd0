package Iservices

import (
	"context"

	"sales-assistant/internal/domain/dto"
	"sales-assistant/internal/domain/entities"
)

type IOrderService interface {
	ComputePricing(ctx context.Context, req dto.PricingRequest) (entities.PricingResult, error)
	CreateOrder(ctx context.Context, req dto.OrderRequest) (dto.OrderResponse, error)
}
