package Iservices

import (
	"context"

	"sales-assistant/internal/domain/dto"
)

type IChatService interface {
	HandleTurn(ctx context.Context, req dto.ChatRequest) (dto.ChatResponse, error)
	InvalidatePricing(ctx context.Context, conversationID string) error
}
