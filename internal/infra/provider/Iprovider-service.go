package provider

import (
	"context"

	"sales-assistant/internal/domain/entities"
)

// GenerationRequest is everything a model sees for one reply.
type GenerationRequest struct {
	System   string
	Context  string
	Messages []entities.Message
}

type IGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

type ICRMProvider interface {
	CreateOrder(ctx context.Context, payload CRMOrderPayload) (string, error)
}
