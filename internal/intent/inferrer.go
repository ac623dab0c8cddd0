// Package intent infers which funnel stage a conversation is in.
package intent

import (
	"context"

	"sales-assistant/internal/domain/entities"
)

// StageInferrer derives the current stage from conversation history.
type StageInferrer interface {
	Infer(ctx context.Context, conv *entities.Conversation) entities.Stage
}

// MessageCountPolicy maps history length onto stages by fixed thresholds.
type MessageCountPolicy struct{}

func (MessageCountPolicy) Infer(_ context.Context, conv *entities.Conversation) entities.Stage {
	n := len(conv.Messages)
	switch {
	case n <= 2:
		return entities.StageGreeting
	case n <= 6:
		return entities.StageProductQA
	case n <= 10:
		return entities.StageRequirements
	case n <= 12:
		return entities.StagePricing
	case n <= 14:
		return entities.StageConfirmation
	default:
		return entities.StageHandoff
	}
}
