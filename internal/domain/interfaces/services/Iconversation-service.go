package Iservices

import (
	"context"

	"sales-assistant/internal/domain/entities"
)

type IConversationService interface {
	Save(ctx context.Context, conversation entities.Conversation) error
	Get(ctx context.Context, conversationID string) (entities.Conversation, bool, error)
	List(ctx context.Context, clientID string, limit int) ([]entities.Conversation, error)
	Delete(ctx context.Context, conversationID string) error
}
