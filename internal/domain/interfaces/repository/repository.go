package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no entity matches the conversation id.
var ErrNotFound = errors.New("entity not found")

type Repository[T any] interface {
	Create(ctx context.Context, collectionName string, entity T) (T, error)
	Update(ctx context.Context, collectionName string, conversationID string, entity T) (T, error)
	Delete(ctx context.Context, collectionName string, conversationID string) error
	FindByConversationID(ctx context.Context, collectionName string, conversationID string) (T, error)
	FindAll(ctx context.Context, collectionName string) ([]T, error)
}
