package repository

import (
	"context"
	"sync"

	repo "sales-assistant/internal/domain/interfaces/repository"
)

// MemoryRepository keeps entities per collection in process memory. The key
// function extracts the conversation id of an entity.
type MemoryRepository[T any] struct {
	mu          sync.RWMutex
	key         func(T) string
	collections map[string]*memoryCollection[T]
}

type memoryCollection[T any] struct {
	order []string
	items map[string]T
}

func NewMemoryRepository[T any](key func(T) string) *MemoryRepository[T] {
	return &MemoryRepository[T]{key: key, collections: map[string]*memoryCollection[T]{}}
}

func (r *MemoryRepository[T]) collection(name string) *memoryCollection[T] {
	c, ok := r.collections[name]
	if !ok {
		c = &memoryCollection[T]{items: map[string]T{}}
		r.collections[name] = c
	}
	return c
}

func (r *MemoryRepository[T]) Create(ctx context.Context, collectionName string, entity T) (T, error) {
	return r.Update(ctx, collectionName, r.key(entity), entity)
}

func (r *MemoryRepository[T]) Update(ctx context.Context, collectionName string, conversationID string, entity T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.collection(collectionName)
	if _, exists := c.items[conversationID]; !exists {
		c.order = append(c.order, conversationID)
	}
	c.items[conversationID] = entity
	return entity, nil
}

func (r *MemoryRepository[T]) Delete(ctx context.Context, collectionName string, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.collection(collectionName)
	if _, exists := c.items[conversationID]; !exists {
		return repo.ErrNotFound
	}
	delete(c.items, conversationID)
	for i, id := range c.order {
		if id == conversationID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepository[T]) FindByConversationID(ctx context.Context, collectionName string, conversationID string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var zero T
	c, ok := r.collections[collectionName]
	if !ok {
		return zero, repo.ErrNotFound
	}
	entity, ok := c.items[conversationID]
	if !ok {
		return zero, repo.ErrNotFound
	}
	return entity, nil
}

func (r *MemoryRepository[T]) FindAll(ctx context.Context, collectionName string) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.collections[collectionName]
	if !ok {
		return nil, nil
	}
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out, nil
}
