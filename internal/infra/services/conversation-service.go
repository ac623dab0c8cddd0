package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"sales-assistant/internal/domain/entities"
	"sales-assistant/internal/domain/interfaces/repository"
	repocontants "sales-assistant/internal/domain/interfaces/repository/contants"
	"sales-assistant/internal/infra/logger"
)

// ConversationService is the conversation store over a generic repository.
type ConversationService struct {
	ConversationRepository repository.Repository[entities.Conversation]
	Logger                 *logger.Logger
}

func NewConversationService(conversationRepository repository.Repository[entities.Conversation], logger *logger.Logger) *ConversationService {
	return &ConversationService{
		ConversationRepository: conversationRepository,
		Logger:                 logger,
	}
}

// Save upserts the conversation keyed by its id.
func (cs *ConversationService) Save(ctx context.Context, conversation entities.Conversation) error {
	_, err := cs.ConversationRepository.Update(ctx, repocontants.CONVERSATION_COLLECTION, conversation.ConversationID, conversation)
	if err != nil {
		cs.Logger.Error(fmt.Sprintf("Failed to save conversation '%s': %v", conversation.ConversationID, err))
		return err
	}
	return nil
}

// Get returns found=false, without error, when no conversation has the id.
func (cs *ConversationService) Get(ctx context.Context, conversationID string) (entities.Conversation, bool, error) {
	if conversationID == "" {
		return entities.Conversation{}, false, nil
	}
	result, err := cs.ConversationRepository.FindByConversationID(ctx, repocontants.CONVERSATION_COLLECTION, conversationID)
	if errors.Is(err, repository.ErrNotFound) {
		return entities.Conversation{}, false, nil
	}
	if err != nil {
		cs.Logger.Error(fmt.Sprintf("Failed to find conversation '%s': %v", conversationID, err))
		return entities.Conversation{}, false, err
	}
	return result, true, nil
}

// List returns the client's conversations, most recently updated first. An
// empty clientID matches all conversations; limit <= 0 means no limit.
func (cs *ConversationService) List(ctx context.Context, clientID string, limit int) ([]entities.Conversation, error) {
	all, err := cs.ConversationRepository.FindAll(ctx, repocontants.CONVERSATION_COLLECTION)
	if err != nil {
		cs.Logger.Error(fmt.Sprintf("Failed to list conversations: %v", err))
		return nil, err
	}
	out := make([]entities.Conversation, 0, len(all))
	for _, c := range all {
		if clientID == "" || c.ClientID == clientID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (cs *ConversationService) Delete(ctx context.Context, conversationID string) error {
	err := cs.ConversationRepository.Delete(ctx, repocontants.CONVERSATION_COLLECTION, conversationID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		cs.Logger.Error(fmt.Sprintf("Failed to delete conversation '%s': %v", conversationID, err))
	}
	return err
}
