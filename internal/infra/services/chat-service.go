package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sales-assistant/internal/domain/dto"
	"sales-assistant/internal/domain/entities"
	Iservices "sales-assistant/internal/domain/interfaces/services"
	"sales-assistant/internal/embedding"
	"sales-assistant/internal/infra/logger"
	"sales-assistant/internal/infra/provider"
	"sales-assistant/internal/intent"
	"sales-assistant/internal/language"
	"sales-assistant/internal/requirements"
	"sales-assistant/internal/vectorindex"
)

const (
	DefaultTopK          = 3
	DefaultHistoryWindow = 5
	// pricingThreshold is the number of collected requirements that moves
	// a conversation from requirements to pricing.
	pricingThreshold = 3
)

var (
	ErrEmptyMessage         = errors.New("message must not be empty")
	ErrConversationNotFound = errors.New("conversation not found")
)

// FeatureCatalog lists product features in catalog order.
type FeatureCatalog interface {
	ListFeatures() []entities.ProductFeature
}

// Pricer computes a quote for a set of requirements.
type Pricer interface {
	Compute(ctx context.Context, reqs []entities.Requirement, attrs entities.ClientAttributes) (entities.PricingResult, error)
}

// ChatDependencies are the collaborators a turn needs.
type ChatDependencies struct {
	Conversations Iservices.IConversationService
	Inferrer      intent.StageInferrer
	Catalog       FeatureCatalog
	Pricer        Pricer
	Embedder      embedding.Provider
	Index         *vectorindex.Index
	Generator     provider.IGenerator
	Translator    language.Translator
}

type ChatOption func(*ChatService)

func WithTopK(k int) ChatOption {
	return func(cs *ChatService) {
		if k > 0 {
			cs.topK = k
		}
	}
}

func WithHistoryWindow(n int) ChatOption {
	return func(cs *ChatService) {
		if n > 0 {
			cs.historyWindow = n
		}
	}
}

func WithClock(now func() time.Time) ChatOption {
	return func(cs *ChatService) { cs.now = now }
}

// ChatService runs the conversation state machine, one turn at a time per
// conversation.
type ChatService struct {
	ChatDependencies
	Logger *logger.Logger

	topK          int
	historyWindow int
	now           func() time.Time
	locks         *keyedMutex
}

func NewChatService(logger *logger.Logger, deps ChatDependencies, opts ...ChatOption) *ChatService {
	cs := &ChatService{
		ChatDependencies: deps,
		Logger:           logger,
		topK:             DefaultTopK,
		historyWindow:    DefaultHistoryWindow,
		now:              time.Now,
		locks:            newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(cs)
	}
	if cs.Translator == nil {
		cs.Translator = language.NewDevTranslator(logger)
	}
	return cs
}

// HandleTurn processes one buyer message and returns the assistant reply.
// An unknown or empty conversation id starts a new conversation.
func (cs *ChatService) HandleTurn(ctx context.Context, req dto.ChatRequest) (dto.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return dto.ChatResponse{}, ErrEmptyMessage
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	unlock := cs.locks.Lock(conversationID)
	defer unlock()

	conversation := cs.load(ctx, conversationID, req.ClientID)

	lang := language.Detect(message)
	if req.Language != "" {
		lang = language.Normalize(req.Language)
	}
	english := language.ToEnglish(cs.Translator, message, lang)
	conversation.Language = lang
	conversation.Context.Language = lang

	conversation.Append(entities.RoleUser, english, cs.now())

	turn := &conversation.Context
	inferred := cs.Inferrer.Infer(ctx, &conversation)
	stage := turn.Stage.Later(inferred)

	if stage == entities.StageRequirements {
		extracted := requirements.Extract(english, cs.Catalog.ListFeatures())
		turn.Requirements = requirements.Merge(turn.Requirements, extracted)
		turn.LastQuestion = english
		if len(turn.Requirements) >= pricingThreshold {
			stage = entities.StagePricing
		}
	}
	if stage != turn.Stage {
		cs.Logger.Info("Conversation stage changed", logrus.Fields{
			"conversation_id": conversationID,
			"from":            turn.Stage.String(),
			"to":              stage.String(),
		})
	}
	turn.Stage = stage

	// Price before generating; the pricing reply presents the quote.
	if stage == entities.StagePricing && turn.Pricing == nil && len(turn.Requirements) > 0 {
		quote, err := cs.Pricer.Compute(ctx, turn.Requirements, entities.ClientAttributes{ClientID: conversation.ClientID})
		if err != nil {
			cs.Logger.Error(fmt.Sprintf("Failed to compute pricing for conversation '%s': %v", conversationID, err))
		} else {
			turn.Pricing = &quote
		}
	}

	reply, err := cs.Generator.Generate(ctx, provider.GenerationRequest{
		System:   provider.SystemPrompt(stage),
		Context:  provider.ComposeContext(cs.retrieve(ctx, english), turn.Pricing),
		Messages: conversation.Recent(cs.historyWindow),
	})
	if err != nil {
		cs.Logger.Error(fmt.Sprintf("Failed to generate reply: %v", err))
		reply = provider.FallbackReply
	}
	conversation.Append(entities.RoleAssistant, reply, cs.now())

	if err := cs.Conversations.Save(ctx, conversation); err != nil {
		cs.Logger.Error(fmt.Sprintf("Failed to persist conversation '%s': %v", conversationID, err))
	}

	return dto.ChatResponse{
		ConversationID:   conversationID,
		Message:          language.ToTarget(cs.Translator, reply, lang),
		State:            stage,
		DetectedLanguage: lang,
	}, nil
}

// InvalidatePricing drops the stored quote so the next pricing turn
// recomputes it.
func (cs *ChatService) InvalidatePricing(ctx context.Context, conversationID string) error {
	unlock := cs.locks.Lock(conversationID)
	defer unlock()

	conversation, found, err := cs.Conversations.Get(ctx, conversationID)
	if err != nil {
		return err
	}
	if !found {
		return ErrConversationNotFound
	}
	if conversation.Context.Pricing == nil {
		return nil
	}
	conversation.Context.Pricing = nil
	conversation.UpdatedAt = cs.now()
	return cs.Conversations.Save(ctx, conversation)
}

// load fetches the conversation or starts a fresh one. Store failures are
// logged and treated as a miss so the turn can still be answered.
func (cs *ChatService) load(ctx context.Context, conversationID, clientID string) entities.Conversation {
	conversation, found, err := cs.Conversations.Get(ctx, conversationID)
	if err != nil {
		cs.Logger.Warn(fmt.Sprintf("Conversation lookup failed for '%s', starting a new one: %v", conversationID, err))
	}
	if !found {
		cs.Logger.Info(fmt.Sprintf("Context not found for conversation ID %s. Initializing new context.", conversationID))
		conversation = entities.NewConversation(conversationID, clientID, cs.now())
	}
	if conversation.ClientID == "" {
		conversation.ClientID = clientID
	}
	return conversation
}

func (cs *ChatService) retrieve(ctx context.Context, text string) []string {
	if cs.Index == nil || cs.Embedder == nil || cs.Index.Len() == 0 {
		return nil
	}
	query, err := cs.Embedder.Embed(ctx, text)
	if err != nil {
		cs.Logger.Warn("Skipping retrieval, query embedding failed", logrus.Fields{"error": err.Error()})
		return nil
	}
	results := cs.Index.Search(query, cs.topK)
	passages := make([]string, 0, len(results))
	for _, r := range results {
		passages = append(passages, r.Document.Content)
	}
	return passages
}
