package entities

import "time"

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type Message struct {
	Role      MessageRole `json:"role" bson:"role"`
	Content   string      `json:"content" bson:"content"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
}

// Conversation is the persisted dialogue. Messages are append-only and
// chronological; Context travels with it so requirements and pricing
// survive between turns.
type Conversation struct {
	ConversationID string              `json:"conversation_id" bson:"conversation_id"`
	ClientID       string              `json:"client_id,omitempty" bson:"client_id,omitempty"`
	Messages       []Message           `json:"messages" bson:"messages"`
	Language       string              `json:"language" bson:"language"`
	Context        ConversationContext `json:"context" bson:"context"`
	CreatedAt      time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" bson:"updated_at"`
}

func NewConversation(id, clientID string, now time.Time) Conversation {
	return Conversation{
		ConversationID: id,
		ClientID:       clientID,
		Messages:       []Message{},
		Language:       "en",
		Context:        ConversationContext{Stage: StageGreeting, Language: "en"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Append adds a message at the end of the history.
func (c *Conversation) Append(role MessageRole, content string, at time.Time) Message {
	msg := Message{Role: role, Content: content, Timestamp: at}
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = at
	return msg
}

// LastUserMessage returns the most recent user-authored message.
func (c *Conversation) LastUserMessage() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

// Recent returns at most n trailing messages.
func (c *Conversation) Recent(n int) []Message {
	if n <= 0 || n >= len(c.Messages) {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-n:]
}

type ConversationContext struct {
	Stage        Stage          `json:"stage" bson:"stage"`
	Requirements []Requirement  `json:"collected_requirements" bson:"collected_requirements"`
	Pricing      *PricingResult `json:"pricing_info,omitempty" bson:"pricing_info,omitempty"`
	LastQuestion string         `json:"last_question,omitempty" bson:"last_question,omitempty"`
	Language     string         `json:"language" bson:"language"`
}

type Requirement struct {
	FeatureID   string `json:"feature_id" bson:"feature_id"`
	FeatureName string `json:"feature_name" bson:"feature_name"`
	Required    bool   `json:"required" bson:"required"`
	Quantity    *int   `json:"quantity,omitempty" bson:"quantity,omitempty"`
	Notes       string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Units is the quantity with a floor of one.
func (r Requirement) Units() int {
	if r.Quantity == nil || *r.Quantity < 1 {
		return 1
	}
	return *r.Quantity
}
