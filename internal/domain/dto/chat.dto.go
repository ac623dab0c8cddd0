package dto

import "sales-assistant/internal/domain/entities"

type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	ClientID       string `json:"client_id,omitempty"`
	Language       string `json:"language,omitempty"`
}

type ChatResponse struct {
	ConversationID   string         `json:"conversation_id"`
	Message          string         `json:"message"`
	State            entities.Stage `json:"state"`
	DetectedLanguage string         `json:"detected_language"`
}

type ConversationResponse struct {
	Conversation entities.Conversation `json:"conversation"`
}
