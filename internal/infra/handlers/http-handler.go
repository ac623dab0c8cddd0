package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"sales-assistant/internal/domain/dto"
	"sales-assistant/internal/domain/interfaces/repository"
	Iservices "sales-assistant/internal/domain/interfaces/services"
	"sales-assistant/internal/infra/logger"
	"sales-assistant/internal/infra/provider"
	"sales-assistant/internal/infra/services"
)

type HttpHandlers struct {
	Logger              *logger.Logger
	ChatService         Iservices.IChatService
	OrderService        Iservices.IOrderService
	ConversationService Iservices.IConversationService
	KnowledgeService    Iservices.IKnowledgeService
}

func NewHttpHandlers(logger *logger.Logger, chatService Iservices.IChatService, orderService Iservices.IOrderService, conversationService Iservices.IConversationService, knowledgeService Iservices.IKnowledgeService) *HttpHandlers {
	return &HttpHandlers{
		Logger:              logger,
		ChatService:         chatService,
		OrderService:        orderService,
		ConversationService: conversationService,
		KnowledgeService:    knowledgeService,
	}
}

// Chat handles one buyer turn.
func (th *HttpHandlers) Chat(w http.ResponseWriter, r *http.Request) {
	var body dto.ChatRequest
	if !th.decode(w, r, &body) {
		return
	}

	resp, err := th.ChatService.HandleTurn(r.Context(), body)
	if errors.Is(err, services.ErrEmptyMessage) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Error processing chat request: %v", err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (th *HttpHandlers) Pricing(w http.ResponseWriter, r *http.Request) {
	var body dto.PricingRequest
	if !th.decode(w, r, &body) {
		return
	}

	result, err := th.OrderService.ComputePricing(r.Context(), body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (th *HttpHandlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var body dto.OrderRequest
	if !th.decode(w, r, &body) {
		return
	}

	resp, err := th.OrderService.CreateOrder(r.Context(), body)
	switch {
	case errors.Is(err, services.ErrInvalidOrder):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, provider.ErrOrderFailed):
		writeError(w, http.StatusBadGateway, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

func (th *HttpHandlers) GetConversation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	conversation, found, err := th.ConversationService.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, dto.ConversationResponse{Conversation: conversation})
}

// ListConversations accepts optional client_id and limit query parameters.
func (th *HttpHandlers) ListConversations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	list, err := th.ConversationService.List(r.Context(), query.Get("client_id"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (th *HttpHandlers) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	err := th.ConversationService.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (th *HttpHandlers) InvalidatePricing(w http.ResponseWriter, r *http.Request) {
	err := th.ChatService.InvalidatePricing(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, services.ErrConversationNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reindex rebuilds the knowledge base. The body is optional.
func (th *HttpHandlers) Reindex(w http.ResponseWriter, r *http.Request) {
	var body dto.ReindexRequest
	if r.ContentLength > 0 && !th.decode(w, r, &body) {
		return
	}

	count, err := th.KnowledgeService.Reindex(r.Context(), body.Prefix)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Reindex failed: %v", err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.ReindexResponse{Documents: count})
}

func (th *HttpHandlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		th.Logger.Warn(fmt.Sprintf("Invalid JSON payload: %s", err.Error()))
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}
