package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"sales-assistant/internal/infra/handlers"
)

type Routes struct {
	Mux         *mux.Router
	HttpHandler *handlers.HttpHandlers
}

func NewRoutes(mux *mux.Router, HttpHandler *handlers.HttpHandlers) *Routes {
	return &Routes{mux, HttpHandler}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/chat", r.HttpHandler.Chat).Methods(http.MethodPost)
	r.Mux.HandleFunc("/pricing", r.HttpHandler.Pricing).Methods(http.MethodPost)
	r.Mux.HandleFunc("/create-order", r.HttpHandler.CreateOrder).Methods(http.MethodPost)

	r.Mux.HandleFunc("/conversations", r.HttpHandler.ListConversations).Methods(http.MethodGet)
	r.Mux.HandleFunc("/conversations/{id}", r.HttpHandler.GetConversation).Methods(http.MethodGet)
	r.Mux.HandleFunc("/conversations/{id}", r.HttpHandler.DeleteConversation).Methods(http.MethodDelete)
	r.Mux.HandleFunc("/conversations/{id}/pricing", r.HttpHandler.InvalidatePricing).Methods(http.MethodDelete)

	r.Mux.HandleFunc("/admin/reindex", r.HttpHandler.Reindex).Methods(http.MethodPost)

	r.Mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "B2B Sales Assistant API"})
	}).Methods(http.MethodGet)

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
