package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"

	"sales-assistant/internal/catalog"
	"sales-assistant/internal/domain/dto"
	"sales-assistant/internal/domain/entities"
	"sales-assistant/internal/embedding"
	"sales-assistant/internal/infra/handlers"
	"sales-assistant/internal/infra/logger"
	"sales-assistant/internal/infra/provider"
	"sales-assistant/internal/infra/repository"
	"sales-assistant/internal/infra/routes"
	"sales-assistant/internal/infra/services"
	"sales-assistant/internal/ingestion"
	"sales-assistant/internal/intent"
	"sales-assistant/internal/pricing"
	"sales-assistant/internal/vectorindex"
)

type failingCRM struct{}

func (failingCRM) CreateOrder(context.Context, provider.CRMOrderPayload) (string, error) {
	return "", errors.New("crm down")
}

type server struct {
	router *mux.Router
	fs     afs.Service
	base   string
}

func newServer(t *testing.T, crm provider.ICRMProvider) *server {
	t.Helper()
	log := logger.Discard()
	emb := embedding.NewHashProvider(32)
	index := vectorindex.New(32, log)
	engine := pricing.NewEngine(catalog.Default(), pricing.WithDeals(catalog.DefaultDeals()))

	conversations := services.NewConversationService(
		repository.NewMemoryRepository(func(c entities.Conversation) string { return c.ConversationID }), log)
	orders := repository.NewMemoryRepository(func(o entities.OrderInquiry) string { return o.InquiryID })

	chat := services.NewChatService(log, services.ChatDependencies{
		Conversations: conversations,
		Inferrer:      intent.NewClassifier(emb, intent.DefaultExamples, log),
		Catalog:       catalog.Default(),
		Pricer:        engine,
		Embedder:      emb,
		Index:         index,
		Generator:     provider.NewSafeGenerator(provider.MockGenerator{}, 0, log),
	})
	if crm == nil {
		crm = provider.NewMockCRMProvider(log)
	}
	orderSvc := services.NewOrderService(log, crm, orders, engine, "USD")

	fs := afs.New()
	base := "mem://localhost/handlers-" + strings.ReplaceAll(t.Name(), "/", "-")
	knowledge := ingestion.NewPipeline(ingestion.NewObjectSource(fs, base), emb, index, log)

	router := mux.NewRouter()
	routes.NewRoutes(router, handlers.NewHttpHandlers(log, chat, orderSvc, conversations, knowledge)).Init()
	return &server{router: router, fs: fs, base: base}
}

func (s *server) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(t, http.MethodPost, "/chat", dto.ChatRequest{Message: "Hello"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ConversationID string `json:"conversation_id"`
		Message        string `json:"message"`
		State          string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ConversationID)
	assert.Equal(t, "greeting", resp.State)
	assert.Contains(t, resp.Message, "Hello!")

	rec = s.do(t, http.MethodGet, "/conversations/"+resp.ConversationID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.ConversationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Conversation.Messages, 2)
	assert.Equal(t, entities.StageGreeting, got.Conversation.Context.Stage)
}

func TestChatEndpointRejectsBadInput(t *testing.T) {
	s := newServer(t, nil)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/chat", "{not json").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/chat", dto.ChatRequest{Message: ""}).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, s.do(t, http.MethodGet, "/chat", nil).Code)
}

func TestPricingEndpoint(t *testing.T) {
	s := newServer(t, nil)
	rec := s.do(t, http.MethodPost, "/pricing", dto.PricingRequest{
		Requirements: []entities.Requirement{{FeatureID: "feat-001"}, {FeatureID: "feat-002"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result entities.PricingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 25000.0, result.BasePrice)
	assert.GreaterOrEqual(t, result.FinalPrice, 28000.0)
	assert.LessOrEqual(t, result.FinalPrice, 29500.0)
	assert.Equal(t, "USD", result.Currency)
}

func TestCreateOrderEndpoint(t *testing.T) {
	s := newServer(t, nil)
	rec := s.do(t, http.MethodPost, "/create-order", dto.OrderRequest{
		ConversationID: "c-1",
		ClientID:       "client-1",
		Requirements:   []entities.Requirement{{FeatureID: "feat-001", FeatureName: "Basic Integration", Required: true}},
		Price:          11500,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, resp.OrderID)
	assert.Equal(t, "created", resp.Status)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/create-order", dto.OrderRequest{Price: 1}).Code)
}

func TestCreateOrderEndpointCRMFailure(t *testing.T) {
	s := newServer(t, failingCRM{})
	rec := s.do(t, http.MethodPost, "/create-order", dto.OrderRequest{ConversationID: "c-1", Price: 1})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "crm down")
}

func TestConversationEndpoints(t *testing.T) {
	s := newServer(t, nil)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/conversations/missing", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/conversations/missing", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/conversations/missing/pricing", nil).Code)

	for _, id := range []string{"c-1", "c-2"} {
		require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/chat", dto.ChatRequest{ConversationID: id, ClientID: "client-7", Message: "Hello"}).Code)
	}

	rec := s.do(t, http.MethodGet, "/conversations?client_id=client-7&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []entities.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/conversations?limit=x", nil).Code)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/conversations/c-1/pricing", nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/conversations/c-1", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/conversations/c-1", nil).Code)
}

func TestReindexEndpoint(t *testing.T) {
	s := newServer(t, nil)
	for name, content := range map[string]string{
		"/a.txt": "Mobile Access brings the platform to phones.",
		"/b.txt": "Data Migration moves your records.",
	} {
		require.NoError(t, s.fs.Upload(context.Background(), s.base+name, 0o644, strings.NewReader(content)))
	}

	rec := s.do(t, http.MethodPost, "/admin/reindex", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ReindexResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Documents)
}

func TestHealthCheck(t *testing.T) {
	s := newServer(t, nil)
	rec := s.do(t, http.MethodGet, "/healthCheck", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}
