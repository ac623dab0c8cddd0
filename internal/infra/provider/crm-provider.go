package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"sales-assistant/internal/infra/logger"
)

var ErrOrderFailed = errors.New("failed to create order in CRM")

type CRMRequirement struct {
	FeatureID   string `json:"feature_id"`
	FeatureName string `json:"feature_name"`
	Quantity    int    `json:"quantity"`
	Notes       string `json:"notes,omitempty"`
}

type CRMPrice struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type CRMMetadata struct {
	Source    string    `json:"source"`
	InquiryID string    `json:"inquiry_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CRMOrderPayload is the order document sent to the CRM.
type CRMOrderPayload struct {
	Type                  string           `json:"type"`
	ClientID              string           `json:"client_id"`
	ConversationReference string           `json:"conversation_reference"`
	Requirements          []CRMRequirement `json:"requirements"`
	Price                 CRMPrice         `json:"price"`
	Metadata              CRMMetadata      `json:"metadata"`
}

// MockCRMProvider fabricates order IDs of the form ORD-XXXXXXXX.
type MockCRMProvider struct {
	Logger *logger.Logger
}

func NewMockCRMProvider(logger *logger.Logger) *MockCRMProvider {
	return &MockCRMProvider{Logger: logger}
}

func (th *MockCRMProvider) CreateOrder(ctx context.Context, payload CRMOrderPayload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOrderFailed, err)
	}
	orderID := "ORD-" + ShortID()
	th.Logger.Info(fmt.Sprintf("Created order %s in CRM system", orderID))
	return orderID, nil
}

// ShortID returns eight upper-case hex characters from a random UUID.
func ShortID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// HTTPCRMProvider posts orders to a CRM REST API.
type HTTPCRMProvider struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	apiURL     string
	apiKey     string
}

func NewHTTPCRMProvider(logger *logger.Logger, httpClient *http.Client, apiURL, apiKey string) *HTTPCRMProvider {
	return &HTTPCRMProvider{Logger: logger, HttpClient: httpClient, apiURL: strings.TrimRight(apiURL, "/"), apiKey: apiKey}
}

func (th *HTTPCRMProvider) CreateOrder(ctx context.Context, payload CRMOrderPayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to marshal payload %v", err))
		return "", fmt.Errorf("%w: failed to marshal payload: %v", ErrOrderFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, th.apiURL+"/orders", bytes.NewReader(body))
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to create HTTP request %v", err))
		return "", fmt.Errorf("%w: failed to create HTTP request: %v", ErrOrderFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if th.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", th.apiKey))
	}

	res, err := th.HttpClient.Do(req)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("HTTP request failed %v", err))
		return "", fmt.Errorf("%w: HTTP request failed: %v", ErrOrderFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(res.Body)
		th.Logger.Error(fmt.Sprintf("Unexpected HTTP status %s response_body %s", res.Status, string(respBody)))
		return "", fmt.Errorf("%w: unexpected HTTP status: %s", ErrOrderFailed, res.Status)
	}

	var out struct {
		OrderID string `json:"order_id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to decode response body %v", err))
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrOrderFailed, err)
	}
	if out.OrderID == "" {
		return "", fmt.Errorf("%w: response carried no order_id", ErrOrderFailed)
	}

	th.Logger.Info(fmt.Sprintf("Created order %s in CRM system", out.OrderID))
	return out.OrderID, nil
}
