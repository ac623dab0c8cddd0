package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

// OpenAIProvider is an OpenAI-compatible embeddings client.
type OpenAIProvider struct {
	baseURL    string
	apiKey     string
	model      string
	dimension  int
	client     *http.Client
	maxRetries int
}

// OpenAIConfig configures the OpenAI-compatible embeddings client.
type OpenAIConfig struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Dimension int
	Timeout   time.Duration
}

func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = DefaultDimension
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &OpenAIProvider{
		baseURL:    cfg.BaseURL,
		apiKey:     key,
		model:      cfg.Model,
		dimension:  cfg.Dimension,
		client:     &http.Client{Timeout: t},
		maxRetries: 3,
	}, nil
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Dimension() int { return p.dimension }

func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	type reqBody struct {
		Input string `json:"input"`
		Model string `json:"model"`
	}
	data, err := json.Marshal(reqBody{Input: text, Model: p.model})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/embeddings", p.baseURL)
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+p.apiKey)

		resp, err := p.client.Do(req)
		if err != nil {
			if attempt < p.maxRetries && ctx.Err() == nil {
				sleep(ctx, retryDelay(attempt))
				continue
			}
			return nil, err
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			delay := retryDelay(attempt)
			if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				delay = time.Duration(secs) * time.Second
			}
			_ = resp.Body.Close()
			if attempt < p.maxRetries {
				sleep(ctx, delay)
				continue
			}
			return nil, fmt.Errorf("openai embeddings failed: %s", resp.Status)
		}
		if resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("openai embeddings failed: %s", resp.Status)
		}

		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, err
		}
		var out struct {
			Data []struct {
				Embedding []float64 `json:"embedding"`
			} `json:"data"`
		}
		if err := json.Unmarshal(payload, &out); err != nil {
			return nil, err
		}
		if len(out.Data) == 0 {
			return nil, errors.New("no embedding returned")
		}
		v := out.Data[0].Embedding
		if err := checkDimension(v, p.dimension); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, errors.New("no embedding returned")
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	// exponential backoff capped at 5s
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
