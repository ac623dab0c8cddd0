package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/sirupsen/logrus"

	"sales-assistant/internal/domain/entities"
	"sales-assistant/internal/infra/logger"
	client "sales-assistant/internal/pkg"
)

const anthropicVersion = "bedrock-2023-05-31"

type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature"`
	System           string          `json:"system,omitempty"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type BedrockOption func(*BedrockGenerator)

func WithMaxTokens(n int) BedrockOption {
	return func(g *BedrockGenerator) { g.maxTokens = n }
}

func WithTemperature(t float64) BedrockOption {
	return func(g *BedrockGenerator) { g.temperature = t }
}

func WithMaxRetries(n int) BedrockOption {
	return func(g *BedrockGenerator) { g.maxRetries = n }
}

// BedrockGenerator produces replies with an Anthropic Claude model on Bedrock.
type BedrockGenerator struct {
	api         client.InvokeModelAPI
	model       string
	maxTokens   int
	temperature float64
	maxRetries  int
	Logger      *logger.Logger
}

func NewBedrockGenerator(api client.InvokeModelAPI, model string, logger *logger.Logger, opts ...BedrockOption) *BedrockGenerator {
	g := &BedrockGenerator{api: api, model: model, maxTokens: 1024, temperature: 0.7, maxRetries: 1, Logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *BedrockGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	messages := toClaudeMessages(req.Messages)
	if len(messages) == 0 {
		return "", errors.New("no user message to respond to")
	}
	body, err := json.Marshal(claudeRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        g.maxTokens,
		Temperature:      g.temperature,
		System:           systemWithContext(req),
		Messages:         messages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	input := &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.model),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	}
	var out *bedrockruntime.InvokeModelOutput
	for i := 0; i < max(1, g.maxRetries); i++ {
		out, err = g.api.InvokeModel(ctx, input)
		if err == nil || ctx.Err() != nil {
			break
		}
		g.Logger.Warn("Bedrock invocation failed", logrus.Fields{"attempt": i + 1, "error": err.Error()})
	}
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	var resp claudeResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	var text strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.New("model returned no text content")
	}
	return text.String(), nil
}

// toClaudeMessages drops system turns, starts at the first user turn and
// joins consecutive turns of the same role, as the Messages API requires.
func toClaudeMessages(history []entities.Message) []claudeMessage {
	var out []claudeMessage
	for _, m := range history {
		if m.Role == entities.RoleSystem {
			continue
		}
		if len(out) == 0 && m.Role != entities.RoleUser {
			continue
		}
		role := string(m.Role)
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content += "\n\n" + m.Content
			continue
		}
		out = append(out, claudeMessage{Role: role, Content: m.Content})
	}
	return out
}
