package embedding

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	client "sales-assistant/internal/pkg"
)

const defaultTitanModel = "amazon.titan-embed-text-v1"

// BedrockProvider embeds text with an Amazon Titan model on Bedrock.
type BedrockProvider struct {
	api       client.InvokeModelAPI
	model     string
	dimension int
}

type titanRequest struct {
	InputText string `json:"inputText"`
}

type titanResponse struct {
	Embedding           []float64 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

func NewBedrockProvider(api client.InvokeModelAPI, model string, dimension int) *BedrockProvider {
	if model == "" {
		model = defaultTitanModel
	}
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &BedrockProvider{api: api, model: model, dimension: dimension}
}

func (p *BedrockProvider) Name() string { return "bedrock" }

func (p *BedrockProvider) Dimension() int { return p.dimension }

func (p *BedrockProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(titanRequest{InputText: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}
	out, err := p.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(p.model),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke embedding model: %w", err)
	}
	var resp titanResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embedding response: %w", err)
	}
	if err := checkDimension(resp.Embedding, p.dimension); err != nil {
		return nil, err
	}
	return resp.Embedding, nil
}
