package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-assistant/internal/config"
	"sales-assistant/internal/domain/entities"
	"sales-assistant/internal/embedding"
	"sales-assistant/internal/infra/logger"
	"sales-assistant/internal/intent"
)

// titanStub answers like Titan, using hash vectors so similarity is exact.
type titanStub struct {
	down atomic.Bool
	hash *embedding.HashProvider
}

func (s *titanStub) InvokeModel(ctx context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	if s.down.Load() {
		return nil, errors.New("service unavailable")
	}
	var req struct {
		InputText string `json:"inputText"`
	}
	if err := json.Unmarshal(in.Body, &req); err != nil {
		return nil, err
	}
	vec, _ := s.hash.Embed(ctx, "titan:"+req.InputText)
	body, _ := json.Marshal(map[string]any{"embedding": vec})
	return &bedrockruntime.InvokeModelOutput{Body: body}, nil
}

func bedrockEmbeddingConfig() *config.AppConfig {
	cfg := config.DefaultConfig()
	cfg.Embedding.Type = "bedrock"
	cfg.Embedding.Dimension = 64
	cfg.Embedding.TimeoutSecs = 1
	return cfg
}

func TestBuildEmbedderViews(t *testing.T) {
	stub := &titanStub{hash: embedding.NewHashProvider(64)}
	stub.down.Store(true)
	stable, query, err := buildEmbedder(bedrockEmbeddingConfig(), stub, logger.Discard())
	require.NoError(t, err)

	_, err = stable.Embed(context.Background(), "hello")
	assert.Error(t, err)

	vec, err := query.Embed(context.Background(), "hello")
	require.NoError(t, err)
	want, _ := embedding.NewHashProvider(64).Embed(context.Background(), "hello")
	assert.Equal(t, want, vec)
}

func TestClassifierRecoversAfterEmbeddingOutage(t *testing.T) {
	stub := &titanStub{hash: embedding.NewHashProvider(64)}
	stub.down.Store(true)
	stable, _, err := buildEmbedder(bedrockEmbeddingConfig(), stub, logger.Discard())
	require.NoError(t, err)

	classifier := intent.NewClassifier(stable, intent.DefaultExamples, logger.Discard(), intent.WithRetryDelay(0))
	require.Error(t, classifier.Warm(context.Background()))

	stub.down.Store(false)
	got, score := classifier.Classify(context.Background(), "What's the price?")
	assert.Equal(t, entities.StagePricing, got)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestBuildEmbedderHash(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Embedding.Dimension = 32
	stable, query, err := buildEmbedder(cfg, nil, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, "hash", stable.Name())
	assert.Same(t, stable, query)
}

func TestBuildEmbedderUnknownType(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Embedding.Type = "word2vec"
	_, _, err := buildEmbedder(cfg, nil, logger.Discard())
	assert.ErrorContains(t, err, "unknown embedding type")
}
