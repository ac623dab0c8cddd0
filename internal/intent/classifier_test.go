package intent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-assistant/internal/domain/entities"
	"sales-assistant/internal/embedding"
	"sales-assistant/internal/infra/logger"
)

func conversation(msgs ...entities.Message) *entities.Conversation {
	conv := entities.NewConversation("c-1", "", time.Now())
	conv.Messages = append(conv.Messages, msgs...)
	return &conv
}

func user(text string) entities.Message {
	return entities.Message{Role: entities.RoleUser, Content: text, Timestamp: time.Now()}
}

func assistant(text string) entities.Message {
	return entities.Message{Role: entities.RoleAssistant, Content: text, Timestamp: time.Now()}
}

func TestClassifierReferenceUtterances(t *testing.T) {
	c := NewClassifier(embedding.NewHashProvider(256), DefaultExamples, logger.Discard())
	require.NoError(t, c.Warm(context.Background()))

	tests := []struct {
		text string
		want entities.Stage
	}{
		{"What's the price?", entities.StagePricing},
		{"Hello", entities.StageGreeting},
		{"Can I talk to a sales representative?", entities.StageHandoff},
		{"We need the following features", entities.StageRequirements},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, score := c.Classify(context.Background(), tt.text)
			assert.Equal(t, tt.want, got)
			assert.InDelta(t, 1.0, score, 1e-9)
		})
	}
}

func TestClassifierUsesLatestUserMessage(t *testing.T) {
	c := NewClassifier(embedding.NewHashProvider(256), DefaultExamples, logger.Discard())
	conv := conversation(user("Hello"), assistant("Hi! How can I help?"), user("What's the price?"), assistant("It depends."))
	assert.Equal(t, entities.StagePricing, c.Infer(context.Background(), conv))
}

func TestClassifierEmptyHistory(t *testing.T) {
	c := NewClassifier(embedding.NewHashProvider(64), DefaultExamples, logger.Discard())
	assert.Equal(t, entities.StageGreeting, c.Infer(context.Background(), conversation()))
	assert.Equal(t, entities.StageGreeting, c.Infer(context.Background(), conversation(assistant("Welcome"))))
}

type constantEmbedder struct{ calls int32 }

func (e *constantEmbedder) Name() string   { return "constant" }
func (e *constantEmbedder) Dimension() int { return 2 }
func (e *constantEmbedder) Embed(context.Context, string) ([]float64, error) {
	atomic.AddInt32(&e.calls, 1)
	return []float64{1, 1}, nil
}

func TestClassifierTieBreaksByStageOrder(t *testing.T) {
	examples := []Example{
		{entities.StagePricing, "quote please"},
		{entities.StageRequirements, "we need things"},
	}
	c := NewClassifier(&constantEmbedder{}, examples, logger.Discard())
	got, score := c.Classify(context.Background(), "anything")
	assert.Equal(t, entities.StageRequirements, got)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestClassifierTieWithDuplicateExampleText(t *testing.T) {
	examples := []Example{
		{entities.StageConfirmation, "Sounds good"},
		{entities.StageProductQA, "Sounds good"},
	}
	c := NewClassifier(embedding.NewHashProvider(64), examples, logger.Discard())
	got, _ := c.Classify(context.Background(), "Sounds good")
	assert.Equal(t, entities.StageProductQA, got)
}

func TestClassifierCachesExampleEmbeddings(t *testing.T) {
	emb := &constantEmbedder{}
	c := NewClassifier(emb, DefaultExamples, logger.Discard())
	c.Classify(context.Background(), "one")
	c.Classify(context.Background(), "two")
	assert.Equal(t, int32(len(DefaultExamples)+2), atomic.LoadInt32(&emb.calls))
}

// flakyEmbedder fails while down and can hold calls until released.
type flakyEmbedder struct {
	hash    *embedding.HashProvider
	down    atomic.Bool
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func newFlakyEmbedder() *flakyEmbedder {
	return &flakyEmbedder{hash: embedding.NewHashProvider(64)}
}

func (e *flakyEmbedder) Name() string   { return "flaky" }
func (e *flakyEmbedder) Dimension() int { return 64 }
func (e *flakyEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	e.calls.Add(1)
	if e.release != nil {
		select {
		case e.entered <- struct{}{}:
		default:
		}
		<-e.release
	}
	if e.down.Load() {
		return nil, errors.New("embedding service unavailable")
	}
	return e.hash.Embed(ctx, text)
}

func TestClassifierRetriesAfterFailedWarm(t *testing.T) {
	emb := newFlakyEmbedder()
	emb.down.Store(true)
	c := NewClassifier(emb, DefaultExamples, logger.Discard(), WithRetryDelay(0))

	require.Error(t, c.Warm(context.Background()))
	got, score := c.Classify(context.Background(), "What's the price?")
	assert.Equal(t, entities.StageGreeting, got)
	assert.Zero(t, score)

	emb.down.Store(false)
	got, score = c.Classify(context.Background(), "What's the price?")
	assert.Equal(t, entities.StagePricing, got)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestClassifierWaitsOutRetryDelay(t *testing.T) {
	emb := newFlakyEmbedder()
	emb.down.Store(true)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewClassifier(emb, DefaultExamples, logger.Discard(), WithRetryDelay(time.Minute))
	c.now = func() time.Time { return now }

	require.Error(t, c.Warm(context.Background()))
	emb.down.Store(false)
	before := emb.calls.Load()

	assert.Error(t, c.Warm(context.Background()))
	assert.Equal(t, before, emb.calls.Load())

	now = now.Add(time.Minute)
	require.NoError(t, c.Warm(context.Background()))
	got, _ := c.Classify(context.Background(), "Hello")
	assert.Equal(t, entities.StageGreeting, got)
	got, _ = c.Classify(context.Background(), "What's the price?")
	assert.Equal(t, entities.StagePricing, got)
}

func TestClassifierDoesNotBlockDuringWarm(t *testing.T) {
	emb := newFlakyEmbedder()
	emb.entered = make(chan struct{}, 1)
	emb.release = make(chan struct{})
	c := NewClassifier(emb, DefaultExamples, logger.Discard())

	warmed := make(chan error, 1)
	go func() { warmed <- c.Warm(context.Background()) }()
	<-emb.entered

	classified := make(chan entities.Stage, 1)
	go func() {
		stage, _ := c.Classify(context.Background(), "What's the price?")
		classified <- stage
	}()
	select {
	case stage := <-classified:
		assert.Equal(t, entities.StageGreeting, stage)
	case <-time.After(2 * time.Second):
		t.Fatal("Classify blocked behind a warm-up in progress")
	}

	close(emb.release)
	require.NoError(t, <-warmed)
	got, _ := c.Classify(context.Background(), "What's the price?")
	assert.Equal(t, entities.StagePricing, got)
}

func TestMessageCountPolicy(t *testing.T) {
	tests := []struct {
		count int
		want  entities.Stage
	}{
		{0, entities.StageGreeting},
		{2, entities.StageGreeting},
		{3, entities.StageProductQA},
		{6, entities.StageProductQA},
		{7, entities.StageRequirements},
		{10, entities.StageRequirements},
		{12, entities.StagePricing},
		{14, entities.StageConfirmation},
		{15, entities.StageHandoff},
	}
	for _, tt := range tests {
		msgs := make([]entities.Message, tt.count)
		for i := range msgs {
			msgs[i] = user("x")
		}
		assert.Equal(t, tt.want, MessageCountPolicy{}.Infer(context.Background(), conversation(msgs...)), "count %d", tt.count)
	}
}
