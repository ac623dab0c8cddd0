package intent

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"sales-assistant/internal/domain/entities"
	"sales-assistant/internal/embedding"
	"sales-assistant/internal/infra/logger"
)

// DefaultRetryDelay is how long a failed warm-up blocks the next attempt.
const DefaultRetryDelay = 30 * time.Second

var errNotReady = errors.New("intent examples are not embedded yet")

// Classifier picks the stage of the labeled example most similar (cosine) to
// the latest user message. Ties go to the stage earliest in enumeration
// order, then to the earliest example.
//
// The embedder must report failures: example vectors are cached for the
// life of the classifier and must all come from the same vector space.
type Classifier struct {
	embedder   embedding.Provider
	examples   []Example
	log        *logger.Logger
	retryDelay time.Duration
	now        func() time.Time

	mu      sync.Mutex
	vectors [][]float64
	warming bool
	retryAt time.Time
}

type ClassifierOption func(*Classifier)

// WithRetryDelay sets the pause after a failed warm-up.
func WithRetryDelay(d time.Duration) ClassifierOption {
	return func(c *Classifier) { c.retryDelay = d }
}

func NewClassifier(embedder embedding.Provider, examples []Example, log *logger.Logger, opts ...ClassifierOption) *Classifier {
	ordered := append([]Example(nil), examples...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Stage < ordered[j].Stage })
	c := &Classifier{
		embedder:   embedder,
		examples:   ordered,
		log:        log,
		retryDelay: DefaultRetryDelay,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Warm embeds every example once. It runs lazily on first use if not
// called at startup. After a failure nothing is cached and the next call
// past the retry delay tries again.
func (c *Classifier) Warm(ctx context.Context) error {
	_, err := c.exampleVectors(ctx)
	return err
}

// exampleVectors returns the cached vectors or embeds them. Only one caller
// embeds at a time and it does so without holding mu; concurrent callers
// get errNotReady instead of waiting on the network.
func (c *Classifier) exampleVectors(ctx context.Context) ([][]float64, error) {
	c.mu.Lock()
	if c.vectors != nil {
		vectors := c.vectors
		c.mu.Unlock()
		return vectors, nil
	}
	if c.warming || c.now().Before(c.retryAt) {
		c.mu.Unlock()
		return nil, errNotReady
	}
	c.warming = true
	c.mu.Unlock()

	vectors, err := c.embedExamples(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.warming = false
	if err != nil {
		c.retryAt = c.now().Add(c.retryDelay)
		return nil, err
	}
	c.vectors = vectors
	return vectors, nil
}

func (c *Classifier) embedExamples(ctx context.Context) ([][]float64, error) {
	vectors := make([][]float64, len(c.examples))
	for i, ex := range c.examples {
		v, err := c.embedder.Embed(ctx, ex.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed example %q: %w", ex.Text, err)
		}
		vectors[i] = v
	}
	return vectors, nil
}

func (c *Classifier) Infer(ctx context.Context, conv *entities.Conversation) entities.Stage {
	msg, ok := conv.LastUserMessage()
	if !ok {
		return entities.StageGreeting
	}
	stage, _ := c.Classify(ctx, msg.Content)
	return stage
}

// Classify returns the winning stage and its similarity score.
func (c *Classifier) Classify(ctx context.Context, utterance string) (entities.Stage, float64) {
	examples, err := c.exampleVectors(ctx)
	if errors.Is(err, errNotReady) {
		c.log.Debug("Intent examples not ready, keeping greeting stage")
		return entities.StageGreeting, 0
	}
	if err != nil {
		c.log.Error("Failed to embed intent examples", logrus.Fields{"error": err.Error()})
		return entities.StageGreeting, 0
	}
	query, err := c.embedder.Embed(ctx, utterance)
	if err != nil {
		c.log.Warn("Failed to embed utterance for intent", logrus.Fields{"error": err.Error()})
		return entities.StageGreeting, 0
	}

	best := entities.StageGreeting
	bestScore := math.Inf(-1)
	for i, v := range examples {
		score := cosine(query, v)
		if score > bestScore {
			best = c.examples[i].Stage
			bestScore = score
		}
	}
	if math.IsInf(bestScore, -1) {
		return entities.StageGreeting, 0
	}
	return best, bestScore
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
