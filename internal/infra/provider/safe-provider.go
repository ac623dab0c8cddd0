package provider

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"sales-assistant/internal/infra/logger"
)

const FallbackReply = "I apologize, but I'm experiencing technical difficulties. Please try again later."

// SafeGenerator bounds generation time and turns every failure into
// FallbackReply so a turn always gets an answer.
type SafeGenerator struct {
	inner   IGenerator
	timeout time.Duration
	Logger  *logger.Logger
}

func NewSafeGenerator(inner IGenerator, timeout time.Duration, logger *logger.Logger) *SafeGenerator {
	return &SafeGenerator{inner: inner, timeout: timeout, Logger: logger}
}

func (g *SafeGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := g.inner.Generate(ctx, req)
		done <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		g.Logger.Error("Reply generation timed out", logrus.Fields{"error": ctx.Err().Error()})
		return FallbackReply, nil
	case r := <-done:
		if r.err != nil {
			g.Logger.Error("Error generating reply", logrus.Fields{"error": r.err.Error()})
			return FallbackReply, nil
		}
		if strings.TrimSpace(r.text) == "" {
			g.Logger.Warn("Generator returned an empty reply")
			return FallbackReply, nil
		}
		return r.text, nil
	}
}
