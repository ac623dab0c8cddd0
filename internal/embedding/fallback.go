package embedding

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"sales-assistant/internal/infra/logger"
)

// FallbackProvider bounds each primary call with a timeout. Any failure is
// logged and answered by the secondary provider, so callers never see an
// embedding error mid-turn.
type FallbackProvider struct {
	primary   Provider
	secondary Provider
	timeout   time.Duration
	log       *logger.Logger
}

func NewFallbackProvider(primary, secondary Provider, timeout time.Duration, log *logger.Logger) *FallbackProvider {
	return &FallbackProvider{primary: primary, secondary: secondary, timeout: timeout, log: log}
}

func (p *FallbackProvider) Name() string { return p.primary.Name() }

func (p *FallbackProvider) Dimension() int { return p.primary.Dimension() }

func (p *FallbackProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	callCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	vec, err := p.primary.Embed(callCtx, text)
	if err == nil {
		if err = checkDimension(vec, p.primary.Dimension()); err == nil {
			return vec, nil
		}
	}
	p.log.Warn("Embedding provider failed, using fallback vector", logrus.Fields{
		"provider": p.primary.Name(),
		"fallback": p.secondary.Name(),
		"error":    err.Error(),
	})
	return p.secondary.Embed(ctx, text)
}

// TimeoutProvider bounds each call to the wrapped provider and returns its
// errors unchanged. Use it wherever vectors are cached, so a failed call is
// retried later instead of mixing fallback vectors into the cache.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

func NewTimeoutProvider(inner Provider, timeout time.Duration) *TimeoutProvider {
	return &TimeoutProvider{inner: inner, timeout: timeout}
}

func (p *TimeoutProvider) Name() string { return p.inner.Name() }

func (p *TimeoutProvider) Dimension() int { return p.inner.Dimension() }

func (p *TimeoutProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	vec, err := p.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := checkDimension(vec, p.inner.Dimension()); err != nil {
		return nil, err
	}
	return vec, nil
}
