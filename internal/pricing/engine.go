// Package pricing turns collected requirements into a quote.
package pricing

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"sales-assistant/internal/domain/entities"
	"sales-assistant/internal/infra/logger"
)

const (
	DefaultMinMargin     = 1.12
	DefaultMaxMargin     = 1.18
	DefaultMarginFactor  = 1.15
	DefaultCurrency      = "USD"
	historicalJitterLow  = 0.98
	historicalJitterHigh = 1.02
)

// MarginPolicy selects how the margin multiplier is chosen.
type MarginPolicy string

const (
	PolicyHistorical MarginPolicy = "historical"
	PolicyRandom     MarginPolicy = "random"
)

func ParsePolicy(s string) (MarginPolicy, error) {
	switch MarginPolicy(s) {
	case PolicyHistorical, "":
		return PolicyHistorical, nil
	case PolicyRandom:
		return PolicyRandom, nil
	}
	return "", fmt.Errorf("unknown margin policy %q", s)
}

// FeatureLookup resolves catalog features by ID.
type FeatureLookup interface {
	Feature(id string) (entities.ProductFeature, bool)
}

// DealQuery returns historical deals comparable to a client.
type DealQuery interface {
	Query(filter entities.ClientAttributes) []entities.HistoricalDeal
}

type Option func(*Engine)

// WithRand replaces the random source, mostly for tests.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rnd = r }
}

// WithBand sets the margin band and the factor used when no history matches.
func WithBand(lo, hi, fallback float64) Option {
	return func(e *Engine) {
		e.minMargin, e.maxMargin, e.defaultMargin = lo, hi, fallback
	}
}

func WithPolicy(p MarginPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

func WithDeals(d DealQuery) Option {
	return func(e *Engine) { e.deals = d }
}

func WithCurrency(c string) Option {
	return func(e *Engine) { e.currency = c }
}

func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

type Engine struct {
	features      FeatureLookup
	deals         DealQuery
	policy        MarginPolicy
	minMargin     float64
	maxMargin     float64
	defaultMargin float64
	currency      string
	log           *logger.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewEngine(features FeatureLookup, opts ...Option) *Engine {
	e := &Engine{
		features:      features,
		policy:        PolicyHistorical,
		minMargin:     DefaultMinMargin,
		maxMargin:     DefaultMaxMargin,
		defaultMargin: DefaultMarginFactor,
		currency:      DefaultCurrency,
		log:           logger.Discard(),
		rnd:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.minMargin > e.maxMargin {
		e.minMargin, e.maxMargin = e.maxMargin, e.minMargin
	}
	return e
}

// Compute prices the requirements. Unknown feature IDs are skipped.
func (e *Engine) Compute(ctx context.Context, reqs []entities.Requirement, attrs entities.ClientAttributes) (entities.PricingResult, error) {
	if err := ctx.Err(); err != nil {
		return entities.PricingResult{}, err
	}

	base := 0.0
	breakdown := make(map[string]float64, len(reqs))
	for _, r := range reqs {
		f, ok := e.features.Feature(r.FeatureID)
		if !ok {
			e.log.Warn("Skipping unknown feature in pricing", logrus.Fields{"feature_id": r.FeatureID})
			continue
		}
		price := f.BasePrice * float64(r.Units())
		breakdown[f.Name] += price
		base += price
	}

	margin := e.margin(attrs)
	return entities.PricingResult{
		BasePrice:    base,
		FinalPrice:   math.Round(base*margin*100) / 100,
		MarginFactor: margin,
		Currency:     e.currency,
		Breakdown:    breakdown,
	}, nil
}

func (e *Engine) margin(attrs entities.ClientAttributes) float64 {
	switch e.policy {
	case PolicyRandom:
		return e.clamp(e.uniform(e.minMargin, e.maxMargin))
	default:
		return e.clamp(e.historical(attrs))
	}
}

func (e *Engine) historical(attrs entities.ClientAttributes) float64 {
	if e.deals == nil {
		return e.defaultMargin
	}
	// Client ID is not a comparability criterion.
	filter := entities.ClientAttributes{Industry: attrs.Industry, CompanySize: attrs.CompanySize, Region: attrs.Region}
	deals := e.deals.Query(filter)
	if len(deals) == 0 {
		return e.defaultMargin
	}
	sum := 0.0
	for _, d := range deals {
		sum += d.MarginFactor
	}
	return sum / float64(len(deals)) * e.uniform(historicalJitterLow, historicalJitterHigh)
}

func (e *Engine) uniform(lo, hi float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return lo + e.rnd.Float64()*(hi-lo)
}

func (e *Engine) clamp(m float64) float64 {
	return math.Max(e.minMargin, math.Min(e.maxMargin, m))
}
