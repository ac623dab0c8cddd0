package pricing

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-assistant/internal/catalog"
	"sales-assistant/internal/domain/entities"
)

func reqs(ids ...string) []entities.Requirement {
	out := make([]entities.Requirement, 0, len(ids))
	for _, id := range ids {
		out = append(out, entities.Requirement{FeatureID: id, Required: true})
	}
	return out
}

func TestComputeBaseAndBand(t *testing.T) {
	for _, policy := range []MarginPolicy{PolicyHistorical, PolicyRandom} {
		t.Run(string(policy), func(t *testing.T) {
			e := NewEngine(catalog.Default(), WithPolicy(policy), WithDeals(catalog.DefaultDeals()), WithRand(rand.New(rand.NewSource(7))))

			res, err := e.Compute(context.Background(), reqs("feat-001", "feat-002"), entities.ClientAttributes{})
			require.NoError(t, err)
			assert.Equal(t, 25000.0, res.BasePrice)
			assert.GreaterOrEqual(t, res.FinalPrice, 28000.0)
			assert.LessOrEqual(t, res.FinalPrice, 29500.0)
			assert.Equal(t, "USD", res.Currency)
			assert.Equal(t, map[string]float64{"Basic Integration": 10000, "Advanced Analytics": 15000}, res.Breakdown)
			assert.Nil(t, res.DiscountPercentage)
		})
	}
}

func TestComputeSkipsUnknownFeatures(t *testing.T) {
	e := NewEngine(catalog.Default(), WithRand(rand.New(rand.NewSource(1))))
	res, err := e.Compute(context.Background(), reqs("feat-001", "feat-999"), entities.ClientAttributes{})
	require.NoError(t, err)
	assert.Equal(t, 10000.0, res.BasePrice)
	assert.Len(t, res.Breakdown, 1)

	res, err = e.Compute(context.Background(), reqs("feat-999"), entities.ClientAttributes{})
	require.NoError(t, err)
	assert.Zero(t, res.BasePrice)
	assert.Zero(t, res.FinalPrice)
}

func TestComputeQuantity(t *testing.T) {
	qty := 3
	e := NewEngine(catalog.Default())
	res, err := e.Compute(context.Background(), []entities.Requirement{{FeatureID: "feat-003", Quantity: &qty}}, entities.ClientAttributes{})
	require.NoError(t, err)
	assert.Equal(t, 15000.0, res.BasePrice)
}

type fixedDeals []entities.HistoricalDeal

func (d fixedDeals) Query(entities.ClientAttributes) []entities.HistoricalDeal { return d }

func TestMarginClampedToBand(t *testing.T) {
	tests := []struct {
		name  string
		deals fixedDeals
	}{
		{"history far above band", fixedDeals{{MarginFactor: 1.9}, {MarginFactor: 2.1}}},
		{"history far below band", fixedDeals{{MarginFactor: 0.5}}},
		{"no history", fixedDeals{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(catalog.Default(), WithDeals(tt.deals), WithRand(rand.New(rand.NewSource(3))))
			for i := 0; i < 50; i++ {
				res, err := e.Compute(context.Background(), reqs("feat-001"), entities.ClientAttributes{Industry: "retail"})
				require.NoError(t, err)
				assert.GreaterOrEqual(t, res.MarginFactor, DefaultMinMargin)
				assert.LessOrEqual(t, res.MarginFactor, DefaultMaxMargin)
			}
		})
	}
}

func TestNoHistoryUsesDefaultMargin(t *testing.T) {
	e := NewEngine(catalog.Default(), WithDeals(fixedDeals{}))
	res, err := e.Compute(context.Background(), reqs("feat-001"), entities.ClientAttributes{})
	require.NoError(t, err)
	assert.Equal(t, DefaultMarginFactor, res.MarginFactor)
	assert.Equal(t, 11500.0, res.FinalPrice)
}

func TestRandomPolicyIsSeedDeterministic(t *testing.T) {
	a := NewEngine(catalog.Default(), WithPolicy(PolicyRandom), WithRand(rand.New(rand.NewSource(42))))
	b := NewEngine(catalog.Default(), WithPolicy(PolicyRandom), WithRand(rand.New(rand.NewSource(42))))
	ra, _ := a.Compute(context.Background(), reqs("feat-002"), entities.ClientAttributes{})
	rb, _ := b.Compute(context.Background(), reqs("feat-002"), entities.ClientAttributes{})
	assert.Equal(t, ra, rb)
}

func TestCustomBand(t *testing.T) {
	e := NewEngine(catalog.Default(), WithPolicy(PolicyRandom), WithBand(1.3, 1.2, 1.25))
	res, err := e.Compute(context.Background(), reqs("feat-001"), entities.ClientAttributes{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.MarginFactor, 1.2)
	assert.LessOrEqual(t, res.MarginFactor, 1.3)
}

func TestComputeHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine(catalog.Default()).Compute(ctx, reqs("feat-001"), entities.ClientAttributes{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyHistorical, p)
	p, err = ParsePolicy("random")
	require.NoError(t, err)
	assert.Equal(t, PolicyRandom, p)
	_, err = ParsePolicy("fixed")
	assert.Error(t, err)
}
