package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
)

// HashProvider produces pseudo-random unit vectors seeded by a stable hash of
// the text. Identical text always yields an identical vector.
type HashProvider struct {
	dimension int
}

func NewHashProvider(dimension int) *HashProvider {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &HashProvider{dimension: dimension}
}

func (p *HashProvider) Name() string { return "hash" }

func (p *HashProvider) Dimension() int { return p.dimension }

func (p *HashProvider) Embed(_ context.Context, text string) ([]float64, error) {
	return p.vector(text), nil
}

func (p *HashProvider) vector(text string) []float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	vec := make([]float64, p.dimension)
	norm := 0.0
	for i := range vec {
		vec[i] = rng.NormFloat64()
		norm += vec[i] * vec[i]
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
