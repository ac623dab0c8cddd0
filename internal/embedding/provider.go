// Package embedding turns text into fixed-length vectors.
package embedding

import (
	"context"
	"errors"
	"fmt"
)

// DefaultDimension matches the Titan and text-embedding-3-small vector size.
const DefaultDimension = 1536

// ErrDimensionMismatch is returned when a backend yields a vector of the
// wrong length. Such vectors would corrupt the index.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Provider converts free text into a numeric vector representation.
type Provider interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

func checkDimension(v []float64, want int) error {
	if want > 0 && len(v) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), want)
	}
	if len(v) == 0 {
		return errors.New("empty embedding")
	}
	return nil
}
