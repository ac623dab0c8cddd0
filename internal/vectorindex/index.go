// Package vectorindex is the in-memory nearest-neighbour store over embedded
// knowledge-base documents.
package vectorindex

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"sales-assistant/internal/domain/entities"
	"sales-assistant/internal/infra/logger"
)

// Result is one search hit. Position is the document's insertion position.
type Result struct {
	Position int
	Distance float64
	Document entities.Document
}

// backend ranks stored vectors against a query. It returns exactly k
// positions, padded with -1 when fewer candidates exist.
type backend interface {
	reset(vectors [][]float64)
	search(query []float64, k int) (positions []int, distances []float64)
}

// Index owns the documents and their vectors. Load and Search are mutually
// excluded so a rebuild is never observed half done.
type Index struct {
	mu        sync.RWMutex
	dimension int
	docs      []entities.Document
	backend   backend
	log       *logger.Logger
}

func New(dimension int, log *logger.Logger) *Index {
	return &Index{dimension: dimension, backend: &flatL2{}, log: log}
}

// Load replaces the entire index contents.
func (x *Index) Load(docs []entities.Document, vectors [][]float64) error {
	if len(docs) != len(vectors) {
		return errors.New("documents and vectors length mismatch")
	}
	for i, v := range vectors {
		if len(v) != x.dimension {
			return fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), x.dimension)
		}
	}
	docsCopy := append([]entities.Document(nil), docs...)
	vecCopy := make([][]float64, len(vectors))
	for i, v := range vectors {
		vecCopy[i] = append([]float64(nil), v...)
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.docs = docsCopy
	x.backend.reset(vecCopy)
	return nil
}

// Search returns up to k documents ordered by ascending squared L2 distance.
func (x *Index) Search(query []float64, k int) []Result {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if len(x.docs) == 0 || k <= 0 {
		return []Result{}
	}
	positions, distances := x.backend.search(query, k)
	results := make([]Result, 0, len(positions))
	for i, pos := range positions {
		if pos < 0 || pos >= len(x.docs) {
			x.log.Debug("Skipping out-of-range index result", logrus.Fields{"position": pos, "size": len(x.docs)})
			continue
		}
		results = append(results, Result{Position: pos, Distance: distances[i], Document: x.docs[pos]})
	}
	return results
}

func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.docs)
}

func (x *Index) Dimension() int { return x.dimension }

// Documents returns a snapshot of the indexed documents in position order.
func (x *Index) Documents() []entities.Document {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return append([]entities.Document(nil), x.docs...)
}
