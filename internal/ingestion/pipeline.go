// Package ingestion pulls knowledge-base documents from an object store,
// embeds them and rebuilds the vector index.
package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"sales-assistant/internal/embedding"
	"sales-assistant/internal/infra/logger"
	"sales-assistant/internal/vectorindex"
)

type Pipeline struct {
	source   Source
	embedder embedding.Provider
	index    *vectorindex.Index
	log      *logger.Logger
}

func NewPipeline(source Source, embedder embedding.Provider, index *vectorindex.Index, log *logger.Logger) *Pipeline {
	return &Pipeline{source: source, embedder: embedder, index: index, log: log}
}

// Reindex replaces the index with every document under prefix and returns
// the number of documents indexed. Embedding happens before the index lock
// is taken; on any failure the previous contents stay in place.
func (p *Pipeline) Reindex(ctx context.Context, prefix string) (int, error) {
	started := time.Now()
	docs, err := p.source.List(ctx, prefix)
	if err != nil {
		return 0, err
	}
	vectors := make([][]float64, len(docs))
	for i, doc := range docs {
		vec, err := p.embedder.Embed(ctx, doc.Content)
		if err != nil {
			return 0, fmt.Errorf("failed to embed %s: %w", doc.Key, err)
		}
		vectors[i] = vec
	}
	if err := p.index.Load(docs, vectors); err != nil {
		return 0, err
	}
	p.log.Info("Knowledge base reindexed", logrus.Fields{
		"documents": len(docs),
		"prefix":    prefix,
		"elapsed":   time.Since(started).String(),
	})
	return len(docs), nil
}
