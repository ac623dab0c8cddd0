package Iservices

import "context"

// IKnowledgeService rebuilds the retrieval index from the document store.
type IKnowledgeService interface {
	Reindex(ctx context.Context, prefix string) (int, error)
}
