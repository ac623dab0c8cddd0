package ingestion

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	_ "github.com/viant/afsc/s3"

	"sales-assistant/internal/domain/entities"
)

// Source lists raw documents under a prefix.
type Source interface {
	List(ctx context.Context, prefix string) ([]entities.Document, error)
}

// ObjectSource reads documents from any afs-supported store (file://,
// mem://, s3://).
type ObjectSource struct {
	fs      afs.Service
	baseURL string
}

func NewObjectSource(fs afs.Service, baseURL string) *ObjectSource {
	return &ObjectSource{fs: fs, baseURL: strings.TrimRight(baseURL, "/")}
}

// List walks baseURL/prefix recursively. Keys are relative to baseURL and
// returned sorted so reindexing is stable.
func (s *ObjectSource) List(ctx context.Context, prefix string) ([]entities.Document, error) {
	root := s.baseURL
	if p := strings.Trim(prefix, "/"); p != "" {
		root += "/" + p
	}
	var docs []entities.Document
	if err := s.walk(ctx, root, &docs); err != nil {
		return nil, err
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Key < docs[j].Key })
	return docs, nil
}

func (s *ObjectSource) walk(ctx context.Context, root string, out *[]entities.Document) error {
	objects, err := s.fs.List(ctx, root)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", root, err)
	}
	for _, obj := range objects {
		if obj.IsDir() {
			if sameLocation(obj.URL(), root) {
				continue
			}
			if err := s.walk(ctx, obj.URL(), out); err != nil {
				return err
			}
			continue
		}
		doc, err := s.read(ctx, obj)
		if err != nil {
			return err
		}
		*out = append(*out, doc)
	}
	return nil
}

func (s *ObjectSource) read(ctx context.Context, obj storage.Object) (entities.Document, error) {
	data, err := s.fs.Download(ctx, obj)
	if err != nil {
		return entities.Document{}, fmt.Errorf("failed to download %s: %w", obj.URL(), err)
	}
	key := strings.TrimPrefix(strings.TrimPrefix(obj.URL(), s.baseURL), "/")
	return entities.Document{Key: key, Content: string(data)}, nil
}

func sameLocation(a, b string) bool {
	return strings.TrimRight(a, "/") == strings.TrimRight(b, "/")
}
