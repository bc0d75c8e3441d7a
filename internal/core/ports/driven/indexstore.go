package driven

import (
	"context"

	"github.com/nativz/cortex-sync/internal/core/domain"
)

// IndexStore persists and queries the searchable chunk index.
// Chunks are keyed (path, chunk_index); all chunks for a path are
// replaced atomically so a shrinking document leaves no orphans.
type IndexStore interface {
	// ReplaceChunks atomically deletes all existing chunks for a path
	// and inserts the given ones. An empty slice clears the path.
	ReplaceChunks(ctx context.Context, path string, chunks []domain.Chunk) error

	// DeleteChunks removes every chunk for a path.
	DeleteChunks(ctx context.Context, path string) error

	// SearchFullText ranks chunks by text relevance.
	SearchFullText(ctx context.Context, query string, limit int) ([]domain.SearchHit, error)

	// SearchSemantic ranks chunks by similarity to the query embedding.
	SearchSemantic(ctx context.Context, embedding []float32, limit int) ([]domain.SearchHit, error)
}
