package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/nativz/cortex-sync/internal/core/domain"
	"github.com/nativz/cortex-sync/internal/core/ports/driven"
)

// IndexStore is an in-memory chunk index. Full-text ranking is a
// token-match approximation of the Postgres tsvector behavior; semantic
// ranking uses exact cosine similarity.
type IndexStore struct {
	mu     sync.RWMutex
	chunks map[string][]domain.Chunk
}

var _ driven.IndexStore = (*IndexStore)(nil)

// NewIndexStore creates an empty index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{chunks: make(map[string][]domain.Chunk)}
}

// ReplaceChunks swaps all chunks for a path.
func (s *IndexStore) ReplaceChunks(_ context.Context, path string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(chunks) == 0 {
		delete(s.chunks, path)
		return nil
	}
	s.chunks[path] = append([]domain.Chunk(nil), chunks...)
	return nil
}

// DeleteChunks removes every chunk for a path.
func (s *IndexStore) DeleteChunks(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chunks, path)
	return nil
}

// SearchFullText scores chunks by the fraction of query tokens they
// contain.
func (s *IndexStore) SearchFullText(_ context.Context, query string, limit int) ([]domain.SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	var hits []domain.SearchHit
	for path, chunks := range s.chunks {
		for _, chunk := range chunks {
			text := strings.ToLower(chunk.Text)
			matched := 0
			for _, term := range terms {
				if strings.Contains(text, term) {
					matched++
				}
			}
			if matched > 0 {
				hits = append(hits, domain.SearchHit{
					Path:      path,
					ChunkText: chunk.Text,
					Score:     float64(matched) / float64(len(terms)),
				})
			}
		}
	}
	return rank(hits, limit), nil
}

// SearchSemantic ranks chunks by cosine similarity to the query
// embedding.
func (s *IndexStore) SearchSemantic(_ context.Context, embedding []float32, limit int) ([]domain.SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []domain.SearchHit
	for path, chunks := range s.chunks {
		for _, chunk := range chunks {
			if chunk.Embedding == nil {
				continue
			}
			hits = append(hits, domain.SearchHit{
				Path:      path,
				ChunkText: chunk.Text,
				Score:     cosineSimilarity(embedding, chunk.Embedding),
			})
		}
	}
	return rank(hits, limit), nil
}

func rank(hits []domain.SearchHit, limit int) []domain.SearchHit {
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
