package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nativz/cortex-sync/internal/core/domain"
	"github.com/nativz/cortex-sync/internal/core/ports/driven"
	"github.com/nativz/cortex-sync/internal/core/ports/driving"
)

// DefaultSearchLimit caps results when the caller does not set one.
const DefaultSearchLimit = 10

// Searcher executes full-text and semantic queries over the chunk
// index. Semantic is the default and degrades transparently to
// full-text when no embedding backend is available.
type Searcher struct {
	index    driven.IndexStore
	embedder driven.EmbeddingService // nil forces full-text fallback
	log      zerolog.Logger
}

var _ driving.SearchService = (*Searcher)(nil)

// NewSearcher builds a Searcher. embedder may be nil.
func NewSearcher(index driven.IndexStore, embedder driven.EmbeddingService, log zerolog.Logger) *Searcher {
	return &Searcher{index: index, embedder: embedder, log: log}
}

// Search runs a query and reports the mode that actually executed.
func (s *Searcher) Search(ctx context.Context, query string, opts domain.SearchOptions) (domain.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.SearchResponse{}, fmt.Errorf("%w: empty query", domain.ErrValidation)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	mode := opts.Mode
	if mode == "" {
		mode = domain.SearchModeSemantic
	}

	switch mode {
	case domain.SearchModeFullText:
		hits, err := s.index.SearchFullText(ctx, query, limit)
		if err != nil {
			return domain.SearchResponse{}, fmt.Errorf("full-text search: %w", err)
		}
		return domain.SearchResponse{ModeUsed: domain.ModeUsedFullText, Results: hits}, nil

	case domain.SearchModeSemantic:
		return s.searchSemantic(ctx, query, limit)

	default:
		return domain.SearchResponse{}, fmt.Errorf("%w: unknown search mode %q", domain.ErrValidation, mode)
	}
}

func (s *Searcher) searchSemantic(ctx context.Context, query string, limit int) (domain.SearchResponse, error) {
	if s.embedder == nil {
		return s.fallback(ctx, query, limit)
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.log.Warn().Err(err).Msg("query embedding failed, falling back to full-text")
		return s.fallback(ctx, query, limit)
	}

	hits, err := s.index.SearchSemantic(ctx, embedding, limit)
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("semantic search: %w", err)
	}
	return domain.SearchResponse{ModeUsed: domain.ModeUsedSemantic, Results: hits}, nil
}

func (s *Searcher) fallback(ctx context.Context, query string, limit int) (domain.SearchResponse, error) {
	hits, err := s.index.SearchFullText(ctx, query, limit)
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("full-text fallback: %w", err)
	}
	return domain.SearchResponse{ModeUsed: domain.ModeUsedFallback, Results: hits}, nil
}
