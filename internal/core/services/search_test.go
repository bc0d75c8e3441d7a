package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativz/cortex-sync/internal/core/domain"
)

func seededIndex(t *testing.T, embed bool) *fakeIndex {
	t.Helper()
	index := newFakeIndex()
	chunks := []domain.Chunk{
		{Path: "Clients/Acme Co/_profile.md", Index: 0, Text: "Acme sells retail deals to online shoppers."},
		{Path: "Templates/brief.md", Index: 0, Text: "Campaign brief template with goals and budget."},
	}
	if embed {
		for i := range chunks {
			chunks[i].Embedding = vectorFor(chunks[i].Text)
		}
	}
	for _, c := range chunks {
		require.NoError(t, index.ReplaceChunks(context.Background(), c.Path, []domain.Chunk{c}))
	}
	return index
}

func TestSearch_FullText(t *testing.T) {
	s := NewSearcher(seededIndex(t, false), nil, zerolog.Nop())

	resp, err := s.Search(context.Background(), "retail deals", domain.SearchOptions{Mode: domain.SearchModeFullText})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeUsedFullText, resp.ModeUsed)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "Clients/Acme Co/_profile.md", resp.Results[0].Path)
}

func TestSearch_SemanticDefault(t *testing.T) {
	s := NewSearcher(seededIndex(t, true), &fakeEmbedder{}, zerolog.Nop())

	resp, err := s.Search(context.Background(), "retail shoppers", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeUsedSemantic, resp.ModeUsed)
	assert.NotEmpty(t, resp.Results)
}

func TestSearch_FallbackWithoutEmbedder(t *testing.T) {
	s := NewSearcher(seededIndex(t, false), nil, zerolog.Nop())

	resp, err := s.Search(context.Background(), "campaign brief", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeUsedFallback, resp.ModeUsed)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "Templates/brief.md", resp.Results[0].Path)
}

func TestSearch_FallbackOnEmbedFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: &domain.UpstreamError{Service: "embeddings", StatusCode: 500}}
	s := NewSearcher(seededIndex(t, true), embedder, zerolog.Nop())

	resp, err := s.Search(context.Background(), "campaign brief", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeUsedFallback, resp.ModeUsed)
	assert.NotEmpty(t, resp.Results)
}

func TestSearch_Validation(t *testing.T) {
	s := NewSearcher(seededIndex(t, false), nil, zerolog.Nop())

	_, err := s.Search(context.Background(), "   ", domain.SearchOptions{})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.Search(context.Background(), "ok", domain.SearchOptions{Mode: "fuzzy"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSearch_LimitApplied(t *testing.T) {
	index := newFakeIndex()
	for i := 0; i < 5; i++ {
		path := string(rune('a'+i)) + ".md"
		require.NoError(t, index.ReplaceChunks(context.Background(), path, []domain.Chunk{
			{Path: path, Index: 0, Text: "shared keyword everywhere"},
		}))
	}
	s := NewSearcher(index, nil, zerolog.Nop())

	resp, err := s.Search(context.Background(), "keyword", domain.SearchOptions{Limit: 2, Mode: domain.SearchModeFullText})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 2)
}
