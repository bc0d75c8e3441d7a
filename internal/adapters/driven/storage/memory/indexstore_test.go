package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativz/cortex-sync/internal/core/domain"
)

func TestIndexStore(t *testing.T) {
	ctx := context.Background()
	store := NewIndexStore()

	require.NoError(t, store.ReplaceChunks(ctx, "a.md", []domain.Chunk{
		{Path: "a.md", Index: 0, Text: "retail foot traffic campaign", Embedding: []float32{1, 0}},
		{Path: "a.md", Index: 1, Text: "quarterly budget review", Embedding: []float32{0, 1}},
	}))
	require.NoError(t, store.ReplaceChunks(ctx, "b.md", []domain.Chunk{
		{Path: "b.md", Index: 0, Text: "campaign brief template"},
	}))

	t.Run("full text ranks by matched terms", func(t *testing.T) {
		hits, err := store.SearchFullText(ctx, "retail campaign", 10)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, "a.md", hits[0].Path)
		assert.Equal(t, 1.0, hits[0].Score)
		assert.Equal(t, 0.5, hits[1].Score)
	})

	t.Run("semantic skips unembedded chunks", func(t *testing.T) {
		hits, err := store.SearchSemantic(ctx, []float32{1, 0}, 10)
		require.NoError(t, err)
		require.Len(t, hits, 2, "b.md has no embedding and is invisible")
		assert.Equal(t, "retail foot traffic campaign", hits[0].ChunkText)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	})

	t.Run("limit", func(t *testing.T) {
		hits, err := store.SearchFullText(ctx, "campaign", 1)
		require.NoError(t, err)
		assert.Len(t, hits, 1)
	})

	t.Run("replace clears prior chunks", func(t *testing.T) {
		require.NoError(t, store.ReplaceChunks(ctx, "a.md", []domain.Chunk{
			{Path: "a.md", Index: 0, Text: "new content"},
		}))
		hits, err := store.SearchFullText(ctx, "retail", 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("empty replacement deletes the path", func(t *testing.T) {
		require.NoError(t, store.ReplaceChunks(ctx, "b.md", nil))
		hits, err := store.SearchFullText(ctx, "template", 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("delete chunks", func(t *testing.T) {
		require.NoError(t, store.DeleteChunks(ctx, "a.md"))
		hits, err := store.SearchFullText(ctx, "content", 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}
