package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativz/cortex-sync/internal/chunker"
	"github.com/nativz/cortex-sync/internal/core/domain"
)

func TestIndexFile(t *testing.T) {
	t.Run("chunks and embeds", func(t *testing.T) {
		index := newFakeIndex()
		embedder := &fakeEmbedder{}
		svc := NewIndexer(newFakeVault(), index, embedder, chunker.New(chunker.WithChunkSize(50), chunker.WithOverlap(10)))

		content := "---\ntype: notes\n---\n" + strings.Repeat("campaign planning notes. ", 20)
		result, err := svc.IndexFile(context.Background(), "Clients/Acme Co/notes.md", content)
		require.NoError(t, err)
		assert.True(t, result.Embedded)
		assert.Greater(t, result.Chunks, 1)

		chunks := index.chunks["Clients/Acme Co/notes.md"]
		require.Len(t, chunks, result.Chunks)
		for i, c := range chunks {
			assert.Equal(t, i, c.Index)
			assert.NotNil(t, c.Embedding)
			assert.NotContains(t, c.Text, "type: notes", "frontmatter must not be indexed")
		}
	})

	t.Run("no embedder stores plain chunks", func(t *testing.T) {
		index := newFakeIndex()
		svc := NewIndexer(newFakeVault(), index, nil, chunker.New())

		result, err := svc.IndexFile(context.Background(), "a.md", "some body text")
		require.NoError(t, err)
		assert.False(t, result.Embedded)
		require.Len(t, index.chunks["a.md"], 1)
		assert.Nil(t, index.chunks["a.md"][0].Embedding)
	})

	t.Run("embedding failure degrades to plain indexing", func(t *testing.T) {
		index := newFakeIndex()
		embedder := &fakeEmbedder{err: &domain.UpstreamError{Service: "embeddings", StatusCode: 503}}
		svc := NewIndexer(newFakeVault(), index, embedder, chunker.New())

		result, err := svc.IndexFile(context.Background(), "a.md", "some body text")
		require.NoError(t, err)
		assert.False(t, result.Embedded)
		assert.Len(t, index.chunks["a.md"], 1)
	})

	t.Run("empty body clears the path", func(t *testing.T) {
		index := newFakeIndex()
		svc := NewIndexer(newFakeVault(), index, nil, chunker.New())

		_, err := svc.IndexFile(context.Background(), "a.md", "old body")
		require.NoError(t, err)
		require.NotEmpty(t, index.chunks["a.md"])

		result, err := svc.IndexFile(context.Background(), "a.md", "")
		require.NoError(t, err)
		assert.Zero(t, result.Chunks)
		assert.Empty(t, index.chunks["a.md"])
	})
}

func TestRemoveFile(t *testing.T) {
	index := newFakeIndex()
	svc := NewIndexer(newFakeVault(), index, nil, chunker.New())

	_, err := svc.IndexFile(context.Background(), "a.md", "body")
	require.NoError(t, err)
	require.NoError(t, svc.RemoveFile(context.Background(), "a.md"))
	assert.Empty(t, index.chunks["a.md"])
}

func TestIndexVault(t *testing.T) {
	vault := newFakeVault()
	vault.put("Clients/Acme Co/_profile.md", "profile body")
	vault.put("Clients/Acme Co/briefs/spring.md", "spring brief")
	vault.put("Templates/brief.md", "template body")
	vault.put("Dashboard.md", "top level dashboard")
	vault.put("Clients/Acme Co/logo.png", "binary")
	vault.put("deep/nested/skipped.md", "outside the roots")

	index := newFakeIndex()
	svc := NewIndexer(vault, index, nil, chunker.New(),
		WithIndexRoots([]string{"Clients", "Templates", ""}),
		WithIndexConcurrency(2),
	)

	result, err := svc.IndexVault(context.Background())
	require.NoError(t, err)

	indexed := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		indexed = append(indexed, f.Path)
	}
	assert.ElementsMatch(t, []string{
		"Clients/Acme Co/_profile.md",
		"Clients/Acme Co/briefs/spring.md",
		"Templates/brief.md",
		"Dashboard.md",
	}, indexed)
	assert.Equal(t, 4, result.TotalChunks)

	// Re-running leaves the index identical.
	again, err := svc.IndexVault(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.TotalChunks, again.TotalChunks)
	assert.Len(t, again.Files, len(result.Files))
}
