package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, indexing stores chunks without
// vectors and semantic search falls back to full-text.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 1536).
	// Must match the index store's vector column.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	// Query embeddings must come from the same model as index-time ones.
	ModelName() string
}
