package domain

// VaultFile is a file read from the document store, carrying the blob
// hash required for a subsequent optimistic-concurrency write.
type VaultFile struct {
	// Path is the slash-separated path within the vault repository.
	Path string

	// Content is the decoded UTF-8 file content.
	Content string

	// SHA is the blob hash at read time. Updates must present it; a
	// write against a changed blob fails with ErrConflict.
	SHA string
}

// EntryType distinguishes files from directories in a vault listing.
type EntryType string

const (
	EntryFile EntryType = "file"
	EntryDir  EntryType = "dir"
)

// VaultEntry is one entry of a vault directory listing.
type VaultEntry struct {
	Name string
	Path string
	Type EntryType
}

// Chunk is the search-indexing unit: a contiguous, overlap-bounded
// slice of a document body. All chunks for a path are replaced
// atomically on re-index and deleted together on document removal.
type Chunk struct {
	// Path is the vault document this chunk belongs to.
	Path string

	// Index is the 0-based, contiguous position within the document.
	Index int

	// Text is the chunk content.
	Text string

	// Embedding is the vector representation, nil when no embedding
	// backend is configured.
	Embedding []float32

	// TokenCount is a rough token estimate used for budget accounting.
	TokenCount int
}

// IndexResult reports the outcome of indexing a single document.
type IndexResult struct {
	Path     string `json:"path"`
	Chunks   int    `json:"chunks"`
	Embedded bool   `json:"embedded"`
}

// VaultIndexResult aggregates a whole-vault indexing pass.
type VaultIndexResult struct {
	TotalChunks int           `json:"total_chunks"`
	Files       []IndexResult `json:"files"`
}
