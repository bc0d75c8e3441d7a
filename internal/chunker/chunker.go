// Package chunker provides fixed-size overlapping text chunking.
// Overlap keeps content that spans a chunk boundary intact in at least
// one chunk, and the stride guarantees full coverage of the input.
package chunker

import (
	"github.com/nativz/cortex-sync/internal/core/domain"
)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping runes.
const DefaultOverlap = 200

// Chunker splits document bodies into fixed-size chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in runes.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in runes.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}

	// The stride must stay positive.
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}
	return c
}

// Split chunks text for the given document path. Empty text produces
// no chunks. Indexes are 0-based and contiguous; token counts use the
// rough 4-chars-per-token estimate.
func (c *Chunker) Split(path, text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	// Operate on runes so multi-byte content never splits mid-character.
	runes := []rune(text)
	total := len(runes)
	stride := c.chunkSize - c.overlap

	chunks := make([]domain.Chunk, 0, total/stride+1)
	for start := 0; start < total; start += stride {
		end := start + c.chunkSize
		if end > total {
			end = total
		}

		content := string(runes[start:end])
		chunks = append(chunks, domain.Chunk{
			Path:       path,
			Index:      len(chunks),
			Text:       content,
			TokenCount: (len(content) + 3) / 4,
		})

		if end == total {
			break
		}
	}
	return chunks
}

// ChunkSize returns the configured chunk size.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}
