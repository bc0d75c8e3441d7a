package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nativz/cortex-sync/internal/chunker"
	"github.com/nativz/cortex-sync/internal/core/domain"
	"github.com/nativz/cortex-sync/internal/core/ports/driven"
	"github.com/nativz/cortex-sync/internal/core/ports/driving"
	"github.com/nativz/cortex-sync/internal/frontmatter"
)

// maxEmbedInputChars caps the text sent to the embedding backend per
// chunk. Oversized chunks are truncated for embedding only; the stored
// chunk text is never cut.
const maxEmbedInputChars = 8000

// defaultIndexConcurrency bounds parallel file indexing during a full
// vault pass.
const defaultIndexConcurrency = 4

// IndexerService chunks vault documents and maintains the search index.
type IndexerService struct {
	vault       driven.VaultStore
	index       driven.IndexStore
	embedder    driven.EmbeddingService // nil disables vectors
	chunker     *chunker.Chunker
	roots       []string
	concurrency int
	log         zerolog.Logger
}

var _ driving.Indexer = (*IndexerService)(nil)

// IndexerOption configures an IndexerService.
type IndexerOption func(*IndexerService)

// WithIndexRoots overrides the vault directories walked by IndexVault.
// An empty-string root means the repository's top level, non-recursive.
func WithIndexRoots(roots []string) IndexerOption {
	return func(s *IndexerService) {
		s.roots = roots
	}
}

// WithIndexConcurrency bounds parallel file indexing.
func WithIndexConcurrency(n int) IndexerOption {
	return func(s *IndexerService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithIndexLogger sets the service logger.
func WithIndexLogger(log zerolog.Logger) IndexerOption {
	return func(s *IndexerService) {
		s.log = log
	}
}

// NewIndexer builds an IndexerService. embedder may be nil, in which
// case chunks are stored without vectors.
func NewIndexer(vault driven.VaultStore, index driven.IndexStore, embedder driven.EmbeddingService, ch *chunker.Chunker, opts ...IndexerOption) *IndexerService {
	s := &IndexerService{
		vault:       vault,
		index:       index,
		embedder:    embedder,
		chunker:     ch,
		roots:       []string{"Clients", "Templates", ""},
		concurrency: defaultIndexConcurrency,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IndexFile chunks one document's body and replaces its chunks in the
// index. Frontmatter is stripped before chunking so the index holds
// prose, not metadata. An empty body clears the path.
func (s *IndexerService) IndexFile(ctx context.Context, path, content string) (domain.IndexResult, error) {
	doc := frontmatter.Parse(content)
	chunks := s.chunker.Split(path, doc.Body)

	embedded := false
	if s.embedder != nil && len(chunks) > 0 {
		if err := s.embedChunks(ctx, chunks); err != nil {
			// Degraded indexing: the chunks stay searchable via
			// full-text even when the embedding backend is down.
			s.log.Warn().Err(err).Str("path", path).Msg("embedding failed, indexing without vectors")
		} else {
			embedded = true
		}
	}

	if err := s.index.ReplaceChunks(ctx, path, chunks); err != nil {
		return domain.IndexResult{}, fmt.Errorf("replacing chunks for %s: %w", path, err)
	}

	s.log.Debug().Str("path", path).Int("chunks", len(chunks)).Bool("embedded", embedded).Msg("indexed file")
	return domain.IndexResult{Path: path, Chunks: len(chunks), Embedded: embedded}, nil
}

func (s *IndexerService) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = truncate(c.Text, maxEmbedInputChars)
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: got %d for %d chunks", len(vectors), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return nil
}

// RemoveFile deletes every chunk for a path.
func (s *IndexerService) RemoveFile(ctx context.Context, path string) error {
	if err := s.index.DeleteChunks(ctx, path); err != nil {
		return fmt.Errorf("removing chunks for %s: %w", path, err)
	}
	s.log.Debug().Str("path", path).Msg("removed file from index")
	return nil
}

// IndexVault walks the configured roots and re-indexes every markdown
// file. Per-file failures are logged and recorded; the pass continues.
func (s *IndexerService) IndexVault(ctx context.Context) (domain.VaultIndexResult, error) {
	paths, err := s.collectMarkdown(ctx)
	if err != nil {
		return domain.VaultIndexResult{}, err
	}

	var (
		mu     sync.Mutex
		result domain.VaultIndexResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			file, err := s.vault.ReadFile(gctx, path)
			if err != nil {
				s.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable file")
				return nil
			}
			res, err := s.IndexFile(gctx, path, file.Content)
			if err != nil {
				s.log.Warn().Err(err).Str("path", path).Msg("indexing file failed")
				return nil
			}
			mu.Lock()
			result.Files = append(result.Files, res)
			result.TotalChunks += res.Chunks
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.VaultIndexResult{}, err
	}

	s.log.Info().Int("files", len(result.Files)).Int("chunks", result.TotalChunks).Msg("vault index pass complete")
	return result, nil
}

// collectMarkdown lists every .md path under the roots. Named roots are
// walked recursively; the "" root covers only the repository top level.
func (s *IndexerService) collectMarkdown(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string

	var walk func(dir string, recurse bool) error
	walk = func(dir string, recurse bool) error {
		entries, err := s.vault.ListFiles(ctx, dir)
		if err != nil {
			return fmt.Errorf("listing %q: %w", dir, err)
		}
		for _, e := range entries {
			switch e.Type {
			case domain.EntryDir:
				if recurse {
					if err := walk(e.Path, true); err != nil {
						return err
					}
				}
			case domain.EntryFile:
				if !strings.HasSuffix(e.Name, ".md") {
					continue
				}
				if _, ok := seen[e.Path]; ok {
					continue
				}
				seen[e.Path] = struct{}{}
				paths = append(paths, e.Path)
			}
		}
		return nil
	}

	for _, root := range s.roots {
		if err := walk(root, root != ""); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back up to a rune boundary.
	cut := max
	for cut > 0 && (s[cut]&0xC0) == 0x80 {
		cut--
	}
	return s[:cut]
}
