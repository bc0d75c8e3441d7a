package postgres

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/nativz/cortex-sync/internal/core/domain"
	"github.com/nativz/cortex-sync/internal/core/ports/driven"
)

type indexStore struct {
	store *Store
}

var _ driven.IndexStore = (*indexStore)(nil)

// ReplaceChunks swaps all chunks for a path inside one transaction, so
// readers never observe a half-replaced document.
func (s *indexStore) ReplaceChunks(ctx context.Context, path string, chunks []domain.Chunk) error {
	tx, err := s.store.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM vault_chunks WHERE path = $1", path); err != nil {
		return fmt.Errorf("clearing chunks for %s: %w", path, err)
	}

	for _, chunk := range chunks {
		var embedding *pgvector.Vector
		if chunk.Embedding != nil {
			v := pgvector.NewVector(chunk.Embedding)
			embedding = &v
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO vault_chunks (path, chunk_index, chunk_text, token_count, embedding)
			VALUES ($1, $2, $3, $4, $5)
		`, path, chunk.Index, chunk.Text, chunk.TokenCount, embedding)
		if err != nil {
			return fmt.Errorf("inserting chunk %d of %s: %w", chunk.Index, path, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing chunks for %s: %w", path, err)
	}
	return nil
}

// DeleteChunks removes every chunk for a path.
func (s *indexStore) DeleteChunks(ctx context.Context, path string) error {
	if _, err := s.store.pool.Exec(ctx, "DELETE FROM vault_chunks WHERE path = $1", path); err != nil {
		return fmt.Errorf("deleting chunks for %s: %w", path, err)
	}
	return nil
}

// SearchFullText ranks chunks with websearch-style query parsing.
func (s *indexStore) SearchFullText(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	rows, err := s.store.pool.Query(ctx, `
		SELECT path, chunk_text, ts_rank(tsv, q)::float8 AS score
		FROM vault_chunks, websearch_to_tsquery('english', $1) q
		WHERE tsv @@ q
		ORDER BY score DESC
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("full-text query: %w", err)
	}
	defer rows.Close()

	return scanHits(rows)
}

// SearchSemantic ranks chunks by cosine similarity to the query
// embedding. Chunks indexed without vectors are invisible here.
func (s *indexStore) SearchSemantic(ctx context.Context, embedding []float32, limit int) ([]domain.SearchHit, error) {
	rows, err := s.store.pool.Query(ctx, `
		SELECT path, chunk_text, (1 - (embedding <=> $1))::float8 AS score
		FROM vault_chunks
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("semantic query: %w", err)
	}
	defer rows.Close()

	return scanHits(rows)
}

func scanHits(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]domain.SearchHit, error) {
	var hits []domain.SearchHit
	for rows.Next() {
		var hit domain.SearchHit
		if err := rows.Scan(&hit.Path, &hit.ChunkText, &hit.Score); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}
