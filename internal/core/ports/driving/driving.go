// Package driving provides interfaces for primary (inbound) ports:
// the operations the CLI and webhook ingestors invoke on the core.
package driving

import (
	"context"

	"github.com/nativz/cortex-sync/internal/core/domain"
)

// SyncOrchestrator drives full and incremental synchronization passes
// across the board, the vault and the system of record.
type SyncOrchestrator interface {
	// SyncBoardItemByID re-syncs a single board item: fetch the current
	// item, merge with ownership rules, write vault + system of record,
	// re-index. Idempotent under duplicate invocation.
	SyncBoardItemByID(ctx context.Context, itemID string) (domain.SyncResult, error)

	// SyncVaultPath re-syncs a single changed vault path: re-read,
	// merge profile documents into the system of record, re-index.
	SyncVaultPath(ctx context.Context, path string) (domain.SyncResult, error)

	// SyncAll runs a full pass over every board item. Per-entity
	// failures are captured in the summary and never abort the rest.
	SyncAll(ctx context.Context) (domain.SyncSummary, error)
}

// Indexer maintains the searchable chunk index of the vault.
type Indexer interface {
	// IndexFile chunks, optionally embeds and indexes one document,
	// replacing any prior chunks for the path.
	IndexFile(ctx context.Context, path, content string) (domain.IndexResult, error)

	// RemoveFile deletes all chunks for a path.
	RemoveFile(ctx context.Context, path string) error

	// IndexVault walks every markdown file in the vault and re-indexes
	// each. Idempotent; safe to re-run.
	IndexVault(ctx context.Context) (domain.VaultIndexResult, error)
}

// SearchService executes queries over the indexed chunks.
type SearchService interface {
	// Search runs a full-text or semantic query. The response reports
	// the mode that actually executed.
	Search(ctx context.Context, query string, opts domain.SearchOptions) (domain.SearchResponse, error)
}
