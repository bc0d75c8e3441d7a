package driven

import (
	"context"

	"github.com/nativz/cortex-sync/internal/core/domain"
)

// VaultStore reads and writes files in the Git-hosted document vault.
//
// Writes are optimistic-concurrency: updating an existing file must
// present the SHA from the previous read, and a stale SHA fails with
// domain.ErrConflict; the store never merges content. Every write
// creates a new commit, which is the vault's audit trail.
type VaultStore interface {
	// ReadFile returns a file's content and blob SHA.
	// A missing file returns domain.ErrNotFound.
	ReadFile(ctx context.Context, path string) (*domain.VaultFile, error)

	// WriteFile creates or updates a file and returns the new blob SHA.
	// sha must be empty for creates and the last-read SHA for updates.
	WriteFile(ctx context.Context, path, content, message, sha string) (string, error)

	// DeleteFile removes a file. Deleting a missing file is a no-op.
	DeleteFile(ctx context.Context, path, message string) error

	// ListFiles lists a directory. A missing directory yields an empty
	// listing, not an error.
	ListFiles(ctx context.Context, dir string) ([]domain.VaultEntry, error)

	// FileExists reports whether a file exists.
	FileExists(ctx context.Context, path string) (bool, error)
}
