package driven

import (
	"context"

	"github.com/nativz/cortex-sync/internal/core/domain"
)

// ProfileStore persists client profiles in the system of record.
// Rows are keyed by the immutable slug so that duplicate webhook
// deliveries and concurrent syncs upsert rather than duplicate.
type ProfileStore interface {
	// UpsertBySlug inserts or updates a profile row keyed on its slug.
	// Returns true when a new row was created.
	UpsertBySlug(ctx context.Context, profile *domain.ClientProfile) (bool, error)

	// GetBySlug retrieves a profile row.
	// A missing row returns domain.ErrNotFound.
	GetBySlug(ctx context.Context, slug string) (*domain.ClientProfile, error)

	// GetByBoardItemID retrieves the row linked to a board item. Board
	// syncs match on this before the slug, so a renamed item finds its
	// existing row instead of creating a duplicate.
	// A missing row returns domain.ErrNotFound.
	GetByBoardItemID(ctx context.Context, itemID string) (*domain.ClientProfile, error)

	// List returns all profile rows.
	List(ctx context.Context) ([]domain.ClientProfile, error)

	// SetActive flips the soft-delete flag. Profiles are never
	// hard-deleted.
	SetActive(ctx context.Context, slug string, active bool) error
}
