package driven

import (
	"context"

	"github.com/nativz/cortex-sync/internal/core/domain"
)

// BoardClient queries and mutates items on the external project board.
// The board ID and column-id mapping are adapter configuration; column
// IDs are never inferred from item data.
type BoardClient interface {
	// FetchProfiles returns every item on the configured board, parsed
	// into the profile fields the board owns.
	FetchProfiles(ctx context.Context) ([]domain.BoardProfile, error)

	// FetchProfile returns one item by ID, parsed.
	// A missing item returns domain.ErrNotFound.
	FetchProfile(ctx context.Context, itemID string) (*domain.BoardProfile, error)

	// CreateItem provisions a new board item for a profile and returns
	// its item ID.
	CreateItem(ctx context.Context, profile domain.ClientProfile) (string, error)

	// UpdateItem pushes the board-owned fields of a profile to an
	// existing item's columns.
	UpdateItem(ctx context.Context, itemID string, profile domain.ClientProfile) error
}
