package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativz/cortex-sync/internal/core/domain"
)

func TestProfileStore(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore()

	profile := domain.ClientProfile{
		Name:     "Acme Co",
		Slug:     "acme-co",
		Industry: "Retail",
		Services: []string{"SMM"},
		Active:   true,
	}

	t.Run("upsert creates then updates", func(t *testing.T) {
		created, err := store.UpsertBySlug(ctx, &profile)
		require.NoError(t, err)
		assert.True(t, created)

		profile.Industry = "E-commerce"
		created, err = store.UpsertBySlug(ctx, &profile)
		require.NoError(t, err)
		assert.False(t, created)

		got, err := store.GetBySlug(ctx, "acme-co")
		require.NoError(t, err)
		assert.Equal(t, "E-commerce", got.Industry)
		assert.False(t, got.CreatedAt.IsZero())
		assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
	})

	t.Run("empty slug rejected", func(t *testing.T) {
		_, err := store.UpsertBySlug(ctx, &domain.ClientProfile{Name: "No Slug"})
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("missing row", func(t *testing.T) {
		_, err := store.GetBySlug(ctx, "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("returned rows are copies", func(t *testing.T) {
		got, err := store.GetBySlug(ctx, "acme-co")
		require.NoError(t, err)
		got.Services[0] = "mutated"

		again, err := store.GetBySlug(ctx, "acme-co")
		require.NoError(t, err)
		assert.Equal(t, []string{"SMM"}, again.Services)
	})

	t.Run("get by board item id", func(t *testing.T) {
		profile.BoardItemID = "4711"
		_, err := store.UpsertBySlug(ctx, &profile)
		require.NoError(t, err)

		got, err := store.GetByBoardItemID(ctx, "4711")
		require.NoError(t, err)
		assert.Equal(t, "acme-co", got.Slug)

		_, err = store.GetByBoardItemID(ctx, "9999")
		require.ErrorIs(t, err, domain.ErrNotFound)

		// An empty lookup never matches rows without a board item.
		_, err = store.GetByBoardItemID(ctx, "")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("set active", func(t *testing.T) {
		require.NoError(t, store.SetActive(ctx, "acme-co", false))
		got, err := store.GetBySlug(ctx, "acme-co")
		require.NoError(t, err)
		assert.False(t, got.Active)

		require.ErrorIs(t, store.SetActive(ctx, "nope", true), domain.ErrNotFound)
	})

	t.Run("list ordered by slug", func(t *testing.T) {
		_, err := store.UpsertBySlug(ctx, &domain.ClientProfile{Name: "Zeta", Slug: "zeta"})
		require.NoError(t, err)
		_, err = store.UpsertBySlug(ctx, &domain.ClientProfile{Name: "Borealis", Slug: "borealis"})
		require.NoError(t, err)

		rows, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "acme-co", rows[0].Slug)
		assert.Equal(t, "borealis", rows[1].Slug)
		assert.Equal(t, "zeta", rows[2].Slug)
	})
}
