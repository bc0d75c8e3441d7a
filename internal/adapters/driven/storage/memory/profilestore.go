// Package memory provides in-memory store implementations for tests
// and the --dev mode that runs without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nativz/cortex-sync/internal/core/domain"
	"github.com/nativz/cortex-sync/internal/core/ports/driven"
)

// ProfileStore is an in-memory client profile store keyed by slug.
type ProfileStore struct {
	mu   sync.RWMutex
	rows map[string]domain.ClientProfile
}

var _ driven.ProfileStore = (*ProfileStore)(nil)

// NewProfileStore creates an empty profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{rows: make(map[string]domain.ClientProfile)}
}

// UpsertBySlug inserts or updates a row.
func (s *ProfileStore) UpsertBySlug(_ context.Context, profile *domain.ClientProfile) (bool, error) {
	if profile.Slug == "" {
		return false, fmt.Errorf("%w: profile slug is empty", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	existing, exists := s.rows[profile.Slug]

	row := cloneProfile(*profile)
	row.UpdatedAt = now
	if exists {
		row.CreatedAt = existing.CreatedAt
	} else {
		row.CreatedAt = now
	}
	s.rows[profile.Slug] = row
	return !exists, nil
}

// GetBySlug retrieves a row.
func (s *ProfileStore) GetBySlug(_ context.Context, slug string) (*domain.ClientProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[slug]
	if !ok {
		return nil, fmt.Errorf("client %s: %w", slug, domain.ErrNotFound)
	}
	clone := cloneProfile(row)
	return &clone, nil
}

// GetByBoardItemID retrieves the row linked to a board item.
func (s *ProfileStore) GetByBoardItemID(_ context.Context, itemID string) (*domain.ClientProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, row := range s.rows {
		if row.BoardItemID != "" && row.BoardItemID == itemID {
			clone := cloneProfile(row)
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("board item %s: %w", itemID, domain.ErrNotFound)
}

// List returns all rows ordered by slug.
func (s *ProfileStore) List(_ context.Context) ([]domain.ClientProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ClientProfile, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, cloneProfile(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

// SetActive flips the soft-delete flag.
func (s *ProfileStore) SetActive(_ context.Context, slug string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[slug]
	if !ok {
		return fmt.Errorf("client %s: %w", slug, domain.ErrNotFound)
	}
	row.Active = active
	row.UpdatedAt = time.Now()
	s.rows[slug] = row
	return nil
}

func cloneProfile(p domain.ClientProfile) domain.ClientProfile {
	clone := p
	clone.TopicKeywords = append([]string(nil), p.TopicKeywords...)
	clone.Services = append([]string(nil), p.Services...)
	if p.PointOfContact != nil {
		contact := *p.PointOfContact
		clone.PointOfContact = &contact
	}
	return clone
}
