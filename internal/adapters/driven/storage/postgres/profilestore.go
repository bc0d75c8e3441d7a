package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nativz/cortex-sync/internal/core/domain"
	"github.com/nativz/cortex-sync/internal/core/ports/driven"
)

type profileStore struct {
	store *Store
}

var _ driven.ProfileStore = (*profileStore)(nil)

const profileColumns = `slug, name, industry, website_url, target_audience, brand_voice,
	topic_keywords, services, agency, abbreviation, contact_name, contact_email,
	board_item_id, is_active, created_at, updated_at`

// UpsertBySlug inserts or updates a profile row. The xmax trick
// distinguishes an insert from a conflict-update in one round trip.
func (s *profileStore) UpsertBySlug(ctx context.Context, profile *domain.ClientProfile) (bool, error) {
	contactName, contactEmail := "", ""
	if profile.PointOfContact != nil {
		contactName = profile.PointOfContact.Name
		contactEmail = profile.PointOfContact.Email
	}

	var created bool
	err := s.store.pool.QueryRow(ctx, `
		INSERT INTO clients (
			slug, name, industry, website_url, target_audience, brand_voice,
			topic_keywords, services, agency, abbreviation, contact_name,
			contact_email, board_item_id, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			industry = EXCLUDED.industry,
			website_url = EXCLUDED.website_url,
			target_audience = EXCLUDED.target_audience,
			brand_voice = EXCLUDED.brand_voice,
			topic_keywords = EXCLUDED.topic_keywords,
			services = EXCLUDED.services,
			agency = EXCLUDED.agency,
			abbreviation = EXCLUDED.abbreviation,
			contact_name = EXCLUDED.contact_name,
			contact_email = EXCLUDED.contact_email,
			board_item_id = EXCLUDED.board_item_id,
			is_active = EXCLUDED.is_active,
			updated_at = now()
		RETURNING (xmax = 0)
	`,
		profile.Slug, profile.Name, profile.Industry, profile.WebsiteURL,
		profile.TargetAudience, profile.BrandVoice, profile.TopicKeywords,
		profile.Services, profile.Agency, profile.Abbreviation,
		contactName, contactEmail, profile.BoardItemID, profile.Active,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("upserting client %s: %w", profile.Slug, err)
	}
	return created, nil
}

// GetBySlug retrieves one profile row.
func (s *profileStore) GetBySlug(ctx context.Context, slug string) (*domain.ClientProfile, error) {
	row := s.store.pool.QueryRow(ctx,
		"SELECT "+profileColumns+" FROM clients WHERE slug = $1", slug)

	profile, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("client %s: %w", slug, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading client %s: %w", slug, err)
	}
	return profile, nil
}

// GetByBoardItemID retrieves the row linked to a board item, via the
// clients_board_item_idx index.
func (s *profileStore) GetByBoardItemID(ctx context.Context, itemID string) (*domain.ClientProfile, error) {
	row := s.store.pool.QueryRow(ctx,
		"SELECT "+profileColumns+" FROM clients WHERE board_item_id = $1", itemID)

	profile, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("board item %s: %w", itemID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading client for board item %s: %w", itemID, err)
	}
	return profile, nil
}

// List returns every profile row ordered by slug.
func (s *profileStore) List(ctx context.Context) ([]domain.ClientProfile, error) {
	rows, err := s.store.pool.Query(ctx,
		"SELECT "+profileColumns+" FROM clients ORDER BY slug")
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var profiles []domain.ClientProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning client row: %w", err)
		}
		profiles = append(profiles, *profile)
	}
	return profiles, rows.Err()
}

// SetActive flips the soft-delete flag.
func (s *profileStore) SetActive(ctx context.Context, slug string, active bool) error {
	tag, err := s.store.pool.Exec(ctx,
		"UPDATE clients SET is_active = $2, updated_at = now() WHERE slug = $1", slug, active)
	if err != nil {
		return fmt.Errorf("updating client %s: %w", slug, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", slug, domain.ErrNotFound)
	}
	return nil
}

func scanProfile(row pgx.Row) (*domain.ClientProfile, error) {
	var (
		p            domain.ClientProfile
		contactName  string
		contactEmail string
	)
	err := row.Scan(
		&p.Slug, &p.Name, &p.Industry, &p.WebsiteURL, &p.TargetAudience,
		&p.BrandVoice, &p.TopicKeywords, &p.Services, &p.Agency,
		&p.Abbreviation, &contactName, &contactEmail, &p.BoardItemID,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if contactName != "" || contactEmail != "" {
		p.PointOfContact = &domain.Contact{Name: contactName, Email: contactEmail}
	}
	return &p, nil
}
