package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nativz/cortex-sync/internal/core/domain"
	"github.com/nativz/cortex-sync/internal/core/ports/driven"
	"github.com/nativz/cortex-sync/internal/core/ports/driving"
	"github.com/nativz/cortex-sync/internal/frontmatter"
)

const profileCommitMessage = "chore: sync client profile"

// Orchestrator coordinates the board, the vault and the system of
// record. It holds no in-process locks: concurrent syncs are made safe
// by the vault's optimistic SHA writes and the store's upsert-by-slug.
type Orchestrator struct {
	vault    driven.VaultStore
	board    driven.BoardClient // nil when the board is not configured
	profiles driven.ProfileStore
	indexer  driving.Indexer
	log      zerolog.Logger
}

var _ driving.SyncOrchestrator = (*Orchestrator)(nil)

// NewOrchestrator builds the sync orchestrator. board may be nil, which
// disables board creation for vault-new clients.
func NewOrchestrator(vault driven.VaultStore, board driven.BoardClient, profiles driven.ProfileStore, indexer driving.Indexer, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		vault:    vault,
		board:    board,
		profiles: profiles,
		indexer:  indexer,
		log:      log,
	}
}

// SyncBoardItemByID fetches one board item and syncs it.
func (o *Orchestrator) SyncBoardItemByID(ctx context.Context, itemID string) (domain.SyncResult, error) {
	if o.board == nil {
		return domain.SyncResult{}, fmt.Errorf("board sync: %w", domain.ErrNotConfigured)
	}
	profile, err := o.board.FetchProfile(ctx, itemID)
	if err != nil {
		return domain.SyncResult{}, fmt.Errorf("fetching board item %s: %w", itemID, err)
	}
	return o.SyncBoardItem(ctx, *profile)
}

// SyncBoardItem brings one board item's client fully in sync: the
// vault profile document is re-read fresh, merged under ownership
// rules, conditionally rewritten, the system-of-record row upserted
// and the document re-indexed. The row is matched by board item ID
// first, so a renamed item updates its existing row.
func (o *Orchestrator) SyncBoardItem(ctx context.Context, bp domain.BoardProfile) (domain.SyncResult, error) {
	name := strings.TrimSpace(bp.Name)
	if name == "" {
		return domain.SyncResult{Entity: bp.ItemID, Action: domain.ActionSkipped, Detail: "unnamed item"}, nil
	}
	if isTestClient(name) {
		return domain.SyncResult{Entity: name, Action: domain.ActionSkipped, Detail: "test client"}, nil
	}

	current, err := o.lookupClient(ctx, bp.ItemID, domain.Slugify(name))
	if err != nil {
		return domain.SyncResult{}, err
	}

	path := domain.ProfilePath(name)
	merged, rendered, wrote, err := o.mergeAndWrite(ctx, path, current, &bp, nil)
	if err != nil {
		return domain.SyncResult{}, err
	}

	created, err := o.profiles.UpsertBySlug(ctx, &merged)
	if err != nil {
		return domain.SyncResult{}, fmt.Errorf("upserting %s: %w", merged.Slug, err)
	}

	o.reindex(ctx, path, rendered)

	switch {
	case created:
		o.log.Info().Str("client", name).Msg("client created from board item")
		return domain.SyncResult{Entity: name, Action: domain.ActionCreated}, nil
	case wrote:
		return domain.SyncResult{Entity: name, Action: domain.ActionUpdated}, nil
	default:
		return domain.SyncResult{Entity: name, Action: domain.ActionSkipped, Detail: "no changes"}, nil
	}
}

// SyncVaultPath handles one changed vault path. Profile documents merge
// their vault-owned fields into the system of record; every markdown
// file is re-indexed. A missing file is removed from the index.
func (o *Orchestrator) SyncVaultPath(ctx context.Context, path string) (domain.SyncResult, error) {
	if !strings.HasSuffix(path, ".md") {
		return domain.SyncResult{Entity: path, Action: domain.ActionSkipped, Detail: "not a markdown file"}, nil
	}

	file, err := o.vault.ReadFile(ctx, path)
	if errors.Is(err, domain.ErrNotFound) {
		if err := o.indexer.RemoveFile(ctx, path); err != nil {
			return domain.SyncResult{}, err
		}
		return domain.SyncResult{Entity: path, Action: domain.ActionSkipped, Detail: "removed from index"}, nil
	}
	if err != nil {
		return domain.SyncResult{}, fmt.Errorf("reading %s: %w", path, err)
	}

	action := domain.ActionUpdated
	content := file.Content

	if vp, ok := frontmatter.ParseProfile(file.Content); ok {
		created, newContent, err := o.syncProfileDoc(ctx, path, vp)
		if err != nil {
			return domain.SyncResult{}, err
		}
		if created {
			action = domain.ActionCreated
		}
		if newContent != "" {
			content = newContent
		}
	}

	if _, err := o.indexer.IndexFile(ctx, path, content); err != nil {
		return domain.SyncResult{}, err
	}
	return domain.SyncResult{Entity: path, Action: action}, nil
}

// syncProfileDoc merges a vault profile document into the system of
// record. Board-owned fields in the document never overwrite an
// existing row. A client the board has never seen gets a board item
// provisioned from the document's own fields, with the new item ID
// written back into it.
func (o *Orchestrator) syncProfileDoc(ctx context.Context, path string, vp *domain.ClientProfile) (created bool, newContent string, err error) {
	current, err := o.lookupClient(ctx, vp.BoardItemID, domain.Slugify(vp.Name))
	if err != nil {
		return false, "", err
	}

	merged := MergeProfile(current, vp, nil)

	if merged.BoardItemID == "" && o.board != nil {
		itemID, err := o.board.CreateItem(ctx, merged)
		if err != nil {
			return false, "", fmt.Errorf("creating board item for %s: %w", merged.Name, err)
		}
		o.log.Info().Str("client", merged.Name).Str("item_id", itemID).Msg("created board item for vault client")

		withID, rendered, wrote, err := o.mergeAndWrite(ctx, path, current, nil, func(p *domain.ClientProfile) {
			p.BoardItemID = itemID
		})
		if err != nil {
			return false, "", fmt.Errorf("writing back item id to %s: %w", path, err)
		}
		merged = withID
		if wrote {
			newContent = rendered
		}
	}

	created, err = o.profiles.UpsertBySlug(ctx, &merged)
	if err != nil {
		return false, "", fmt.Errorf("upserting %s: %w", merged.Slug, err)
	}
	return created, newContent, nil
}

// SyncAll runs a full pass over every board item, then deactivates rows
// whose board item is gone. Per-item failures are captured in the
// summary; a board-wide fetch failure propagates.
func (o *Orchestrator) SyncAll(ctx context.Context) (domain.SyncSummary, error) {
	if o.board == nil {
		return domain.SyncSummary{}, fmt.Errorf("full sync: %w", domain.ErrNotConfigured)
	}
	items, err := o.board.FetchProfiles(ctx)
	if err != nil {
		return domain.SyncSummary{}, fmt.Errorf("fetching board items: %w", err)
	}

	var summary domain.SyncSummary
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item.ItemID] = struct{}{}
		result, err := o.SyncBoardItem(ctx, item)
		if err != nil {
			o.log.Error().Err(err).Str("item", item.Name).Msg("board item sync failed")
			summary.Add(domain.SyncResult{Entity: item.Name, Action: domain.ActionError, Detail: err.Error()})
			continue
		}
		summary.Add(result)
	}

	if err := o.deactivateMissing(ctx, seen, &summary); err != nil {
		return summary, err
	}

	o.log.Info().
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Int("skipped", summary.Skipped).
		Int("errors", summary.Errors).
		Msg("full sync complete")
	return summary, nil
}

// deactivateMissing soft-deletes active rows linked to board items the
// pass did not see. Rows without a board item are left alone.
func (o *Orchestrator) deactivateMissing(ctx context.Context, seen map[string]struct{}, summary *domain.SyncSummary) error {
	rows, err := o.profiles.List(ctx)
	if err != nil {
		return fmt.Errorf("listing profiles: %w", err)
	}
	for _, row := range rows {
		if !row.Active || row.BoardItemID == "" {
			continue
		}
		if _, ok := seen[row.BoardItemID]; ok {
			continue
		}
		if err := o.profiles.SetActive(ctx, row.Slug, false); err != nil {
			summary.Add(domain.SyncResult{Entity: row.Name, Action: domain.ActionError, Detail: err.Error()})
			continue
		}
		o.log.Info().Str("client", row.Name).Msg("board item gone, client deactivated")
		summary.Add(domain.SyncResult{Entity: row.Name, Action: domain.ActionUpdated, Detail: "board item gone, deactivated"})
	}
	return nil
}

// PushBoardItem pushes a row's board-owned fields to its board item.
// Operator remediation for an item that was wiped or recreated wrongly;
// the board stays the owner, so this never runs as part of a sync pass.
func (o *Orchestrator) PushBoardItem(ctx context.Context, slug string) (domain.SyncResult, error) {
	if o.board == nil {
		return domain.SyncResult{}, fmt.Errorf("board push: %w", domain.ErrNotConfigured)
	}
	row, err := o.profiles.GetBySlug(ctx, slug)
	if err != nil {
		return domain.SyncResult{}, err
	}
	if row.BoardItemID == "" {
		return domain.SyncResult{}, fmt.Errorf("%w: client %s has no board item", domain.ErrValidation, slug)
	}
	if err := o.board.UpdateItem(ctx, row.BoardItemID, *row); err != nil {
		return domain.SyncResult{}, fmt.Errorf("updating board item %s: %w", row.BoardItemID, err)
	}
	o.log.Info().Str("client", row.Name).Str("item_id", row.BoardItemID).Msg("board item updated from row")
	return domain.SyncResult{Entity: row.Name, Action: domain.ActionUpdated}, nil
}

// lookupClient finds the existing row for a client, preferring the
// board item link over the name-derived slug so a renamed board item
// lands on the same row.
func (o *Orchestrator) lookupClient(ctx context.Context, itemID, slug string) (*domain.ClientProfile, error) {
	if itemID != "" {
		p, err := o.profiles.GetByBoardItemID(ctx, itemID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("loading profile for board item %s: %w", itemID, err)
		}
	}
	return o.getProfile(ctx, slug)
}

func (o *Orchestrator) getProfile(ctx context.Context, slug string) (*domain.ClientProfile, error) {
	p, err := o.profiles.GetBySlug(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile %s: %w", slug, err)
	}
	return p, nil
}

func (o *Orchestrator) readVaultProfile(ctx context.Context, path string) (*domain.VaultFile, *domain.ClientProfile, error) {
	file, err := o.vault.ReadFile(ctx, path)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	vp, ok := frontmatter.ParseProfile(file.Content)
	if !ok {
		return file, nil, nil
	}
	return file, vp, nil
}

// mergeAndWrite runs the read-merge-render-write cycle for a profile
// document and reports the merged profile, its rendered form and
// whether the vault changed. A stale-hash conflict proves another
// commit landed after the read, so the retry re-runs the whole cycle
// against the fresh document; the stale render is never forced through.
// One retry is allowed, then the conflict surfaces.
func (o *Orchestrator) mergeAndWrite(ctx context.Context, path string, current *domain.ClientProfile, bp *domain.BoardProfile, patch func(*domain.ClientProfile)) (domain.ClientProfile, string, bool, error) {
	for attempt := 0; ; attempt++ {
		vaultDoc, vaultProfile, err := o.readVaultProfile(ctx, path)
		if err != nil {
			return domain.ClientProfile{}, "", false, err
		}

		merged := MergeProfile(current, vaultProfile, bp)
		if patch != nil {
			patch(&merged)
		}
		rendered := frontmatter.RenderProfile(merged)

		if vaultDoc != nil && vaultDoc.Content == rendered {
			return merged, rendered, false, nil
		}

		sha := ""
		if vaultDoc != nil {
			sha = vaultDoc.SHA
		}
		_, werr := o.vault.WriteFile(ctx, path, rendered, profileCommitMessage, sha)
		if werr == nil {
			return merged, rendered, true, nil
		}
		if !errors.Is(werr, domain.ErrConflict) || attempt > 0 {
			return domain.ClientProfile{}, "", false, fmt.Errorf("writing %s: %w", path, werr)
		}
	}
}

// reindex refreshes the chunk index for a path. Index failures do not
// fail the sync; the document and row are already consistent.
func (o *Orchestrator) reindex(ctx context.Context, path, content string) {
	if _, err := o.indexer.IndexFile(ctx, path, content); err != nil {
		o.log.Warn().Err(err).Str("path", path).Msg("re-index after sync failed")
	}
}

func isTestClient(name string) bool {
	return strings.Contains(strings.ToLower(name), "test client")
}
