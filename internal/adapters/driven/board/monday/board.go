package monday

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nativz/cortex-sync/internal/core/domain"
	"github.com/nativz/cortex-sync/internal/core/ports/driven"
)

// itemsPageLimit is the page size for board item listings.
const itemsPageLimit = 100

// Board implements the board client for one configured board.
type Board struct {
	client  *Client
	boardID string
	mapping ColumnMapping
	log     zerolog.Logger
}

var _ driven.BoardClient = (*Board)(nil)

// NewBoard binds a GraphQL client to a board and its column mapping.
func NewBoard(client *Client, boardID string, mapping ColumnMapping, log zerolog.Logger) *Board {
	return &Board{client: client, boardID: boardID, mapping: mapping, log: log}
}

// BoardID returns the configured board ID.
func (b *Board) BoardID() string {
	return b.boardID
}

type rawColumn struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Value string `json:"value"`
}

type rawItem struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Columns []rawColumn `json:"column_values"`
}

func (r rawItem) toDomain() domain.BoardItem {
	item := domain.BoardItem{ID: r.ID, Name: r.Name}
	for _, col := range r.Columns {
		item.Columns = append(item.Columns, domain.ColumnValue{ID: col.ID, Text: col.Text, Value: col.Value})
	}
	return item
}

type itemsPage struct {
	Cursor string    `json:"cursor"`
	Items  []rawItem `json:"items"`
}

const fetchItemsQuery = `query ($boardId: ID!, $limit: Int!) {
  boards(ids: [$boardId]) {
    items_page(limit: $limit) {
      cursor
      items { id name column_values { id text value } }
    }
  }
}`

const fetchNextPageQuery = `query ($cursor: String!, $limit: Int!) {
  next_items_page(cursor: $cursor, limit: $limit) {
    cursor
    items { id name column_values { id text value } }
  }
}`

// FetchProfiles pages through every item on the board and parses each
// into its board-owned profile fields.
func (b *Board) FetchProfiles(ctx context.Context) ([]domain.BoardProfile, error) {
	var firstPage struct {
		Boards []struct {
			ItemsPage itemsPage `json:"items_page"`
		} `json:"boards"`
	}
	err := b.client.Query(ctx, fetchItemsQuery, map[string]any{
		"boardId": b.boardID,
		"limit":   itemsPageLimit,
	}, &firstPage)
	if err != nil {
		return nil, fmt.Errorf("fetching board %s: %w", b.boardID, err)
	}
	if len(firstPage.Boards) == 0 {
		return nil, fmt.Errorf("fetching board %s: %w", b.boardID, domain.ErrNotFound)
	}

	page := firstPage.Boards[0].ItemsPage
	var profiles []domain.BoardProfile
	for {
		for _, item := range page.Items {
			profiles = append(profiles, b.mapping.ParseItem(item.toDomain()))
		}
		if page.Cursor == "" {
			break
		}

		var next struct {
			NextItemsPage itemsPage `json:"next_items_page"`
		}
		err := b.client.Query(ctx, fetchNextPageQuery, map[string]any{
			"cursor": page.Cursor,
			"limit":  itemsPageLimit,
		}, &next)
		if err != nil {
			return nil, fmt.Errorf("fetching board %s next page: %w", b.boardID, err)
		}
		page = next.NextItemsPage
	}

	b.log.Debug().Int("items", len(profiles)).Str("board", b.boardID).Msg("fetched board items")
	return profiles, nil
}

const fetchItemQuery = `query ($itemId: [ID!]) {
  items(ids: $itemId) {
    id
    name
    column_values { id text value }
  }
}`

// FetchProfile fetches and parses one item.
func (b *Board) FetchProfile(ctx context.Context, itemID string) (*domain.BoardProfile, error) {
	var out struct {
		Items []rawItem `json:"items"`
	}
	err := b.client.Query(ctx, fetchItemQuery, map[string]any{
		"itemId": []string{itemID},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("fetching item %s: %w", itemID, err)
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("fetching item %s: %w", itemID, domain.ErrNotFound)
	}

	profile := b.mapping.ParseItem(out.Items[0].toDomain())
	return &profile, nil
}

const createItemMutation = `mutation ($boardId: ID!, $name: String!, $values: JSON) {
  create_item(board_id: $boardId, item_name: $name, column_values: $values, create_labels_if_missing: true) {
    id
  }
}`

// CreateItem provisions a board item holding the profile's board-owned
// fields and returns its ID.
func (b *Board) CreateItem(ctx context.Context, profile domain.ClientProfile) (string, error) {
	values, err := b.mapping.columnValuesFor(profile).Encode()
	if err != nil {
		return "", err
	}

	var out struct {
		CreateItem struct {
			ID string `json:"id"`
		} `json:"create_item"`
	}
	err = b.client.Query(ctx, createItemMutation, map[string]any{
		"boardId": b.boardID,
		"name":    profile.Name,
		"values":  values,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("creating item for %s: %w", profile.Name, err)
	}

	b.log.Info().Str("item_id", out.CreateItem.ID).Str("client", profile.Name).Msg("board item created")
	return out.CreateItem.ID, nil
}

const updateColumnsMutation = `mutation ($boardId: ID!, $itemId: ID!, $values: JSON!) {
  change_multiple_column_values(board_id: $boardId, item_id: $itemId, column_values: $values, create_labels_if_missing: true) {
    id
  }
}`

// UpdateItem pushes the profile's board-owned fields to an existing
// item's columns.
func (b *Board) UpdateItem(ctx context.Context, itemID string, profile domain.ClientProfile) error {
	values, err := b.mapping.columnValuesFor(profile).Encode()
	if err != nil {
		return err
	}

	err = b.client.Query(ctx, updateColumnsMutation, map[string]any{
		"boardId": b.boardID,
		"itemId":  itemID,
		"values":  values,
	}, nil)
	if err != nil {
		return fmt.Errorf("updating item %s: %w", itemID, err)
	}
	return nil
}
