package domain

import (
	"strings"
	"time"
)

// Contact is a point of contact for a client.
type Contact struct {
	Name  string
	Email string
}

// ClientProfile is the canonical client record. It exists simultaneously
// as a system-of-record row, a vault markdown document and an external
// board item; the sync orchestrator keeps the three convergent using the
// field ownership rules in ownership.go.
type ClientProfile struct {
	Name string

	// Slug is the immutable cross-store join key: the vault directory
	// name and the unique database constraint. Computed once at creation
	// with Slugify and never recomputed.
	Slug string

	Industry       string
	WebsiteURL     string
	TargetAudience string
	BrandVoice     string
	TopicKeywords  []string

	Services       []string
	Agency         string
	Abbreviation   string
	PointOfContact *Contact

	// BoardItemID is the external board item backing this profile,
	// empty until the profile has been provisioned on the board.
	BoardItemID string

	// Active is a soft-delete flag; profiles are never hard-deleted.
	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BoardProfile is the subset of a ClientProfile that the external board
// holds, parsed from a board item's column values. Additional upstream
// columns are ignored.
type BoardProfile struct {
	ItemID       string
	Name         string
	Abbreviation string
	Agency       string
	Services     []string
	Contacts     []Contact
}

// BoardItem is the minimal typed shape of a board item as returned by
// the board API: id, name and raw column triples. Fields this engine
// does not read are dropped at the adapter boundary.
type BoardItem struct {
	ID      string
	Name    string
	Columns []ColumnValue
}

// ColumnValue is one column of a board item.
type ColumnValue struct {
	ID    string
	Text  string
	Value string
}

// DefaultIndustry is used whenever a profile has no industry set.
const DefaultIndustry = "General"

// Slugify derives the immutable profile slug from a display name:
// lowercase, apostrophes dropped, every other non-alphanumeric run
// collapsed to a single hyphen, edges trimmed.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == '\'' || r == '’':
			// Apostrophes vanish rather than hyphenate ("Acme's" -> "acmes").
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ProfilePath returns the vault path of a client's profile document.
func ProfilePath(name string) string {
	return "Clients/" + name + "/_profile.md"
}
