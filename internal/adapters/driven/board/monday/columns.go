package monday

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/nativz/cortex-sync/internal/core/domain"
)

// Status labels of the per-service Yes/No columns.
const (
	statusYes = "Yes"
	statusNo  = "No"
)

// ColumnMapping names the board columns holding each profile field.
type ColumnMapping struct {
	Abbreviation string
	Agency       string
	Contact      string

	// Services maps service names to their Yes/No status columns.
	Services map[string]string
}

// ColumnValues is a column-id to typed-value map ready for a mutation.
type ColumnValues map[string]any

// StatusLabel builds a status-column value.
func StatusLabel(label string) any {
	return map[string]string{"label": label}
}

// Encode serializes the values to the JSON string the column_values
// GraphQL argument expects. The string itself is then JSON-encoded
// again as part of the request body.
func (v ColumnValues) Encode() (string, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding column values: %w", err)
	}
	return string(encoded), nil
}

// columnValuesFor maps a profile's board-owned fields onto columns.
// Every known service column is written explicitly so dropping a
// service flips its status to No rather than leaving it stale.
func (m ColumnMapping) columnValuesFor(profile domain.ClientProfile) ColumnValues {
	values := ColumnValues{}
	if m.Abbreviation != "" {
		values[m.Abbreviation] = profile.Abbreviation
	}
	if m.Agency != "" {
		values[m.Agency] = StatusLabel(profile.Agency)
	}
	if m.Contact != "" && profile.PointOfContact != nil {
		values[m.Contact] = fmt.Sprintf("%s <%s>", profile.PointOfContact.Name, profile.PointOfContact.Email)
	}

	active := make(map[string]bool, len(profile.Services))
	for _, s := range profile.Services {
		active[s] = true
	}
	for service, columnID := range m.Services {
		if active[service] {
			values[columnID] = StatusLabel(statusYes)
		} else {
			values[columnID] = StatusLabel(statusNo)
		}
	}
	return values
}

var contactLineRe = regexp.MustCompile(`(?m)^\s*-?\s*(.+?)\s*<(.+?)>\s*$`)

// ParseItem extracts the board-owned profile fields from a raw item
// using the column mapping.
func (m ColumnMapping) ParseItem(item domain.BoardItem) domain.BoardProfile {
	byID := make(map[string]domain.ColumnValue, len(item.Columns))
	for _, col := range item.Columns {
		byID[col.ID] = col
	}

	profile := domain.BoardProfile{
		ItemID:       item.ID,
		Name:         strings.TrimSpace(item.Name),
		Abbreviation: strings.TrimSpace(byID[m.Abbreviation].Text),
		Agency:       strings.TrimSpace(byID[m.Agency].Text),
	}

	// Deterministic service order regardless of map iteration.
	names := make([]string, 0, len(m.Services))
	for name := range m.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if strings.EqualFold(byID[m.Services[name]].Text, statusYes) {
			profile.Services = append(profile.Services, name)
		}
	}

	profile.Contacts = parseContacts(byID[m.Contact].Text)
	return profile
}

// parseContacts reads "Name <email>" lines from the contact column.
// A bare email line becomes a contact without a name.
func parseContacts(text string) []domain.Contact {
	var contacts []domain.Contact
	for _, match := range contactLineRe.FindAllStringSubmatch(text, -1) {
		contacts = append(contacts, domain.Contact{
			Name:  strings.TrimSpace(match[1]),
			Email: strings.TrimSpace(match[2]),
		})
	}
	if contacts == nil {
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
			if strings.Contains(line, "@") && !strings.Contains(line, " ") {
				contacts = append(contacts, domain.Contact{Email: line})
			}
		}
	}
	return contacts
}
