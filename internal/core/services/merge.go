package services

import (
	"strings"

	"github.com/nativz/cortex-sync/internal/core/domain"
)

// MergeProfile combines the three views of a client into the profile to
// persist. Each field is taken from its owning store. A nil vault or
// board view leaves the fields that store owns at their current
// system-of-record values, so a board-only sync never wipes vault-owned
// prose and vice versa. An absent vault section is not a statement: an
// operator-authored field an existing document omits keeps its current
// value rather than being cleared. The one bootstrap exception: a
// client with no row and no board view yet takes its board-owned
// fields from the document, since no owner value exists to protect.
func MergeProfile(current *domain.ClientProfile, vault *domain.ClientProfile, board *domain.BoardProfile) domain.ClientProfile {
	var merged domain.ClientProfile
	if current != nil {
		merged = *current
	}

	switch {
	case board != nil:
		merged.Name = board.Name
		merged.Abbreviation = board.Abbreviation
		merged.Agency = board.Agency
		merged.Services = append([]string(nil), board.Services...)
		merged.PointOfContact = firstContact(board.Contacts)
	case current == nil && vault != nil:
		// A client the board has never seen: there is no owner value to
		// protect yet, so the document seeds the board-owned fields of
		// the new row (and of the board item about to be created).
		merged.Name = vault.Name
		merged.Abbreviation = vault.Abbreviation
		merged.Agency = vault.Agency
		merged.Services = append([]string(nil), vault.Services...)
		merged.PointOfContact = vault.PointOfContact
	case vault != nil && merged.Name == "":
		merged.Name = vault.Name
	}

	if vault != nil {
		if strings.TrimSpace(vault.Industry) != "" {
			merged.Industry = vault.Industry
		}
		if vault.WebsiteURL != "" {
			merged.WebsiteURL = vault.WebsiteURL
		}
		if vault.TargetAudience != "" {
			merged.TargetAudience = vault.TargetAudience
		}
		if vault.BrandVoice != "" {
			merged.BrandVoice = vault.BrandVoice
		}
		if len(vault.TopicKeywords) > 0 {
			merged.TopicKeywords = append([]string(nil), vault.TopicKeywords...)
		}
		if merged.BoardItemID == "" {
			merged.BoardItemID = vault.BoardItemID
		}
	}

	if board != nil {
		merged.BoardItemID = board.ItemID
	}

	if strings.TrimSpace(merged.Industry) == "" {
		merged.Industry = domain.DefaultIndustry
	}
	// The slug is computed once at creation and is immutable thereafter:
	// it is the cross-store join key, so a board rename updates the name
	// on the existing row instead of forking a second one.
	if current == nil || current.Slug == "" {
		merged.Slug = domain.Slugify(merged.Name)
	} else {
		merged.Slug = current.Slug
	}
	merged.Active = len(merged.Services) > 0

	return merged
}

func firstContact(contacts []domain.Contact) *domain.Contact {
	if len(contacts) == 0 {
		return nil
	}
	c := contacts[0]
	return &c
}
