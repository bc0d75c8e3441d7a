package frontmatter

import (
	"regexp"
	"strings"

	"github.com/nativz/cortex-sync/internal/core/domain"
)

// DocTypeProfile is the frontmatter type tag of client profile documents.
const DocTypeProfile = "client-profile"

var (
	websiteRe = regexp.MustCompile(`\*\*Website:\*\*\s*(https?://\S+)`)
	contactRe = regexp.MustCompile(`-\s*(.+?)\s*<(.+?)>`)
)

// ParseProfile parses a vault `_profile.md` document into a client
// profile. The second return value is false when the document is not a
// profile (wrong type tag or no client name).
func ParseProfile(markdown string) (*domain.ClientProfile, bool) {
	doc := Parse(markdown)
	if doc.Header.String("type") != DocTypeProfile {
		return nil, false
	}
	name := doc.Header.String("client")
	if name == "" {
		return nil, false
	}

	industry := doc.Header.String("industry")
	if industry == "" || industry == "null" {
		industry = domain.DefaultIndustry
	}

	website := doc.Header.String("website")
	if website == "" {
		if m := websiteRe.FindStringSubmatch(doc.Body); m != nil {
			website = m[1]
		}
	}

	services := doc.Header.List("services")
	if services == nil {
		services = ListItems(doc.Body, "Services")
	}

	return &domain.ClientProfile{
		Name:           name,
		Slug:           domain.Slugify(name),
		Industry:       industry,
		WebsiteURL:     website,
		TargetAudience: Section(doc.Body, "Target audience"),
		BrandVoice:     Section(doc.Body, "Brand voice"),
		TopicKeywords:  ListItems(doc.Body, "Topic keywords"),
		Services:       services,
		Agency:         doc.Header.String("agency"),
		Abbreviation:   doc.Header.String("abbreviation"),
		PointOfContact: parseContact(doc.Body),
		BoardItemID:    doc.Header.String("board_item_id"),
	}, true
}

// parseContact reads the first `- Name <email>` bullet under the
// Point of contact section.
func parseContact(body string) *domain.Contact {
	section := Section(body, "Point of contact")
	if section == "" {
		return nil
	}
	m := contactRe.FindStringSubmatch(section)
	if m == nil {
		return nil
	}
	return &domain.Contact{Name: strings.TrimSpace(m[1]), Email: strings.TrimSpace(m[2])}
}

// RenderProfile renders a client profile to its canonical `_profile.md`
// form. Rendering the same profile twice yields identical bytes, which
// lets the orchestrator skip no-op vault writes entirely.
func RenderProfile(p domain.ClientProfile) string {
	h := NewHeader()
	h.Set("type", DocTypeProfile)
	h.Set("client", p.Name)
	if p.Abbreviation != "" {
		h.Set("abbreviation", p.Abbreviation)
	}
	if p.Industry != "" {
		h.Set("industry", p.Industry)
	}
	if p.Agency != "" {
		h.Set("agency", p.Agency)
	}
	if p.WebsiteURL != "" {
		h.Set("website", p.WebsiteURL)
	}
	if len(p.Services) > 0 {
		h.Set("services", p.Services)
	}
	if p.BoardItemID != "" {
		h.Set("board_item_id", p.BoardItemID)
	}

	var b strings.Builder
	b.WriteString("\n# " + p.Name + "\n")

	if q := profileQuoteLine(p); q != "" {
		b.WriteString("\n> " + q + "\n")
	}
	if p.WebsiteURL != "" {
		b.WriteString("\n**Website:** " + p.WebsiteURL + "\n")
	}

	if len(p.Services) > 0 {
		b.WriteString("\n## Services\n")
		for _, s := range p.Services {
			b.WriteString("- " + s + "\n")
		}
	}
	if p.PointOfContact != nil {
		b.WriteString("\n## Point of contact\n")
		b.WriteString("- " + p.PointOfContact.Name + " <" + p.PointOfContact.Email + ">\n")
	}

	// Vault-owned sections are always present so operators have a place
	// to write, even when currently empty.
	b.WriteString("\n## Target audience\n")
	if p.TargetAudience != "" {
		b.WriteString("\n" + p.TargetAudience + "\n")
	}
	b.WriteString("\n## Brand voice\n")
	if p.BrandVoice != "" {
		b.WriteString("\n" + p.BrandVoice + "\n")
	}
	b.WriteString("\n## Topic keywords\n")
	if len(p.TopicKeywords) > 0 {
		b.WriteString("\n")
		for _, kw := range p.TopicKeywords {
			b.WriteString("- " + kw + "\n")
		}
	}

	return Serialize(Document{Header: h, Body: b.String()})
}

func profileQuoteLine(p domain.ClientProfile) string {
	parts := make([]string, 0, 2)
	if p.Abbreviation != "" {
		parts = append(parts, p.Abbreviation)
	}
	if p.Agency != "" {
		parts = append(parts, p.Agency)
	}
	return strings.Join(parts, " | ")
}
