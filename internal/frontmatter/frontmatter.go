// Package frontmatter parses and serializes vault markdown documents:
// a constrained `---` header block of typed fields followed by a
// markdown body, plus helpers for extracting `## ` sections.
//
// Parsing is tolerant by contract - malformed or absent frontmatter
// yields an empty header and the whole input as body, never an error.
package frontmatter

import (
	"regexp"
	"strings"
)

// Document is a parsed vault file: typed header fields plus body.
type Document struct {
	Header *Header
	Body   string
}

// Header holds frontmatter fields in insertion order so that
// serialization is deterministic and byte-stable.
type Header struct {
	keys   []string
	values map[string]any // string, bool or []string
}

// NewHeader creates an empty header.
func NewHeader() *Header {
	return &Header{values: make(map[string]any)}
}

// Set stores a field, preserving first-insertion order.
func (h *Header) Set(key string, value any) {
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = value
}

// Keys returns field names in insertion order.
func (h *Header) Keys() []string {
	return h.keys
}

// Len returns the number of fields.
func (h *Header) Len() int {
	return len(h.keys)
}

// String returns a scalar field, or "" when absent or not a string.
func (h *Header) String(key string) string {
	s, _ := h.values[key].(string)
	return s
}

// Bool returns a boolean field, false when absent or not a bool.
func (h *Header) Bool(key string) bool {
	b, _ := h.values[key].(bool)
	return b
}

// List returns a string-list field, nil when absent or not a list.
func (h *Header) List(key string) []string {
	l, _ := h.values[key].([]string)
	return l
}

// Get returns the raw value of a field.
func (h *Header) Get(key string) (any, bool) {
	v, ok := h.values[key]
	return v, ok
}

var (
	keyValueRe = regexp.MustCompile(`^([A-Za-z0-9_][A-Za-z0-9_-]*):\s*(.*)$`)
	listItemRe = regexp.MustCompile(`^\s+-\s*(.*)$`)
)

// Parse splits raw content into header and body. Input without a
// leading `---` block, or with an unterminated one, is returned whole
// as the body with an empty header.
func Parse(raw string) Document {
	doc := Document{Header: NewHeader(), Body: raw}

	if !strings.HasPrefix(raw, "---\n") {
		return doc
	}
	rest := raw[len("---\n"):]

	end := strings.Index(rest, "\n---")
	if end < 0 {
		return doc
	}
	block := rest[:end]
	body := rest[end+len("\n---"):]
	// The closing fence may end the file or be followed by a newline
	// that belongs to the fence, not the body.
	body = strings.TrimPrefix(body, "\n")

	doc.Body = body
	parseBlock(doc.Header, block)
	return doc
}

// parseBlock fills the header from the fence contents. Unrecognized
// lines are skipped; a bare `key:` opens an indented `- item` list.
func parseBlock(h *Header, block string) {
	var listKey string
	var list []string

	flush := func() {
		if listKey != "" {
			h.Set(listKey, list)
			listKey, list = "", nil
		}
	}

	for _, line := range strings.Split(block, "\n") {
		if m := keyValueRe.FindStringSubmatch(line); m != nil {
			flush()
			key, val := m[1], strings.TrimSpace(m[2])
			switch val {
			case "":
				listKey, list = key, []string{}
			case "true":
				h.Set(key, true)
			case "false":
				h.Set(key, false)
			default:
				h.Set(key, unquote(val))
			}
			continue
		}
		if listKey != "" {
			if m := listItemRe.FindStringSubmatch(line); m != nil {
				list = append(list, unquote(strings.TrimSpace(m[1])))
			}
		}
	}
	flush()
}

// Serialize renders the document back to vault format. A document with
// no header fields serializes to its body alone. Output is byte-stable
// for identical input, so no-op syncs produce no spurious commits.
func Serialize(doc Document) string {
	if doc.Header == nil || doc.Header.Len() == 0 {
		return doc.Body
	}

	var b strings.Builder
	b.WriteString("---\n")
	for _, key := range doc.Header.Keys() {
		v, _ := doc.Header.Get(key)
		switch val := v.(type) {
		case bool:
			if val {
				b.WriteString(key + ": true\n")
			} else {
				b.WriteString(key + ": false\n")
			}
		case []string:
			b.WriteString(key + ":\n")
			for _, item := range val {
				b.WriteString("  - " + quote(item) + "\n")
			}
		case string:
			b.WriteString(key + ": " + quote(val) + "\n")
		}
	}
	b.WriteString("---\n")
	b.WriteString(doc.Body)
	return b.String()
}

// unquote strips one layer of surrounding quotes, matching the
// tolerant grammar: a single leading and/or trailing quote character
// is removed independently.
func unquote(s string) string {
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}

// quote wraps a scalar in double quotes for serialization.
func quote(s string) string {
	return `"` + s + `"`
}

// Section returns the text between a `## <Heading>` line and the next
// `## ` line or end of document, trimmed. Heading match is
// case-insensitive. Returns "" when the section is absent.
func Section(body, heading string) string {
	lines := strings.Split(body, "\n")
	want := strings.ToLower(heading)

	start := -1
	for i, line := range lines {
		rest, ok := strings.CutPrefix(line, "## ")
		if !ok {
			continue
		}
		if strings.ToLower(strings.TrimSpace(rest)) == want {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "## ") {
			end = i
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}

// ListItems returns the bullet items of a section: lines starting
// `- ` with the bullet stripped and trimmed.
func ListItems(body, heading string) []string {
	section := Section(body, heading)
	if section == "" {
		return nil
	}

	var items []string
	for _, line := range strings.Split(section, "\n") {
		if rest, ok := strings.CutPrefix(line, "- "); ok {
			items = append(items, strings.TrimSpace(rest))
		}
	}
	return items
}
