package domain

// SearchMode selects the requested search strategy.
type SearchMode string

const (
	// SearchModeFullText matches query tokens against chunk text.
	SearchModeFullText SearchMode = "fts"

	// SearchModeSemantic ranks chunks by embedding similarity. This is
	// the default and degrades to full-text when no embedding backend
	// is configured.
	SearchModeSemantic SearchMode = "semantic"
)

// Mode-used values reported in responses. The response reports the mode
// that actually executed, not the one requested.
const (
	ModeUsedFullText = "full-text"
	ModeUsedSemantic = "semantic"
	ModeUsedFallback = "full-text-fallback"
)

// SearchOptions configure a search request.
type SearchOptions struct {
	// Limit caps the number of results (default 10).
	Limit int

	// Mode is the requested strategy (default semantic).
	Mode SearchMode
}

// SearchHit is one matched chunk.
type SearchHit struct {
	Path      string  `json:"path"`
	ChunkText string  `json:"chunk_text"`
	Score     float64 `json:"score"`
}

// SearchResponse carries the executed mode and ranked hits.
type SearchResponse struct {
	ModeUsed string      `json:"mode_used"`
	Results  []SearchHit `json:"results"`
}
