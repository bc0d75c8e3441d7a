// Package config loads application configuration from environment
// variables. The Config struct is built once at process start and
// injected into every component; nothing reads the environment later.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default column IDs of the clients board. Column IDs are configuration,
// never inferred from item data.
const (
	defaultAbbreviationColumn = "text_mkt467rn"
	defaultAgencyColumn       = "color_mkrw743r"
	defaultContactColumn      = "long_text_mkxm4whr"
	defaultServiceColumns     = "SMM=color_mktsd6y7,Paid Media=color_mkwz9cwd,Affiliates=color_mktsmz4y,Editing=color_mkwqhwx"
)

// VaultConfig configures the Git-hosted document store.
type VaultConfig struct {
	Token         string
	Repo          string // "owner/repo"
	Branch        string
	WebhookSecret string // empty skips signature verification (dev mode)

	// Roots are the vault directories walked by a full index pass.
	// "" means the repository root (non-recursive, matching the
	// top-level dashboard files).
	Roots []string
}

// Owner returns the repository owner half of Repo.
func (v VaultConfig) Owner() string {
	owner, _, _ := strings.Cut(v.Repo, "/")
	return owner
}

// Name returns the repository name half of Repo.
func (v VaultConfig) Name() string {
	_, name, _ := strings.Cut(v.Repo, "/")
	return name
}

// Configured reports whether the vault client can be constructed.
func (v VaultConfig) Configured() bool {
	return v.Token != "" && strings.Contains(v.Repo, "/")
}

// BoardConfig configures the external project board.
type BoardConfig struct {
	Token   string
	APIURL  string
	BoardID string

	// Column-id mapping for the clients board.
	AbbreviationColumn string
	AgencyColumn       string
	ContactColumn      string

	// ServiceColumns maps service names to their Yes/No status columns.
	ServiceColumns map[string]string
}

// Configured reports whether the board client can be constructed.
func (b BoardConfig) Configured() bool {
	return b.Token != "" && b.BoardID != ""
}

// Config holds all application configuration.
type Config struct {
	Vault VaultConfig
	Board BoardConfig

	// System of record + chunk index.
	DatabaseURL string

	// Embedding backend; empty API key disables semantic indexing.
	OpenAIAPIKey        string
	EmbeddingModel      string
	EmbeddingDimensions int

	// Indexing.
	ChunkSize    int
	ChunkOverlap int

	// Webhook server.
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Outbound call budget for metadata fetches.
	RequestTimeout time.Duration
	// Outbound call budget for AI-backed calls.
	EmbedTimeout time.Duration

	// SyncSchedule is an optional cron spec for periodic full syncs in
	// serve mode. Empty disables the schedule.
	SyncSchedule string

	LogLevel string
}

// Load reads configuration from the environment, after merging in a
// .env file when one is present (dev convenience; missing file is not
// an error).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Vault: VaultConfig{
			Token:         envStr("VAULT_GITHUB_TOKEN", ""),
			Repo:          envStr("VAULT_GITHUB_REPO", ""),
			Branch:        envStr("VAULT_GITHUB_BRANCH", "main"),
			WebhookSecret: envStr("VAULT_WEBHOOK_SECRET", ""),
			Roots:         envList("VAULT_ROOTS", []string{"Clients", "Templates", ""}),
		},
		Board: BoardConfig{
			Token:              envStr("BOARD_API_TOKEN", ""),
			APIURL:             envStr("BOARD_API_URL", "https://api.monday.com/v2"),
			BoardID:            envStr("BOARD_CLIENTS_BOARD_ID", ""),
			AbbreviationColumn: envStr("BOARD_COLUMN_ABBREVIATION", defaultAbbreviationColumn),
			AgencyColumn:       envStr("BOARD_COLUMN_AGENCY", defaultAgencyColumn),
			ContactColumn:      envStr("BOARD_COLUMN_CONTACT", defaultContactColumn),
		},
		DatabaseURL:         envStr("DATABASE_URL", ""),
		OpenAIAPIKey:        envStr("OPENAI_API_KEY", ""),
		EmbeddingModel:      envStr("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimensions: envInt("EMBEDDING_DIMENSIONS", 1536),
		ChunkSize:           envInt("CHUNK_SIZE", 1000),
		ChunkOverlap:        envInt("CHUNK_OVERLAP", 200),
		Port:                envInt("PORT", 8080),
		ReadTimeout:         envDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:        envDuration("WRITE_TIMEOUT", 30*time.Second),
		RequestTimeout:      envDuration("REQUEST_TIMEOUT", 10*time.Second),
		EmbedTimeout:        envDuration("EMBED_TIMEOUT", 60*time.Second),
		SyncSchedule:        envStr("SYNC_SCHEDULE", ""),
		LogLevel:            envStr("LOG_LEVEL", "info"),
	}

	serviceColumns, err := parseServiceColumns(envStr("BOARD_COLUMN_SERVICES", defaultServiceColumns))
	if err != nil {
		return Config{}, err
	}
	cfg.Board.ServiceColumns = serviceColumns

	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return Config{}, fmt.Errorf("config: CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)",
			cfg.ChunkOverlap, cfg.ChunkSize)
	}

	return cfg, nil
}

// parseServiceColumns parses "Name=column_id,Name=column_id" pairs.
func parseServiceColumns(spec string) (map[string]string, error) {
	columns := make(map[string]string)
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, id, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("config: invalid service column mapping %q", pair)
		}
		columns[strings.TrimSpace(name)] = strings.TrimSpace(id)
	}
	return columns, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
