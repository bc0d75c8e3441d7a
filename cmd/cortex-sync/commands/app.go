package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/nativz/cortex-sync/internal/adapters/driven/board/monday"
	"github.com/nativz/cortex-sync/internal/adapters/driven/embedding/openai"
	"github.com/nativz/cortex-sync/internal/adapters/driven/storage/memory"
	"github.com/nativz/cortex-sync/internal/adapters/driven/storage/postgres"
	vaultgithub "github.com/nativz/cortex-sync/internal/adapters/driven/vault/github"
	"github.com/nativz/cortex-sync/internal/chunker"
	"github.com/nativz/cortex-sync/internal/config"
	"github.com/nativz/cortex-sync/internal/core/domain"
	"github.com/nativz/cortex-sync/internal/core/ports/driven"
	"github.com/nativz/cortex-sync/internal/core/services"
)

// app is the composition root: every command builds one and uses the
// services it needs.
type app struct {
	cfg config.Config
	log zerolog.Logger

	vault    driven.VaultStore        // nil when the vault is not configured
	board    driven.BoardClient       // nil when the board is not configured
	embedder driven.EmbeddingService  // nil runs full-text-only
	profiles driven.ProfileStore
	index    driven.IndexStore

	indexer      *services.IndexerService
	orchestrator *services.Orchestrator
	searcher     *services.Searcher

	closeStore func()
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := newLogger(cfg.LogLevel)
	a := &app{cfg: cfg, log: log, closeStore: func() {}}

	if devMode || cfg.DatabaseURL == "" {
		if !devMode {
			log.Warn().Msg("DATABASE_URL not set, falling back to in-memory stores")
		}
		a.profiles = memory.NewProfileStore()
		a.index = memory.NewIndexStore()
	} else {
		store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		a.profiles = store.ProfileStore()
		a.index = store.IndexStore()
		a.closeStore = store.Close
	}

	if cfg.Vault.Configured() {
		a.vault = vaultgithub.NewVault(ctx, cfg.Vault.Token, cfg.Vault.Owner(), cfg.Vault.Name(), cfg.Vault.Branch,
			vaultgithub.WithLogger(log.With().Str("component", "vault").Logger()))
	}

	if cfg.Board.Configured() {
		client := monday.NewClient(cfg.Board.Token,
			monday.WithAPIURL(cfg.Board.APIURL),
			monday.WithLogger(log.With().Str("component", "board").Logger()))
		a.board = monday.NewBoard(client, cfg.Board.BoardID, monday.ColumnMapping{
			Abbreviation: cfg.Board.AbbreviationColumn,
			Agency:       cfg.Board.AgencyColumn,
			Contact:      cfg.Board.ContactColumn,
			Services:     cfg.Board.ServiceColumns,
		}, log.With().Str("component", "board").Logger())
	}

	if cfg.OpenAIAPIKey != "" {
		embedder, err := openai.NewEmbeddingService(openai.Config{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.EmbeddingModel,
			Timeout:    cfg.EmbedTimeout,
			Dimensions: cfg.EmbeddingDimensions,
		})
		if err != nil {
			return nil, err
		}
		a.embedder = embedder
	} else {
		log.Info().Msg("no embedding API key, semantic search will fall back to full-text")
	}

	ch := chunker.New(
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithOverlap(cfg.ChunkOverlap),
	)
	a.indexer = services.NewIndexer(a.vault, a.index, a.embedder, ch,
		services.WithIndexRoots(cfg.Vault.Roots),
		services.WithIndexLogger(log.With().Str("component", "indexer").Logger()))
	a.orchestrator = services.NewOrchestrator(a.vault, a.board, a.profiles, a.indexer,
		log.With().Str("component", "sync").Logger())
	a.searcher = services.NewSearcher(a.index, a.embedder,
		log.With().Str("component", "search").Logger())

	return a, nil
}

func (a *app) close() {
	a.closeStore()
}

func (a *app) requireVault() error {
	if a.vault == nil {
		return fmt.Errorf("vault: %w: set VAULT_GITHUB_TOKEN and VAULT_GITHUB_REPO", domain.ErrNotConfigured)
	}
	return nil
}

func (a *app) requireBoard() error {
	if a.board == nil {
		return fmt.Errorf("board: %w: set BOARD_API_TOKEN and BOARD_CLIENTS_BOARD_ID", domain.ErrNotConfigured)
	}
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
