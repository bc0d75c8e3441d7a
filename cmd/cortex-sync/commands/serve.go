package commands

import (
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/nativz/cortex-sync/internal/adapters/driving/webhook"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	Long: `Starts the HTTP server that receives vault push webhooks and
board item webhooks, plus an optional cron schedule for periodic full
syncs (SYNC_SCHEDULE).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.requireVault(); err != nil {
			return err
		}

		var vaultHandler *webhook.VaultHandler
		var boardHandler *webhook.BoardHandler

		if a.cfg.Vault.WebhookSecret == "" {
			a.log.Warn().Msg("no vault webhook secret configured, signature verification disabled")
		}
		vaultHandler = webhook.NewVaultHandler(a.orchestrator, a.indexer,
			a.cfg.Vault.WebhookSecret, a.cfg.Vault.Branch,
			a.log.With().Str("component", "vault-webhook").Logger())

		if a.board != nil {
			boardHandler = webhook.NewBoardHandler(a.orchestrator, a.cfg.Board.BoardID,
				a.log.With().Str("component", "board-webhook").Logger())
		}

		if schedule := a.cfg.SyncSchedule; schedule != "" && a.board != nil {
			c := cron.New()
			_, err := c.AddFunc(schedule, func() {
				if _, err := a.orchestrator.SyncAll(ctx); err != nil {
					a.log.Error().Err(err).Msg("scheduled sync failed")
				}
			})
			if err != nil {
				return err
			}
			c.Start()
			defer func() { <-c.Stop().Done() }()
			a.log.Info().Str("schedule", schedule).Msg("periodic full sync enabled")
		}

		srv := webhook.NewServer(webhook.ServerConfig{
			Port:         a.cfg.Port,
			ReadTimeout:  a.cfg.ReadTimeout,
			WriteTimeout: a.cfg.WriteTimeout,
		}, vaultHandler, boardHandler, a.log)

		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
