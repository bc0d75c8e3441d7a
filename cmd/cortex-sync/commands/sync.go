package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one full sync pass over every board item",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.requireVault(); err != nil {
			return err
		}
		if err := a.requireBoard(); err != nil {
			return err
		}

		summary, err := a.orchestrator.SyncAll(cmd.Context())
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
