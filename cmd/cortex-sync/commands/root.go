// Package commands wires the CLI surface: serve, sync, index and
// search. Each command builds the dependency graph it needs from the
// environment configuration.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// devMode runs without Postgres, using in-memory stores. Useful for
// local smoke tests against a scratch vault.
var devMode bool

var rootCmd = &cobra.Command{
	Use:   "cortex-sync",
	Short: "cortex-sync - client knowledge sync and search engine",
	Long: `cortex-sync keeps three views of agency clients consistent:
the markdown vault on GitHub, the clients board on monday.com and the
relational system of record. It also maintains a chunked search index
over the vault with optional semantic embeddings.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false,
		"run without Postgres, using in-memory stores")
}
