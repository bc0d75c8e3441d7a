package commands

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nativz/cortex-sync/internal/core/domain"
)

var (
	searchMode  string
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the indexed vault chunks",
	Long: `Searches the chunk index. Semantic mode is the default and
falls back to full-text when no embedding backend is configured; the
output reports which mode actually ran.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		response, err := a.searcher.Search(cmd.Context(), strings.Join(args, " "), domain.SearchOptions{
			Mode:  domain.SearchMode(searchMode),
			Limit: searchLimit,
		})
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(out))
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchMode, "mode", string(domain.SearchModeSemantic),
		"search mode: semantic or fts")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}
