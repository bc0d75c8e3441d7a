package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push <slug>",
	Short: "Push a client's board-owned fields back to its board item",
	Long: `Writes the system-of-record row's board-owned fields (name,
abbreviation, agency, services, point of contact) to the linked board
item. Use this to repair an item that was wiped or recreated by hand;
normal syncs always read from the board, never write to it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.requireBoard(); err != nil {
			return err
		}

		result, err := a.orchestrator.PushBoardItem(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pushCmd)
}
