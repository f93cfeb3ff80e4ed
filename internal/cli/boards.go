package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var boardsJSON bool

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List the authenticated member's Trello boards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireServices(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		boards, err := Client.GetMemberBoards(ctx)
		if err != nil {
			return fmt.Errorf("listing boards: %w", err)
		}

		if boardsJSON {
			data, err := json.MarshalIndent(boards, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting boards as JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if len(boards) == 0 {
			fmt.Println("No boards found.")
			return nil
		}

		fmt.Printf("%-26s %-40s %s\n", "ID", "NAME", "STATE")
		for _, b := range boards {
			state := "open"
			if b.Closed {
				state = "closed"
			}
			fmt.Printf("%-26s %-40s %s\n", b.ID, b.Name, state)
		}

		return nil
	},
}

func init() {
	boardsCmd.Flags().BoolVar(&boardsJSON, "json", false, "Output boards as JSON")
	rootCmd.AddCommand(boardsCmd)
}
