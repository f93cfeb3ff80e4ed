package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

var stagesJSON bool

var stagesCmd = &cobra.Command{
	Use:   "stages <board-id>",
	Short: "Show how a board's lists map to canonical stages",
	Long: `Show the normalization result for every list on a board: which
pipeline or terminal stage each raw list name resolves to. Lists that match
no keyword rule pass through unchanged and are marked as unmapped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireServices(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		previews, err := Generator.PreviewStages(ctx, strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}

		if stagesJSON {
			data, err := json.MarshalIndent(previews, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting stages as JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if len(previews) == 0 {
			fmt.Println("No lists found on this board.")
			return nil
		}

		fmt.Printf("%-40s %s\n", "LIST", "STAGE")
		for _, p := range previews {
			stage := p.Stage
			if stage == p.ListName {
				stage += " (unmapped)"
			}
			fmt.Printf("%-40s %s\n", p.ListName, stage)
		}

		return nil
	},
}

func init() {
	stagesCmd.Flags().BoolVar(&stagesJSON, "json", false, "Output the stage mapping as JSON")
	rootCmd.AddCommand(stagesCmd)
}
