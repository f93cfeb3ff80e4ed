package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/valter-silva-au/trello-sankey/internal/observability"
	"github.com/valter-silva-au/trello-sankey/pkg/models"
)

var (
	generateOutput string
	generateJSON   bool
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var generateCmd = &cobra.Command{
	Use:   "generate [board-id]",
	Short: "Generate SankeyMATIC flow data for a Trello board",
	Long: `Generate SankeyMATIC format data from a Trello job board's card
movement history.

If no board ID is given, the authenticated member's boards are fetched and
presented as an interactive picker.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireServices(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var boardID string
		if len(args) > 0 {
			boardID = strings.TrimSpace(args[0])
		}
		if boardID == "" {
			picked, err := pickBoard(ctx)
			if err != nil {
				return err
			}
			boardID = picked
		}

		report, err := Generator.GenerateReport(ctx, boardID)
		if err != nil {
			logRunFailed(boardID, err)
			return err
		}

		if generateJSON {
			data, err := json.MarshalIndent(models.SankeyData{
				Flows:      report.Flows,
				TotalCards: report.TotalCards,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting report as JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if generateOutput != "" {
			if err := os.WriteFile(generateOutput, []byte(report.Output+"\n"), 0o644); err != nil {
				return fmt.Errorf("writing report to %s: %w", generateOutput, err)
			}
			fmt.Printf("Report written to %s\n", generateOutput)
			return nil
		}

		if stdoutIsTerminal() {
			fmt.Println(bannerStyle.Render(" SankeyMATIC Format Data "))
			fmt.Println()
			fmt.Println(report.Output)
			fmt.Println()
			fmt.Println(hintStyle.Render("Copy the above data to sankeymatic.com"))
			return nil
		}

		fmt.Println(report.Output)
		return nil
	},
}

// logRunFailed records a failed generation run. Best-effort: observability
// never masks the original error.
func logRunFailed(boardID string, runErr error) {
	if EventLog == nil {
		return
	}
	_ = EventLog.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   "ERROR",
		Type:    "run.failed",
		Message: runErr.Error(),
		Data:    map[string]any{"board_id": boardID},
	})
}

// stdoutIsTerminal reports whether stdout is attached to a terminal.
func stdoutIsTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Write the report to a file instead of stdout")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Output the raw flows as JSON")
	rootCmd.AddCommand(generateCmd)
}
