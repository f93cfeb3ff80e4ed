package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/valter-silva-au/trello-sankey/pkg/models"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62")).
				MarginBottom(1)

	pickerCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Bold(true)
	pickerDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	pickerHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// pickBoard fetches the member's boards and lets the user choose one.
// On a terminal this is an interactive list; otherwise a plain numbered
// prompt. Closed boards are filtered out.
func pickBoard(ctx context.Context) (string, error) {
	if err := requireServices(); err != nil {
		return "", err
	}

	allBoards, err := Client.GetMemberBoards(ctx)
	if err != nil {
		return "", fmt.Errorf("listing boards: %w", err)
	}

	var boards []models.TrelloBoard
	for _, b := range allBoards {
		if !b.Closed {
			boards = append(boards, b)
		}
	}

	if len(boards) == 0 {
		return "", fmt.Errorf("no open boards found for this account")
	}

	if !stdoutIsTerminal() {
		return promptBoard(boards)
	}

	model := newBoardPickerModel(boards)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", fmt.Errorf("running board picker: %w", err)
	}

	picked := final.(boardPickerModel)
	if picked.cancelled {
		return "", fmt.Errorf("cancelled")
	}
	return picked.boards[picked.cursor].ID, nil
}

// promptBoard is the non-interactive fallback: a numbered list on stdout
// and a selection read from stdin.
func promptBoard(boards []models.TrelloBoard) (string, error) {
	fmt.Println("\nYour boards:")
	fmt.Println()
	for i, b := range boards {
		fmt.Printf("  %-4d %-40s %s\n", i+1, b.Name, b.ID)
	}
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("Select board [1-%d] (or 'q' to cancel): ", len(boards))
		input, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "q" || input == "Q" {
			return "", fmt.Errorf("cancelled")
		}

		num, err := strconv.Atoi(input)
		if err != nil || num < 1 || num > len(boards) {
			fmt.Printf("  Invalid selection. Enter a number between 1 and %d.\n", len(boards))
			continue
		}

		return boards[num-1].ID, nil
	}
}

type boardPickerModel struct {
	boards    []models.TrelloBoard
	cursor    int
	cancelled bool
}

func newBoardPickerModel(boards []models.TrelloBoard) boardPickerModel {
	return boardPickerModel{boards: boards}
}

func (m boardPickerModel) Init() tea.Cmd {
	return nil
}

func (m boardPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.boards)-1 {
				m.cursor++
			}
		case "enter":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m boardPickerModel) View() string {
	var b strings.Builder

	b.WriteString(pickerTitleStyle.Render("Select a board"))
	b.WriteString("\n")

	for i, board := range m.boards {
		line := fmt.Sprintf("%-40s %s", board.Name, pickerDimStyle.Render(board.ID))
		if i == m.cursor {
			b.WriteString(pickerCursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(pickerHelpStyle.Render("up/down: move | enter: select | q: cancel"))
	b.WriteString("\n")

	return b.String()
}
