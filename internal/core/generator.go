package core

import (
	"context"
	"fmt"

	"github.com/valter-silva-au/trello-sankey/pkg/models"
)

// Sentinel outputs for legitimate no-data conditions. An empty board is an
// expected state, not an error.
const (
	NoDataMessage  = "No job application data found."
	NoFlowsMessage = "No flows generated from the data."
)

// Observability event types emitted by the generator.
const (
	EventBoardFetched     = "board.fetched"
	EventHistoriesCleaned = "histories.cleaned"
	EventReportGenerated  = "report.generated"
)

// BoardFetcher is the remote data source for one board's lists, cards, and
// actions. Defined here so core does not import the integration package;
// integration.TrelloClient satisfies it.
type BoardFetcher interface {
	GetBoardLists(ctx context.Context, boardID string) ([]models.TrelloList, error)
	GetBoardCards(ctx context.Context, boardID string) ([]models.TrelloCard, error)
	GetBoardActions(ctx context.Context, boardID string) ([]models.TrelloAction, error)
}

// StagePreview shows how one board list resolves under the normalizer.
type StagePreview struct {
	ListName string `json:"list_name"`
	Stage    string `json:"stage"`
}

// Report is a fully generated SankeyMATIC report plus the flow accounting
// behind it. For the no-data sentinels, Output carries the sentinel string
// and Flows is empty.
type Report struct {
	Output     string            `json:"output"`
	Flows      []models.FlowData `json:"flows"`
	TotalCards int               `json:"total_cards"`
	Histories  int               `json:"histories"`
}

// SankeyGenerator turns one board's movement history into SankeyMATIC data.
type SankeyGenerator interface {
	// GenerateSankeyData returns the formatted report text for a board.
	GenerateSankeyData(ctx context.Context, boardID string) (string, error)
	// GenerateReport returns the report text along with the underlying flows.
	GenerateReport(ctx context.Context, boardID string) (*Report, error)
	// PreviewStages maps each of the board's list names to its canonical stage.
	PreviewStages(ctx context.Context, boardID string) ([]StagePreview, error)
}

// sankeyGenerator implements SankeyGenerator.
type sankeyGenerator struct {
	fetcher    BoardFetcher
	stages     models.StageConfig
	normalizer StageNormalizer
	cleaner    HistoryCleaner
	formatter  ReportFormatter
	events     EventLogger // nil disables event logging
}

// NewSankeyGenerator creates a SankeyGenerator over the given board fetcher
// and stage configuration. events may be nil.
func NewSankeyGenerator(fetcher BoardFetcher, stages models.StageConfig, events EventLogger) SankeyGenerator {
	normalizer := NewStageNormalizer(stages.Rules)
	return &sankeyGenerator{
		fetcher:    fetcher,
		stages:     stages,
		normalizer: normalizer,
		cleaner:    NewHistoryCleaner(stages, normalizer),
		formatter:  NewReportFormatter(stages),
		events:     events,
	}
}

// GenerateSankeyData implements SankeyGenerator.
func (g *sankeyGenerator) GenerateSankeyData(ctx context.Context, boardID string) (string, error) {
	report, err := g.GenerateReport(ctx, boardID)
	if err != nil {
		return "", err
	}
	return report.Output, nil
}

// GenerateReport implements SankeyGenerator. Generation either fully
// succeeds or returns an error; no partial report is ever produced.
func (g *sankeyGenerator) GenerateReport(ctx context.Context, boardID string) (*Report, error) {
	logs, err := g.buildCardLogs(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("generating sankey data: %w", err)
	}

	histories := g.cleaner.Clean(logs)
	g.logEvent(EventHistoriesCleaned, map[string]any{
		"board_id":  boardID,
		"histories": len(histories),
	})

	if len(histories) == 0 {
		return &Report{Output: NoDataMessage}, nil
	}

	graph := NewFlowGraph(g.stages.PipelineStages, g.stages.TerminalStages)
	for _, history := range histories {
		graph.AddJourney(history.Stages)
	}

	data := graph.ToSankeyData()
	if len(data.Flows) == 0 {
		return &Report{Output: NoFlowsMessage, TotalCards: data.TotalCards, Histories: len(histories)}, nil
	}

	report := &Report{
		Output:     g.formatter.Format(data),
		Flows:      data.Flows,
		TotalCards: data.TotalCards,
		Histories:  len(histories),
	}
	g.logEvent(EventReportGenerated, map[string]any{
		"board_id":    boardID,
		"total_cards": report.TotalCards,
		"flow_count":  len(report.Flows),
	})

	return report, nil
}

// PreviewStages implements SankeyGenerator.
func (g *sankeyGenerator) PreviewStages(ctx context.Context, boardID string) ([]StagePreview, error) {
	lists, err := g.fetcher.GetBoardLists(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("previewing stages: %w", err)
	}

	previews := make([]StagePreview, len(lists))
	for i, list := range lists {
		previews[i] = StagePreview{
			ListName: list.Name,
			Stage:    g.normalizer.Normalize(list.Name),
		}
	}
	return previews, nil
}

// buildCardLogs fetches board data and reconstructs each card's raw list
// name sequence in chronological order. Card order follows first
// observation so downstream output is deterministic.
func (g *sankeyGenerator) buildCardLogs(ctx context.Context, boardID string) ([]CardLog, error) {
	lists, err := g.fetcher.GetBoardLists(ctx, boardID)
	if err != nil {
		return nil, err
	}
	cards, err := g.fetcher.GetBoardCards(ctx, boardID)
	if err != nil {
		return nil, err
	}
	actions, err := g.fetcher.GetBoardActions(ctx, boardID)
	if err != nil {
		return nil, err
	}
	g.logEvent(EventBoardFetched, map[string]any{
		"board_id": boardID,
		"lists":    len(lists),
		"cards":    len(cards),
		"actions":  len(actions),
	})

	listNames := make(map[string]string, len(lists))
	for _, list := range lists {
		listNames[list.ID] = list.Name
	}
	nameOf := func(listID string) string {
		if name, ok := listNames[listID]; ok {
			return name
		}
		return models.UnknownStage
	}

	var order []string
	byCard := make(map[string][]string)

	// The actions endpoint returns newest-first; walk backwards for
	// chronological order.
	for i := len(actions) - 1; i >= 0; i-- {
		action := actions[i]
		cardID := action.Data.Card.ID

		switch action.Type {
		case models.ActionCreateCard:
			if action.Data.List == nil {
				continue
			}
			if _, seen := byCard[cardID]; !seen {
				order = append(order, cardID)
			}
			// Creation restarts the card's observed history.
			byCard[cardID] = []string{nameOf(action.Data.List.ID)}

		case models.ActionUpdateCard:
			// Moves lacking either end are malformed and ignored; moves for
			// cards whose creation was never observed are ignored too.
			if action.Data.ListBefore == nil || action.Data.ListAfter == nil {
				continue
			}
			if _, seen := byCard[cardID]; seen {
				byCard[cardID] = append(byCard[cardID], nameOf(action.Data.ListAfter.ID))
			}
		}
	}

	// Cards with no observed actions contribute their current list.
	for _, card := range cards {
		if _, seen := byCard[card.ID]; !seen {
			order = append(order, card.ID)
			byCard[card.ID] = []string{nameOf(card.ListID)}
		}
	}

	logs := make([]CardLog, 0, len(order))
	for _, cardID := range order {
		logs = append(logs, CardLog{CardID: cardID, Labels: byCard[cardID]})
	}
	return logs, nil
}

func (g *sankeyGenerator) logEvent(eventType string, data map[string]any) {
	if g.events == nil {
		return
	}
	_ = g.events.LogEvent(eventType, data) // Non-fatal: reporting never fails on observability.
}
