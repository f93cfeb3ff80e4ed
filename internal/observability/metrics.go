package observability

import (
	"fmt"
	"time"
)

// Metrics aggregates generation-run activity derived from the event log.
type Metrics struct {
	BoardsFetched   int            `json:"boards_fetched"`
	ReportsGen      int            `json:"reports_generated"`
	RunsFailed      int            `json:"runs_failed"`
	CardsProcessed  int            `json:"cards_processed"`
	FlowsGenerated  int            `json:"flows_generated"`
	RunsByBoard     map[string]int `json:"runs_by_board"`
	EventCount      int            `json:"event_count"`
	OldestEvent     *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent     *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator that reads from the
// given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{RunsByBoard: make(map[string]int)}
	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case "board.fetched":
			m.BoardsFetched++
			if boardID, ok := event.Data["board_id"].(string); ok {
				m.RunsByBoard[boardID]++
			}
		case "report.generated":
			m.ReportsGen++
			m.CardsProcessed += intField(event.Data, "total_cards")
			m.FlowsGenerated += intField(event.Data, "flow_count")
		case "run.failed":
			m.RunsFailed++
		}
	}

	return m, nil
}

// intField reads an integer out of decoded event data. JSON decoding turns
// numbers into float64, so both representations are accepted.
func intField(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
