package models

import "fmt"

// CardHistory is one card's cleaned journey through canonical stage names.
// Stages is never empty: cards without any usable movement data fall back to
// a single-element history containing the first pipeline stage.
type CardHistory struct {
	CardID string   `json:"card_id"`
	Stages []string `json:"stages"`
}

// FlowData is a directed, weighted transition between two stages.
// Count is always positive; zero-weight flows are never materialized.
type FlowData struct {
	FromStage string `json:"from_stage"`
	ToStage   string `json:"to_stage"`
	Count     int    `json:"count"`
}

// SankeyMATICFormat renders the flow as a SankeyMATIC data line.
func (f FlowData) SankeyMATICFormat() string {
	return fmt.Sprintf("%s [%d] %s", f.FromStage, f.Count, f.ToStage)
}

// SankeyData is the complete flow accounting for one board: every
// stage-to-stage flow plus the number of cards that contributed.
type SankeyData struct {
	Flows      []FlowData `json:"flows"`
	TotalCards int        `json:"total_cards"`
}
