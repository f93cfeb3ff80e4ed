package core

import (
	"strings"

	"github.com/valter-silva-au/trello-sankey/pkg/models"
)

// CardLog is one card's raw, chronological sequence of observed list names,
// before normalization and cleaning.
type CardLog struct {
	CardID string
	Labels []string
}

// HistoryCleaner turns raw card movement logs into monotonic cleaned
// histories over canonical stage names.
type HistoryCleaner interface {
	Clean(logs []CardLog) []models.CardHistory
}

// historyCleaner implements HistoryCleaner against a stage configuration.
type historyCleaner struct {
	stages     models.StageConfig
	normalizer StageNormalizer
}

// NewHistoryCleaner creates a HistoryCleaner for the given stage vocabulary.
func NewHistoryCleaner(stages models.StageConfig, normalizer StageNormalizer) HistoryCleaner {
	return &historyCleaner{stages: stages, normalizer: normalizer}
}

// Clean produces one CardHistory per input log, in input order. Backward
// pipeline movements are dropped (the most advanced observation is treated
// as ground truth), skipped pipeline stages are filled in, terminal stages
// absorb everything after them, and unknown labels are discarded. A log
// that yields nothing usable falls back to the first pipeline stage.
func (c *historyCleaner) Clean(logs []CardLog) []models.CardHistory {
	histories := make([]models.CardHistory, 0, len(logs))
	for _, log := range logs {
		histories = append(histories, models.CardHistory{
			CardID: log.CardID,
			Stages: c.cleanOne(log.Labels),
		})
	}
	return histories
}

func (c *historyCleaner) cleanOne(labels []string) []string {
	var stages []string
	maxPipelineIndex := -1

	for _, label := range labels {
		normalized := c.normalizer.Normalize(label)

		// Terminal stages are absorbing: append and stop, whatever follows
		// in the raw log is board hygiene.
		if c.stages.IsTerminal(normalized) {
			stages = append(stages, normalized)
			break
		}

		if idx, ok := c.stages.PipelineIndex(normalized); ok {
			if idx < maxPipelineIndex {
				// Backward movement, drop it.
				continue
			}

			// Fill stages the raw log skipped over.
			if maxPipelineIndex != -1 && idx > maxPipelineIndex+1 {
				for missing := maxPipelineIndex + 1; missing < idx; missing++ {
					stages = append(stages, c.stages.PipelineStages[missing])
				}
			}

			maxPipelineIndex = idx
			if len(stages) == 0 || stages[len(stages)-1] != normalized {
				stages = append(stages, normalized)
			}
			continue
		}

		// Unknown and unmapped labels never enter a history.
		if strings.Contains(normalized, models.UnknownStage) {
			continue
		}
	}

	if len(stages) == 0 {
		stages = []string{c.stages.FirstStage()}
	}

	return stages
}
