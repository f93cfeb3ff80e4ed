// Package core contains the business logic for trello-sankey: stage name
// normalization, card history cleaning, flow graph construction, report
// formatting, and the generator that orchestrates them.
package core

import (
	"strings"

	"github.com/valter-silva-au/trello-sankey/pkg/models"
)

// StageNormalizer maps free-text Trello list names to canonical stage names.
type StageNormalizer interface {
	Normalize(label string) string
}

// keywordNormalizer implements StageNormalizer with an ordered keyword
// rule table.
type keywordNormalizer struct {
	rules []models.StageRule
}

// NewStageNormalizer creates a StageNormalizer using the given ordered rule
// table. Rules are checked in order and the first match wins.
func NewStageNormalizer(rules []models.StageRule) StageNormalizer {
	return &keywordNormalizer{rules: rules}
}

// Normalize resolves a raw list name to a canonical stage name. Empty input
// and the literal "Unknown" resolve to the Unknown marker; labels matching
// no rule pass through unchanged.
func (n *keywordNormalizer) Normalize(label string) string {
	if label == "" || label == models.UnknownStage {
		return models.UnknownStage
	}

	lower := strings.ToLower(label)

	// "Rejected by me" must win over the generic "reject" keyword, so it is
	// checked before the rule table.
	if strings.Contains(lower, "rejected by me") || strings.Contains(lower, "reject by me") {
		return "Rejected by me"
	}

	for _, rule := range n.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Stage
			}
		}
	}

	return label
}
