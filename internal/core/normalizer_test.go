package core

import (
	"testing"

	"github.com/valter-silva-au/trello-sankey/pkg/models"
)

func TestNormalize(t *testing.T) {
	n := NewStageNormalizer(models.DefaultStageConfig().Rules)

	tests := []struct {
		name  string
		label string
		want  string
	}{
		{"to apply", "To Apply", "Applications"},
		{"application sent", "Application sent", "Applications"},
		{"bare apply", "Apply", "Applications"},
		{"screening", "Screening", "Screening"},
		{"phone screen", "Phone Screen", "Screening"},
		{"initial contact", "Initial Contact", "Screening"},
		{"technical assessment", "Technical Assessment", "Technical assessment"},
		{"technical interview", "Technical Interview", "Technical assessment"},
		{"assessment round", "Assessment Round", "Technical assessment"},
		{"final rounds", "Final Rounds", "Final rounds"},
		{"final interview", "Final Interview", "Final rounds"},
		{"panel rounds", "Panel Rounds", "Final rounds"},
		{"offer", "Offer", "Offers"},
		{"offer negotiation", "Offer Negotiation", "Offers"},
		{"offer stage", "Offer Stage", "Offers"},
		{"rejected by me", "Rejected by me", "Rejected by me"},
		{"reject by me", "Reject by me", "Rejected by me"},
		{"rejected by me beats reject rule", "REJECTED BY ME", "Rejected by me"},
		{"rejected", "Rejected", "Rejected"},
		{"rejection", "Rejection", "Rejected"},
		{"accepted", "Accepted", "Accepted"},
		{"accept", "Accept", "Accepted"},
		{"empty label", "", "Unknown"},
		{"unknown sentinel", "Unknown", "Unknown"},
		{"unmapped passes through", "Random Stage", "Random Stage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.label); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestNormalizeRuleOrder(t *testing.T) {
	// First matching rule wins: a label containing both "sent" and "screen"
	// keywords resolves via the earlier rule.
	n := NewStageNormalizer([]models.StageRule{
		{Keywords: []string{"sent"}, Stage: "Applications"},
		{Keywords: []string{"screen"}, Stage: "Screening"},
	})

	if got := n.Normalize("Sent to screening"); got != "Applications" {
		t.Errorf("Normalize(%q) = %q, want Applications", "Sent to screening", got)
	}
}

func TestNormalizeEmptyRules(t *testing.T) {
	n := NewStageNormalizer(nil)

	if got := n.Normalize("Anything"); got != "Anything" {
		t.Errorf("Normalize with no rules = %q, want pass-through", got)
	}
	if got := n.Normalize(""); got != models.UnknownStage {
		t.Errorf("Normalize(\"\") = %q, want %q", got, models.UnknownStage)
	}
}
