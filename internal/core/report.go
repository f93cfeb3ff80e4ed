package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/valter-silva-au/trello-sankey/pkg/models"
)

// ReportFormatter serializes flow data into SankeyMATIC input text.
type ReportFormatter interface {
	Format(data models.SankeyData) string
}

// sankeymaticFormatter implements ReportFormatter with a fixed vertical
// rank per stage taken from the stage configuration.
type sankeymaticFormatter struct {
	stages models.StageConfig
}

// NewReportFormatter creates a ReportFormatter using the rank table and
// color directives from the given stage configuration.
func NewReportFormatter(stages models.StageConfig) ReportFormatter {
	return &sankeymaticFormatter{stages: stages}
}

// Format renders one "<from> [<count>] <to>" line per flow, ordered by the
// configured vertical rank of the source then target stage (names break
// ties), followed by the static color directive trailer.
func (f *sankeymaticFormatter) Format(data models.SankeyData) string {
	flows := make([]models.FlowData, len(data.Flows))
	copy(flows, data.Flows)

	sort.SliceStable(flows, func(i, j int) bool {
		fi, fj := flows[i], flows[j]
		ri, rj := f.stages.Rank(fi.FromStage), f.stages.Rank(fj.FromStage)
		if ri != rj {
			return ri < rj
		}
		ti, tj := f.stages.Rank(fi.ToStage), f.stages.Rank(fj.ToStage)
		if ti != tj {
			return ti < tj
		}
		if fi.FromStage != fj.FromStage {
			return fi.FromStage < fj.FromStage
		}
		return fi.ToStage < fj.ToStage
	})

	lines := make([]string, 0, len(flows)+len(f.stages.Colors)+1)
	for _, flow := range flows {
		lines = append(lines, flow.SankeyMATICFormat())
	}

	lines = append(lines, "\n// Colors")
	for _, color := range f.stages.Colors {
		lines = append(lines, fmt.Sprintf(":%s %s", color.Stage, color.Color))
	}

	return strings.Join(lines, "\n")
}
