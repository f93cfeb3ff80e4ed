package models

// GlobalConfig holds Trello API credentials and connection settings, read
// from the .trellosankey config file via Viper with environment overrides.
type GlobalConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	Token   string `yaml:"token" mapstructure:"token"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// StageRule maps a set of case-insensitive keywords to a canonical stage
// name. Rules are evaluated in order; the first matching rule wins.
type StageRule struct {
	Keywords []string `yaml:"keywords"`
	Stage    string   `yaml:"stage"`
}

// StageColor is a SankeyMATIC per-stage color directive.
type StageColor struct {
	Stage string `yaml:"stage"`
	Color string `yaml:"color"`
}

// Reserved stage names. WaitingStage is the synthetic sink for cards that
// have not reached a terminal stage; UnknownStage marks labels the
// normalizer could not resolve and is never added to a history.
const (
	WaitingStage = "Waiting"
	UnknownStage = "Unknown"
)

// StageConfig describes the board vocabulary: the ordered pipeline stages,
// the terminal outcome stages, the keyword rules the normalizer applies,
// and the presentation order and colors the report formatter uses. It is
// loaded from an optional stages.yaml, falling back to DefaultStageConfig.
type StageConfig struct {
	PipelineStages []string       `yaml:"pipeline_stages"`
	TerminalStages []string       `yaml:"terminal_stages"`
	Rules          []StageRule    `yaml:"rules"`
	Ranks          map[string]int `yaml:"ranks"`
	FallbackRank   int            `yaml:"fallback_rank"`
	Colors         []StageColor   `yaml:"colors"`
}

// DefaultStageConfig returns the job-board stage vocabulary the original
// tool was built around.
func DefaultStageConfig() StageConfig {
	return StageConfig{
		PipelineStages: []string{
			"Applications",
			"Screening",
			"Technical assessment",
			"Final rounds",
			"Offers",
		},
		TerminalStages: []string{"Accepted", "Rejected", "Rejected by me", "Discriminated"},
		Rules: []StageRule{
			{Keywords: []string{"apply", "application", "sent"}, Stage: "Applications"},
			{Keywords: []string{"screen", "contact"}, Stage: "Screening"},
			{Keywords: []string{"technical", "assessment"}, Stage: "Technical assessment"},
			{Keywords: []string{"final", "rounds"}, Stage: "Final rounds"},
			{Keywords: []string{"offer", "negotiation"}, Stage: "Offers"},
			{Keywords: []string{"accept"}, Stage: "Accepted"},
			{Keywords: []string{"reject"}, Stage: "Rejected"},
		},
		Ranks: map[string]int{
			"Rejected":             0,
			"Rejected by me":       1,
			"Discriminated":        2,
			"Applications":         3,
			"Screening":            4,
			"Technical assessment": 5,
			"Final rounds":         6,
			"Offers":               7,
			"Accepted":             8,
			WaitingStage:           9,
		},
		FallbackRank: 99,
		Colors: []StageColor{
			{Stage: "Rejected", Color: "#ff4d4d"},
			{Stage: "Rejected by me", Color: "#ff4d4d"},
			{Stage: "Discriminated", Color: "#ff4d4d"},
			{Stage: WaitingStage, Color: "#cccccc"},
			{Stage: "Accepted", Color: "#4CAF50"},
		},
	}
}

// PipelineIndex returns the position of name in the pipeline order, or
// (-1, false) if name is not a pipeline stage.
func (c StageConfig) PipelineIndex(name string) (int, bool) {
	for i, stage := range c.PipelineStages {
		if stage == name {
			return i, true
		}
	}
	return -1, false
}

// IsTerminal reports whether name is a terminal outcome stage.
func (c StageConfig) IsTerminal(name string) bool {
	for _, stage := range c.TerminalStages {
		if stage == name {
			return true
		}
	}
	return false
}

// FirstStage returns the first pipeline stage, the fallback for cards with
// no usable movement data. Empty if no pipeline stages are configured.
func (c StageConfig) FirstStage() string {
	if len(c.PipelineStages) == 0 {
		return ""
	}
	return c.PipelineStages[0]
}

// Rank returns the vertical display rank for a stage name, or the fallback
// rank for stages outside the configured vocabulary.
func (c StageConfig) Rank(name string) int {
	if rank, ok := c.Ranks[name]; ok {
		return rank
	}
	return c.FallbackRank
}
