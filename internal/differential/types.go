package differential

// #region imports
import (
	"github.com/danielpatrickdp/triage-engine/internal/facts"
	"github.com/danielpatrickdp/triage-engine/internal/interview"
)

// #endregion

// #region inputs

// CompletedInterview is the standardized extract of one finished
// structured interview.
type CompletedInterview struct {
	Complaint string   `json:"complaint"`
	Symptoms  []string `json:"symptoms"`
	RedFlags  []string `json:"red_flags,omitempty"`
}

// FromInterview snapshots a finished interview for synthesis.
func FromInterview(iv *interview.Interview) CompletedInterview {
	return CompletedInterview{
		Complaint: iv.Complaint(),
		Symptoms:  iv.Symptoms(),
		RedFlags:  iv.RedFlags(),
	}
}

// Demographics carry the patient context used for score modifiers.
type Demographics struct {
	AgeGroup    string   `json:"age_group,omitempty"` // child, adult_18_39, adult_40_64, older_65_plus
	Gender      string   `json:"gender,omitempty"`    // male, female, empty = unknown
	RiskFactors []string `json:"risk_factors,omitempty"`
}

// #endregion

// #region outputs

// Diagnosis is one ranked differential entry. Probability is capped at
// 99: the synthesizer never asserts certainty.
type Diagnosis struct {
	Name          string `json:"name"`
	Probability   int    `json:"probability"`
	Reasoning     string `json:"reasoning"`
	Priority      string `json:"priority"`
	PriorityBadge string `json:"priority_badge"`
	NextStep      string `json:"next_step"`
}

// Result is the full synthesis output.
type Result struct {
	Diagnoses []Diagnosis `json:"diagnoses"`
	Findings  []string    `json:"interconnected_findings,omitempty"`
}

// #endregion

// #region knowledge

// conditionEntry is one row of the fixed cross-complaint knowledge table.
type conditionEntry struct {
	Name           string
	Required       []string
	Supporting     []string
	RedFlags       []string
	Base           float64
	AgeModifiers   map[string]float64
	GenderRestrict string // only this gender scores; empty = no restriction
	RiskModifiers  map[string]float64
	Tier           facts.Tier
	NextStep       string
}

// #endregion
