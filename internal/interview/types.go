package interview

// #region imports
import (
	"github.com/danielpatrickdp/triage-engine/internal/facts"
)

// #endregion

// #region stage

// Stage is the interview state machine position. The order is fixed;
// StageSummary is terminal.
type Stage string

const (
	StageGreeting   Stage = "greeting"
	StageConfirm    Stage = "chief_complaint_confirm"
	StageCore       Stage = "core"
	StageAssociated Stage = "associated"
	StageContext    Stage = "context"
	StageRedFlags   Stage = "red_flags"
	StageSummary    Stage = "summary"
)

// #endregion

// #region slot-defs

// SlotType selects the extraction used to fill a slot.
type SlotType string

const (
	SlotText     SlotType = "text"
	SlotNumber   SlotType = "number"
	SlotDuration SlotType = "duration_days"
	SlotTempF    SlotType = "temp_f"
	SlotYesNo    SlotType = "yesno"
	SlotChoice   SlotType = "choice"
)

// Choice is one recognized answer for a choice slot. Phrases are the
// surface forms; Symptom, when set, is the standardized token the answer
// contributes to the interview's symptom set.
type Choice struct {
	Value   string   `yaml:"value"`
	Phrases []string `yaml:"phrases"`
	Symptom string   `yaml:"symptom,omitempty"`
}

// SlotDef declares one slot in the interview's ordered list.
type SlotDef struct {
	ID       string   `yaml:"id"`
	Question string   `yaml:"question"`
	Stage    Stage    `yaml:"stage"`
	Type     SlotType `yaml:"type"`
	Choices  []Choice `yaml:"choices,omitempty"`
}

// #endregion

// #region red-flag-defs

// RedFlagDef declares a named boolean condition over filled slots.
type RedFlagDef struct {
	Name    string `yaml:"name"`
	Expr    string `yaml:"expr"`
	Tier    string `yaml:"tier"`
	Message string `yaml:"message"`
}

// ConditionDef names a provisional diagnosis and the standardized
// symptom subset that supports it.
type ConditionDef struct {
	Name     string   `yaml:"name"`
	Symptoms []string `yaml:"symptoms"`
	Base     int      `yaml:"base"`
	NextStep string   `yaml:"next_step,omitempty"`
}

// #endregion

// #region config

// Config is the declarative per-complaint interview document.
type Config struct {
	Complaint       string         `yaml:"complaint"`
	Greeting        string         `yaml:"greeting"`
	ConfirmQuestion string         `yaml:"confirm_question"`
	BaseSymptoms    []string       `yaml:"base_symptoms"`
	Slots           []SlotDef      `yaml:"slots"`
	RedFlags        []RedFlagDef   `yaml:"red_flags"`
	Conditions      []ConditionDef `yaml:"conditions"`
}

// compiledRedFlag pairs a declaration with its parsed expression tree.
// A nil tree means the expression failed to parse; such a flag always
// fires at yellow with the raw expression quoted, because silently
// dropping a safety net is worse than a visible false alarm.
type compiledRedFlag struct {
	def  RedFlagDef
	tier facts.Tier
	expr Expr
}

// CompiledConfig is a Config with its red-flag expressions parsed once.
type CompiledConfig struct {
	Config
	flags []compiledRedFlag
}

// #endregion

// #region state

// State is one interview instance's mutable record. Created per
// complaint; terminal at StageSummary. Revisiting the same complaint
// requires a new instance.
type State struct {
	Complaint     string            `json:"complaint"`
	Stage         Stage             `json:"stage"`
	Slots         map[string]string `json:"slots"`
	LastAskedSlot string            `json:"last_asked_slot,omitempty"`
	FiredRedFlags []string          `json:"fired_red_flags,omitempty"`
	Tier          facts.Tier        `json:"-"`
	Completed     bool              `json:"completed"`
	// Rejected means the user denied the chief-complaint confirmation.
	// The interview is terminal but established nothing: no slots, no
	// symptoms, no tier.
	Rejected bool `json:"rejected,omitempty"`
}

// #endregion

// #region result

// Reply is what one interview turn hands back to the caller.
type Reply struct {
	Text      string `json:"reply"`
	Done      bool   `json:"done"`
	Tier      string `json:"tier,omitempty"`
	TierColor string `json:"tier_color,omitempty"`
}

// Provisional is one scored provisional diagnosis in the summary.
type Provisional struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// #endregion
