package facts

// #region onset

// Onset describes how a complaint began.
type Onset string

const (
	OnsetUnset   Onset = ""
	OnsetSudden  Onset = "sudden"
	OnsetGradual Onset = "gradual"
)

// #endregion

// #region pattern

// Pattern describes whether a symptom is continuous or episodic.
type Pattern string

const (
	PatternUnset        Pattern = ""
	PatternConstant     Pattern = "constant"
	PatternIntermittent Pattern = "intermittent"
)

// #endregion

// #region tier

// Tier is the urgency level attached to a triage verdict.
// Ordering matters: higher values always outrank lower ones.
type Tier int

const (
	TierNone Tier = iota
	TierMild
	TierModerate
	TierHigh
	TierEmergency
)

// String returns the tier name used in rule tables and replies.
func (t Tier) String() string {
	switch t {
	case TierEmergency:
		return "emergency"
	case TierHigh:
		return "urgent"
	case TierModerate:
		return "moderate"
	case TierMild:
		return "mild"
	default:
		return "none"
	}
}

// Color returns the four-level badge exposed to callers.
func (t Tier) Color() string {
	switch t {
	case TierEmergency:
		return "red"
	case TierHigh:
		return "orange"
	case TierModerate:
		return "yellow"
	case TierMild:
		return "green"
	default:
		return "green"
	}
}

// ParseTier maps rule-table urgency strings onto a Tier.
// Unknown strings map to TierMild so a typo never escalates a rule.
func ParseTier(s string) Tier {
	switch normalizeTier(s) {
	case "emergency", "red", "critical":
		return TierEmergency
	case "high", "urgent", "orange":
		return TierHigh
	case "moderate", "medium", "yellow":
		return TierModerate
	case "", "none":
		return TierNone
	default:
		return TierMild
	}
}

// #endregion

// #region facts

// Facts is the accumulated structured state for one session.
// Symptoms and Radiation are union-accumulated in first-seen order;
// every other field is first-writer-wins.
type Facts struct {
	Symptoms        []string `json:"symptoms,omitempty"`
	Onset           Onset    `json:"onset,omitempty"`
	DurationText    string   `json:"duration_text,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	Severity        int      `json:"severity,omitempty"` // 1-10, 0 = unset
	TemperatureF    float64  `json:"temperature_f,omitempty"`
	Radiation       []string `json:"radiation,omitempty"`
	Pattern         Pattern  `json:"pattern,omitempty"`
}

// Delta is a partial Facts produced by one utterance.
type Delta = Facts

// #endregion
