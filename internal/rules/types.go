package rules

// #region imports
import (
	"github.com/danielpatrickdp/triage-engine/internal/facts"
)

// #endregion

// #region rule

// Rule is one weighted trigger/modifier row from the rule table.
// Rules are immutable after load.
type Rule struct {
	ID        string
	Triggers  []string
	Modifiers []string
	Condition string
	Tier      facts.Tier
}

// #endregion

// #region match

// Match is a confident rule hit.
type Match struct {
	Rule     Rule
	Score    float64
	Coverage float64
	// Matched lists the trigger tokens that were present, for the reply text.
	Matched []string
}

// #endregion

// #region context

// Context carries caller-side score adjustments the engine itself cannot
// derive, such as demographic boosts. Condition names absent from Boosts
// keep a multiplier of 1.
type Context struct {
	Boosts map[string]float64
}

// #endregion

// #region thresholds

const (
	// minCoverage rejects rules where fewer than half the declared
	// triggers are present, so one incidental keyword never fires a rule.
	minCoverage = 0.5
	// fireThreshold is the minimum score for a terminal verdict.
	fireThreshold = 0.5
	// modifierBonus is added per matched modifier, never gating.
	modifierBonus = 0.1
)

// #endregion
