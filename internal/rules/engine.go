package rules

// #region imports
import (
	"fmt"

	"github.com/danielpatrickdp/triage-engine/internal/facts"
	"github.com/danielpatrickdp/triage-engine/internal/lexicon"
)

// #endregion

// #region engine

// Engine matches accumulated facts against an immutable rule table.
// Construct once at process start and share freely; Evaluate never mutates.
type Engine struct {
	rules []Rule
}

// NewEngine wraps a loaded rule table.
func NewEngine(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Rules returns the loaded table, for inspection tooling.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// #endregion

// #region token-bag

// TokenBag builds the normalized phrase set derived from facts: every
// symptom name, clinical aliases, and derived tokens for fever,
// severity, and onset.
func TokenBag(f facts.Facts) map[string]bool {
	bag := make(map[string]bool)
	for _, s := range f.Symptoms {
		bag[s] = true
		for _, a := range lexicon.Aliases(s) {
			bag[a] = true
		}
	}
	// 100.4 F is the clinical fever line; a measured temperature above it
	// synthesizes the fever token even when the user never said "fever".
	if f.TemperatureF >= 100.4 {
		bag["fever"] = true
		bag["pyrexia"] = true
	}
	if f.Severity >= 7 {
		bag["severe"] = true
	}
	if f.Onset != facts.OnsetUnset {
		bag[fmt.Sprintf("%s onset", f.Onset)] = true
	}
	if f.Pattern != facts.PatternUnset {
		bag[string(f.Pattern)] = true
	}
	for _, r := range f.Radiation {
		bag["radiating to "+r] = true
	}
	return bag
}

// #endregion

// #region evaluate

// Evaluate scores every rule against the token bag and returns the best
// firing match, or nil when no rule fires. Only rules that clear the
// fire threshold on their own enter selection; selection among them is
// tier-first: a low-confidence life-threatening match outranks a
// high-confidence benign one by design of the triage domain.
func (e *Engine) Evaluate(f facts.Facts, ctx Context) *Match {
	bag := TokenBag(f)
	var best *Match
	for _, r := range e.rules {
		m := score(r, bag, ctx)
		if m == nil || m.Score < fireThreshold {
			continue
		}
		if best == nil || m.Rule.Tier > best.Rule.Tier ||
			(m.Rule.Tier == best.Rule.Tier && m.Score > best.Score) {
			best = m
		}
	}
	return best
}

func score(r Rule, bag map[string]bool, ctx Context) *Match {
	var matched []string
	for _, t := range r.Triggers {
		if bag[t] {
			matched = append(matched, t)
		}
	}
	coverage := float64(len(matched)) / float64(len(r.Triggers))
	if coverage < minCoverage {
		return nil
	}

	bonus := 0.0
	for _, m := range r.Modifiers {
		if bag[m] {
			bonus += modifierBonus
		}
	}

	s := coverage + bonus
	if ctx.Boosts != nil {
		if mult, ok := ctx.Boosts[r.Condition]; ok && mult > 0 {
			s *= mult
		}
	}
	return &Match{Rule: r, Score: s, Coverage: coverage, Matched: matched}
}

// #endregion
