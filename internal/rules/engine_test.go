package rules

import (
	"testing"

	"github.com/danielpatrickdp/triage-engine/internal/facts"
)

func testRules() []Rule {
	return []Rule{
		{
			ID:        "acs",
			Triggers:  []string{"chest pain", "sweating"},
			Modifiers: []string{"radiating to left arm", "sudden onset", "severe"},
			Condition: "possible acute coronary syndrome",
			Tier:      facts.TierEmergency,
		},
		{
			ID:        "flu",
			Triggers:  []string{"fever", "cough"},
			Modifiers: []string{"fatigue"},
			Condition: "a flu-like illness",
			Tier:      facts.TierModerate,
		},
		{
			ID:        "strain",
			Triggers:  []string{"back pain"},
			Condition: "a muscular strain",
			Tier:      facts.TierMild,
		},
	}
}

func TestTokenBagDerivedTokens(t *testing.T) {
	f := facts.Facts{
		Symptoms:     []string{"sweating"},
		TemperatureF: 101.2,
		Severity:     8,
		Onset:        facts.OnsetSudden,
		Pattern:      facts.PatternConstant,
		Radiation:    []string{"left arm"},
	}
	bag := TokenBag(f)

	for _, tok := range []string{
		"sweating", "diaphoresis", "fever", "pyrexia", "severe",
		"sudden onset", "constant", "radiating to left arm",
	} {
		if !bag[tok] {
			t.Errorf("token bag missing %q", tok)
		}
	}
}

func TestTokenBagNoFeverBelowThreshold(t *testing.T) {
	bag := TokenBag(facts.Facts{TemperatureF: 99.5})
	if bag["fever"] {
		t.Error("99.5 F should not synthesize the fever token")
	}
	bag = TokenBag(facts.Facts{Severity: 6})
	if bag["severe"] {
		t.Error("severity 6 should not synthesize the severe token")
	}
}

func TestEvaluateCoverageGate(t *testing.T) {
	e := NewEngine(testRules())

	// One of two triggers: coverage 0.5 passes the gate and the threshold.
	m := e.Evaluate(facts.Facts{Symptoms: []string{"chest pain"}}, Context{})
	if m == nil {
		t.Fatal("coverage 0.5 should fire")
	}
	if m.Rule.ID != "acs" || m.Coverage != 0.5 {
		t.Fatalf("got rule %s coverage %.2f", m.Rule.ID, m.Coverage)
	}

	// No triggers at all: nothing fires.
	if m := e.Evaluate(facts.Facts{Symptoms: []string{"rash"}}, Context{}); m != nil {
		t.Fatalf("expected no match, got %s", m.Rule.ID)
	}
}

func TestEvaluateTierFirstSelection(t *testing.T) {
	e := NewEngine(testRules())

	// Full flu coverage plus modifier (1.1) vs half ACS coverage (0.5):
	// the emergency-tier rule still wins.
	f := facts.Facts{Symptoms: []string{"fever", "cough", "fatigue", "chest pain"}}
	m := e.Evaluate(f, Context{})
	if m == nil {
		t.Fatal("expected a match")
	}
	if m.Rule.ID != "acs" {
		t.Fatalf("tier-first selection failed: got %s, want acs", m.Rule.ID)
	}
}

func TestEvaluateModifierBonus(t *testing.T) {
	e := NewEngine(testRules())
	f := facts.Facts{
		Symptoms:  []string{"chest pain", "sweating"},
		Onset:     facts.OnsetSudden,
		Severity:  9,
		Radiation: []string{"left arm"},
	}
	m := e.Evaluate(f, Context{})
	if m == nil {
		t.Fatal("expected a match")
	}
	// Coverage 1.0 plus three 0.1 modifier bonuses.
	if m.Score < 1.29 || m.Score > 1.31 {
		t.Fatalf("score = %.2f, want 1.30", m.Score)
	}
}

func TestEvaluateContextBoost(t *testing.T) {
	e := NewEngine(testRules())
	f := facts.Facts{Symptoms: []string{"back pain"}}

	base := e.Evaluate(f, Context{})
	boosted := e.Evaluate(f, Context{Boosts: map[string]float64{"a muscular strain": 1.5}})
	if base == nil || boosted == nil {
		t.Fatal("expected matches")
	}
	if boosted.Score <= base.Score {
		t.Fatalf("boost had no effect: %.2f vs %.2f", boosted.Score, base.Score)
	}
}

func TestEvaluateSuppressedTopTierDoesNotBlockLowerTier(t *testing.T) {
	e := NewEngine([]Rule{
		{
			ID:        "acs",
			Triggers:  []string{"chest pain", "sweating"},
			Condition: "possible acs",
			Tier:      facts.TierEmergency,
		},
		{
			ID:        "tension",
			Triggers:  []string{"headache"},
			Condition: "a tension headache",
			Tier:      facts.TierMild,
		},
	})
	f := facts.Facts{Symptoms: []string{"chest pain", "headache"}}

	// A caller boost below 1 pushes the emergency candidate under the
	// fire threshold (0.5 * 0.9 = 0.45). The mild rule still fires on
	// its own score instead of being blocked by the suppressed winner.
	m := e.Evaluate(f, Context{Boosts: map[string]float64{"possible acs": 0.9}})
	if m == nil {
		t.Fatal("independently firing rule should not be blocked")
	}
	if m.Rule.ID != "tension" {
		t.Fatalf("got rule %s, want tension", m.Rule.ID)
	}
}

func TestEvaluateFireThreshold(t *testing.T) {
	e := NewEngine([]Rule{{
		ID:        "wide",
		Triggers:  []string{"a", "b", "c", "d"},
		Condition: "x",
		Tier:      facts.TierMild,
	}})
	// Token bags never contain "a"/"b" from these facts; zero coverage.
	if m := e.Evaluate(facts.Facts{Symptoms: []string{"headache"}}, Context{}); m != nil {
		t.Fatalf("expected nil, got %s", m.Rule.ID)
	}
}
