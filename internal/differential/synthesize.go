// Package differential combines multiple completed structured interviews
// into one ranked differential diagnosis. Pure and deterministic: no
// mutation of inputs, no I/O.
package differential

// #region imports
import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/danielpatrickdp/triage-engine/internal/facts"
)

// #endregion

// #region scoring-constants

const (
	maxDiagnoses      = 5
	maxProbability    = 99
	supportBonusShare = 0.30 // supporting-coverage bonus cap, as share of base
	redFlagBonusShare = 0.15 // per matched red flag, as share of base
)

// #endregion

// #region knowledge-table

var knowledge = []conditionEntry{
	{
		Name:       "Acute coronary syndrome",
		Required:   []string{"chest_pain"},
		Supporting: []string{"sweating", "nausea", "pressure_pain", "breathlessness"},
		RedFlags:   []string{"cardiac_pattern", "severe_pain"},
		Base:       55,
		AgeModifiers: map[string]float64{
			"older_65_plus": 1.3,
			"adult_40_64":   1.15,
			"child":         0.3,
		},
		RiskModifiers: map[string]float64{
			"smoker": 1.15, "diabetes": 1.15, "hypertension": 1.1,
		},
		Tier:     facts.TierEmergency,
		NextStep: "Emergency evaluation with an ECG and cardiac bloods.",
	},
	{
		Name:       "Pulmonary embolism",
		Required:   []string{"chest_pain", "breathlessness"},
		Supporting: []string{"sweating"},
		RedFlags:   []string{"pain_with_breathlessness"},
		Base:       45,
		RiskModifiers: map[string]float64{
			"recent_surgery": 1.3, "smoker": 1.1,
		},
		Tier:     facts.TierEmergency,
		NextStep: "Emergency assessment; this cannot be ruled out at home.",
	},
	{
		Name:       "Influenza",
		Required:   []string{"fever"},
		Supporting: []string{"cough_dry", "sore_throat"},
		Base:       50,
		AgeModifiers: map[string]float64{
			"older_65_plus": 1.1,
		},
		Tier:     facts.TierModerate,
		NextStep: "Rest, fluids, and fever control; see a doctor if breathing worsens.",
	},
	{
		Name:       "Bacterial pneumonia",
		Required:   []string{"fever", "cough_wet"},
		Supporting: []string{"breathlessness", "chest_pain"},
		RedFlags:   []string{"very_high_fever", "persistent_high_fever"},
		Base:       48,
		AgeModifiers: map[string]float64{
			"older_65_plus": 1.25,
		},
		RiskModifiers: map[string]float64{
			"smoker": 1.2,
		},
		Tier:     facts.TierHigh,
		NextStep: "Same-day medical review and likely a chest X-ray.",
	},
	{
		Name:       "Meningitis",
		Required:   []string{"fever", "stiff_neck"},
		Supporting: []string{"rash"},
		RedFlags:   []string{"meningitis_pattern", "unresponsive"},
		Base:       40,
		Tier:       facts.TierEmergency,
		NextStep:   "Emergency department now; do not wait.",
	},
	{
		Name:       "Gastroesophageal reflux",
		Required:   []string{"chest_pain"},
		Supporting: []string{"nausea"},
		Base:       30,
		Tier:       facts.TierMild,
		NextStep:   "Trial of antacids and a routine appointment if it persists.",
	},
	{
		Name:       "Viral upper respiratory infection",
		Required:   []string{"fever"},
		Supporting: []string{"sore_throat", "cough_dry"},
		Base:       42,
		Tier:       facts.TierMild,
		NextStep:   "Supportive care at home; reassess if not improving in a week.",
	},
	{
		Name:           "Pelvic inflammatory disease",
		Required:       []string{"fever", "abdominal_pain"},
		Supporting:     []string{"nausea"},
		Base:           35,
		GenderRestrict: "female",
		Tier:           facts.TierHigh,
		NextStep:       "Same-day gynecological assessment.",
	},
}

// #endregion

// #region findings-templates

// findingRules emit fixed-template sentences for cross-domain
// co-occurrences spanning the combined symptom set.
var findingRules = []struct {
	all      []string
	any      []string
	sentence string
}{
	{
		all:      []string{"fever"},
		any:      []string{"stiff_neck", "confusion"},
		sentence: "Fever together with neurological signs raises concern for a central nervous system infection; these findings should be assessed together, not separately.",
	},
	{
		all:      []string{"chest_pain", "breathlessness"},
		sentence: "Chest pain occurring with breathlessness suggests a single cardiopulmonary process rather than two unrelated complaints.",
	},
	{
		all:      []string{"fever", "rash"},
		sentence: "Fever with a new rash can reflect a systemic infection and is worth a same-day review.",
	},
	{
		all:      []string{"fever", "chest_pain"},
		sentence: "A fever alongside chest pain can point to an infectious cause of the chest symptoms, such as pneumonia or pericarditis.",
	},
}

// #endregion

// #region synthesize

// Synthesize ranks the knowledge table against the union of symptoms and
// red flags from every completed interview, applying demographic and
// risk-factor modifiers. At most five entries are returned.
func Synthesize(interviews []CompletedInterview, demo Demographics) Result {
	symptoms := make(map[string]bool)
	flags := make(map[string]bool)
	for _, iv := range interviews {
		for _, s := range iv.Symptoms {
			symptoms[s] = true
		}
		for _, f := range iv.RedFlags {
			flags[f] = true
		}
	}

	var out []Diagnosis
	for _, c := range knowledge {
		d, ok := scoreCondition(c, symptoms, flags, demo)
		if ok {
			out = append(out, d)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > maxDiagnoses {
		out = out[:maxDiagnoses]
	}

	res := Result{Diagnoses: out, Findings: findings(symptoms)}
	log.Printf("[SYNTH] %d interviews -> %d diagnoses, %d findings",
		len(interviews), len(res.Diagnoses), len(res.Findings))
	return res
}

func scoreCondition(c conditionEntry, symptoms, flags map[string]bool, demo Demographics) (Diagnosis, bool) {
	// Eligibility: every required symptom must be present.
	for _, r := range c.Required {
		if !symptoms[r] {
			return Diagnosis{}, false
		}
	}
	// Gender restriction zeroes the condition outright.
	if c.GenderRestrict != "" && demo.Gender != "" && demo.Gender != c.GenderRestrict {
		return Diagnosis{}, false
	}

	score := c.Base
	var reasons []string
	reasons = append(reasons, "required symptoms present: "+strings.Join(c.Required, ", "))

	if len(c.Supporting) > 0 {
		matched := 0
		var names []string
		for _, s := range c.Supporting {
			if symptoms[s] {
				matched++
				names = append(names, s)
			}
		}
		if matched > 0 {
			bonus := c.Base * supportBonusShare * float64(matched) / float64(len(c.Supporting))
			score += bonus
			reasons = append(reasons, "supported by "+strings.Join(names, ", "))
		}
	}

	flagMatches := 0
	for _, f := range c.RedFlags {
		if flags[f] {
			flagMatches++
		}
	}
	if flagMatches > 0 {
		score += c.Base * redFlagBonusShare * float64(flagMatches)
		reasons = append(reasons, fmt.Sprintf("%d red flag(s) fired", flagMatches))
	}

	if m, ok := c.AgeModifiers[demo.AgeGroup]; ok && demo.AgeGroup != "" {
		score *= m
		reasons = append(reasons, "adjusted for age group "+demo.AgeGroup)
	}
	for _, rf := range demo.RiskFactors {
		if m, ok := c.RiskModifiers[strings.ToLower(rf)]; ok {
			score *= m
			reasons = append(reasons, "risk factor: "+strings.ToLower(rf))
		}
	}

	p := int(score)
	if p > maxProbability {
		p = maxProbability
	}
	if p < 1 {
		return Diagnosis{}, false
	}
	return Diagnosis{
		Name:          c.Name,
		Probability:   p,
		Reasoning:     strings.Join(reasons, "; "),
		Priority:      c.Tier.String(),
		PriorityBadge: c.Tier.Color(),
		NextStep:      c.NextStep,
	}, true
}

func findings(symptoms map[string]bool) []string {
	var out []string
	for _, fr := range findingRules {
		ok := true
		for _, s := range fr.all {
			if !symptoms[s] {
				ok = false
				break
			}
		}
		if ok && len(fr.any) > 0 {
			ok = false
			for _, s := range fr.any {
				if symptoms[s] {
					ok = true
					break
				}
			}
		}
		if ok {
			out = append(out, fr.sentence)
		}
	}
	return out
}

// #endregion
