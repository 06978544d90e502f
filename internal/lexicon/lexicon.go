// Package lexicon holds the canonical symptom vocabulary and the single
// matcher that maps surface phrases onto canonical names. All keyword
// dispatch in the engine goes through this table.
package lexicon

// #region imports
import (
	"sort"
	"strings"
)

// #endregion

// #region entry

// Entry maps one canonical symptom to its surface forms.
type Entry struct {
	Canonical string
	Surfaces  []string
	// Priority marks symptoms on the new-complaint watchlist: naming one
	// of these after a session completed can start a fresh session.
	Priority bool
	// Aliases are clinical synonym tokens synthesized into the rule-engine
	// token bag whenever the canonical symptom is present.
	Aliases []string
}

// #endregion

// #region table

var table = []Entry{
	{
		Canonical: "chest pain",
		Surfaces: []string{
			"chest pain", "pain in my chest", "pain in the chest", "chest hurts",
			"chest is hurting", "chest tightness", "tight chest", "chest pressure",
			"pressure in my chest", "crushing feeling in my chest",
		},
		Priority: true,
		Aliases:  []string{"angina"},
	},
	{
		Canonical: "shortness of breath",
		Surfaces: []string{
			"shortness of breath", "short of breath", "can't breathe", "cannot breathe",
			"hard to breathe", "trouble breathing", "difficulty breathing",
			"breathless", "gasping",
		},
		Priority: true,
		Aliases:  []string{"dyspnea"},
	},
	{
		Canonical: "fever",
		Surfaces: []string{
			"fever", "feverish", "high temperature", "running a temperature",
			"burning up", "running hot", "chills",
		},
		Aliases: []string{"pyrexia"},
	},
	{
		Canonical: "sweating",
		Surfaces:  []string{"sweating", "sweaty", "drenched in sweat", "cold sweat", "cold sweats"},
		Aliases:   []string{"diaphoresis"},
	},
	{
		Canonical: "headache",
		Surfaces:  []string{"headache", "head ache", "my head hurts", "head is pounding", "migraine"},
	},
	{
		Canonical: "nausea",
		Surfaces:  []string{"nausea", "nauseous", "nauseated", "feel sick to my stomach", "queasy"},
	},
	{
		Canonical: "vomiting",
		Surfaces:  []string{"vomiting", "vomited", "throwing up", "threw up", "puking"},
	},
	{
		Canonical: "dizziness",
		Surfaces:  []string{"dizzy", "dizziness", "lightheaded", "light headed", "room is spinning", "vertigo"},
	},
	{
		Canonical: "fainting",
		Surfaces:  []string{"fainted", "fainting", "passed out", "blacked out", "lost consciousness"},
		Priority:  true,
		Aliases:   []string{"syncope"},
	},
	{
		Canonical: "confusion",
		Surfaces:  []string{"confused", "confusion", "disoriented", "can't think straight", "not making sense"},
		Priority:  true,
	},
	{
		Canonical: "numbness",
		Surfaces:  []string{"numb", "numbness", "tingling", "pins and needles", "no feeling in"},
		Priority:  true,
	},
	{
		Canonical: "weakness",
		Surfaces:  []string{"weakness", "weak", "no strength", "can't lift", "drooping"},
	},
	{
		Canonical: "cough",
		Surfaces:  []string{"cough", "coughing", "hacking"},
	},
	{
		Canonical: "sore throat",
		Surfaces:  []string{"sore throat", "throat hurts", "throat pain", "painful swallowing"},
	},
	{
		Canonical: "abdominal pain",
		Surfaces: []string{
			"abdominal pain", "stomach pain", "stomach ache", "stomachache",
			"belly pain", "belly hurts", "stomach hurts", "pain in my stomach",
			"pain in my abdomen", "cramps in my stomach",
		},
	},
	{
		Canonical: "diarrhea",
		Surfaces:  []string{"diarrhea", "diarrhoea", "loose stools", "watery stools"},
	},
	{
		Canonical: "rash",
		Surfaces:  []string{"rash", "skin rash", "red spots", "hives", "breaking out"},
	},
	{
		Canonical: "palpitations",
		Surfaces:  []string{"palpitations", "heart racing", "heart is pounding", "skipped beats", "fluttering in my chest"},
	},
	{
		Canonical: "back pain",
		Surfaces:  []string{"back pain", "back hurts", "pain in my back", "backache"},
	},
	{
		Canonical: "stiff neck",
		Surfaces:  []string{"stiff neck", "neck stiffness", "can't bend my neck"},
	},
	{
		Canonical: "fatigue",
		Surfaces:  []string{"fatigue", "exhausted", "worn out", "no energy", "tired all the time"},
	},
	{
		Canonical: "severe bleeding",
		Surfaces:  []string{"bleeding heavily", "severe bleeding", "won't stop bleeding", "bleeding a lot"},
		Priority:  true,
	},
}

// #endregion

// #region transition-phrases

// transitionPhrases signal the user is switching to a different complaint.
var transitionPhrases = []string{
	"actually", "something else", "new problem", "different problem",
	"different issue", "another thing", "now i have", "now i am having",
	"forget that", "never mind that", "on top of that", "also now",
}

// #endregion

// #region body-parts

// bodyParts is the fixed vocabulary for radiation-location detection.
// Longer phrases listed first so "left arm" wins over "arm".
var bodyParts = []string{
	"left arm", "right arm", "left shoulder", "right shoulder", "left leg",
	"right leg", "lower back", "upper back", "jaw", "neck", "shoulder",
	"arm", "back", "chest", "abdomen", "stomach", "groin", "leg", "head",
}

// #endregion

// #region matcher

// Match returns the canonical symptoms whose surface forms appear in text,
// in deterministic surface-scan order.
func Match(text string) []string {
	low := strings.ToLower(text)
	var found []string
	seen := make(map[string]bool)
	for _, e := range table {
		for _, s := range e.Surfaces {
			if strings.Contains(low, s) {
				if !seen[e.Canonical] {
					seen[e.Canonical] = true
					found = append(found, e.Canonical)
				}
				break
			}
		}
	}
	return found
}

// IsPriority reports whether a canonical symptom is on the new-complaint
// watchlist.
func IsPriority(canonical string) bool {
	for _, e := range table {
		if e.Canonical == canonical {
			return e.Priority
		}
	}
	return false
}

// Aliases returns the clinical synonym tokens for a canonical symptom.
func Aliases(canonical string) []string {
	for _, e := range table {
		if e.Canonical == canonical {
			return e.Aliases
		}
	}
	return nil
}

// HasTransitionPhrase reports whether the utterance contains an explicit
// topic-switch phrase.
func HasTransitionPhrase(text string) bool {
	low := strings.ToLower(text)
	for _, p := range transitionPhrases {
		if strings.Contains(low, p) {
			return true
		}
	}
	return false
}

// BodyParts returns the body-part phrases found in text, longest match
// first, without overlapping shorter parts ("left arm" suppresses "arm").
func BodyParts(text string) []string {
	low := strings.ToLower(text)
	var found []string
	covered := make([]bool, len(low))
	for _, part := range bodyParts {
		idx := strings.Index(low, part)
		for idx >= 0 {
			overlap := false
			for i := idx; i < idx+len(part); i++ {
				if covered[i] {
					overlap = true
					break
				}
			}
			if !overlap {
				for i := idx; i < idx+len(part); i++ {
					covered[i] = true
				}
				found = append(found, part)
				break
			}
			next := strings.Index(low[idx+1:], part)
			if next < 0 {
				break
			}
			idx = idx + 1 + next
		}
	}
	sort.Strings(found)
	return found
}

// Canonicals returns every canonical symptom name, for inspection tooling.
func Canonicals() []string {
	out := make([]string, len(table))
	for i, e := range table {
		out[i] = e.Canonical
	}
	return out
}

// #endregion
