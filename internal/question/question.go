// Package question picks the next unanswered slot to ask about.
// The priority order is fixed and independent of complaint.
package question

// #region imports
import (
	"strings"

	"github.com/danielpatrickdp/triage-engine/internal/facts"
)

// #endregion

// #region ids

// ID names one askable slot.
type ID string

const (
	IDSymptoms    ID = "symptoms"
	IDDuration    ID = "duration"
	IDOnset       ID = "onset"
	IDSeverity    ID = "severity"
	IDPattern     ID = "pattern"
	IDRadiation   ID = "radiation"
	IDTemperature ID = "temperature"
)

// #endregion

// #region texts

var texts = map[ID]string{
	IDSymptoms:    "What symptom is bothering you the most right now?",
	IDDuration:    "How long has this been going on?",
	IDOnset:       "Did it come on suddenly, or build up gradually?",
	IDSeverity:    "On a scale of 1 to 10, how bad is it?",
	IDPattern:     "Is it there all the time, or does it come and go?",
	IDRadiation:   "Does the pain spread anywhere, like your arm, jaw, or back?",
	IDTemperature: "Have you taken your temperature? If so, what was the reading?",
}

// Text returns the fixed question wording for a slot.
func Text(id ID) string {
	return texts[id]
}

// #endregion

// #region priority

// priority is the fixed asking order.
var priority = []ID{
	IDSymptoms, IDDuration, IDOnset, IDSeverity,
	IDPattern, IDRadiation, IDTemperature,
}

// #endregion

// #region next

// Next returns the highest-priority slot that is unfilled, not yet asked,
// and applicable to the current facts. ok is false when exhausted.
// A slot already recorded as asked is skipped even if still unfilled, so
// a dodged question is never re-selected.
func Next(f facts.Facts, asked map[ID]bool) (ID, bool) {
	for _, id := range priority {
		if asked[id] || Filled(f, id) {
			continue
		}
		switch id {
		case IDRadiation:
			if !hasPainSymptom(f) {
				continue
			}
		case IDTemperature:
			if !hasFeverToken(f) {
				continue
			}
		}
		return id, true
	}
	return "", false
}

// Filled reports whether the facts already answer a slot.
func Filled(f facts.Facts, id ID) bool {
	switch id {
	case IDSymptoms:
		return len(f.Symptoms) > 0
	case IDDuration:
		return f.DurationMinutes > 0 || f.DurationText != ""
	case IDOnset:
		return f.Onset != facts.OnsetUnset
	case IDSeverity:
		return f.Severity > 0
	case IDPattern:
		return f.Pattern != facts.PatternUnset
	case IDRadiation:
		return len(f.Radiation) > 0
	case IDTemperature:
		return f.TemperatureF > 0
	}
	return false
}

func hasPainSymptom(f facts.Facts) bool {
	for _, s := range f.Symptoms {
		if strings.Contains(s, "pain") {
			return true
		}
	}
	return false
}

func hasFeverToken(f facts.Facts) bool {
	for _, s := range f.Symptoms {
		if s == "fever" {
			return true
		}
	}
	return false
}

// #endregion
