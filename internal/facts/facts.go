package facts

// #region imports
import (
	"fmt"
	"strings"
)

// #endregion

// #region merge

// Merge applies a delta onto existing facts and returns the result.
// Set fields are unioned in first-seen order. Scalar fields are set only
// when currently unset, so merging is idempotent on already-set scalars.
func Merge(existing Facts, delta Delta) Facts {
	out := existing
	out.Symptoms = unionInOrder(existing.Symptoms, delta.Symptoms)
	out.Radiation = unionInOrder(existing.Radiation, delta.Radiation)

	if out.Onset == OnsetUnset {
		out.Onset = delta.Onset
	}
	if out.DurationText == "" {
		out.DurationText = delta.DurationText
	}
	if out.DurationMinutes == 0 {
		out.DurationMinutes = delta.DurationMinutes
	}
	if out.Severity == 0 {
		out.Severity = delta.Severity
	}
	if out.TemperatureF == 0 {
		out.TemperatureF = delta.TemperatureF
	}
	if out.Pattern == PatternUnset {
		out.Pattern = delta.Pattern
	}
	return out
}

func unionInOrder(existing, add []string) []string {
	if len(add) == 0 {
		return existing
	}
	seen := make(map[string]bool, len(existing))
	out := make([]string, 0, len(existing)+len(add))
	for _, s := range existing {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range add {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// #endregion

// #region empty

// IsEmpty reports whether a delta carries no information at all.
func (f Facts) IsEmpty() bool {
	return len(f.Symptoms) == 0 &&
		f.Onset == OnsetUnset &&
		f.DurationText == "" &&
		f.DurationMinutes == 0 &&
		f.Severity == 0 &&
		f.TemperatureF == 0 &&
		len(f.Radiation) == 0 &&
		f.Pattern == PatternUnset
}

// #endregion

// #region summarize

// Summarize renders a deterministic human-readable recap of the facts.
// Used by the loop-guard recovery path, so identical facts must always
// produce identical text.
func Summarize(f Facts) string {
	var parts []string
	if len(f.Symptoms) > 0 {
		parts = append(parts, "symptoms: "+strings.Join(f.Symptoms, ", "))
	}
	if f.DurationText != "" {
		parts = append(parts, "duration: "+f.DurationText)
	} else if f.DurationMinutes > 0 {
		parts = append(parts, "duration: "+FormatDuration(f.DurationMinutes))
	}
	if f.Onset != OnsetUnset {
		parts = append(parts, "onset: "+string(f.Onset))
	}
	if f.Severity > 0 {
		parts = append(parts, fmt.Sprintf("severity: %d/10", f.Severity))
	}
	if f.TemperatureF > 0 {
		parts = append(parts, fmt.Sprintf("temperature: %.1f F", f.TemperatureF))
	}
	if len(f.Radiation) > 0 {
		parts = append(parts, "spreading to: "+strings.Join(f.Radiation, ", "))
	}
	if f.Pattern != PatternUnset {
		parts = append(parts, "pattern: "+string(f.Pattern))
	}
	if len(parts) == 0 {
		return "I have not captured any details yet."
	}
	return "Here is what I have so far: " + strings.Join(parts, "; ") + "."
}

// FormatDuration renders normalized minutes in the largest sensible unit.
func FormatDuration(minutes int) string {
	switch {
	case minutes >= 1440 && minutes%1440 == 0:
		d := minutes / 1440
		if d == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", d)
	case minutes >= 60 && minutes%60 == 0:
		h := minutes / 60
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	default:
		return fmt.Sprintf("%d minutes", minutes)
	}
}

// #endregion

// #region helpers

func normalizeTier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// #endregion
