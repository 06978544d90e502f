package interview

// #region imports
import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/triage-engine/internal/facts"
)

// #endregion

// #region tier-actions

var tierActions = map[facts.Tier]string{
	facts.TierEmergency: "Call emergency services now.",
	facts.TierHigh:      "Please get medical attention within the next few hours.",
	facts.TierModerate:  "Arrange to see a doctor within a day or two.",
	facts.TierMild:      "This looks manageable at home for now; see a doctor if anything changes.",
}

// #endregion

// #region summary

const maxProvisional = 5

// summaryReply composes the slot recap, triage tier, tier action, fired
// red-flag messages, and up to five provisional diagnoses.
func (iv *Interview) summaryReply(flagMessages []string) Reply {
	var b strings.Builder

	b.WriteString("Summary for " + iv.st.Complaint + ": ")
	var recap []string
	for _, def := range iv.cfg.Slots {
		if v := iv.st.Slots[def.ID]; v != "" {
			recap = append(recap, def.ID+"="+v)
		}
	}
	b.WriteString(strings.Join(recap, ", "))
	b.WriteString(". ")

	b.WriteString(fmt.Sprintf("Triage level: %s (%s). ",
		strings.ToUpper(iv.st.Tier.String()), iv.st.Tier.Color()))
	b.WriteString(tierActions[iv.st.Tier])

	for _, m := range flagMessages {
		b.WriteString(" " + m)
	}

	if provisionals := iv.Provisionals(); len(provisionals) > 0 {
		var names []string
		for _, p := range provisionals {
			names = append(names, p.Name)
		}
		b.WriteString(" Possible explanations, most likely first: " + strings.Join(names, "; ") + ".")
	}
	b.WriteString(" This is not a diagnosis.")

	return iv.terminalReply(b.String())
}

// #endregion

// #region provisionals

// Provisionals scores the complaint's condition table against the
// standardized symptom set and returns the top matches, deterministic
// order: score descending, then name.
func (iv *Interview) Provisionals() []Provisional {
	have := make(map[string]bool)
	for _, s := range iv.Symptoms() {
		have[s] = true
	}

	var out []Provisional
	for _, c := range iv.cfg.Conditions {
		if len(c.Symptoms) == 0 {
			continue
		}
		matched := 0
		for _, s := range c.Symptoms {
			if have[s] {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		out = append(out, Provisional{
			Name:  c.Name,
			Score: c.Base * matched / len(c.Symptoms),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > maxProvisional {
		out = out[:maxProvisional]
	}
	return out
}

// #endregion

// #region standardized-symptoms

// Symptoms returns the standardized symptom tokens this interview
// established: the complaint's base symptoms, tokens contributed by
// chosen answers, and a derived fever token for a measured high
// temperature. A rejected confirmation established nothing, not even
// the base symptoms.
func (iv *Interview) Symptoms() []string {
	if iv.st.Rejected {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range iv.cfg.BaseSymptoms {
		add(s)
	}
	for _, def := range iv.cfg.Slots {
		val := iv.st.Slots[def.ID]
		if val == "" {
			continue
		}
		for _, c := range def.Choices {
			if c.Value == val && c.Symptom != "" {
				add(c.Symptom)
			}
		}
		if def.Type == SlotTempF {
			if t, err := strconv.ParseFloat(val, 64); err == nil && t >= 100.4 {
				add("fever")
			}
		}
	}
	return out
}

// RedFlags returns the names of the red flags that fired.
func (iv *Interview) RedFlags() []string {
	return append([]string(nil), iv.st.FiredRedFlags...)
}

// Complaint returns the complaint name this interview covers.
func (iv *Interview) Complaint() string {
	return iv.st.Complaint
}

// Tier returns the final triage tier, valid once completed.
func (iv *Interview) Tier() facts.Tier {
	return iv.st.Tier
}

// Completed reports whether the interview reached its terminal stage.
func (iv *Interview) Completed() bool {
	return iv.st.Completed
}

// #endregion
