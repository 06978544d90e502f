package facts

// #region imports
import (
	"github.com/danielpatrickdp/triage-engine/internal/lexicon"
)

// #endregion

// #region reset

// ShouldReset decides whether a completed session must be cleared for a
// new complaint. Both conditions are required: the utterance names a
// watchlist symptom not already captured, and it carries an explicit
// transition phrase. Either alone is treated as conversation noise.
func ShouldReset(completed bool, current Facts, utterance string) bool {
	if !completed {
		return false
	}
	if !lexicon.HasTransitionPhrase(utterance) {
		return false
	}
	have := make(map[string]bool, len(current.Symptoms))
	for _, s := range current.Symptoms {
		have[s] = true
	}
	for _, s := range lexicon.Match(utterance) {
		if lexicon.IsPriority(s) && !have[s] {
			return true
		}
	}
	return false
}

// #endregion
