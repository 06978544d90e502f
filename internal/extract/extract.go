// Package extract turns a single utterance into a partial facts delta.
// Every detector is pure: the same utterance and options always produce
// the same delta regardless of call order.
package extract

// #region imports
import (
	"regexp"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/triage-engine/internal/facts"
	"github.com/danielpatrickdp/triage-engine/internal/lexicon"
)

// #endregion

// #region options

// Options carry caller signals that change how ambiguous tokens are read.
type Options struct {
	// AskingSeverity means the previous question asked for severity, so a
	// bare 1-10 digit is read as a severity answer.
	AskingSeverity bool
	// AskingRadiation means the previous question asked where the pain
	// spreads, so body parts count without a radiation cue word.
	AskingRadiation bool
}

// #endregion

// #region phrase-sets

var suddenPhrases = []string{
	"sudden", "suddenly", "all of a sudden", "out of nowhere", "abrupt",
	"abruptly", "came on fast", "hit me fast",
}

var gradualPhrases = []string{
	"gradual", "gradually", "slowly", "over time", "bit by bit",
	"crept up", "getting worse over",
}

var constantPhrases = []string{
	"constant", "constantly", "all the time", "won't go away", "wont go away",
	"continuous", "non-stop", "nonstop", "never stops", "the whole time",
}

var intermittentPhrases = []string{
	"comes and goes", "come and go", "intermittent", "on and off",
	"off and on", "in waves", "every so often", "now and then",
}

var radiationCues = []string{
	"radiating to", "radiates to", "radiating into", "spreading to",
	"spreads to", "moving to", "moves to", "travels to", "traveling to",
	"goes to", "going to my", "shooting down", "shooting into", "radiating down",
}

// #endregion

// #region regexes

var (
	durationRe       = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(minute|min|hour|hr|day|week|month)s?\b`)
	severityRe       = regexp.MustCompile(`\b(\d{1,2})\s*(?:/|out of)\s*10\b`)
	severityPhraseRe = regexp.MustCompile(`(?:severity|pain level|pain is a|rate it a?t?)\s*(?:is|of|:|at)?\s*(\d{1,2})\b`)
	temperatureRe    = regexp.MustCompile(`(\d{2,3}(?:\.\d+)?)\s*(?:°\s*)?(f|fahrenheit|c|celsius)\b`)
	bareDigitRe      = regexp.MustCompile(`\b(\d{1,2})\b`)
)

// #endregion

// #region extract

// Extract runs every detector over one utterance and returns the delta.
func Extract(utterance string, opts Options) facts.Delta {
	low := strings.ToLower(utterance)

	var d facts.Delta
	d.Symptoms = lexicon.Match(low)
	d.Onset = detectOnset(low)
	d.DurationText, d.DurationMinutes = detectDuration(low)
	d.TemperatureF = detectTemperature(low)
	d.Severity = detectSeverity(low, opts.AskingSeverity)
	d.Radiation = detectRadiation(low, opts.AskingRadiation)
	d.Pattern = detectPattern(low)
	return d
}

// #endregion

// #region onset

func detectOnset(low string) facts.Onset {
	for _, p := range suddenPhrases {
		if strings.Contains(low, p) {
			return facts.OnsetSudden
		}
	}
	for _, p := range gradualPhrases {
		if strings.Contains(low, p) {
			return facts.OnsetGradual
		}
	}
	return facts.OnsetUnset
}

// #endregion

// #region duration

// detectDuration normalizes a spoken duration to minutes.
// "yesterday" reads as one day, "today" and "this morning" as hours.
func detectDuration(low string) (string, int) {
	if m := durationRe.FindStringSubmatch(low); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil || n <= 0 {
			return "", 0
		}
		var perUnit float64
		switch m[2] {
		case "minute", "min":
			perUnit = 1
		case "hour", "hr":
			perUnit = 60
		case "day":
			perUnit = 1440
		case "week":
			perUnit = 10080
		case "month":
			perUnit = 43200
		}
		minutes := int(n * perUnit)
		if minutes <= 0 {
			return "", 0
		}
		return strings.TrimSpace(m[0]), minutes
	}

	switch {
	case strings.Contains(low, "since yesterday"), strings.Contains(low, "yesterday"):
		return "since yesterday", 1440
	case strings.Contains(low, "this morning"):
		return "since this morning", 360
	case strings.Contains(low, "today"), strings.Contains(low, "since this afternoon"):
		return "since today", 720
	}
	return "", 0
}

// #endregion

// #region severity

// severityWords map descriptive words to fixed numeric bands.
var severityWords = []struct {
	word  string
	value int
}{
	{"worst pain of my life", 10},
	{"worst", 10},
	{"unbearable", 10},
	{"excruciating", 9},
	{"severe", 8},
	{"really bad", 8},
	{"moderate", 5},
	{"mild", 3},
	{"slight", 2},
}

func detectSeverity(low string, askingSeverity bool) int {
	if m := severityRe.FindStringSubmatch(low); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 && n <= 10 {
			return n
		}
	}
	if m := severityPhraseRe.FindStringSubmatch(low); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 && n <= 10 {
			return n
		}
	}
	for _, sw := range severityWords {
		if strings.Contains(low, sw.word) {
			return sw.value
		}
	}
	// A bare digit only counts when the caller just asked for severity,
	// and never when the number carries a unit (duration or temperature).
	if askingSeverity && !durationRe.MatchString(low) && !temperatureRe.MatchString(low) {
		if m := bareDigitRe.FindStringSubmatch(low); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil && n >= 1 && n <= 10 {
				return n
			}
		}
	}
	return 0
}

// #endregion

// #region temperature

// detectTemperature requires an explicit unit suffix. A bare number is
// never a temperature; it could be a severity or a duration.
func detectTemperature(low string) float64 {
	m := temperatureRe.FindStringSubmatch(low)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	switch m[2] {
	case "c", "celsius":
		n = n*9.0/5.0 + 32.0
	}
	if n < 90 || n > 115 {
		return 0
	}
	return n
}

// #endregion

// #region radiation

func detectRadiation(low string, askingRadiation bool) []string {
	if askingRadiation {
		return lexicon.BodyParts(low)
	}
	for _, cue := range radiationCues {
		if idx := strings.Index(low, cue); idx >= 0 {
			return lexicon.BodyParts(low[idx+len(cue):])
		}
	}
	return nil
}

// #endregion

// #region pattern

func detectPattern(low string) facts.Pattern {
	for _, p := range intermittentPhrases {
		if strings.Contains(low, p) {
			return facts.PatternIntermittent
		}
	}
	for _, p := range constantPhrases {
		if strings.Contains(low, p) {
			return facts.PatternConstant
		}
	}
	return facts.PatternUnset
}

// #endregion
