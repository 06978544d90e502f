package interview

// #region imports
import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/triage-engine/internal/facts"
)

// #endregion

// #region interview

// Interview is one running instance of the structured complaint state
// machine. Not safe for concurrent use; serialize per instance.
type Interview struct {
	cfg *CompiledConfig
	st  State
}

// New creates an interview for a compiled complaint configuration.
func New(cfg *CompiledConfig) *Interview {
	return &Interview{
		cfg: cfg,
		st: State{
			Complaint: cfg.Complaint,
			Stage:     StageGreeting,
			Slots:     make(map[string]string),
		},
	}
}

// State returns a copy of the current interview state.
func (iv *Interview) State() State {
	st := iv.st
	st.Slots = make(map[string]string, len(iv.st.Slots))
	for k, v := range iv.st.Slots {
		st.Slots[k] = v
	}
	st.FiredRedFlags = append([]string(nil), iv.st.FiredRedFlags...)
	return st
}

// #endregion

// #region start

// Start emits the greeting and the chief-complaint confirmation, moving
// the machine to the confirm stage.
func (iv *Interview) Start() Reply {
	iv.st.Stage = StageConfirm
	return Reply{Text: iv.cfg.Greeting + " " + iv.cfg.ConfirmQuestion}
}

// #endregion

// #region process-turn

var yesWords = []string{"yes", "yeah", "yep", "right", "correct", "that's right", "exactly", "ok", "okay"}
var noWords = []string{"no", "nope", "not really", "wrong", "that's not"}

// containsPhrase matches a phrase on word boundaries, so "no" never
// matches inside "normal".
func containsPhrase(low, phrase string) bool {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?', ';', ':':
			return ' '
		}
		return r
	}, low)
	return strings.Contains(" "+cleaned+" ", " "+phrase+" ")
}

// ProcessTurn applies one utterance. Completion is terminal: turns after
// the summary repeat the last state without changing it.
func (iv *Interview) ProcessTurn(text string) Reply {
	switch iv.st.Stage {
	case StageGreeting:
		return iv.Start()
	case StageConfirm:
		return iv.confirm(text)
	case StageCore, StageAssociated, StageContext:
		return iv.fillTurn(text)
	default:
		return iv.terminalReply("This interview is complete. Start a new one to go over a different complaint.")
	}
}

func (iv *Interview) confirm(text string) Reply {
	low := strings.ToLower(strings.TrimSpace(text))
	for _, w := range noWords {
		if containsPhrase(low, w) {
			iv.st.Rejected = true
			iv.st.Completed = true
			iv.st.Stage = StageSummary
			return iv.terminalReply("Understood. Let's not go down the wrong path; please describe your main concern in your own words instead.")
		}
	}
	for _, w := range yesWords {
		if containsPhrase(low, w) {
			return iv.askNext("Thanks. ")
		}
	}
	return Reply{Text: iv.cfg.ConfirmQuestion}
}

// #endregion

// #region slot-filling

// fillTurn extracts a value for the currently asked slot, then asks the
// first unfilled slot in order. The ordered list must be exhausted; this
// is stricter than the free-form selector.
func (iv *Interview) fillTurn(text string) Reply {
	if iv.st.LastAskedSlot != "" {
		if def, ok := iv.slot(iv.st.LastAskedSlot); ok && iv.st.Slots[def.ID] == "" {
			if val, ok := extractSlot(def, text); ok {
				iv.st.Slots[def.ID] = val
			} else {
				return Reply{Text: "Sorry, I didn't catch that. " + def.Question}
			}
		}
	}
	return iv.askNext("")
}

// askNext asks the first unfilled slot, or runs red flags and composes
// the summary when the list is exhausted.
func (iv *Interview) askNext(prefix string) Reply {
	for _, def := range iv.cfg.Slots {
		if iv.st.Slots[def.ID] == "" {
			iv.st.Stage = def.Stage
			iv.st.LastAskedSlot = def.ID
			return Reply{Text: prefix + def.Question}
		}
	}
	return iv.finishInterview()
}

func (iv *Interview) slot(id string) (SlotDef, bool) {
	for _, def := range iv.cfg.Slots {
		if def.ID == id {
			return def, true
		}
	}
	return SlotDef{}, false
}

// #endregion

// #region slot-extraction

var (
	slotNumberRe = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\b`)
	slotTempRe   = regexp.MustCompile(`(\d{2,3}(?:\.\d+)?)\s*(?:°\s*)?(f|fahrenheit|c|celsius)\b`)
	slotDaysRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(day|week)s?\b`)
)

// extractSlot reads one slot value from an utterance using the slot's
// declared type. Choice matching is phrase-scan in declaration order.
func extractSlot(def SlotDef, text string) (string, bool) {
	low := strings.ToLower(strings.TrimSpace(text))
	if low == "" {
		return "", false
	}
	switch def.Type {
	case SlotChoice:
		for _, c := range def.Choices {
			for _, p := range c.Phrases {
				if containsPhrase(low, p) {
					return c.Value, true
				}
			}
		}
		return "", false
	case SlotYesNo:
		for _, w := range noWords {
			if containsPhrase(low, w) {
				return "no", true
			}
		}
		for _, w := range yesWords {
			if containsPhrase(low, w) {
				return "yes", true
			}
		}
		return "", false
	case SlotNumber:
		if m := slotNumberRe.FindStringSubmatch(low); m != nil {
			return m[1], true
		}
		return "", false
	case SlotDuration:
		if m := slotDaysRe.FindStringSubmatch(low); m != nil {
			n, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return "", false
			}
			if m[2] == "week" {
				n *= 7
			}
			return strconv.FormatFloat(n, 'f', -1, 64), true
		}
		if strings.Contains(low, "yesterday") {
			return "1", true
		}
		if strings.Contains(low, "today") || strings.Contains(low, "this morning") {
			return "0.5", true
		}
		if m := slotNumberRe.FindStringSubmatch(low); m != nil {
			return m[1], true
		}
		return "", false
	case SlotTempF:
		if m := slotTempRe.FindStringSubmatch(low); m != nil {
			n, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return "", false
			}
			if m[2] == "c" || m[2] == "celsius" {
				n = n*9.0/5.0 + 32.0
			}
			return strconv.FormatFloat(n, 'f', 1, 64), true
		}
		// Temperature answers to a direct question may omit the unit;
		// only plausible Fahrenheit readings are accepted bare.
		if m := slotNumberRe.FindStringSubmatch(low); m != nil {
			n, err := strconv.ParseFloat(m[1], 64)
			if err == nil && n >= 95 && n <= 110 {
				return strconv.FormatFloat(n, 'f', 1, 64), true
			}
		}
		return "", false
	default:
		return strings.TrimSpace(text), true
	}
}

// #endregion

// #region finish

// finishInterview runs the red-flag pass (no input) and composes the
// terminal summary.
func (iv *Interview) finishInterview() Reply {
	iv.st.Stage = StageRedFlags
	tier := facts.TierMild // green default when nothing fires
	var messages []string
	for _, cf := range iv.cfg.flags {
		fired := cf.expr == nil || cf.expr.Eval(iv.st.Slots)
		if !fired {
			continue
		}
		iv.st.FiredRedFlags = append(iv.st.FiredRedFlags, cf.def.Name)
		msg := cf.def.Message
		if cf.expr == nil {
			msg = "Could not evaluate safety check (" + cf.def.Expr + "); please treat this as unresolved."
		}
		messages = append(messages, msg)
		if cf.tier > tier {
			tier = cf.tier
		}
	}
	iv.st.Tier = tier
	iv.st.Stage = StageSummary
	iv.st.Completed = true
	log.Printf("[INTERVIEW] %s complete: tier=%s flags=%v", iv.st.Complaint, tier, iv.st.FiredRedFlags)
	return iv.summaryReply(messages)
}

func (iv *Interview) terminalReply(text string) Reply {
	r := Reply{Text: text, Done: iv.st.Completed}
	if iv.st.Tier != facts.TierNone {
		r.Tier = iv.st.Tier.String()
		r.TierColor = iv.st.Tier.Color()
	}
	return r
}

// #endregion
