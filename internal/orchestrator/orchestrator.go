// Package orchestrator ties extraction, fact merging, rule evaluation,
// and question selection into one per-turn decision.
package orchestrator

// #region imports
import (
	"fmt"
	"log"
	"strings"

	"github.com/danielpatrickdp/triage-engine/internal/extract"
	"github.com/danielpatrickdp/triage-engine/internal/facts"
	"github.com/danielpatrickdp/triage-engine/internal/question"
	"github.com/danielpatrickdp/triage-engine/internal/rules"
	"github.com/danielpatrickdp/triage-engine/internal/session"
)

// #endregion

// #region result

// TurnResult is the full outcome of one processed turn. This is the only
// synchronous surface exposed to transport, persistence, or voice layers.
type TurnResult struct {
	SessionID     string      `json:"session_id"`
	Reply         string      `json:"reply"`
	Done          bool        `json:"done"`
	Tier          string      `json:"tier,omitempty"`
	TierColor     string      `json:"tier_color,omitempty"`
	MatchedRuleID string      `json:"matched_rule_id,omitempty"`
	Facts         facts.Facts `json:"facts"`
}

// #endregion

// #region engine

// Engine is the free-form chat entry point. The rule engine is immutable
// after construction; all mutable state lives in per-session records.
type Engine struct {
	rules    *rules.Engine
	sessions *session.Manager
}

// NewEngine wires an orchestrator over a loaded rule table.
func NewEngine(re *rules.Engine, sm *session.Manager) *Engine {
	return &Engine{rules: re, sessions: sm}
}

// Sessions exposes the session manager for boundary callers.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// #endregion

// #region process-turn

// ProcessTurn applies one utterance to a session and decides: terminal
// triage verdict, next question, or loop-guard recovery.
func (e *Engine) ProcessTurn(sessionID, rawText string) TurnResult {
	return e.ProcessTurnWithContext(sessionID, rawText, rules.Context{})
}

// ProcessTurnWithContext is ProcessTurn with caller-side score boosts
// (age, gender, onset-phrase context the engine cannot derive itself).
func (e *Engine) ProcessTurnWithContext(sessionID, rawText string, ctx rules.Context) TurnResult {
	var res TurnResult
	e.sessions.With(sessionID, func(s *session.Session) {
		res = e.step(s, rawText, ctx)
	})
	return res
}

func (e *Engine) step(s *session.Session, rawText string, ctx rules.Context) TurnResult {
	if facts.ShouldReset(s.Completed, s.Facts, rawText) {
		log.Printf("[TURN] session %s: new complaint detected, resetting", s.ID)
		s.Reset()
	}

	delta := extract.Extract(rawText, extract.Options{
		AskingSeverity:  s.LastAsked == question.IDSeverity,
		AskingRadiation: s.LastAsked == question.IDRadiation,
	})
	s.Facts = facts.Merge(s.Facts, delta)

	if s.Completed {
		reply := s.LastReply
		if reply == "" {
			reply = facts.Summarize(s.Facts)
		}
		return e.finish(s, reply, true)
	}

	if m := e.rules.Evaluate(s.Facts, ctx); m != nil {
		s.Completed = true
		s.MatchedRuleID = m.Rule.ID
		s.Tier = m.Rule.Tier
		log.Printf("[TURN] session %s: rule %s fired (score=%.2f tier=%s)",
			s.ID, m.Rule.ID, m.Score, m.Rule.Tier)
		return e.finish(s, verdictReply(*m), true)
	}

	reply := e.nextReply(s, delta)
	return e.finish(s, reply, false)
}

// #endregion

// #region next-reply

// nextReply picks the next question, repeating the last one when the
// utterance carried no new information. The loop guard in finish caps
// verbatim repetition at two.
func (e *Engine) nextReply(s *session.Session, delta facts.Delta) string {
	if delta.IsEmpty() && s.LastAsked != "" && !question.Filled(s.Facts, s.LastAsked) {
		return question.Text(s.LastAsked)
	}

	q, ok := question.Next(s.Facts, s.Asked)
	if !ok {
		return facts.Summarize(s.Facts) +
			" I don't have enough to give you a confident answer. If anything feels seriously wrong, please contact a clinician."
	}
	s.Asked[q] = true
	s.LastAsked = q
	return ack(delta) + question.Text(q)
}

// ack prefixes a short acknowledgment of newly captured facts.
func ack(delta facts.Delta) string {
	var noted []string
	noted = append(noted, delta.Symptoms...)
	if delta.DurationText != "" {
		noted = append(noted, delta.DurationText)
	}
	if delta.Onset != facts.OnsetUnset {
		noted = append(noted, string(delta.Onset)+" onset")
	}
	if delta.Severity > 0 {
		noted = append(noted, fmt.Sprintf("severity %d/10", delta.Severity))
	}
	if delta.TemperatureF > 0 {
		noted = append(noted, fmt.Sprintf("%.1f F", delta.TemperatureF))
	}
	if len(delta.Radiation) > 0 {
		noted = append(noted, "spreading to "+strings.Join(delta.Radiation, ", "))
	}
	if delta.Pattern != facts.PatternUnset {
		noted = append(noted, string(delta.Pattern))
	}
	if len(noted) == 0 {
		return ""
	}
	return "Noted: " + strings.Join(noted, ", ") + ". "
}

// #endregion

// #region loop-guard

// finish applies the loop guard and assembles the result. Emitting the
// same text twice in a row trips the guard: the third would-be verbatim
// repetition becomes a recap plus confirmation prompt instead. The
// guard only watches the question flow; a completed session replays
// its verdict verbatim forever.
func (e *Engine) finish(s *session.Session, reply string, done bool) TurnResult {
	if done {
		s.RepeatCount = 0
	} else {
		if reply == s.LastReply {
			s.RepeatCount++
		} else {
			s.RepeatCount = 0
		}
		if s.RepeatCount >= 2 {
			reply = facts.Summarize(s.Facts) +
				" Does this look right? Reply OK, or tell me your main symptom again."
			s.RepeatCount = 0
		}
	}
	s.LastReply = reply

	res := TurnResult{
		SessionID:     s.ID,
		Reply:         reply,
		Done:          done,
		MatchedRuleID: s.MatchedRuleID,
		Facts:         s.Facts,
	}
	if s.Tier != facts.TierNone {
		res.Tier = s.Tier.String()
		res.TierColor = s.Tier.Color()
	}
	return res
}

// #endregion

// #region verdict

var tierActions = map[facts.Tier]string{
	facts.TierEmergency: "Call emergency services now. Do not drive yourself.",
	facts.TierHigh:      "Seek urgent care within the next few hours.",
	facts.TierModerate:  "Book an appointment with your doctor in the next day or two.",
	facts.TierMild:      "Rest, fluids, and over-the-counter care should help. See a doctor if it worsens.",
}

func verdictReply(m rules.Match) string {
	return fmt.Sprintf(
		"Based on %s, this pattern is consistent with %s. Urgency: %s (%s). %s",
		strings.Join(m.Matched, ", "),
		m.Rule.Condition,
		strings.ToUpper(m.Rule.Tier.String()),
		m.Rule.Tier.Color(),
		tierActions[m.Rule.Tier],
	)
}

// #endregion
