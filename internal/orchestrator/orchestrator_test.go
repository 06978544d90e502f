package orchestrator

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/triage-engine/internal/facts"
	"github.com/danielpatrickdp/triage-engine/internal/rules"
	"github.com/danielpatrickdp/triage-engine/internal/session"
)

func testEngine(rs []rules.Rule) *Engine {
	return NewEngine(rules.NewEngine(rs), session.NewManager())
}

func cardiacRules() []rules.Rule {
	return []rules.Rule{
		{
			ID:        "acs-classic",
			Triggers:  []string{"chest pain", "sweating"},
			Modifiers: []string{"radiating to left arm", "sudden onset", "severe"},
			Condition: "possible acute coronary syndrome",
			Tier:      facts.TierEmergency,
		},
		{
			ID:        "flu",
			Triggers:  []string{"fever", "cough", "fatigue"},
			Condition: "a flu-like illness",
			Tier:      facts.TierModerate,
		},
	}
}

func TestSingleTurnEmergencyVerdict(t *testing.T) {
	e := testEngine(cardiacRules())
	sess := e.Sessions().Create()

	res := e.ProcessTurn(sess.ID, "sudden chest pain radiating to left arm with sweating, severity 9")

	if !res.Done {
		t.Fatal("expected a terminal verdict")
	}
	if res.Tier != "emergency" || res.TierColor != "red" {
		t.Fatalf("tier = %s (%s), want emergency (red)", res.Tier, res.TierColor)
	}
	if res.MatchedRuleID != "acs-classic" {
		t.Fatalf("matched rule = %s, want acs-classic", res.MatchedRuleID)
	}
	if !strings.Contains(res.Reply, "possible acute coronary syndrome") {
		t.Fatalf("reply missing condition: %q", res.Reply)
	}
	if !strings.Contains(res.Reply, "emergency services") {
		t.Fatalf("reply missing action: %q", res.Reply)
	}
}

func TestMultiTurnAccumulation(t *testing.T) {
	e := testEngine(cardiacRules())
	sess := e.Sessions().Create()

	res := e.ProcessTurn(sess.ID, "I have a cough")
	if res.Done {
		t.Fatalf("cough alone should not fire: %q", res.Reply)
	}
	if !strings.HasPrefix(res.Reply, "Noted: cough. ") {
		t.Fatalf("expected acknowledgment prefix, got %q", res.Reply)
	}

	res = e.ProcessTurn(sess.ID, "and I'm feverish, 102f")
	if !res.Done {
		t.Fatalf("fever plus cough should fire flu, got %q", res.Reply)
	}
	if res.MatchedRuleID != "flu" || res.Tier != "moderate" {
		t.Fatalf("got rule %s tier %s", res.MatchedRuleID, res.Tier)
	}
}

func TestQuestionFlowAsksInPriorityOrder(t *testing.T) {
	e := testEngine(nil)
	sess := e.Sessions().Create()

	res := e.ProcessTurn(sess.ID, "hello")
	if res.Done {
		t.Fatal("no rules loaded; nothing should fire")
	}
	if !strings.Contains(res.Reply, "What symptom is bothering you") {
		t.Fatalf("expected symptoms question, got %q", res.Reply)
	}

	res = e.ProcessTurn(sess.ID, "my head hurts")
	if !strings.Contains(res.Reply, "How long has this been going on") {
		t.Fatalf("expected duration question, got %q", res.Reply)
	}
}

func TestUnchangedInputRepeatsThenRecaps(t *testing.T) {
	e := testEngine(nil)
	sess := e.Sessions().Create()

	first := e.ProcessTurn(sess.ID, "hello")
	second := e.ProcessTurn(sess.ID, "hello")
	if second.Reply != first.Reply {
		t.Fatalf("uninformative repeat should re-ask verbatim:\n%q\n%q", first.Reply, second.Reply)
	}

	third := e.ProcessTurn(sess.ID, "hello")
	if third.Reply == first.Reply {
		t.Fatal("third identical reply should have been replaced by the recap")
	}
	if !strings.Contains(third.Reply, "Does this look right?") {
		t.Fatalf("expected recap prompt, got %q", third.Reply)
	}

	// The guard resets: the next repeat starts counting again.
	fourth := e.ProcessTurn(sess.ID, "hello")
	if strings.Contains(fourth.Reply, "Does this look right?") {
		t.Fatalf("guard should have reset, got %q", fourth.Reply)
	}
}

func TestCompletedSessionRepeatsVerdict(t *testing.T) {
	e := testEngine(cardiacRules())
	sess := e.Sessions().Create()

	verdict := e.ProcessTurn(sess.ID, "chest pain and sweating")
	if !verdict.Done {
		t.Fatal("expected verdict")
	}

	again := e.ProcessTurn(sess.ID, "what should I do?")
	if !again.Done || again.Reply != verdict.Reply {
		t.Fatalf("completed session should repeat the verdict, got %q", again.Reply)
	}
}

func TestVerdictSurvivesRepeatedTurns(t *testing.T) {
	e := testEngine(cardiacRules())
	sess := e.Sessions().Create()

	verdict := e.ProcessTurn(sess.ID, "chest pain and sweating")
	if !verdict.Done {
		t.Fatal("expected verdict")
	}

	// The loop guard watches the question flow only: no number of
	// post-verdict turns may replace the verdict with the recap prompt.
	for i := 0; i < 4; i++ {
		res := e.ProcessTurn(sess.ID, "ok")
		if res.Reply != verdict.Reply {
			t.Fatalf("turn %d replaced the verdict with %q", i+1, res.Reply)
		}
		if strings.Contains(res.Reply, "Does this look right?") {
			t.Fatalf("turn %d emitted the recap on a completed session", i+1)
		}
	}
}

func TestNewComplaintResetsCompletedSession(t *testing.T) {
	e := testEngine(cardiacRules())
	sess := e.Sessions().Create()

	res := e.ProcessTurn(sess.ID, "feverish and coughing")
	if !res.Done || res.MatchedRuleID != "flu" {
		t.Fatalf("setup failed: %+v", res)
	}

	res = e.ProcessTurn(sess.ID, "actually now i have chest pain and sweating")
	if res.MatchedRuleID != "acs-classic" {
		t.Fatalf("reset turn should re-triage fresh, got rule %s reply %q", res.MatchedRuleID, res.Reply)
	}
	for _, s := range res.Facts.Symptoms {
		if s == "fever" {
			t.Fatalf("old facts survived the reset: %v", res.Facts.Symptoms)
		}
	}
}

func TestUnknownSessionIDCreatesSession(t *testing.T) {
	e := testEngine(nil)
	res := e.ProcessTurn("external-id-1", "my head hurts")
	if res.SessionID != "external-id-1" {
		t.Fatalf("session id = %q", res.SessionID)
	}
	if len(res.Facts.Symptoms) != 1 || res.Facts.Symptoms[0] != "headache" {
		t.Fatalf("facts = %v", res.Facts.Symptoms)
	}
}
