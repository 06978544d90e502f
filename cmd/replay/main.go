package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/danielpatrickdp/triage-engine/internal/orchestrator"
	"github.com/danielpatrickdp/triage-engine/internal/rules"
	"github.com/danielpatrickdp/triage-engine/internal/session"
)

// #region main

func main() {
	rulesPath := flag.String("rules", "configs/rules.csv", "rule table CSV")
	transcriptPath := flag.String("transcript", "", "plain-text transcript, one utterance per line")
	fixturePath := flag.String("fixture", "", "JSON fixture with expected outcomes")
	flag.Parse()

	if (*transcriptPath == "" && *fixturePath == "") || (*transcriptPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --rules configs/rules.csv --transcript conversation.txt")
		fmt.Fprintln(os.Stderr, "       replay --rules configs/rules.csv --fixture expected.json")
		os.Exit(2)
	}

	engine := orchestrator.NewEngine(rules.NewEngine(rules.LoadFile(*rulesPath)), session.NewManager())

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(engine, *fixturePath)
	} else {
		exitCode = runTranscriptMode(engine, *transcriptPath)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region transcript-mode

// runTranscriptMode replays a plain conversation and prints each exchange.
// A line of "---" starts a fresh session.
func runTranscriptMode(engine *orchestrator.Engine, path string) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open transcript: %v\n", err)
		return 2
	}
	defer f.Close()

	sess := engine.Sessions().Create()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "---" {
			sess = engine.Sessions().Create()
			fmt.Println("--- new session ---")
			continue
		}

		res := engine.ProcessTurn(sess.ID, line)
		fmt.Printf("> %s\n", line)
		fmt.Printf("  %s\n", res.Reply)
		if res.Done {
			fmt.Printf("  [done tier=%s rule=%s]\n", res.Tier, res.MatchedRuleID)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "read transcript: %v\n", err)
		return 2
	}
	return 0
}

// #endregion transcript-mode

// #region fixture-mode

// fixture is a recorded conversation with the outcomes it should produce.
type fixture struct {
	Turns []fixtureTurn `json:"turns"`
}

type fixtureTurn struct {
	Input        string `json:"input"`
	ExpectDone   bool   `json:"expect_done"`
	ExpectTier   string `json:"expect_tier,omitempty"`
	ExpectRuleID string `json:"expect_rule_id,omitempty"`
}

func runFixtureMode(engine *orchestrator.Engine, path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read fixture: %v\n", err)
		return 2
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		fmt.Fprintf(os.Stderr, "parse fixture: %v\n", err)
		return 2
	}
	if len(fx.Turns) == 0 {
		fmt.Fprintln(os.Stderr, "fixture has no turns")
		return 2
	}

	sess := engine.Sessions().Create()

	fmt.Printf("%-6s| %-8s| %-8s| %-12s| %s\n", "Turn", "Expected", "Replayed", "Tier", "Match")
	fmt.Printf("%-6s+%-9s+%-9s+%-13s+%s\n", "------", "---------", "---------", "-------------", "------")

	matches := 0
	for i, t := range fx.Turns {
		res := engine.ProcessTurn(sess.ID, t.Input)

		ok := res.Done == t.ExpectDone
		if t.ExpectTier != "" && res.Tier != t.ExpectTier {
			ok = false
		}
		if t.ExpectRuleID != "" && res.MatchedRuleID != t.ExpectRuleID {
			ok = false
		}

		match := "DIFF"
		if ok {
			match = "OK"
			matches++
		}
		fmt.Printf("%-6d| %-8v| %-8v| %-12s| %s\n", i+1, t.ExpectDone, res.Done, res.Tier, match)
	}

	diverge := len(fx.Turns) - matches
	fmt.Printf("\nSummary: %d total, %d match, %d diverge\n", len(fx.Turns), matches, diverge)
	if diverge > 0 {
		return 1
	}
	return 0
}

// #endregion fixture-mode
