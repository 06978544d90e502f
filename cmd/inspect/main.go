package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/danielpatrickdp/triage-engine/internal/rules"
	"github.com/danielpatrickdp/triage-engine/internal/session"
)

// #region main

func main() {
	rulesPath := flag.String("rules", "", "dump a rule table CSV")
	dbPath := flag.String("db", "", "path to triage.db")
	sessionID := flag.String("session", "", "show one session's turn log")
	last := flag.Int("last", 20, "show N most recent sessions")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *rulesPath == "" && *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --rules configs/rules.csv")
		fmt.Fprintln(os.Stderr, "       inspect --db triage.db [--last N] [--session id] [--json]")
		os.Exit(2)
	}

	if *rulesPath != "" {
		if err := runRulesMode(*rulesPath, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	store, err := session.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *sessionID != "" {
		err = runTurnsMode(store, *sessionID, *jsonOut)
	} else {
		err = runSessionsMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region rules-mode

func runRulesMode(path string, jsonOut bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open rule table: %w", err)
	}
	defer f.Close()

	rs, err := rules.Load(f)
	if err != nil {
		return fmt.Errorf("parse rule table: %w", err)
	}

	if jsonOut {
		return printJSON(rs)
	}

	fmt.Printf("%-16s  %-10s  %-24s  %s\n", "Rule", "Urgency", "Condition", "Triggers")
	fmt.Printf("%-16s+-%-10s+-%-24s+-%s\n",
		"----------------", "----------", "------------------------", "--------------------")
	for _, r := range rs {
		triggers := strings.Join(r.Triggers, ", ")
		if len(r.Modifiers) > 0 {
			triggers += " (+" + strings.Join(r.Modifiers, ", ") + ")"
		}
		fmt.Printf("%-16s  %-10s  %-24s  %s\n", r.ID, r.Tier.String(), r.Condition, triggers)
	}
	fmt.Printf("\n%d rules\n", len(rs))
	return nil
}

// #endregion rules-mode

// #region sessions-mode

func runSessionsMode(store *session.Store, last int, jsonOut bool) error {
	sessions, err := store.ListSessions(last)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(os.Stderr, "no sessions found")
		return nil
	}

	if jsonOut {
		return printJSON(sessions)
	}

	fmt.Printf("%-10s  %-5s  %-10s  %-16s  %-9s  %s\n",
		"Session", "Done", "Tier", "Rule", "Symptoms", "Updated")
	fmt.Printf("%-10s+-%-5s+-%-10s+-%-16s+-%-9s+-%s\n",
		"----------", "-----", "----------", "----------------", "---------", "--------------------")
	for _, s := range sessions {
		fmt.Printf("%-10s  %-5v  %-10s  %-16s  %-9d  %s\n",
			shortID(s.ID), s.Completed, s.Tier.String(), s.MatchedRuleID,
			len(s.Facts.Symptoms), s.UpdatedAt.Format("2006-01-02T15:04:05Z"))
	}
	return nil
}

// #endregion sessions-mode

// #region turns-mode

func runTurnsMode(store *session.Store, sessionID string, jsonOut bool) error {
	turns, err := store.ListTurns(sessionID)
	if err != nil {
		return err
	}
	if len(turns) == 0 {
		fmt.Fprintln(os.Stderr, "no turns found for session")
		return nil
	}

	if jsonOut {
		return printJSON(turns)
	}

	for i, t := range turns {
		fmt.Printf("[%d] > %s\n", i+1, t.Input)
		fmt.Printf("    %s\n", t.Reply)
		if t.Done {
			fmt.Printf("    [done tier=%s]\n", t.Tier)
		}
	}
	return nil
}

// #endregion turns-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
