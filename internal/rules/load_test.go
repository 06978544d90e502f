package rules

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/triage-engine/internal/facts"
)

func TestLoadBasicTable(t *testing.T) {
	csv := `id,triggers,modifiers,condition,urgency
acs,chest pain+sweating,severe+sudden onset,possible acs,emergency
flu,fever+cough,,a flu-like illness,moderate
`
	rs, err := Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rs))
	}
	if rs[0].ID != "acs" || rs[0].Tier != facts.TierEmergency {
		t.Fatalf("first rule wrong: %+v", rs[0])
	}
	if len(rs[0].Triggers) != 2 || rs[0].Triggers[1] != "sweating" {
		t.Fatalf("triggers wrong: %v", rs[0].Triggers)
	}
	if len(rs[1].Modifiers) != 0 {
		t.Fatalf("empty modifiers column should parse empty, got %v", rs[1].Modifiers)
	}
}

func TestLoadHeaderAliases(t *testing.T) {
	csv := `rule_id,trigger_phrases,condition_name,tier
r1,fever+cough,flu,moderate
`
	rs, err := Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rs) != 1 || rs[0].ID != "r1" || rs[0].Condition != "flu" || rs[0].Tier != facts.TierModerate {
		t.Fatalf("aliased headers not honored: %+v", rs)
	}
}

func TestLoadCustomDelimiter(t *testing.T) {
	csv := `id,triggers|;,condition,urgency
r1,chest pain;sweating,acs,emergency
`
	rs, err := Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rs) != 1 || len(rs[0].Triggers) != 2 {
		t.Fatalf("delimiter tag not honored: %+v", rs)
	}
}

func TestLoadDropsEmptyRows(t *testing.T) {
	csv := `id,triggers,condition,urgency
good,fever,flu,moderate
,fever,flu,moderate
noTriggers,,flu,moderate
`
	rs, err := Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rs) != 1 || rs[0].ID != "good" {
		t.Fatalf("bad rows not dropped: %+v", rs)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	csv := `id,triggers,condition
r1,fever,flu
`
	if _, err := Load(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for missing urgency column")
	}
}

func TestLoadFileMissingDegrades(t *testing.T) {
	if rs := LoadFile("no/such/file.csv"); rs != nil {
		t.Fatalf("missing file should yield empty set, got %v", rs)
	}
}
