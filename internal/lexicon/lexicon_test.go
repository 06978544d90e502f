package lexicon

import (
	"testing"
)

func TestMatchSurfaceForms(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"my chest hurts and i have trouble breathing", []string{"chest pain", "shortness of breath"}},
		{"i'm drenched in sweat", []string{"sweating"}},
		{"i feel feverish and my throat hurts", []string{"fever", "sore throat"}},
		{"nothing medical here", nil},
	}
	for _, c := range cases {
		got := Match(c.in)
		if len(got) != len(c.want) {
			t.Errorf("Match(%q) = %v, want %v", c.in, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("Match(%q) = %v, want %v", c.in, got, c.want)
				break
			}
		}
	}
}

func TestIsPriority(t *testing.T) {
	if !IsPriority("chest pain") {
		t.Error("chest pain should be a watchlist symptom")
	}
	if IsPriority("sore throat") {
		t.Error("sore throat should not be a watchlist symptom")
	}
}

func TestAliases(t *testing.T) {
	found := false
	for _, a := range Aliases("sweating") {
		if a == "diaphoresis" {
			found = true
		}
	}
	if !found {
		t.Error("sweating should alias diaphoresis")
	}
	if got := Aliases("no such symptom"); got != nil {
		t.Errorf("unknown canonical should have no aliases, got %v", got)
	}
}

func TestHasTransitionPhrase(t *testing.T) {
	if !HasTransitionPhrase("actually, something else is bothering me") {
		t.Error("expected transition phrase")
	}
	if HasTransitionPhrase("my head still hurts") {
		t.Error("unexpected transition phrase")
	}
}

func TestBodyPartsOverlapSuppression(t *testing.T) {
	got := BodyParts("down my left arm")
	if len(got) != 1 || got[0] != "left arm" {
		t.Fatalf("got %v, want [left arm]", got)
	}
}
