package interview

import (
	"testing"
)

func TestParseExprAndEval(t *testing.T) {
	cases := []struct {
		expr  string
		slots map[string]string
		want  bool
	}{
		{"max_temp_f >= 104", map[string]string{"max_temp_f": "104.2"}, true},
		{"max_temp_f >= 104", map[string]string{"max_temp_f": "101"}, false},
		{"stiff_neck == yes AND max_temp_f >= 100.4",
			map[string]string{"stiff_neck": "yes", "max_temp_f": "102"}, true},
		{"stiff_neck == yes AND max_temp_f >= 100.4",
			map[string]string{"stiff_neck": "no", "max_temp_f": "102"}, false},
		{"rash == yes OR stiff_neck == yes",
			map[string]string{"rash": "no", "stiff_neck": "yes"}, true},
		{"NOT rash == yes", map[string]string{"rash": "no"}, true},
		{"(rash == yes OR stiff_neck == yes) AND duration_days >= 2",
			map[string]string{"rash": "yes", "duration_days": "3"}, true},
		{"onset == SUDDEN", map[string]string{"onset": "sudden"}, true},
		{"severity > 7", map[string]string{"severity": "8"}, true},
		{"severity < 3", map[string]string{"severity": "8"}, false},
		{"character != pressure", map[string]string{"character": "sharp"}, true},
		// String values never satisfy ordering operators.
		{"onset >= sudden", map[string]string{"onset": "sudden"}, false},
	}
	for _, c := range cases {
		e, err := ParseExpr(c.expr)
		if err != nil {
			t.Errorf("ParseExpr(%q) error: %v", c.expr, err)
			continue
		}
		if got := e.Eval(c.slots); got != c.want {
			t.Errorf("Eval(%q, %v) = %v, want %v", c.expr, c.slots, got, c.want)
		}
	}
}

func TestEvalUnfilledSlotIsFalse(t *testing.T) {
	e, err := ParseExpr("max_temp_f >= 100")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.Eval(map[string]string{}) {
		t.Fatal("unfilled slot should never satisfy a comparison")
	}
	if e.Eval(map[string]string{"max_temp_f": ""}) {
		t.Fatal("empty slot should never satisfy a comparison")
	}

	// But NOT of an unfilled comparison is true; authors must write flags
	// over slots the interview always fills.
	n, err := ParseExpr("NOT max_temp_f >= 100")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !n.Eval(map[string]string{}) {
		t.Fatal("negated unfilled comparison should be true")
	}
}

func TestParseExprErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"AND",
		"a ==",
		"== b",
		"a == b extra == tokens ==",
		"(a == b",
		"a ~ b",
	} {
		if _, err := ParseExpr(src); err == nil {
			t.Errorf("ParseExpr(%q) should fail", src)
		}
	}
}

func TestParseExprSpacingInsensitive(t *testing.T) {
	a, err := ParseExpr("severity>=8")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !a.Eval(map[string]string{"severity": "9"}) {
		t.Fatal("tight spacing should parse and evaluate")
	}
}
