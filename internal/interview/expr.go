package interview

// #region imports
import (
	"fmt"
	"strconv"
	"strings"
)

// #endregion

// #region expr-tree

// Expr is a typed boolean expression over named slot values. Parsed once
// at configuration load and evaluated by this restricted interpreter;
// never by string substitution.
type Expr interface {
	Eval(slots map[string]string) bool
}

type andExpr struct{ left, right Expr }
type orExpr struct{ left, right Expr }
type notExpr struct{ inner Expr }

// cmpExpr compares one named slot against a literal. When both sides
// parse as numbers the comparison is numeric, otherwise case-insensitive
// string equality (ordering operators are false for non-numbers).
type cmpExpr struct {
	slot  string
	op    string
	value string
}

func (e andExpr) Eval(s map[string]string) bool { return e.left.Eval(s) && e.right.Eval(s) }
func (e orExpr) Eval(s map[string]string) bool  { return e.left.Eval(s) || e.right.Eval(s) }
func (e notExpr) Eval(s map[string]string) bool { return !e.inner.Eval(s) }

func (e cmpExpr) Eval(slots map[string]string) bool {
	got, ok := slots[e.slot]
	if !ok || got == "" {
		// An unfilled slot never satisfies a comparison.
		return false
	}
	gn, gerr := strconv.ParseFloat(got, 64)
	wn, werr := strconv.ParseFloat(e.value, 64)
	if gerr == nil && werr == nil {
		switch e.op {
		case "==":
			return gn == wn
		case "!=":
			return gn != wn
		case ">=":
			return gn >= wn
		case "<=":
			return gn <= wn
		case ">":
			return gn > wn
		case "<":
			return gn < wn
		}
		return false
	}
	switch e.op {
	case "==":
		return strings.EqualFold(got, e.value)
	case "!=":
		return !strings.EqualFold(got, e.value)
	}
	return false
}

// #endregion

// #region lexer

type exprLexer struct {
	tokens []string
	pos    int
}

func lexExpr(src string) []string {
	src = strings.ReplaceAll(src, "(", " ( ")
	src = strings.ReplaceAll(src, ")", " ) ")
	for _, op := range []string{">=", "<=", "==", "!="} {
		src = strings.ReplaceAll(src, op, " "+op+" ")
	}
	// Lone > and < that were not part of a two-char operator.
	var b strings.Builder
	fields := strings.Fields(src)
	for i, f := range fields {
		if f != ">" && f != "<" && (strings.ContainsRune(f, '>') || strings.ContainsRune(f, '<')) &&
			!strings.Contains(f, "=") {
			f = strings.ReplaceAll(f, ">", " > ")
			f = strings.ReplaceAll(f, "<", " < ")
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f)
	}
	return strings.Fields(b.String())
}

func (l *exprLexer) peek() string {
	if l.pos >= len(l.tokens) {
		return ""
	}
	return l.tokens[l.pos]
}

func (l *exprLexer) next() string {
	t := l.peek()
	l.pos++
	return t
}

// #endregion

// #region parser

// ParseExpr parses a red-flag expression like
// "duration_days >= 3 AND max_temp_f >= 104" into a typed tree.
func ParseExpr(src string) (Expr, error) {
	l := &exprLexer{tokens: lexExpr(src)}
	if len(l.tokens) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	e, err := parseOr(l)
	if err != nil {
		return nil, err
	}
	if l.pos != len(l.tokens) {
		return nil, fmt.Errorf("trailing tokens at %q", l.peek())
	}
	return e, nil
}

func parseOr(l *exprLexer) (Expr, error) {
	left, err := parseAnd(l)
	if err != nil {
		return nil, err
	}
	for strings.EqualFold(l.peek(), "OR") {
		l.next()
		right, err := parseAnd(l)
		if err != nil {
			return nil, err
		}
		left = orExpr{left, right}
	}
	return left, nil
}

func parseAnd(l *exprLexer) (Expr, error) {
	left, err := parseUnary(l)
	if err != nil {
		return nil, err
	}
	for strings.EqualFold(l.peek(), "AND") {
		l.next()
		right, err := parseUnary(l)
		if err != nil {
			return nil, err
		}
		left = andExpr{left, right}
	}
	return left, nil
}

func parseUnary(l *exprLexer) (Expr, error) {
	switch {
	case strings.EqualFold(l.peek(), "NOT"):
		l.next()
		inner, err := parseUnary(l)
		if err != nil {
			return nil, err
		}
		return notExpr{inner}, nil
	case l.peek() == "(":
		l.next()
		inner, err := parseOr(l)
		if err != nil {
			return nil, err
		}
		if l.next() != ")" {
			return nil, fmt.Errorf("missing closing paren")
		}
		return inner, nil
	default:
		return parseCmp(l)
	}
}

var cmpOps = map[string]bool{
	"==": true, "!=": true, ">=": true, "<=": true, ">": true, "<": true,
}

func parseCmp(l *exprLexer) (Expr, error) {
	slot := l.next()
	if slot == "" || cmpOps[slot] || slot == "(" || slot == ")" {
		return nil, fmt.Errorf("expected slot name, got %q", slot)
	}
	op := l.next()
	if !cmpOps[op] {
		return nil, fmt.Errorf("expected comparison operator, got %q", op)
	}
	val := l.next()
	if val == "" || cmpOps[val] || val == "(" || val == ")" {
		return nil, fmt.Errorf("expected comparison value, got %q", val)
	}
	return cmpExpr{slot: slot, op: op, value: val}, nil
}

// #endregion
