package rules

// #region imports
import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/danielpatrickdp/triage-engine/internal/facts"
)

// #endregion

// #region header-aliases

// headerAliases map alternate column names onto the canonical fields.
var headerAliases = map[string]string{
	"id": "id", "rule_id": "id", "ruleid": "id",
	"triggers": "triggers", "trigger": "triggers", "trigger_phrases": "triggers", "trigger_list": "triggers",
	"modifiers": "modifiers", "modifier": "modifiers", "modifier_phrases": "modifiers", "modifier_list": "modifiers",
	"condition": "condition", "condition_name": "condition", "name": "condition",
	"urgency": "urgency", "urgency_tier": "urgency", "tier": "urgency", "severity": "urgency",
}

// #endregion

// #region load

// LoadFile reads the rule table from a CSV file. A missing or malformed
// file degrades to an empty rule set; the engine then falls back to
// question-asking and never crashes on bad configuration.
func LoadFile(path string) []Rule {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("[RULES] cannot open rule table %s: %v (continuing with empty set)", path, err)
		return nil
	}
	defer f.Close()

	rs, err := Load(f)
	if err != nil {
		log.Printf("[RULES] cannot parse rule table %s: %v (continuing with empty set)", path, err)
		return nil
	}
	return rs
}

// Load parses a CSV rule table. Phrase lists are "+"-joined within a
// column; a different delimiter can be set per call site via delim tags
// in the header (e.g. "triggers|;"). Rows with zero triggers are dropped
// silently.
func Load(r io.Reader) ([]Rule, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int)
	delims := map[string]string{"triggers": "+", "modifiers": "+"}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if pipe := strings.Index(name, "|"); pipe >= 0 {
			if canon, ok := headerAliases[name[:pipe]]; ok && pipe+1 < len(name) {
				delims[canon] = name[pipe+1:]
			}
			name = name[:pipe]
		}
		if canon, ok := headerAliases[name]; ok {
			cols[canon] = i
		}
	}
	for _, required := range []string{"id", "triggers", "condition", "urgency"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("rule table missing %q column", required)
		}
	}

	var out []Rule
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rule := Rule{
			ID:        field(rec, cols, "id"),
			Triggers:  splitPhrases(field(rec, cols, "triggers"), delims["triggers"]),
			Modifiers: splitPhrases(field(rec, cols, "modifiers"), delims["modifiers"]),
			Condition: field(rec, cols, "condition"),
			Tier:      facts.ParseTier(field(rec, cols, "urgency")),
		}
		if rule.ID == "" || len(rule.Triggers) == 0 {
			continue
		}
		out = append(out, rule)
	}
	log.Printf("[RULES] loaded %d rules", len(out))
	return out, nil
}

func field(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func splitPhrases(s, delim string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, delim) {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// #endregion
