package interview

// #region imports
import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/triage-engine/internal/facts"
)

// #endregion

// #region registry

// Registry holds every compiled interview configuration, loaded once at
// process start and immutable afterwards. Inject it explicitly; there is
// no ambient singleton.
type Registry struct {
	configs map[string]*CompiledConfig
}

// NewRegistry compiles the built-in configurations and any yaml documents
// found under dir (empty dir skips the scan). A bad directory or file is
// logged and skipped; the registry never fails construction.
func NewRegistry(dir string) *Registry {
	r := &Registry{configs: make(map[string]*CompiledConfig)}
	for _, cfg := range builtinConfigs() {
		r.add(cfg)
	}
	if dir == "" {
		return r
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("[INTERVIEW] cannot read config dir %s: %v (using built-ins only)", dir, err)
		return r
	}
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, ent.Name())
		cfg, err := LoadConfigFile(path)
		if err != nil {
			log.Printf("[INTERVIEW] skipping %s: %v", path, err)
			continue
		}
		r.add(cfg)
	}
	return r
}

func (r *Registry) add(cfg Config) {
	r.configs[strings.ToLower(cfg.Complaint)] = compile(cfg)
}

// Get returns the compiled configuration for a complaint name.
func (r *Registry) Get(complaint string) (*CompiledConfig, bool) {
	cfg, ok := r.configs[strings.ToLower(strings.TrimSpace(complaint))]
	return cfg, ok
}

// Complaints lists the registered complaint names.
func (r *Registry) Complaints() []string {
	out := make([]string, 0, len(r.configs))
	for name := range r.configs {
		out = append(out, name)
	}
	return out
}

// #endregion

// #region load

// LoadConfigFile parses one per-complaint yaml document.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Complaint == "" {
		return Config{}, fmt.Errorf("config %s has no complaint name", path)
	}
	if len(cfg.Slots) == 0 {
		return Config{}, fmt.Errorf("config %s has no slots", path)
	}
	return cfg, nil
}

// compile parses every red-flag expression once. An unparseable
// expression keeps a nil tree and is treated as always-firing at yellow.
func compile(cfg Config) *CompiledConfig {
	cc := &CompiledConfig{Config: cfg}
	for _, def := range cfg.RedFlags {
		cf := compiledRedFlag{def: def, tier: facts.ParseTier(def.Tier)}
		expr, err := ParseExpr(def.Expr)
		if err != nil {
			log.Printf("[INTERVIEW] red flag %q in %s: bad expression %q: %v (flag will always fire at yellow)",
				def.Name, cfg.Complaint, def.Expr, err)
			cf.tier = facts.TierModerate
		} else {
			cf.expr = expr
		}
		cc.flags = append(cc.flags, cf)
	}
	log.Printf("[INTERVIEW] compiled %q: %d slots, %d red flags, %d conditions",
		cfg.Complaint, len(cfg.Slots), len(cfg.RedFlags), len(cfg.Conditions))
	return cc
}

// #endregion

// #region builtins

// builtinConfigs are the compiled-in interviews, so the engine works with
// no configuration files present.
func builtinConfigs() []Config {
	return []Config{feverConfig(), chestPainConfig()}
}

func feverConfig() Config {
	yesNo := func(symptom string) []Choice {
		yes := Choice{Value: "yes", Phrases: []string{"yes", "yeah", "yep", "i do", "i have", "it is"}}
		if symptom != "" {
			yes.Symptom = symptom
		}
		return []Choice{
			yes,
			{Value: "no", Phrases: []string{"no", "nope", "not really", "i don't", "i do not"}},
		}
	}
	return Config{
		Complaint:       "fever",
		Greeting:        "Let's go through a few questions about your fever.",
		ConfirmQuestion: "Just to confirm, your main concern today is a fever. Is that right?",
		BaseSymptoms:    []string{"fever"},
		Slots: []SlotDef{
			{ID: "duration_days", Question: "How many days have you had the fever?", Stage: StageCore, Type: SlotDuration},
			{ID: "max_temp_f", Question: "What is the highest temperature you have measured? Please include the unit.", Stage: StageCore, Type: SlotTempF},
			{ID: "onset", Question: "Did the fever come on suddenly or gradually?", Stage: StageCore, Type: SlotChoice,
				Choices: []Choice{
					{Value: "sudden", Phrases: []string{"sudden", "suddenly", "all of a sudden", "fast"}},
					{Value: "gradual", Phrases: []string{"gradual", "gradually", "slowly", "over time"}},
				}},
			{ID: "respiratory", Question: "Any cough or sore throat? If you have a cough, is it dry or bringing anything up?", Stage: StageAssociated, Type: SlotChoice,
				Choices: []Choice{
					{Value: "cough_dry", Phrases: []string{"dry cough", "dry", "nothing comes up"}, Symptom: "cough_dry"},
					{Value: "cough_wet", Phrases: []string{"wet cough", "productive", "phlegm", "mucus", "coughing stuff up"}, Symptom: "cough_wet"},
					{Value: "sore_throat", Phrases: []string{"sore throat", "throat hurts"}, Symptom: "sore_throat"},
					{Value: "none", Phrases: []string{"no", "none", "neither", "nope"}},
				}},
			{ID: "stiff_neck", Question: "Do you have a stiff neck or pain when bending your head forward?", Stage: StageAssociated, Type: SlotChoice, Choices: yesNo("stiff_neck")},
			{ID: "rash", Question: "Have you noticed any new rash?", Stage: StageAssociated, Type: SlotChoice, Choices: yesNo("rash")},
			{ID: "level_of_consciousness", Question: "How alert do you feel: normal, drowsy, or has anyone said you were hard to wake?", Stage: StageContext, Type: SlotChoice,
				Choices: []Choice{
					{Value: "alert", Phrases: []string{"normal", "alert", "fine", "awake"}},
					{Value: "drowsy", Phrases: []string{"drowsy", "sleepy", "groggy", "out of it"}},
					{Value: "unresponsive", Phrases: []string{"hard to wake", "unresponsive", "barely wake", "won't wake"}},
				}},
			{ID: "sick_contacts", Question: "Has anyone around you been sick recently?", Stage: StageContext, Type: SlotYesNo},
		},
		RedFlags: []RedFlagDef{
			{Name: "unresponsive", Expr: "level_of_consciousness == unresponsive", Tier: "red",
				Message: "Reduced consciousness with fever needs emergency assessment."},
			{Name: "meningitis_pattern", Expr: "stiff_neck == yes AND max_temp_f >= 100.4", Tier: "red",
				Message: "Fever with a stiff neck can indicate a serious infection near the brain."},
			{Name: "very_high_fever", Expr: "max_temp_f >= 104", Tier: "orange",
				Message: "A temperature of 104 F or higher needs prompt medical attention."},
			{Name: "persistent_high_fever", Expr: "duration_days >= 3 AND max_temp_f >= 103", Tier: "orange",
				Message: "A high fever lasting three days or more should be examined."},
			{Name: "fever_with_rash", Expr: "rash == yes", Tier: "yellow",
				Message: "A new rash with fever is worth showing to a doctor."},
		},
		Conditions: []ConditionDef{
			{Name: "Influenza", Symptoms: []string{"fever", "cough_dry"}, Base: 60},
			{Name: "Viral upper respiratory infection", Symptoms: []string{"fever", "sore_throat"}, Base: 55},
			{Name: "Bacterial pneumonia", Symptoms: []string{"fever", "cough_wet"}, Base: 50},
			{Name: "Meningitis", Symptoms: []string{"fever", "stiff_neck"}, Base: 45},
			{Name: "Viral exanthem", Symptoms: []string{"fever", "rash"}, Base: 40},
		},
	}
}

func chestPainConfig() Config {
	yesNo := func(symptom string) []Choice {
		yes := Choice{Value: "yes", Phrases: []string{"yes", "yeah", "yep", "i do", "i have", "a little", "sometimes"}}
		if symptom != "" {
			yes.Symptom = symptom
		}
		return []Choice{
			yes,
			{Value: "no", Phrases: []string{"no", "nope", "not really", "i don't", "i do not"}},
		}
	}
	return Config{
		Complaint:       "chest pain",
		Greeting:        "I need to ask you some focused questions about your chest pain.",
		ConfirmQuestion: "Just to confirm, your main concern today is chest pain. Is that right?",
		BaseSymptoms:    []string{"chest_pain"},
		Slots: []SlotDef{
			{ID: "character", Question: "How would you describe the pain: pressure or squeezing, sharp, or burning?", Stage: StageCore, Type: SlotChoice,
				Choices: []Choice{
					{Value: "pressure", Phrases: []string{"pressure", "squeezing", "tight", "crushing", "heavy"}, Symptom: "pressure_pain"},
					{Value: "sharp", Phrases: []string{"sharp", "stabbing", "knife"}},
					{Value: "burning", Phrases: []string{"burning", "burns", "acid"}},
				}},
			{ID: "severity", Question: "On a scale of 1 to 10, how bad is the pain right now?", Stage: StageCore, Type: SlotNumber},
			{ID: "onset", Question: "Did the pain start suddenly or build up gradually?", Stage: StageCore, Type: SlotChoice,
				Choices: []Choice{
					{Value: "sudden", Phrases: []string{"sudden", "suddenly", "all of a sudden", "fast"}},
					{Value: "gradual", Phrases: []string{"gradual", "gradually", "slowly", "over time"}},
				}},
			{ID: "sweating", Question: "Are you sweating more than usual, or breaking into cold sweats?", Stage: StageAssociated, Type: SlotChoice, Choices: yesNo("sweating")},
			{ID: "nausea", Question: "Do you feel nauseous or have you vomited?", Stage: StageAssociated, Type: SlotChoice, Choices: yesNo("nausea")},
			{ID: "breathlessness", Question: "Are you finding it harder to breathe than normal?", Stage: StageAssociated, Type: SlotChoice, Choices: yesNo("breathlessness")},
			{ID: "exertion", Question: "Did the pain start during physical effort or exercise?", Stage: StageContext, Type: SlotYesNo},
			{ID: "cardiac_history", Question: "Do you have any history of heart problems?", Stage: StageContext, Type: SlotYesNo},
		},
		RedFlags: []RedFlagDef{
			{Name: "cardiac_pattern", Expr: "character == pressure AND sweating == yes", Tier: "red",
				Message: "Pressure-like chest pain with sweating is treated as a heart emergency until proven otherwise."},
			{Name: "pain_with_breathlessness", Expr: "breathlessness == yes", Tier: "orange",
				Message: "Chest pain with breathlessness needs urgent assessment."},
			{Name: "severe_pain", Expr: "severity >= 8", Tier: "orange",
				Message: "Severe chest pain should be assessed urgently."},
			{Name: "exertional_with_history", Expr: "exertion == yes AND cardiac_history == yes", Tier: "orange",
				Message: "Effort-related pain with a cardiac history needs prompt review."},
		},
		Conditions: []ConditionDef{
			{Name: "Acute coronary syndrome", Symptoms: []string{"chest_pain", "pressure_pain", "sweating", "nausea"}, Base: 70},
			{Name: "Angina", Symptoms: []string{"chest_pain", "pressure_pain"}, Base: 55},
			{Name: "Gastroesophageal reflux", Symptoms: []string{"chest_pain", "nausea"}, Base: 40},
			{Name: "Musculoskeletal chest pain", Symptoms: []string{"chest_pain"}, Base: 30},
			{Name: "Pulmonary embolism", Symptoms: []string{"chest_pain", "breathlessness"}, Base: 45},
		},
	}
}

// #endregion
