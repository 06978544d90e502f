package differential

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/triage-engine/internal/interview"
)

func cardiacAndFeverInterviews() []CompletedInterview {
	return []CompletedInterview{
		{
			Complaint: "chest pain",
			Symptoms:  []string{"chest_pain", "pressure_pain", "sweating", "nausea"},
			RedFlags:  []string{"cardiac_pattern"},
		},
		{
			Complaint: "fever",
			Symptoms:  []string{"fever", "cough_dry"},
		},
	}
}

func TestSynthesizeRanksAcrossComplaints(t *testing.T) {
	res := Synthesize(cardiacAndFeverInterviews(), Demographics{})

	if len(res.Diagnoses) == 0 {
		t.Fatal("expected diagnoses")
	}
	if res.Diagnoses[0].Name != "Acute coronary syndrome" {
		t.Fatalf("top diagnosis = %s, want Acute coronary syndrome", res.Diagnoses[0].Name)
	}
	if len(res.Diagnoses) > 5 {
		t.Fatalf("more than five diagnoses: %d", len(res.Diagnoses))
	}
	for i := 1; i < len(res.Diagnoses); i++ {
		if res.Diagnoses[i].Probability > res.Diagnoses[i-1].Probability {
			t.Fatalf("diagnoses not sorted: %v", res.Diagnoses)
		}
	}
}

func TestSynthesizeAgeModifierRaisesCardiacRisk(t *testing.T) {
	ivs := cardiacAndFeverInterviews()

	young := Synthesize(ivs, Demographics{AgeGroup: "adult_18_39"})
	older := Synthesize(ivs, Demographics{AgeGroup: "older_65_plus"})

	py := probabilityOf(t, young, "Acute coronary syndrome")
	po := probabilityOf(t, older, "Acute coronary syndrome")
	if po <= py {
		t.Fatalf("older patient should score strictly higher: %d vs %d", po, py)
	}
}

func TestSynthesizeRequiredSymptomsGate(t *testing.T) {
	res := Synthesize([]CompletedInterview{
		{Complaint: "fever", Symptoms: []string{"fever"}},
	}, Demographics{})

	for _, d := range res.Diagnoses {
		if d.Name == "Acute coronary syndrome" {
			t.Fatal("ACS requires chest_pain and must not appear")
		}
		if d.Name == "Meningitis" {
			t.Fatal("meningitis requires stiff_neck and must not appear")
		}
	}
}

func TestSynthesizeGenderRestriction(t *testing.T) {
	ivs := []CompletedInterview{
		{Complaint: "fever", Symptoms: []string{"fever", "abdominal_pain", "nausea"}},
	}

	male := Synthesize(ivs, Demographics{Gender: "male"})
	for _, d := range male.Diagnoses {
		if d.Name == "Pelvic inflammatory disease" {
			t.Fatal("gender-restricted condition scored for male patient")
		}
	}

	female := Synthesize(ivs, Demographics{Gender: "female"})
	if probabilityOf(t, female, "Pelvic inflammatory disease") == 0 {
		t.Fatal("gender-restricted condition missing for female patient")
	}

	// Unknown gender does not exclude.
	unknown := Synthesize(ivs, Demographics{})
	if probabilityOf(t, unknown, "Pelvic inflammatory disease") == 0 {
		t.Fatal("unknown gender should not exclude restricted conditions")
	}
}

func TestSynthesizeProbabilityCap(t *testing.T) {
	ivs := []CompletedInterview{{
		Complaint: "chest pain",
		Symptoms:  []string{"chest_pain", "pressure_pain", "sweating", "nausea", "breathlessness"},
		RedFlags:  []string{"cardiac_pattern", "severe_pain"},
	}}
	res := Synthesize(ivs, Demographics{
		AgeGroup:    "older_65_plus",
		RiskFactors: []string{"smoker", "diabetes", "hypertension"},
	})

	for _, d := range res.Diagnoses {
		if d.Probability > 99 {
			t.Fatalf("%s probability %d exceeds cap", d.Name, d.Probability)
		}
	}
	if probabilityOf(t, res, "Acute coronary syndrome") != 99 {
		t.Fatalf("fully loaded ACS should hit the cap, got %d",
			probabilityOf(t, res, "Acute coronary syndrome"))
	}
}

func TestSynthesizeInterconnectedFindings(t *testing.T) {
	res := Synthesize([]CompletedInterview{
		{Complaint: "fever", Symptoms: []string{"fever", "stiff_neck"}},
		{Complaint: "chest pain", Symptoms: []string{"chest_pain", "breathlessness"}},
	}, Demographics{})

	var cns, cardio bool
	for _, f := range res.Findings {
		if strings.Contains(f, "central nervous system") {
			cns = true
		}
		if strings.Contains(f, "cardiopulmonary") {
			cardio = true
		}
	}
	if !cns || !cardio {
		t.Fatalf("expected CNS and cardiopulmonary findings, got %v", res.Findings)
	}
}

func TestSynthesizeIgnoresRejectedInterview(t *testing.T) {
	cfg, ok := interview.NewRegistry("").Get("fever")
	if !ok {
		t.Fatal("built-in fever config missing")
	}
	iv := interview.New(cfg)
	iv.Start()
	if r := iv.ProcessTurn("no"); !r.Done {
		t.Fatal("rejection should complete the interview")
	}

	ci := FromInterview(iv)
	if len(ci.Symptoms) != 0 {
		t.Fatalf("rejected interview leaked symptoms: %v", ci.Symptoms)
	}
	res := Synthesize([]CompletedInterview{ci}, Demographics{})
	if len(res.Diagnoses) != 0 {
		t.Fatalf("rejected interview should drive no diagnoses, got %+v", res.Diagnoses)
	}
}

func TestSynthesizeNoInterviews(t *testing.T) {
	res := Synthesize(nil, Demographics{})
	if len(res.Diagnoses) != 0 || len(res.Findings) != 0 {
		t.Fatalf("empty input should yield empty result: %+v", res)
	}
}

func probabilityOf(t *testing.T, res Result, name string) int {
	t.Helper()
	for _, d := range res.Diagnoses {
		if d.Name == name {
			return d.Probability
		}
	}
	return 0
}
