package scoring

import (
	"testing"

	"github.com/rolematch/candidate-analyzer/internal/schema"
)

func baseRole() *schema.RoleSpec {
	return &schema.RoleSpec{MinYearsExperience: 3}
}

func TestEvaluateThresholds_MinMustHaveMatchRatio(t *testing.T) {
	role := baseRole()
	role.Scoring.HardFilters.MinMustHaveMatchRatio = 0.8
	components := schema.ComponentScores{MustHave: 0.5}
	below, reasons := evaluateThresholds(schema.Features{}, role, components, 0)
	if !below || len(reasons) == 0 {
		t.Fatalf("expected below threshold, got below=%v reasons=%v", below, reasons)
	}
}

func TestEvaluateThresholds_RequireAllMustHaveSkills(t *testing.T) {
	role := baseRole()
	role.Scoring.HardFilters.RequireAllMustHaveSkills = true
	f := schema.Features{MustHave: []schema.SkillMatch{{Term: "Go", Matched: true}, {Term: "Kubernetes", Matched: false}}}
	below, reasons := evaluateThresholds(f, role, schema.ComponentScores{}, 0)
	if !below {
		t.Fatal("expected below threshold when a must-have skill is missing")
	}
	found := false
	for _, r := range reasons {
		if r == "missing required must-have skill: Kubernetes" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a reason naming Kubernetes, got %v", reasons)
	}
}

func TestEvaluateThresholds_MinRelevantExperienceYears(t *testing.T) {
	role := baseRole()
	role.Scoring.HardFilters.MinRelevantExperienceYears = 5
	f := schema.Features{RelevantExperience: schema.RelevantExperience{RelevantYears: 2}}
	below, _ := evaluateThresholds(f, role, schema.ComponentScores{}, 0)
	if !below {
		t.Fatal("expected below threshold when relevant experience is insufficient")
	}
}

func TestEvaluateThresholds_MaxRedFlagPenalty(t *testing.T) {
	role := baseRole()
	role.Scoring.HardFilters.MaxRedFlagPenalty = 10
	below, _ := evaluateThresholds(schema.Features{}, role, schema.ComponentScores{}, 15)
	if !below {
		t.Fatal("expected below threshold when penalty exceeds the max")
	}
}

func TestEvaluateThresholds_SeniorRoleWithJuniorCandidate(t *testing.T) {
	role := &schema.RoleSpec{MinYearsExperience: 6}
	f := schema.Features{Seniority: schema.Seniority{Level: schema.SeniorityJunior, Confidence: 0.8}}
	below, reasons := evaluateThresholds(f, role, schema.ComponentScores{}, 0)
	if !below {
		t.Fatalf("expected below threshold, reasons=%v", reasons)
	}
}

func TestEvaluateThresholds_TwoOrMoreHighSeverityRedFlags(t *testing.T) {
	role := baseRole()
	f := schema.Features{RedFlags: []schema.RedFlag{
		{Severity: schema.SeverityHigh},
		{Severity: schema.SeverityHigh},
	}}
	below, _ := evaluateThresholds(f, role, schema.ComponentScores{}, 0)
	if !below {
		t.Fatal("expected below threshold with two high-severity red flags")
	}
}

func TestEvaluateThresholds_NoFiltersConfiguredPasses(t *testing.T) {
	role := baseRole()
	below, reasons := evaluateThresholds(schema.Features{}, role, schema.ComponentScores{MustHave: 1}, 0)
	if below || len(reasons) != 0 {
		t.Errorf("expected no threshold failures, got below=%v reasons=%v", below, reasons)
	}
}
