package coreapi

import (
	"math"
	"strings"
	"testing"
)

const golangResume = `Jane Doe
jane@example.com

PROFESSIONAL EXPERIENCE

Senior Backend Engineer
Acme Corp
March 2021 - Present
Led the redesign of the payments platform serving over 3 million users,
managed a team of 6 engineers, worked extensively in Go and Kubernetes.

Backend Engineer
Beta Systems
July 2017 - February 2021
Built REST APIs in Python and Go, owned the CI/CD pipeline.

EDUCATION

Master of Science, Computer Science
Tech University
2015 - 2017
`

func sampleRole() RoleSpec {
	return RoleSpec{
		RoleID:             "role-1",
		Title:              "Senior Backend Engineer",
		MinYearsExperience: 5,
		MustHaveSkills:     []RoleSkill{{Skill: "Go", Weight: 2}},
		NiceToHaveSkills:   []RoleSkill{{Skill: "Kubernetes", Weight: 1}},
		Keywords:           []string{"backend", "platform"},
	}
}

func TestAnalyze_EndToEndProducesMatchedSkillsAndScore(t *testing.T) {
	role := sampleRole()
	result := Analyze(AnalyzeInput{
		CandidateID: "cand-1",
		RawText:     golangResume,
		Role:        &role,
		Now:         YearMonth{Year: 2026, Month: 6},
	})

	if !result.Features.MustHave[0].Matched {
		t.Errorf("expected Go must-have skill to match")
	}
	if result.Score.OverallScore <= 0 {
		t.Errorf("expected a positive overall score, got %v", result.Score.OverallScore)
	}
	if result.CandidateID != "cand-1" {
		t.Errorf("got candidateId %q", result.CandidateID)
	}
}

func TestAnalyze_IsDeterministic(t *testing.T) {
	role := sampleRole()
	input := AnalyzeInput{
		CandidateID: "cand-1",
		RawText:     golangResume,
		Role:        &role,
		Now:         YearMonth{Year: 2026, Month: 6},
	}
	first := Analyze(input)
	second := Analyze(input)

	if first.Score.OverallScore != second.Score.OverallScore {
		t.Errorf("expected identical scores across runs, got %v vs %v", first.Score.OverallScore, second.Score.OverallScore)
	}
	if len(first.Features.MustHave) != len(second.Features.MustHave) {
		t.Errorf("expected identical feature shape across runs")
	}
	if first.AnalyzedAt != second.AnalyzedAt {
		t.Errorf("expected identical AnalyzedAt across runs given the same injected clock")
	}
}

func TestAnalyze_DoesNotMutateInput(t *testing.T) {
	role := sampleRole()
	rawTextBefore := golangResume
	input := AnalyzeInput{
		CandidateID: "cand-1",
		RawText:     golangResume,
		Role:        &role,
		Now:         YearMonth{Year: 2026, Month: 6},
	}
	_ = Analyze(input)

	if input.RawText != rawTextBefore {
		t.Errorf("Analyze must not mutate its input text")
	}
	if role.MustHaveSkills[0].Skill != "Go" {
		t.Errorf("Analyze must not mutate the role spec")
	}
}

func TestAnalyze_EmptyTextProducesLowConfidenceResultNotPanic(t *testing.T) {
	role := sampleRole()
	result := Analyze(AnalyzeInput{
		CandidateID: "cand-empty",
		RawText:     "",
		Role:        &role,
		Now:         YearMonth{Year: 2026, Month: 6},
	})
	if result.Score.OverallScore != 16 {
		t.Errorf("expected baseline score 16 for empty text, got %v", result.Score.OverallScore)
	}
	if len(result.Features.Warnings) == 0 {
		t.Errorf("expected at least one warning for empty resume text")
	}
}

func TestAnalyze_MalformedWeightsFallBackToDefaults(t *testing.T) {
	role := sampleRole()
	role.Scoring.Weights.MustHave = -5 // invalid, sums with zero others to <= 0
	result := Analyze(AnalyzeInput{
		CandidateID: "cand-2",
		RawText:     golangResume,
		Role:        &role,
		Now:         YearMonth{Year: 2026, Month: 6},
	})
	w := result.Score.NormalizedWeights
	if w.MustHave != 0.30 {
		t.Errorf("expected fallback to default mustHave weight 0.30, got %v", w.MustHave)
	}
}

// TestAnalyze_GoldenScenarios reproduces the six literal end-to-end
// scenarios used as the conformance oracle for the pipeline. Each case
// pins the exact candidate text and role so a regression in date math,
// seniority scoring, or threshold evaluation shows up here first.
func TestAnalyze_GoldenScenarios(t *testing.T) {
	now := YearMonth{Year: 2025, Month: 6}

	cases := []struct {
		name  string
		input AnalyzeInput
		check func(t *testing.T, result CandidateAnalysis)
	}{
		{
			name: "present-tense senior engineer with aliased leadership must-have",
			input: AnalyzeInput{
				CandidateID: "scenario-1",
				RawText:     "Sr Software Engineer. 2019 - present at Acme. Led a team of 8.",
				Project: &ProjectSpec{
					SkillAliases: map[string][]string{"leadership": {"led"}},
				},
				Role: &RoleSpec{
					RoleID:             "role-1",
					MinYearsExperience: 5,
					MustHaveSkills:     []RoleSkill{{Skill: "leadership", Weight: 1}},
				},
				Now: now,
			},
			check: func(t *testing.T, result CandidateAnalysis) {
				f := result.Features
				if f.YearsExperience == nil || *f.YearsExperience != 6.4 {
					t.Errorf("expected yearsExperience=6.4, got %v", f.YearsExperience)
				}
				if f.Seniority.Level != "senior" {
					t.Errorf("expected senior seniority, got %v (evidence %+v)", f.Seniority.Level, f.Seniority.Evidence)
				}
				if len(f.MustHave) != 1 || !f.MustHave[0].Matched {
					t.Fatalf("expected leadership must-have to match, got %+v", f.MustHave)
				}
				wantEvidence := "Sr Software Engineer. 2019 - present at Acme. Led a team of 8."
				if len(f.MustHave[0].Evidence) != 1 || f.MustHave[0].Evidence[0] != wantEvidence {
					t.Errorf("unexpected evidence %+v", f.MustHave[0].Evidence)
				}
				if result.Score.ComponentScores.Experience != 1.0 {
					t.Errorf("expected experience component score 1.0, got %v", result.Score.ComponentScores.Experience)
				}
				if result.Score.BelowThreshold {
					t.Errorf("expected no below-threshold reasons, got %+v", result.Score.ThresholdReasons)
				}
			},
		},
		{
			name: "french internship excluded from relevant experience",
			input: AnalyzeInput{
				CandidateID: "scenario-2",
				RawText:     "Stagiaire – Mars 2024 – Juin 2024. PFE.",
				Role: &RoleSpec{
					RoleID:             "role-2",
					MinYearsExperience: 2,
					Scoring: Scoring{
						HardFilters: HardFilters{MinRelevantExperienceYears: 2},
					},
				},
				Now: now,
			},
			check: func(t *testing.T, result CandidateAnalysis) {
				f := result.Features
				if f.RelevantExperience.TotalYears != 0 || f.RelevantExperience.RelevantYears != 0 {
					t.Errorf("expected internship-only experience to be excluded, got %+v", f.RelevantExperience)
				}
				if !result.Score.BelowThreshold {
					t.Fatalf("expected below-threshold result, got %+v", result.Score)
				}
				found := false
				for _, r := range result.Score.ThresholdReasons {
					if strings.Contains(r, "relevant experience") {
						found = true
					}
				}
				if !found {
					t.Errorf("expected an experience-related threshold reason, got %+v", result.Score.ThresholdReasons)
				}
			},
		},
		{
			name: "repeated junior mentions against a senior role",
			input: AnalyzeInput{
				CandidateID: "scenario-3",
				RawText:     "Junior Developer 2023–2024. Junior Developer 2024–present.",
				Role: &RoleSpec{
					RoleID:             "role-3",
					MinYearsExperience: 5,
				},
				Now: now,
			},
			check: func(t *testing.T, result CandidateAnalysis) {
				f := result.Features
				if f.Seniority.Level != "junior" {
					t.Errorf("expected junior seniority, got %v (evidence %+v)", f.Seniority.Level, f.Seniority.Evidence)
				}
				if f.Seniority.Confidence <= 0.6 {
					t.Errorf("expected confidence > 0.6, got %v", f.Seniority.Confidence)
				}
				if !result.Score.BelowThreshold {
					t.Fatalf("expected below-threshold result, got %+v", result.Score)
				}
				found := false
				for _, r := range result.Score.ThresholdReasons {
					if strings.Contains(r, "junior") {
						found = true
					}
				}
				if !found {
					t.Errorf("expected a junior-vs-senior-role threshold reason, got %+v", result.Score.ThresholdReasons)
				}
			},
		},
		{
			name: "word-boundary exact match picks go out of a skill list",
			input: AnalyzeInput{
				CandidateID: "scenario-4",
				RawText:     "React, Node.js, Go, TypeScript",
				Role: &RoleSpec{
					RoleID:         "role-4",
					MustHaveSkills: []RoleSkill{{Skill: "go", Weight: 1}},
				},
				Now: now,
			},
			check: func(t *testing.T, result CandidateAnalysis) {
				f := result.Features
				if len(f.MustHave) != 1 || !f.MustHave[0].Matched {
					t.Fatalf("expected go must-have to match, got %+v", f.MustHave)
				}
			},
		},
		{
			name: "job hopping across short professional stints",
			input: AnalyzeInput{
				CandidateID: "scenario-5",
				RawText: `Jane Doe

EXPERIENCE

Staff Engineer
Gamma LLC
Jan 2016 - Jan 2018
Worked on platform reliability.

Engineer
Delta Co
Feb 2021 - Sep 2021
Built internal tools.

Engineer
Epsilon Inc
Jan 2022 - Aug 2022
Contract renewal work.

Engineer
Zeta Co
Mar 2023 - Nov 2023
Short-term infrastructure project.

Engineer
Eta Corp
Jan 2024 - present
Platform engineering.

EDUCATION

Bachelor of Science, Computer Science
Some University
2010 - 2014
`,
				Role: &RoleSpec{
					RoleID:             "role-5",
					MinYearsExperience: 3,
				},
				Now: now,
			},
			check: func(t *testing.T, result CandidateAnalysis) {
				f := result.Features
				if f.YearsExperience == nil {
					t.Fatal("expected non-nil years experience")
				}
				if *f.YearsExperience < 5.0 || *f.YearsExperience > 6.0 {
					t.Errorf("expected yearsExperience near 5.5, got %v", *f.YearsExperience)
				}
				found := false
				for _, rf := range f.RedFlags {
					if rf.Type == "job_hopping" && rf.Severity == "high" {
						found = true
					}
				}
				if !found {
					t.Errorf("expected a high-severity job-hopping flag, got %+v", f.RedFlags)
				}
			},
		},
		{
			name: "career regression from architect to junior engineer",
			input: AnalyzeInput{
				CandidateID: "scenario-6",
				RawText: `Jane Doe

EXPERIENCE

Senior Architect
Acme Corp
2018 - 2022
Led platform architecture.

Junior Engineer
Beta Inc
2022 - 2025
Entry-level engineering tasks.
`,
				Role: &RoleSpec{
					RoleID: "role-6",
				},
				Now: now,
			},
			check: func(t *testing.T, result CandidateAnalysis) {
				f := result.Features
				if f.RecencyAnalysis.Trajectory != "descending" {
					t.Errorf("expected descending trajectory, got %v", f.RecencyAnalysis.Trajectory)
				}
				if math.Abs(f.RecencyAnalysis.RecencyScore-0.55) > 1e-9 {
					t.Errorf("expected recency score 0.55 (0.7 baseline - 0.15 descending penalty), got %v", f.RecencyAnalysis.RecencyScore)
				}
				found := false
				for _, rf := range f.RedFlags {
					if rf.Type == "career_regression" && rf.Severity == "medium" && rf.Penalty == 5 {
						found = true
					}
				}
				if !found {
					t.Errorf("expected a medium career-regression flag with penalty 5, got %+v", f.RedFlags)
				}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result := Analyze(c.input)
			c.check(t, result)
		})
	}
}

func TestAnalyze_BelowThresholdWhenMustHaveSkillMissing(t *testing.T) {
	role := sampleRole()
	role.Scoring.HardFilters.RequireAllMustHaveSkills = true
	result := Analyze(AnalyzeInput{
		CandidateID: "cand-3",
		RawText:     "A resume with no relevant technology mentions at all, just prose.",
		Role:        &role,
		Now:         YearMonth{Year: 2026, Month: 6},
	})
	if !result.Score.BelowThreshold {
		t.Errorf("expected below-threshold result when a required skill is absent")
	}
}
