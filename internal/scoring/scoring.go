// Package scoring computes the weighted, multi-component score for a
// candidate's extracted Features against a RoleSpec: weight normalization,
// eight component scores clamped to [0,1], red-flag penalty application,
// and hard-filter threshold evaluation.
package scoring

import (
	"math"

	"github.com/rolematch/candidate-analyzer/internal/feature"
	"github.com/rolematch/candidate-analyzer/internal/schema"
)

var defaultWeights = schema.NormalizedWeights{
	MustHave: 0.30, NiceToHave: 0.10, Experience: 0.20, SkillDepth: 0.10,
	Seniority: 0.10, Recency: 0.08, ProjectScale: 0.08, Education: 0.04,
}

// Score computes the ScoreResult for a candidate's Features against role.
func Score(f schema.Features, role *schema.RoleSpec) schema.ScoreResult {
	weights := normalizeWeights(role.Scoring.Weights)
	components := computeComponents(f, role)

	rawScore := math.Round(100 * (weights.MustHave*components.MustHave +
		weights.NiceToHave*components.NiceToHave +
		weights.Experience*components.Experience +
		weights.SkillDepth*components.SkillDepth +
		weights.Seniority*components.Seniority +
		weights.Recency*components.Recency +
		weights.ProjectScale*components.ProjectScale +
		weights.Education*components.Education))

	totalPenalty := feature.TotalPenalty(f.RedFlags)
	finalScore := rawScore - totalPenalty
	if finalScore < 0 {
		finalScore = 0
	}

	belowThreshold, reasons := evaluateThresholds(f, role, components, totalPenalty)

	return schema.ScoreResult{
		RawScore:          rawScore,
		OverallScore:      finalScore,
		TotalPenalty:      totalPenalty,
		ComponentScores:   components,
		NormalizedWeights: weights,
		BelowThreshold:    belowThreshold,
		ThresholdReasons:  reasons,
	}
}

func normalizeWeights(w schema.ScoringWeights) schema.NormalizedWeights {
	sum := w.MustHave + w.NiceToHave + w.Experience + w.SkillDepth +
		w.Seniority + w.Recency + w.ProjectScale + w.Education
	if sum <= 0 {
		return defaultWeights
	}
	return schema.NormalizedWeights{
		MustHave:     w.MustHave / sum,
		NiceToHave:   w.NiceToHave / sum,
		Experience:   w.Experience / sum,
		SkillDepth:   w.SkillDepth / sum,
		Seniority:    w.Seniority / sum,
		Recency:      w.Recency / sum,
		ProjectScale: w.ProjectScale / sum,
		Education:    w.Education / sum,
	}
}

func computeComponents(f schema.Features, role *schema.RoleSpec) schema.ComponentScores {
	tier := roleTier(role.MinYearsExperience)

	return schema.ComponentScores{
		MustHave:     clamp01(skillsScore(f.MustHave)),
		NiceToHave:   clamp01(skillsScore(f.NiceToHave)),
		Experience:   clamp01(relevantExperienceScore(f, role.MinYearsExperience)),
		SkillDepth:   clamp01(skillDepthScore(f.SkillDepth)),
		Seniority:    clamp01(seniorityScore(f.Seniority, tier)),
		Recency:      clamp01(f.RecencyAnalysis.RecencyScore),
		ProjectScale: clamp01(f.ProjectScale.ScaleScore),
		Education:    clamp01(educationScore(f.Education.EducationScore, tier)),
	}
}

func skillsScore(matches []schema.SkillMatch) float64 {
	var totalWeight, matchedWeight float64
	for _, m := range matches {
		w := m.Weight
		if w == 0 {
			w = 1
		}
		totalWeight += w
		if m.Matched {
			matchedWeight += w
		}
	}
	if totalWeight == 0 {
		return 1
	}
	return matchedWeight / totalWeight
}

// experienceCurve scores candYears against minYears per the spec's
// piecewise curve. A nil candYears (no experience could be parsed at all)
// scores 0 unless minYears itself is 0.
func experienceCurve(minYears float64, candYears *float64) float64 {
	if minYears <= 0 {
		return 1
	}
	if candYears == nil {
		return 0
	}
	r := *candYears / minYears
	switch {
	case r >= 1.5:
		return 1.0
	case r >= 1.0:
		return 0.8 + 0.4*(r-1)
	case r >= 0.6:
		return 0.4 + (r - 0.6)
	default:
		return 0.67 * r
	}
}

func relevantExperienceScore(f schema.Features, minYears float64) float64 {
	var relevantYears *float64
	if f.YearsExperience != nil {
		y := f.RelevantExperience.RelevantYears
		relevantYears = &y
	}
	score := experienceCurve(minYears, relevantYears)

	hasCurrent, hasRecent := false, false
	for _, r := range f.RelevantExperience.Roles {
		if !r.Relevant {
			continue
		}
		switch r.Recency {
		case schema.RoleRecencyCurrent:
			hasCurrent = true
		case schema.RoleRecencyRecent:
			hasRecent = true
		}
	}
	switch {
	case hasCurrent:
		score += 0.1
	case hasRecent:
		score += 0.05
	}
	return score
}

type tier int

const (
	tierJunior tier = iota
	tierMid
	tierSenior
)

func roleTier(minYears float64) tier {
	switch {
	case minYears >= 5:
		return tierSenior
	case minYears >= 3:
		return tierMid
	default:
		return tierJunior
	}
}

func seniorityScore(s schema.Seniority, t tier) float64 {
	conf := s.Confidence
	switch t {
	case tierSenior:
		switch s.Level {
		case schema.SeniorityTop:
			return 0.9 + 0.1*conf
		case schema.SeniorityMid:
			return 0.5 + 0.2*conf
		case schema.SeniorityJunior:
			return 0.2 - 0.1*conf
		default:
			return 0.5
		}
	case tierMid:
		switch s.Level {
		case schema.SeniorityTop:
			return 0.85
		case schema.SeniorityMid:
			return 0.8 + 0.2*conf
		case schema.SeniorityJunior:
			return 0.4 - 0.1*conf
		default:
			return 0.6
		}
	default: // tierJunior
		switch s.Level {
		case schema.SeniorityTop:
			return 0.6
		case schema.SeniorityMid:
			return 0.8
		case schema.SeniorityJunior:
			return 0.9
		default:
			return 0.7
		}
	}
}

func educationScore(edu float64, t tier) float64 {
	switch t {
	case tierSenior:
		return 0.5 + 0.3*edu
	case tierMid:
		return 0.4 + 0.4*edu
	default:
		return 0.3 + 0.5*edu
	}
}

func skillDepthScore(depths []schema.SkillDepth) float64 {
	if len(depths) == 0 {
		return 0.5
	}
	var sum float64
	var highQuality int
	for _, d := range depths {
		sum += d.DepthScore
		if d.ContextQuality == schema.ContextHigh {
			highQuality++
		}
	}
	avg := sum / float64(len(depths))
	highRatio := float64(highQuality) / float64(len(depths))
	return avg*0.7 + highRatio*0.3
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
