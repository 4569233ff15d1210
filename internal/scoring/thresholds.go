package scoring

import (
	"fmt"

	"github.com/rolematch/candidate-analyzer/internal/schema"
)

func evaluateThresholds(f schema.Features, role *schema.RoleSpec, components schema.ComponentScores, totalPenalty float64) (bool, []string) {
	hf := role.Scoring.HardFilters
	var reasons []string

	if hf.MinMustHaveMatchRatio > 0 && components.MustHave < hf.MinMustHaveMatchRatio {
		reasons = append(reasons, fmt.Sprintf(
			"must-have skill match ratio %.2f is below the required %.2f", components.MustHave, hf.MinMustHaveMatchRatio))
	}

	if hf.RequireAllMustHaveSkills {
		for _, m := range f.MustHave {
			if !m.Matched {
				reasons = append(reasons, "missing required must-have skill: "+m.Term)
			}
		}
	}

	if hf.MinRelevantExperienceYears > 0 && f.RelevantExperience.RelevantYears < hf.MinRelevantExperienceYears {
		reasons = append(reasons, fmt.Sprintf(
			"relevant experience %.1f years is below the required %.1f years",
			f.RelevantExperience.RelevantYears, hf.MinRelevantExperienceYears))
	}

	if hf.MaxRedFlagPenalty > 0 && totalPenalty > hf.MaxRedFlagPenalty {
		reasons = append(reasons, fmt.Sprintf(
			"red flag penalty %.1f exceeds the maximum %.1f", totalPenalty, hf.MaxRedFlagPenalty))
	}

	if role.MinYearsExperience >= 5 && f.Seniority.Level == schema.SeniorityJunior && f.Seniority.Confidence > 0.6 {
		reasons = append(reasons, "role requires 5+ years but candidate appears junior")
	}

	highSeverityCount := 0
	for _, rf := range f.RedFlags {
		if rf.Severity == schema.SeverityHigh {
			highSeverityCount++
		}
	}
	if highSeverityCount >= 2 {
		reasons = append(reasons, fmt.Sprintf("%d high-severity red flags found", highSeverityCount))
	}

	return len(reasons) > 0, reasons
}
