package feature

import (
	"github.com/rolematch/candidate-analyzer/internal/schema"
)

func buildWarnings(text string, yearsExperience *float64, redFlags []schema.RedFlag, recency schema.RecencyAnalysis, quality schema.ParseQuality) []string {
	var warnings []string

	if len([]rune(text)) < 200 {
		warnings = append(warnings, "resume text is very short; results may be unreliable")
	}

	if yearsExperience != nil && *yearsExperience < 1 {
		warnings = append(warnings, "candidate appears very junior (under 1 year of experience)")
	}

	for _, f := range redFlags {
		if f.Severity == schema.SeverityHigh {
			warnings = append(warnings, "high-severity red flag: "+string(f.Type)+" — "+f.Evidence)
		}
	}

	if recency.Trajectory == schema.TrajectoryDescending {
		warnings = append(warnings, "career trajectory appears to be descending")
	}

	warnings = append(warnings, quality.Issues...)

	return warnings
}
