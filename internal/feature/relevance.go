package feature

import (
	"strings"

	"github.com/rolematch/candidate-analyzer/internal/schema"
)

func computeRelevantExperience(roles []schema.ParsedRole, relevanceKeywords []string, now schema.YearMonth) schema.RelevantExperience {
	var totalMonths, relevantMonths int
	relevantRoles := make([]schema.RelevantRole, 0, len(roles))

	for _, r := range roles {
		if r.Professional {
			totalMonths += r.DurationMonths
		}

		relevant := isRelevant(r, relevanceKeywords)
		if relevant && r.Professional {
			relevantMonths += r.DurationMonths
		}

		relevantRoles = append(relevantRoles, schema.RelevantRole{
			ParsedRole: r,
			Relevant:   relevant,
			Recency:    roleRecency(r, now),
		})
	}

	totalYears := monthsToYears(totalMonths)
	var relevantYears float64
	if len(relevanceKeywords) == 0 {
		relevantYears = totalYears
	} else {
		relevantYears = monthsToYears(relevantMonths)
	}

	return schema.RelevantExperience{
		TotalYears:    roundTo1(totalYears),
		RelevantYears: roundTo1(relevantYears),
		Roles:         relevantRoles,
	}
}

func isRelevant(r schema.ParsedRole, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	haystack := foldLower(r.Title + " " + r.TextBlock)
	for _, kw := range keywords {
		if strings.Contains(haystack, foldLower(kw)) {
			return true
		}
	}
	return false
}

func roleRecency(r schema.ParsedRole, now schema.YearMonth) schema.RoleRecency {
	diff := now.Index() - r.EndMonthIndex
	switch {
	case diff <= 1:
		return schema.RoleRecencyCurrent
	case diff <= 24:
		return schema.RoleRecencyRecent
	default:
		return schema.RoleRecencyOld
	}
}

func monthsToYears(months int) float64 {
	return float64(months) / 12.0
}

func roundTo1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
