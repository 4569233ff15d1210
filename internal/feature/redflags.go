package feature

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rolematch/candidate-analyzer/internal/schema"
)

const redFlagPenaltyCap = 25

var leadershipTitleTokens = []string{"lead", "principal", "architect", "head", "director"}

func computeRedFlags(roles []schema.ParsedRole, yearsExperience *float64, seniority schema.Seniority, role *schema.RoleSpec, now schema.YearMonth) []schema.RedFlag {
	professional := make([]schema.ParsedRole, 0, len(roles))
	for _, r := range roles {
		if r.Professional {
			professional = append(professional, r)
		}
	}
	sort.Slice(professional, func(i, j int) bool {
		return professional[i].EndMonthIndex < professional[j].EndMonthIndex
	})

	var flags []schema.RedFlag
	flags = append(flags, jobHoppingFlags(professional, now)...)
	flags = append(flags, employmentGapFlags(professional)...)
	flags = append(flags, titleInflationFlags(professional, yearsExperience)...)
	flags = append(flags, careerRegressionFlags(professional)...)

	return flags
}

// TotalPenalty sums each flag's penalty and caps the result at
// redFlagPenaltyCap, matching the scorer's totalPenalty = min(25, Σ
// penalties) rule.
func TotalPenalty(flags []schema.RedFlag) float64 {
	total := 0.0
	for _, f := range flags {
		total += f.Penalty
	}
	if total > redFlagPenaltyCap {
		return redFlagPenaltyCap
	}
	return total
}

func jobHoppingFlags(professional []schema.ParsedRole, now schema.YearMonth) []schema.RedFlag {
	shortStints := 0
	for _, r := range professional {
		if now.Index()-r.EndMonthIndex > 60 {
			continue
		}
		if r.DurationMonths < 12 {
			shortStints++
		}
	}

	switch {
	case shortStints >= 3:
		return []schema.RedFlag{{
			Type:     schema.RedFlagJobHopping,
			Severity: schema.SeverityHigh,
			Evidence: fmt.Sprintf("%d roles under 12 months within the last 5 years", shortStints),
			Penalty:  10,
		}}
	case shortStints == 2:
		return []schema.RedFlag{{
			Type:     schema.RedFlagJobHopping,
			Severity: schema.SeverityMedium,
			Evidence: fmt.Sprintf("%d roles under 12 months within the last 5 years", shortStints),
			Penalty:  5,
		}}
	default:
		return nil
	}
}

func employmentGapFlags(professional []schema.ParsedRole) []schema.RedFlag {
	var flags []schema.RedFlag
	for i := 1; i < len(professional); i++ {
		gap := professional[i].StartMonthIndex - professional[i-1].EndMonthIndex
		switch {
		case gap > 24:
			flags = append(flags, schema.RedFlag{
				Type:     schema.RedFlagEmploymentGap,
				Severity: schema.SeverityHigh,
				Evidence: fmt.Sprintf("%d month gap between %q and %q", gap, professional[i-1].Title, professional[i].Title),
				Penalty:  8,
			})
		case gap > 12:
			flags = append(flags, schema.RedFlag{
				Type:     schema.RedFlagEmploymentGap,
				Severity: schema.SeverityMedium,
				Evidence: fmt.Sprintf("%d month gap between %q and %q", gap, professional[i-1].Title, professional[i].Title),
				Penalty:  4,
			})
		}
	}
	return flags
}

func titleInflationFlags(professional []schema.ParsedRole, yearsExperience *float64) []schema.RedFlag {
	if yearsExperience == nil {
		return nil
	}
	years := *yearsExperience
	var flags []schema.RedFlag

	for _, r := range professional {
		folded := foldLower(r.Title)
		isSenior := false
		for _, t := range defaultSeniorTokens {
			if strings.Contains(folded, foldLower(t)) {
				isSenior = true
				break
			}
		}
		isLeadership := false
		for _, t := range leadershipTitleTokens {
			if strings.Contains(folded, t) {
				isLeadership = true
				break
			}
		}

		if isSenior {
			switch {
			case years < 2:
				flags = append(flags, schema.RedFlag{
					Type: schema.RedFlagTitleInflation, Severity: schema.SeverityHigh,
					Evidence: fmt.Sprintf("senior title %q with %.1f years experience", r.Title, years),
					Penalty:  10,
				})
			case years < 3:
				flags = append(flags, schema.RedFlag{
					Type: schema.RedFlagTitleInflation, Severity: schema.SeverityMedium,
					Evidence: fmt.Sprintf("senior title %q with %.1f years experience", r.Title, years),
					Penalty:  5,
				})
			}
		}
		if isLeadership && years < 4 {
			flags = append(flags, schema.RedFlag{
				Type: schema.RedFlagTitleInflation, Severity: schema.SeverityHigh,
				Evidence: fmt.Sprintf("leadership title %q with %.1f years experience", r.Title, years),
				Penalty:  8,
			})
		}
	}
	return flags
}

func careerRegressionFlags(professional []schema.ParsedRole) []schema.RedFlag {
	sorted := make([]schema.ParsedRole, len(professional))
	copy(sorted, professional)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartMonthIndex < sorted[j].StartMonthIndex })

	var flags []schema.RedFlag
	for i := 1; i < len(sorted); i++ {
		prevLevel := titleLevel(sorted[i-1].Title)
		currLevel := titleLevel(sorted[i].Title)
		if prevLevel == 3 && currLevel == 1 {
			flags = append(flags, schema.RedFlag{
				Type:     schema.RedFlagCareerRegression,
				Severity: schema.SeverityMedium,
				Evidence: fmt.Sprintf("%q followed by %q", sorted[i-1].Title, sorted[i].Title),
				Penalty:  5,
			})
		}
	}
	return flags
}
