package feature

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rolematch/candidate-analyzer/internal/schema"
)

var userScaleRe = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*\+?\s*(?:million\s+)?(users|clients|customers|employees|employes|utilisateurs)`)

var teamSizeRe = regexp.MustCompile(`(?i)team of (\d+)|led a team of (\d+)|(\d+)[- ]person team|managed (\d+) engineers`)

var companyTypeTokens = []string{
	"startup", "fortune 500", "enterprise", "saas", "fintech", "unicorn",
	"scale-up", "non-profit",
}

var impactIndicatorTokens = []string{
	"increased", "reduced", "improved", "grew", "launched", "scaled",
	"optimized", "automated", "cut costs", "drove revenue",
}

func computeProjectScale(text string) schema.ProjectScale {
	lower := strings.ToLower(text)

	var maxUsers float64
	for _, m := range userScaleRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(m[0]), "million") {
			n *= 1_000_000
		}
		if n > maxUsers {
			maxUsers = n
		}
	}

	maxTeam := 0
	for _, m := range teamSizeRe.FindAllStringSubmatch(text, -1) {
		for _, g := range m[1:] {
			if g == "" {
				continue
			}
			n, err := strconv.Atoi(g)
			if err == nil && n > maxTeam {
				maxTeam = n
			}
		}
	}

	var companyTypes []string
	for _, t := range companyTypeTokens {
		if strings.Contains(lower, t) {
			companyTypes = append(companyTypes, t)
		}
	}

	var impactIndicators []string
	for _, t := range impactIndicatorTokens {
		if strings.Contains(lower, t) {
			impactIndicators = append(impactIndicators, t)
		}
	}

	score := 0.3 + userScaleBonus(maxUsers) + teamSizeBonus(maxTeam) + companyBonus(companyTypes) + indicatorBonus(impactIndicators)

	return schema.ProjectScale{
		MaxUserScale:     maxUsers,
		MaxTeamSize:      maxTeam,
		CompanyTypes:     companyTypes,
		ImpactIndicators: impactIndicators,
		ScaleScore:       clamp01(score),
	}
}

func userScaleBonus(n float64) float64 {
	switch {
	case n >= 1_000_000:
		return 0.3
	case n >= 100_000:
		return 0.25
	case n >= 10_000:
		return 0.2
	case n >= 1_000:
		return 0.15
	case n >= 100:
		return 0.1
	case n > 0:
		return 0.05
	default:
		return 0
	}
}

func teamSizeBonus(n int) float64 {
	switch {
	case n >= 20:
		return 0.2
	case n >= 10:
		return 0.15
	case n >= 5:
		return 0.1
	case n >= 2:
		return 0.05
	default:
		return 0
	}
}

func companyBonus(companyTypes []string) float64 {
	if len(companyTypes) > 0 {
		return 0.1
	}
	return 0
}

func indicatorBonus(indicators []string) float64 {
	v := float64(len(indicators)) * 0.02
	if v > 0.1 {
		return 0.1
	}
	return v
}
