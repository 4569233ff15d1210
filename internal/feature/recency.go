package feature

import (
	"sort"
	"strings"

	"github.com/rolematch/candidate-analyzer/internal/schema"
)

var recencyMultipliers = map[schema.RecencyCategory]float64{
	schema.RecencyCurrent: 1.0,
	schema.RecencyRecent:  0.85,
	schema.RecencyStale:   0.6,
	schema.RecencyOld:     0.3,
	schema.RecencyUnknown: 0.7,
}

func computeRecencyAnalysis(terms []string, roles []schema.ParsedRole, now schema.YearMonth) schema.RecencyAnalysis {
	skills := make([]schema.SkillRecency, 0, len(terms))
	var sum float64
	var known int

	for _, term := range terms {
		category := skillRecencyCategory(term, roles, now)
		mult := recencyMultipliers[category]
		skills = append(skills, schema.SkillRecency{
			Skill:           term,
			RecencyCategory: category,
			Multiplier:      mult,
		})
		if category != schema.RecencyUnknown {
			sum += mult
			known++
		}
	}

	avg := 0.7
	if known > 0 {
		avg = sum / float64(known)
	}

	trajectory, adjustment := careerTrajectory(roles)
	score := clamp01(avg + adjustment)

	return schema.RecencyAnalysis{
		Skills:       skills,
		Trajectory:   trajectory,
		RecencyScore: score,
	}
}

func skillRecencyCategory(term string, roles []schema.ParsedRole, now schema.YearMonth) schema.RecencyCategory {
	lower := strings.ToLower(term)
	latestEnd := -1 << 62
	found := false

	for _, r := range roles {
		if !r.Professional {
			continue
		}
		if !strings.Contains(strings.ToLower(r.TextBlock), lower) {
			continue
		}
		found = true
		if r.EndMonthIndex > latestEnd {
			latestEnd = r.EndMonthIndex
		}
	}

	if !found {
		return schema.RecencyUnknown
	}

	diff := now.Index() - latestEnd
	switch {
	case diff <= 1:
		return schema.RecencyCurrent
	case diff <= 24:
		return schema.RecencyRecent
	case diff <= 60:
		return schema.RecencyStale
	default:
		return schema.RecencyOld
	}
}

func careerTrajectory(roles []schema.ParsedRole) (schema.Trajectory, float64) {
	if len(roles) < 2 {
		return schema.TrajectoryUnclear, 0
	}

	sorted := make([]schema.ParsedRole, len(roles))
	copy(sorted, roles)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartMonthIndex < sorted[j].StartMonthIndex })

	levels := make([]int, len(sorted))
	for i, r := range sorted {
		levels[i] = titleLevel(r.Title)
	}

	var asc, desc int
	for i := 1; i < len(levels); i++ {
		switch {
		case levels[i] > levels[i-1]:
			asc++
		case levels[i] < levels[i-1]:
			desc++
		}
	}

	switch {
	case asc > desc && asc >= 1:
		return schema.TrajectoryAscending, 0.1
	case desc > asc && desc >= 1:
		return schema.TrajectoryDescending, -0.15
	case len(sorted) >= 3 && asc == desc:
		return schema.TrajectoryStable, 0
	default:
		return schema.TrajectoryUnclear, 0
	}
}

func titleLevel(title string) int {
	folded := foldLower(title)
	for _, t := range defaultSeniorTokens {
		if strings.Contains(folded, foldLower(t)) {
			return 3
		}
	}
	for _, t := range defaultJuniorTokens {
		if strings.Contains(folded, foldLower(t)) {
			return 1
		}
	}
	return 2
}
