package feature

import (
	"regexp"
	"strings"

	"github.com/rolematch/candidate-analyzer/internal/schema"
)

var highSignalWords = []string{
	"production", "enterprise", "platform", "architecture", "led",
	"designed", "scaled", "saas", "b2b", "architected", "owned",
	"spearheaded",
}

var mediumSignalWords = []string{
	"project", "application", "feature", "integration", "service", "api",
}

const contextWindow = 200

func computeSkillDepth(text string, terms []string, roles []schema.ParsedRole, now schema.YearMonth) []schema.SkillDepth {
	out := make([]schema.SkillDepth, 0, len(terms))
	lowerText := strings.ToLower(text)

	for _, term := range terms {
		re := mentionRegexp(term)
		locs := re.FindAllStringIndex(lowerText, -1)
		mentionCount := len(locs)

		inExperience := false
		inRecent := false
		for _, r := range roles {
			if !strings.Contains(strings.ToLower(r.TextBlock), strings.ToLower(term)) {
				continue
			}
			inExperience = true
			if roleRecency(r, now) != schema.RoleRecencyOld {
				inRecent = true
			}
		}

		quality := schema.ContextLow
		if mentionCount > 0 {
			quality = contextQualityAt(lowerText, locs[0][0])
		}

		depth := 0.3*min1(float64(mentionCount)/5) +
			boolBonus(inExperience, 0.2) +
			boolBonus(inRecent, 0.2) +
			qualityBonus(quality)

		out = append(out, schema.SkillDepth{
			Skill:               term,
			MentionCount:        mentionCount,
			InExperienceSection: inExperience,
			InRecentRole:        inRecent,
			ContextQuality:      quality,
			DepthScore:          clamp01(depth),
		})
	}
	return out
}

func mentionRegexp(term string) *regexp.Regexp {
	pattern := regexp.QuoteMeta(strings.ToLower(term))
	if alnumLower.MatchString(term) && len(term) <= 5 {
		pattern = `(?:^|[^a-z0-9])(` + pattern + `)(?:$|[^a-z0-9])`
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return regexp.MustCompile(regexp.QuoteMeta(strings.ToLower(term)))
	}
	return re
}

var alnumLower = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

func contextQualityAt(lowerText string, idx int) schema.ContextQuality {
	start := idx - contextWindow
	if start < 0 {
		start = 0
	}
	end := idx + contextWindow
	if end > len(lowerText) {
		end = len(lowerText)
	}
	window := lowerText[start:end]

	for _, w := range highSignalWords {
		if strings.Contains(window, w) {
			return schema.ContextHigh
		}
	}
	for _, w := range mediumSignalWords {
		if strings.Contains(window, w) {
			return schema.ContextMedium
		}
	}
	return schema.ContextLow
}

func qualityBonus(q schema.ContextQuality) float64 {
	switch q {
	case schema.ContextHigh:
		return 0.3
	case schema.ContextMedium:
		return 0.15
	default:
		return 0
	}
}

func boolBonus(b bool, v float64) float64 {
	if b {
		return v
	}
	return 0
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
