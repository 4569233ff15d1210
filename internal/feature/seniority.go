package feature

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rolematch/candidate-analyzer/internal/schema"
)

var defaultSeniorTokens = []string{
	"senior", "sr", "sr.", "staff", "principal", "lead", "architect",
}

var defaultMidTokens = []string{
	"mid-level", "intermediate", "engineer ii", "engineer iii",
}

var defaultJuniorTokens = []string{
	"junior", "jr.", "entry level", "associate engineer", "intern",
}

var leadershipPhrases = []string{
	"team lead", "tech lead", "technical lead", "engineering manager",
	"head of", "vp of", "director of",
}

// shortAmbiguousTokens are abbreviations short enough to false-positive as a
// substring of an unrelated word (e.g. "sr" inside "disrupt"); these are
// counted with word boundaries instead of plain substring counting.
var shortAmbiguousTokens = map[string]bool{"sr": true, "jr": true}

// countToken counts occurrences of token in text, word-boundary-safe for
// shortAmbiguousTokens and plain substring counting otherwise (so longer
// stems like "architect" still count within "architected").
func countToken(text, token string) int {
	if shortAmbiguousTokens[token] {
		re := regexp.MustCompile(`(?:^|[^a-zA-Z0-9])` + regexp.QuoteMeta(token) + `(?:$|[^a-zA-Z0-9])`)
		return len(re.FindAllStringIndex(text, -1))
	}
	return strings.Count(text, token)
}

func computeSeniority(text string, indicators schema.SeniorityIndicators, yearsExperience *float64) schema.Seniority {
	seniorTokens := orDefault(indicators.Senior, defaultSeniorTokens)
	midTokens := orDefault(indicators.Mid, defaultMidTokens)
	juniorTokens := orDefault(indicators.Junior, defaultJuniorTokens)

	folded := foldLower(text)

	var seniorScore, juniorScore float64
	var evidence []string

	for _, t := range seniorTokens {
		if n := countToken(folded, foldLower(t)); n > 0 {
			seniorScore += float64(n)
			evidence = append(evidence, "senior token: "+t)
		}
	}
	for _, t := range leadershipPhrases {
		if n := countToken(folded, foldLower(t)); n > 0 {
			seniorScore += 2 * float64(n)
			evidence = append(evidence, "leadership phrase: "+t)
		}
	}
	for _, t := range midTokens {
		if strings.Contains(folded, foldLower(t)) {
			evidence = append(evidence, "mid token: "+t)
		}
	}
	for _, t := range juniorTokens {
		if n := countToken(folded, foldLower(t)); n > 0 {
			juniorScore += float64(n)
			evidence = append(evidence, "junior token: "+t)
		}
	}

	if yearsExperience != nil {
		y := *yearsExperience
		switch {
		case y >= 5:
			seniorScore += 2
			evidence = append(evidence, fmt.Sprintf("%.1f years experience", y))
		case y >= 3:
			seniorScore++
			evidence = append(evidence, fmt.Sprintf("%.1f years experience", y))
		case y < 2:
			juniorScore++
			evidence = append(evidence, fmt.Sprintf("%.1f years experience", y))
		}
	}

	net := seniorScore - juniorScore

	var level schema.SeniorityLevel
	switch {
	case net >= 3:
		level = schema.SeniorityTop
	case net >= 1:
		level = schema.SeniorityMid
	case net <= -1:
		level = schema.SeniorityJunior
	default:
		level = schema.SeniorityUnknown
	}

	confidence := 0.5 + 0.1*absFloat(net)
	if confidence < 0.3 {
		confidence = 0.3
	}
	if confidence > 0.95 {
		confidence = 0.95
	}

	return schema.Seniority{Level: level, Confidence: confidence, Evidence: evidence}
}

func orDefault(v, def []string) []string {
	if len(v) > 0 {
		return v
	}
	return def
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
