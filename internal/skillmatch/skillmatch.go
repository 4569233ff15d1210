// Package skillmatch implements the two-pass exact-then-fuzzy matching used
// to find skill and keyword evidence in a candidate's normalized resume
// text.
package skillmatch

import (
	"regexp"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/rolematch/candidate-analyzer/internal/schema"
	"github.com/rolematch/candidate-analyzer/internal/textnorm"
)

const fuzzyThreshold = 0.25
const minFuzzyTermLength = 4
const minFuzzyMatchCharLength = 3

var alnumRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// Match reports whether term (optionally aliased) appears in text, either
// exactly or, failing that, via a fuzzy line match. aliases may be nil.
func Match(text string, term string, aliases []string) schema.SkillMatch {
	candidates := append([]string{term}, aliases...)

	for _, c := range candidates {
		if idx, ok := exactMatch(text, c); ok {
			return schema.SkillMatch{
				Term:     term,
				Matched:  true,
				Evidence: []string{textnorm.Snippet(text, idx)},
			}
		}
	}

	lines := strings.Split(text, "\n")
	for _, c := range candidates {
		if len(c) < minFuzzyTermLength {
			continue
		}
		if snippet, ok := fuzzyMatch(lines, c); ok {
			return schema.SkillMatch{
				Term:     term,
				Matched:  true,
				Evidence: []string{snippet},
			}
		}
	}

	return schema.SkillMatch{Term: term, Matched: false, Evidence: []string{}}
}

// MatchKeyword runs the same two-pass algorithm as Match but without a
// weight, for plain keyword hits.
func MatchKeyword(text string, term string) schema.KeywordHit {
	m := Match(text, term, nil)
	return schema.KeywordHit{Term: m.Term, Matched: m.Matched, Evidence: m.Evidence}
}

func exactMatch(text, term string) (int, bool) {
	pattern := regexp.QuoteMeta(term)
	if alnumRe.MatchString(term) && len(term) <= 5 {
		pattern = `(?:^|[^a-zA-Z0-9])(` + pattern + `)(?:$|[^a-zA-Z0-9])`
	}
	re, err := regexp.Compile(`(?i)` + pattern)
	if err != nil {
		return 0, false
	}
	loc := re.FindStringIndex(text)
	if loc == nil {
		return 0, false
	}
	return loc[0], true
}

func fuzzyMatch(lines []string, term string) (string, bool) {
	bestScore := 1.0
	bestLine := ""
	found := false

	lowerTerm := strings.ToLower(term)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if len(trimmed) < minFuzzyMatchCharLength {
			continue
		}
		score := distanceRatio(lowerTerm, strings.ToLower(trimmed))
		if score <= fuzzyThreshold && score < bestScore {
			bestScore = score
			bestLine = trimmed
			found = true
		}
	}
	if !found {
		return "", false
	}
	return textnorm.Snippet(bestLine, 0), true
}

// distanceRatio scores a against b using agext/levenshtein, normalized by
// the longer operand's rune length so 0 means a perfect match and 1 means
// completely dissimilar.
func distanceRatio(a, b string) float64 {
	maxLen := len([]rune(a))
	if len([]rune(b)) > maxLen {
		maxLen = len([]rune(b))
	}
	if maxLen == 0 {
		return 0
	}
	dist := levenshtein.Distance(a, b, nil)
	return float64(dist) / float64(maxLen)
}
