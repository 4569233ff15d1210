package feature

import (
	"regexp"
	"strings"

	"github.com/rolematch/candidate-analyzer/internal/schema"
)

var degreePatterns = []struct {
	kind string
	re   *regexp.Regexp
	rank float64
}{
	{"phd", regexp.MustCompile(`(?i)\b(ph\.?d\.?|doctorate|doctoral)\b`), 1.0},
	{"masters", regexp.MustCompile(`(?i)\b(master'?s|m\.?s\.?|m\.?eng\.?|mba|m\.?a\.?)\b`), 0.9},
	{"bachelors", regexp.MustCompile(`(?i)\b(bachelor'?s?|b\.?s\.?|b\.?eng\.?|b\.?a\.?|b\.?tech\.?)\b`), 0.8},
	{"associate", regexp.MustCompile(`(?i)\b(associate'?s degree|a\.?a\.?s\.?)\b`), 0.6},
	{"bootcamp", regexp.MustCompile(`(?i)\b(bootcamp|coding bootcamp|immersive program)\b`), 0.55},
}

var csFieldTokens = []string{"computer science", "informatique", "software engineering", " cs "}
var engineeringFieldTokens = []string{"engineering", "electrical", "mechanical", "civil", "ingenierie"}
var relatedFieldTokens = []string{"technology", "information systems", "data science", "mathematics", "physics"}
var unrelatedFieldTokens = []string{"business", "marketing", "biology", "arts", "literature", "history", "law"}

var certificationRe = regexp.MustCompile(`(?i)\bcertified\b|\bcertification\b`)

const degreeFieldWindow = 100

func computeEducation(text string, role *schema.RoleSpec) schema.Education {
	var degrees []schema.Degree
	var best *schema.Degree
	var bestRank float64

	for _, p := range degreePatterns {
		loc := p.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		field := classifyField(text, loc[0])
		d := schema.Degree{Kind: p.kind, Field: field, Evidence: strings.TrimSpace(text[loc[0]:loc[1]])}
		degrees = append(degrees, d)
		if best == nil || p.rank > bestRank {
			dCopy := d
			best = &dCopy
			bestRank = p.rank
		}
	}

	certCount := len(certificationRe.FindAllStringIndex(text, -1))

	score := 0.5
	if best != nil {
		score = bestRank
	}
	score += 0.05 * float64(certCount)

	return schema.Education{
		Degrees:        degrees,
		Certifications: certCount,
		EducationScore: clamp01(score),
	}
}

func classifyField(text string, idx int) schema.DegreeField {
	start := idx - degreeFieldWindow
	if start < 0 {
		start = 0
	}
	end := idx + degreeFieldWindow
	if end > len(text) {
		end = len(text)
	}
	window := " " + strings.ToLower(text[start:end]) + " "

	if containsAny(window, csFieldTokens) {
		return schema.FieldCS
	}
	if containsAny(window, engineeringFieldTokens) {
		return schema.FieldEngineering
	}
	if containsAny(window, unrelatedFieldTokens) {
		return schema.FieldUnrelated
	}
	if containsAny(window, relatedFieldTokens) {
		return schema.FieldRelated
	}
	return schema.FieldUnknown
}

func containsAny(haystack string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(haystack, t) {
			return true
		}
	}
	return false
}
