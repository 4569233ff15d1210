// Package rolesegment locates the Experience section of a resume and splits
// it into individual ParsedRole blocks, each with a title, a merged date
// interval, and a professional/internship tag.
package rolesegment

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rolematch/candidate-analyzer/internal/dateinterval"
	"github.com/rolematch/candidate-analyzer/internal/schema"
)

var startHeadingTokens = []string{
	"experience", "experiences", "professionalexperience", "workexperience",
	"careerhistory", "employmenthistory", "parcoursprofessionnel",
	"experienceprofessionnelle", "experiencesprofessionnelles",
}

var endHeadingTokens = []string{
	"education", "formation", "skills", "competences", "projects",
	"certifications", "languages", "hobbies", "references", "about",
	"summary", "interets", "langues", "centresdinteret",
}

var internshipTokens = []string{
	"stage", "stagiaire", "intern", "internship", "trainee", "alternance",
	"apprentissage", "apprenti", "pfe", "sfe", "fin d'etudes",
}

// internshipRe matches internshipTokens as whole words, so "internal" is not
// read as "intern".
var internshipRe = func() *regexp.Regexp {
	quoted := make([]string, len(internshipTokens))
	for i, t := range internshipTokens {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}()

var separatorCountRe = regexp.MustCompile(`[,|/•]`)
var explicitYearsRe = regexp.MustCompile(`\b(\d{1,2}(?:\.\d)?)\s*(?:\+\s*)?(?:years?|ans?)\b(?:\s+(?:of\s+)?(?:experience|d['\x27]experience))?`)

func normalizeHeadingToken(line string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(foldAscii(line)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// foldAscii mirrors dateinterval's diacritic fold without creating a
// circular dependency; heading detection only needs ASCII letters, so a
// small local fold suffices.
func foldAscii(s string) string {
	repl := strings.NewReplacer(
		"é", "e", "è", "e", "ê", "e", "ë", "e",
		"à", "a", "â", "a", "ô", "o", "î", "i",
		"ï", "i", "ù", "u", "û", "u", "ç", "c",
		"É", "E", "È", "E", "À", "A",
	)
	return repl.Replace(s)
}

func looksLikeHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > 100 {
		return false
	}
	words := strings.Fields(trimmed)
	if len(words) > 10 {
		return false
	}
	if len(words) <= 5 {
		return true
	}
	return uppercaseRatio(trimmed) >= 0.7
}

func uppercaseRatio(s string) float64 {
	var upper, letters int
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			upper++
			letters++
		} else if r >= 'a' && r <= 'z' {
			letters++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}

func containsAnyToken(normalized string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(normalized, t) {
			return true
		}
	}
	return false
}

// segment locates the Experience section's line range [start, end) within
// lines. Returns ok=false if no matching heading is found.
func segment(lines []string) (start, end int, ok bool) {
	type candidate struct{ start, end int }
	var candidates []candidate

	for i, line := range lines {
		if !looksLikeHeading(line) {
			continue
		}
		norm := normalizeHeadingToken(line)
		if !containsAnyToken(norm, startHeadingTokens) {
			continue
		}
		bodyStart := i + 1
		bodyEnd := len(lines)
		for j := bodyStart; j < len(lines); j++ {
			if !looksLikeHeading(lines[j]) {
				continue
			}
			if containsAnyToken(normalizeHeadingToken(lines[j]), endHeadingTokens) {
				bodyEnd = j
				break
			}
		}
		candidates = append(candidates, candidate{bodyStart, bodyEnd})
	}

	if len(candidates) == 0 {
		return 0, 0, false
	}

	best := candidates[0]
	bestLen := bodyLen(lines, best.start, best.end)
	if bestLen < 100 && len(candidates) > 1 {
		for _, c := range candidates[1:] {
			l := bodyLen(lines, c.start, c.end)
			if l > bestLen {
				best = c
				bestLen = l
			}
		}
	}
	return best.start, best.end, true
}

func bodyLen(lines []string, start, end int) int {
	n := 0
	for i := start; i < end && i < len(lines); i++ {
		n += len(lines[i])
	}
	return n
}

func looksLikeSkillList(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) > 140 {
		return true
	}
	seps := len(separatorCountRe.FindAllString(trimmed, -1))
	words := strings.Fields(trimmed)
	if seps >= 3 && len(words) >= 4 {
		return true
	}
	shortTokens := 0
	for _, w := range words {
		if len(w) <= 3 {
			shortTokens++
		}
	}
	return shortTokens >= 5
}

// Segment locates the Experience section and splits it into ParsedRole
// blocks, one per line that contains a date interval.
func Segment(normalizedText string, now schema.YearMonth) []schema.ParsedRole {
	lines := strings.Split(normalizedText, "\n")
	start, end, ok := segment(lines)
	if !ok {
		// No Experience heading found; fall back to scanning the whole text
		// for role-shaped lines, mirroring YearsOfExperience's own full-text
		// fallback tier below.
		start, end = 0, len(lines)
	}

	var roles []schema.ParsedRole
	var pendingTitleLines []string

	// A title line is any non-blank, non-skill-list line that is not itself a
	// section heading (a short line naming an experience or end section).
	isTitleLine := func(l string) bool {
		if strings.TrimSpace(l) == "" || looksLikeSkillList(l) {
			return false
		}
		norm := normalizeHeadingToken(l)
		return !looksLikeHeading(l) ||
			!(containsAnyToken(norm, startHeadingTokens) || containsAnyToken(norm, endHeadingTokens))
	}

	i := start
	for i < end {
		line := lines[i]
		intervals := dateinterval.ExtractAll(line, now)
		if len(intervals) == 0 {
			if isTitleLine(line) {
				pendingTitleLines = append(pendingTitleLines, line)
				if len(pendingTitleLines) > 2 {
					pendingTitleLines = pendingTitleLines[len(pendingTitleLines)-2:]
				}
			}
			i++
			continue
		}

		// This line opens a role. Consume subsequent lines up to (but not
		// including) the next line that itself opens a role, accumulating
		// their intervals into this role's block.
		// The last two title lines seen in the block become the next role's
		// title lines.
		blockLines := []string{line}
		var nextTitleLines []string
		j := i + 1
		for j < end {
			hasDates := len(dateinterval.ExtractAll(lines[j], now)) > 0
			if hasDates && lineLooksLikeNewRoleHeader(lines[j]) {
				break
			}
			blockLines = append(blockLines, lines[j])
			if !hasDates && isTitleLine(lines[j]) {
				nextTitleLines = append(nextTitleLines, lines[j])
			}
			j++
		}
		if len(nextTitleLines) > 2 {
			nextTitleLines = nextTitleLines[len(nextTitleLines)-2:]
		}

		textBlock := strings.Join(blockLines, "\n")
		blockIntervals := dateinterval.Merge(dateinterval.ExtractAll(textBlock, now))
		if len(blockIntervals) > 0 {
			merged := mergeSpan(blockIntervals)
			title := strings.TrimSpace(strings.Join(pendingTitleLines, " "))
			roles = append(roles, schema.ParsedRole{
				Title:           title,
				StartMonthIndex: merged.Start,
				EndMonthIndex:   merged.End,
				DurationMonths:  dateinterval.TotalMonths(blockIntervals),
				TextBlock:       textBlock,
				Professional:    !internshipRe.MatchString(foldAscii(strings.ToLower(title + " " + textBlock))),
			})
		}
		pendingTitleLines = nextTitleLines
		i = j
	}

	return roles
}

// lineLooksLikeNewRoleHeader keeps a role block from growing forever when a
// skill-rich bullet happens to mention a bare year; a new role header is
// short and doesn't look like a bullet/skill list.
func lineLooksLikeNewRoleHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "•") || strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
		return false
	}
	return !looksLikeSkillList(trimmed)
}

func mergeSpan(intervals []schema.MonthInterval) schema.MonthInterval {
	span := intervals[0]
	for _, iv := range intervals[1:] {
		if iv.Start < span.Start {
			span.Start = iv.Start
		}
		if iv.End > span.End {
			span.End = iv.End
		}
	}
	return span
}

func monthsToYears(months int) float64 {
	return float64(months) / 12.0
}

func clampYears(y float64) float64 {
	if y < 0 {
		y = 0
	}
	if y > 50 {
		y = 50
	}
	return roundTo1(y)
}

func roundTo1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

// YearsOfExperience computes total professional years from parsed roles,
// falling back in order to: intervals of the full Experience section,
// intervals of the entire text, and explicit "X years experience" anchors.
// Returns nil only when nothing yields any interval or anchor.
func YearsOfExperience(roles []schema.ParsedRole, normalizedText string, now schema.YearMonth) *float64 {
	professionalMonths := 0
	for _, r := range roles {
		if r.Professional {
			professionalMonths += r.DurationMonths
		}
	}
	if professionalMonths > 0 {
		y := clampYears(monthsToYears(professionalMonths))
		return &y
	}

	lines := strings.Split(normalizedText, "\n")
	start, end, ok := segment(lines)
	if ok {
		scoped := strings.Join(lines[start:end], "\n")
		if months := dateinterval.TotalMonths(dateinterval.ExtractAll(scoped, now)); months > 0 {
			y := clampYears(monthsToYears(months))
			return &y
		}
	}

	if months := dateinterval.TotalMonths(dateinterval.ExtractAll(normalizedText, now)); months > 0 {
		y := clampYears(monthsToYears(months))
		return &y
	}

	if y, ok := explicitYearsAnchor(normalizedText); ok {
		v := clampYears(y)
		return &v
	}

	return nil
}

func explicitYearsAnchor(text string) (float64, bool) {
	folded := strings.ToLower(foldAscii(text))
	if looksInternshipOnly(folded) {
		return 0, false
	}
	m := explicitYearsRe.FindStringSubmatch(folded)
	if m == nil {
		return 0, false
	}
	y, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return y, true
}

func looksInternshipOnly(folded string) bool {
	hasInternship := containsAnyToken(folded, internshipTokens)
	hasProfessionalHeading := containsAnyToken(normalizeHeadingToken(folded), startHeadingTokens)
	return hasInternship && !hasProfessionalHeading
}
