// Package dateinterval extracts month intervals from canonical resume text
// using a battery of locale-aware (English/French) date-range patterns, then
// merges the results into a minimal set of non-overlapping intervals.
package dateinterval

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/rolematch/candidate-analyzer/internal/schema"
)

// maxIntervalMonths drops any single interval of 50 years or more — almost
// certainly a mis-parse rather than a real employment span.
const maxIntervalMonths = 600

var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases s and strips diacritics so month names and present-tokens
// match regardless of English/French accenting.
func fold(s string) string {
	s = strings.ReplaceAll(s, "’", "'")
	out, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

var rawPresentTokens = []string{
	"present", "current", "présent", "actuel", "aujourd'hui", "à ce jour",
	"ce jour", "to date", "today", "en cours", "ongoing", "now",
	"maintenant", "actuellement",
}

var presentTokens = foldUnique(rawPresentTokens)

var internshipTokens = []string{
	"stage", "stagiaire", "intern", "internship", "trainee", "alternance",
	"apprentissage", "apprenti", "pfe", "sfe", "fin d'etudes",
}

func foldUnique(tokens []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		f := fold(t)
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

func alternation(tokens []string) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = regexp.QuoteMeta(t)
	}
	return strings.Join(parts, "|")
}

var presentAlt = alternation(presentTokens)

// monthTokenToNum maps folded (lowercase, diacritic-stripped) month tokens
// in English and French, full and abbreviated forms, to a 1-12 month
// number.
var monthTokenToNum = map[string]int{
	"january": 1, "janvier": 1, "janv": 1, "jan": 1,
	"february": 2, "fevrier": 2, "fevr": 2, "fev": 2, "feb": 2,
	"march": 3, "mars": 3, "mar": 3,
	"april": 4, "avril": 4, "avr": 4, "apr": 4,
	"may": 5, "mai": 5,
	"june": 6, "juin": 6, "jun": 6,
	"july": 7, "juillet": 7, "juil": 7, "jul": 7,
	"august": 8, "aout": 8, "aou": 8, "aug": 8,
	"september": 9, "septembre": 9, "sept": 9, "sep": 9,
	"october": 10, "octobre": 10, "oct": 10,
	"november": 11, "novembre": 11, "nov": 11,
	"december": 12, "decembre": 12, "dec": 12,
}

var monthAlt = func() string {
	keys := make([]string, 0, len(monthTokenToNum))
	for k := range monthTokenToNum {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	return alternation(keys)
}()

const sep = `(?:-|–|—|to|a|au|jusqu'a)`

var (
	yearRangeRe = regexp.MustCompile(
		`\b((?:19|20)\d{2})\s*` + sep + `\s*((?:19|20)\d{2}|` + presentAlt + `)\b`)

	monthNameRangeRe = regexp.MustCompile(
		`\b(` + monthAlt + `)\.?\s+((?:19|20)\d{2})\s*` + sep + `\s*(?:(` + monthAlt + `)\.?\s+)?((?:19|20)\d{2}|` + presentAlt + `)\b`)

	dayMonthYearRangeRe = regexp.MustCompile(
		`\b\d{1,2}\s+(` + monthAlt + `)\.?\s+((?:19|20)\d{2})\s*` + sep + `\s*\d{1,2}\s+(` + monthAlt + `)\.?\s+((?:19|20)\d{2}|` + presentAlt + `)\b`)

	numericRangeRe = regexp.MustCompile(
		`\b(0[1-9]|1[0-2])/((?:19|20)\d{2}|\d{2})\s*` + sep + `\s*(?:(0[1-9]|1[0-2])/)?((?:19|20)\d{2}|\d{2}|` + presentAlt + `)\b`)

	dottedRangeRe = regexp.MustCompile(
		`\b(\d{1,2})\.(\d{1,2})\.((?:19|20)\d{2})\s*` + sep + `\s*(\d{1,2})\.(\d{1,2})\.((?:19|20)\d{2}|` + presentAlt + `)\b`)

	singleMonthYearRe = regexp.MustCompile(
		`\b(` + monthAlt + `)\.?\s+((?:19|20)\d{2})\b`)

	sinceRe = regexp.MustCompile(
		`\b(?:since|depuis)\s+(` + monthAlt + `)\.?\s+((?:19|20)\d{2})\b`)
)

func isPresentToken(s string) bool {
	for _, t := range presentTokens {
		if s == t {
			return true
		}
	}
	return false
}

func monthNum(token string) (int, bool) {
	m, ok := monthTokenToNum[token]
	return m, ok
}

func normalizeYear(raw string, nowYear int) (int, bool) {
	switch len(raw) {
	case 4:
		y, err := strconv.Atoi(raw)
		if err != nil {
			return 0, false
		}
		if y < 1950 || y > nowYear+1 {
			return 0, false
		}
		return y, true
	case 2:
		y2, err := strconv.Atoi(raw)
		if err != nil {
			return 0, false
		}
		cutoff := nowYear%100 + 1
		y := 1900 + y2
		if y2 <= cutoff {
			y = 2000 + y2
		}
		if y < 1950 || y > nowYear+1 {
			return 0, false
		}
		return y, true
	default:
		return 0, false
	}
}

func monthIndex(year, month int) int { return year*12 + (month - 1) }

// ExtractAll applies the seven extractors to every line of canonical text
// and returns the unioned, merged set of month intervals.
func ExtractAll(text string, now schema.YearMonth) []schema.MonthInterval {
	lines := strings.Split(text, "\n")
	folded := make([]string, len(lines))
	for i, l := range lines {
		folded[i] = fold(l)
	}

	var all []schema.MonthInterval
	all = append(all, extractYearYearRanges(folded, now)...)
	all = append(all, extractMonthNameRanges(folded, now)...)
	all = append(all, extractDayMonthYearRanges(folded, now)...)
	all = append(all, extractNumericRanges(folded, now)...)
	all = append(all, extractDottedRanges(folded, now)...)
	all = append(all, extractSingleMonthYearNearInternship(folded, now)...)
	all = append(all, extractOpenEnded(folded, now)...)

	return Merge(all)
}

func extractYearYearRanges(folded []string, now schema.YearMonth) []schema.MonthInterval {
	var out []schema.MonthInterval
	for _, line := range folded {
		for _, m := range yearRangeRe.FindAllStringSubmatch(line, -1) {
			startYear, ok := normalizeYear(m[1], now.Year)
			if !ok {
				continue
			}
			startIdx := monthIndex(startYear, 1)
			endIdx, ok := resolveEndYearOnly(m[2], now)
			if !ok || endIdx <= startIdx {
				continue
			}
			out = append(out, schema.MonthInterval{Start: startIdx, End: endIdx})
		}
	}
	return out
}

func resolveEndYearOnly(token string, now schema.YearMonth) (int, bool) {
	if isPresentToken(token) {
		return now.Index(), true
	}
	endYear, ok := normalizeYear(token, now.Year)
	if !ok {
		return 0, false
	}
	return monthIndex(endYear, 1), true
}

func extractMonthNameRanges(folded []string, now schema.YearMonth) []schema.MonthInterval {
	var out []schema.MonthInterval
	for _, line := range folded {
		for _, m := range monthNameRangeRe.FindAllStringSubmatch(line, -1) {
			startMonth, ok := monthNum(m[1])
			if !ok {
				continue
			}
			startYear, ok := normalizeYear(m[2], now.Year)
			if !ok {
				continue
			}
			startIdx := monthIndex(startYear, startMonth)

			var endIdx int
			if isPresentToken(m[4]) {
				endIdx = now.Index()
			} else {
				endYear, ok := normalizeYear(m[4], now.Year)
				if !ok {
					continue
				}
				if m[3] != "" {
					endMonth, ok := monthNum(m[3])
					if !ok {
						continue
					}
					endIdx = monthIndex(endYear, endMonth) + 1
				} else {
					endIdx = monthIndex(endYear, 1)
				}
			}
			if endIdx > startIdx {
				out = append(out, schema.MonthInterval{Start: startIdx, End: endIdx})
			}
		}
	}
	return out
}

func extractDayMonthYearRanges(folded []string, now schema.YearMonth) []schema.MonthInterval {
	var out []schema.MonthInterval
	for _, line := range folded {
		for _, m := range dayMonthYearRangeRe.FindAllStringSubmatch(line, -1) {
			startMonth, ok := monthNum(m[1])
			if !ok {
				continue
			}
			startYear, ok := normalizeYear(m[2], now.Year)
			if !ok {
				continue
			}
			endMonth, ok := monthNum(m[3])
			if !ok {
				continue
			}
			var endIdx int
			if isPresentToken(m[4]) {
				endIdx = now.Index()
			} else {
				endYear, ok := normalizeYear(m[4], now.Year)
				if !ok {
					continue
				}
				endIdx = monthIndex(endYear, endMonth) + 1
			}
			startIdx := monthIndex(startYear, startMonth)
			if endIdx > startIdx {
				out = append(out, schema.MonthInterval{Start: startIdx, End: endIdx})
			}
		}
	}
	return out
}

func extractNumericRanges(folded []string, now schema.YearMonth) []schema.MonthInterval {
	var out []schema.MonthInterval
	for _, line := range folded {
		for _, m := range numericRangeRe.FindAllStringSubmatch(line, -1) {
			startMonth, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			startYear, ok := normalizeYear(m[2], now.Year)
			if !ok {
				continue
			}
			startIdx := monthIndex(startYear, startMonth)

			var endIdx int
			if isPresentToken(m[4]) {
				endIdx = now.Index()
			} else {
				endYear, ok := normalizeYear(m[4], now.Year)
				if !ok {
					continue
				}
				if m[3] != "" {
					endMonth, err := strconv.Atoi(m[3])
					if err != nil {
						continue
					}
					endIdx = monthIndex(endYear, endMonth) + 1
				} else {
					endIdx = monthIndex(endYear, 1)
				}
			}
			if endIdx > startIdx {
				out = append(out, schema.MonthInterval{Start: startIdx, End: endIdx})
			}
		}
	}
	return out
}

// extractDottedRanges handles DD.MM.YYYY – DD.MM.YYYY, the French
// day-first-dotted convention: the first numeral is always the day and the
// second the month.
func extractDottedRanges(folded []string, now schema.YearMonth) []schema.MonthInterval {
	var out []schema.MonthInterval
	for _, line := range folded {
		for _, m := range dottedRangeRe.FindAllStringSubmatch(line, -1) {
			startMonth, err := strconv.Atoi(m[2])
			if err != nil || startMonth < 1 || startMonth > 12 {
				continue
			}
			startYear, ok := normalizeYear(m[3], now.Year)
			if !ok {
				continue
			}
			startIdx := monthIndex(startYear, startMonth)

			var endIdx int
			if isPresentToken(m[6]) {
				endIdx = now.Index()
			} else {
				endMonth, err := strconv.Atoi(m[5])
				if err != nil || endMonth < 1 || endMonth > 12 {
					continue
				}
				endYear, ok := normalizeYear(m[6], now.Year)
				if !ok {
					continue
				}
				endIdx = monthIndex(endYear, endMonth) + 1
			}
			if endIdx > startIdx {
				out = append(out, schema.MonthInterval{Start: startIdx, End: endIdx})
			}
		}
	}
	return out
}

// extractSingleMonthYearNearInternship counts a bare MonthYear mention (no
// range) as a one-month interval, but only when an internship keyword
// appears within the same line or an adjacent one.
func extractSingleMonthYearNearInternship(folded []string, now schema.YearMonth) []schema.MonthInterval {
	var out []schema.MonthInterval
	for i, line := range folded {
		for _, m := range singleMonthYearRe.FindAllStringSubmatch(line, -1) {
			if monthNameRangeRe.MatchString(line) || dayMonthYearRangeRe.MatchString(line) {
				continue
			}
			if !nearInternshipKeyword(folded, i) {
				continue
			}
			month, ok := monthNum(m[1])
			if !ok {
				continue
			}
			year, ok := normalizeYear(m[2], now.Year)
			if !ok {
				continue
			}
			start := monthIndex(year, month)
			out = append(out, schema.MonthInterval{Start: start, End: start + 1})
		}
	}
	return out
}

func nearInternshipKeyword(folded []string, i int) bool {
	for _, j := range []int{i - 1, i, i + 1} {
		if j < 0 || j >= len(folded) {
			continue
		}
		for _, tok := range internshipTokens {
			if strings.Contains(folded[j], tok) {
				return true
			}
		}
	}
	return false
}

func extractOpenEnded(folded []string, now schema.YearMonth) []schema.MonthInterval {
	var out []schema.MonthInterval
	for _, line := range folded {
		for _, m := range sinceRe.FindAllStringSubmatch(line, -1) {
			month, ok := monthNum(m[1])
			if !ok {
				continue
			}
			year, ok := normalizeYear(m[2], now.Year)
			if !ok {
				continue
			}
			start := monthIndex(year, month)
			end := now.Index()
			if end > start {
				out = append(out, schema.MonthInterval{Start: start, End: end})
			}
		}
	}
	return out
}

// Merge sorts intervals by start and merges any that overlap or touch
// (next.Start <= current.End), dropping intervals of maxIntervalMonths or
// more.
func Merge(intervals []schema.MonthInterval) []schema.MonthInterval {
	filtered := make([]schema.MonthInterval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.End <= iv.Start {
			continue
		}
		if iv.End-iv.Start >= maxIntervalMonths {
			continue
		}
		filtered = append(filtered, iv)
	}
	if len(filtered) == 0 {
		return nil
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Start < filtered[j].Start })

	merged := []schema.MonthInterval{filtered[0]}
	for _, iv := range filtered[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// TotalMonths sums the widths of a merged interval set.
func TotalMonths(intervals []schema.MonthInterval) int {
	total := 0
	for _, iv := range intervals {
		total += iv.Months()
	}
	return total
}
