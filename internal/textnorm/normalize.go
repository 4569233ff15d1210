// Package textnorm canonicalizes raw resume text extracted from PDF/DOCX
// sources into a stable form every downstream extractor can rely on.
package textnorm

import (
	"regexp"
	"strings"
)

var hyphenBreakRe = regexp.MustCompile(`(\p{L})-\n(\p{L})`)

var horizontalSpaceRe = regexp.MustCompile(`[ \t]+`)

// Normalize canonicalizes raw text via eight ordered rules: line-ending
// unification, NBSP/soft-hyphen handling, NUL replacement, control-char
// stripping, de-hyphenation across line breaks, whitespace collapsing,
// blank-run collapsing, and outer trim. Normalize is idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	s := raw

	// 1. Unify line endings to \n.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	// 2. NBSP -> space; soft hyphen removed.
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, "­", "")

	// 3. NUL frequently replaces en-dashes in PDF-extracted date ranges.
	s = strings.ReplaceAll(s, "\x00", " - ")

	// 4. Delete ASCII control chars except \n and \t.
	s = stripControlChars(s)

	// 5. De-hyphenate line-break hyphenation: letter-\nletter -> letterletter.
	s = hyphenBreakRe.ReplaceAllString(s, "$1$2")

	// 6. Collapse horizontal whitespace runs per line, right-trim each line.
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = horizontalSpaceRe.ReplaceAllString(line, " ")
		lines[i] = strings.TrimRight(line, " \t")
	}
	s = strings.Join(lines, "\n")

	// 7. Collapse blank runs: at most two consecutive blank lines preserved.
	s = collapseBlankRuns(s)

	// 8. Trim outer whitespace.
	return strings.TrimSpace(s)
}

func stripControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func collapseBlankRuns(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blankRun := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blankRun++
			if blankRun > 2 {
				continue
			}
		} else {
			blankRun = 0
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

const snippetWidth = 220

// Snippet returns the trimmed line surrounding idx, truncated to 220 chars
// with a middle ellipsis if needed. If the enclosing line is empty, a
// 220-char window centered on idx is returned instead.
func Snippet(text string, idx int) string {
	if idx < 0 {
		idx = 0
	}
	if idx > len(text) {
		idx = len(text)
	}

	lineStart := strings.LastIndexByte(text[:idx], '\n') + 1
	lineEndRel := strings.IndexByte(text[idx:], '\n')
	lineEnd := len(text)
	if lineEndRel >= 0 {
		lineEnd = idx + lineEndRel
	}
	line := strings.TrimSpace(text[lineStart:lineEnd])

	if line == "" {
		return window(text, idx)
	}
	return truncateMiddle(line, snippetWidth)
}

func window(text string, idx int) string {
	half := snippetWidth / 2
	start := idx - half
	if start < 0 {
		start = 0
	}
	end := start + snippetWidth
	if end > len(text) {
		end = len(text)
		start = end - snippetWidth
		if start < 0 {
			start = 0
		}
	}
	return strings.TrimSpace(text[start:end])
}

func truncateMiddle(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	const ellipsis = "..."
	keep := max - len(ellipsis)
	head := keep / 2
	tail := keep - head
	return string(runes[:head]) + ellipsis + string(runes[len(runes)-tail:])
}
