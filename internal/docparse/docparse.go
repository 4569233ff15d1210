// Package docparse extracts raw, un-normalized text from resume files
// submitted as PDF or DOCX. It never returns normalized text: that is
// internal/textnorm's job.
package docparse

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/dslipak/pdf"

	"github.com/rolematch/candidate-analyzer/internal/schema"
)

// ExtractPDF pulls the plain text content out of a PDF byte slice, page by
// page. It returns a ParseError when the file is empty, not a valid PDF, or
// contains no extractable text (e.g. a scanned image with no text layer).
func ExtractPDF(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &schema.ParseError{Code: "EMPTY_FILE", Message: "PDF file is empty"}
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return "", &schema.ParseError{Code: "INVALID_FORMAT", Message: "file does not appear to be a valid PDF"}
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &schema.ParseError{Code: "PDF_PARSE_ERROR", Message: fmt.Sprintf("failed to open PDF: %v", err)}
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return "", &schema.ParseError{Code: "NO_TEXT_CONTENT", Message: "PDF has no pages"}
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	result := sb.String()
	if strings.TrimSpace(result) == "" {
		return "", &schema.ParseError{
			Code:    "NO_TEXT_CONTENT",
			Message: "PDF appears to contain no extractable text (may be image-based or encrypted)",
		}
	}
	return scrubControlChars(result), nil
}

// scrubControlChars removes non-printable control characters while leaving
// newlines, tabs, and ordinary whitespace for textnorm to handle.
func scrubControlChars(text string) string {
	var sb strings.Builder
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' {
			sb.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
