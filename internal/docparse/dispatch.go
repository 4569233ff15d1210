package docparse

import (
	"fmt"
	"strings"

	"github.com/rolematch/candidate-analyzer/internal/schema"
)

// ExtractText dispatches to ExtractPDF or ExtractDOCX based on the declared
// content type, falling back to the file name's extension when the content
// type is empty or unrecognized. The returned text is raw and still needs
// internal/textnorm.Normalize before it is fed into the analysis pipeline.
func ExtractText(data []byte, contentType, fileName string) (string, error) {
	switch normalizeFileType(contentType, fileName) {
	case "pdf":
		return ExtractPDF(data)
	case "docx":
		return ExtractDOCX(data)
	default:
		return "", &schema.ParseError{
			Code:    "UNSUPPORTED_FORMAT",
			Message: fmt.Sprintf("unsupported file type: %q (supported: pdf, docx)", contentType),
		}
	}
}

func normalizeFileType(contentType, fileName string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch ct {
	case "pdf", "application/pdf":
		return "pdf"
	case "docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return "docx"
	}

	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return "pdf"
	case strings.HasSuffix(lower, ".docx"):
		return "docx"
	default:
		return ""
	}
}
