package docparse

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/rolematch/candidate-analyzer/internal/schema"
)

// ExtractDOCX pulls the plain text content out of a DOCX byte slice. DOCX
// files are ZIP archives containing a word/document.xml part; paragraph and
// line breaks are preserved as newlines.
func ExtractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &schema.ParseError{Code: "EMPTY_FILE", Message: "DOCX file is empty"}
	}

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &schema.ParseError{Code: "INVALID_FORMAT", Message: fmt.Sprintf("file does not appear to be a valid DOCX (ZIP): %v", err)}
	}

	var docXML []byte
	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", &schema.ParseError{Code: "DOCX_READ_ERROR", Message: fmt.Sprintf("failed to open word/document.xml: %v", err)}
		}
		docXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", &schema.ParseError{Code: "DOCX_READ_ERROR", Message: fmt.Sprintf("failed to read word/document.xml: %v", err)}
		}
		break
	}
	if docXML == nil {
		return "", &schema.ParseError{Code: "INVALID_FORMAT", Message: "word/document.xml not found in DOCX archive"}
	}

	text, err := extractTextFromWordXML(docXML)
	if err != nil {
		return "", &schema.ParseError{Code: "DOCX_PARSE_ERROR", Message: fmt.Sprintf("failed to parse DOCX XML: %v", err)}
	}
	if strings.TrimSpace(text) == "" {
		return "", &schema.ParseError{Code: "NO_TEXT_CONTENT", Message: "DOCX document contains no extractable text"}
	}
	return scrubControlChars(text), nil
}

func extractTextFromWordXML(data []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var sb strings.Builder

	type stackEntry struct{ name string }
	var stack []stackEntry
	inParagraph := false
	paragraphHasText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("xml decode: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			localName := t.Name.Local
			stack = append(stack, stackEntry{name: localName})
			switch localName {
			case "p":
				inParagraph = true
				paragraphHasText = false
			case "br":
				sb.WriteRune('\n')
			case "tab":
				sb.WriteRune('\t')
			}
		case xml.EndElement:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.name == "p" {
					inParagraph = false
					if paragraphHasText {
						sb.WriteRune('\n')
					}
				}
			}
		case xml.CharData:
			if inParagraph {
				text := string(t)
				if strings.TrimSpace(text) != "" {
					sb.WriteString(text)
					paragraphHasText = true
				}
			}
		}
	}

	return sb.String(), nil
}
