package batchapi

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rolematch/candidate-analyzer/internal/schema"
)

func buildTestDOCX(t *testing.T, paragraph string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	docXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p><w:r><w:t>` + paragraph + `</w:t></w:r></w:p></w:body>
</w:document>`
	f, _ := w.Create("word/document.xml")
	f.Write([]byte(docXML))
	w.Close()
	return buf.Bytes()
}

func TestUploadAnalyzeHandler_MethodNotAllowed(t *testing.T) {
	h := buildTestBatchHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/upload-analyze", nil)
	w := httptest.NewRecorder()

	h.UploadAnalyzeHandler(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestUploadAnalyzeHandler_MissingCandidateID(t *testing.T) {
	h := buildTestBatchHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload-analyze", bytes.NewReader(nil))
	w := httptest.NewRecorder()

	h.UploadAnalyzeHandler(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUploadAnalyzeHandler_ExtractsAndScoresDOCX(t *testing.T) {
	h := buildTestBatchHandler()
	role := schema.RoleSpec{MustHaveSkills: []schema.RoleSkill{{Skill: "Go", Weight: 1}}}
	roleJSON, _ := json.Marshal(role)

	body := buildTestDOCX(t, "Senior Go engineer with backend experience.")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload-analyze?candidateId=c1&fileName=resume.docx", bytes.NewReader(body))
	req.Header.Set("X-Role-Spec", string(roleJSON))
	w := httptest.NewRecorder()

	h.UploadAnalyzeHandler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp AnalyzeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.Data.Features.MustHave[0].Matched {
		t.Errorf("expected Go to be matched from uploaded DOCX text")
	}
}

func TestUploadAnalyzeHandler_UnsupportedFileTypeReturnsError(t *testing.T) {
	h := buildTestBatchHandler()
	role := schema.RoleSpec{}
	roleJSON, _ := json.Marshal(role)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload-analyze?candidateId=c1&fileName=resume.txt", bytes.NewReader([]byte("hello")))
	req.Header.Set("X-Role-Spec", string(roleJSON))
	w := httptest.NewRecorder()

	h.UploadAnalyzeHandler(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
}
