package batchapi

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/rolematch/candidate-analyzer/internal/schema"
)

func buildTestBatchHandler() *Handler {
	logger := log.New(os.Stderr, "[batchapi-test] ", 0)
	return NewHandler(logger, func() schema.YearMonth { return schema.YearMonth{Year: 2026, Month: 6} })
}

func buildBatchRequest(t *testing.T, req BatchAnalyzeRequest) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	return bytes.NewBuffer(data)
}

func TestBatchAnalyzeHandler_MethodNotAllowed(t *testing.T) {
	h := buildTestBatchHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/batch-analyze", nil)
	w := httptest.NewRecorder()

	h.BatchAnalyzeHandler(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
	var resp BatchAnalyzeResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Success {
		t.Error("expected success=false")
	}
}

func TestBatchAnalyzeHandler_InvalidJSON(t *testing.T) {
	h := buildTestBatchHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batch-analyze", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.BatchAnalyzeHandler(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestBatchAnalyzeHandler_EmptyCandidatesRejected(t *testing.T) {
	h := buildTestBatchHandler()
	body := buildBatchRequest(t, BatchAnalyzeRequest{Role: schema.RoleSpec{MinYearsExperience: 3}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batch-analyze", body)
	w := httptest.NewRecorder()

	h.BatchAnalyzeHandler(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestBatchAnalyzeHandler_RanksCandidatesByScoreDescending(t *testing.T) {
	h := buildTestBatchHandler()
	role := schema.RoleSpec{
		MinYearsExperience: 1,
		MustHaveSkills:     []schema.RoleSkill{{Skill: "Go", Weight: 1}},
	}
	body := buildBatchRequest(t, BatchAnalyzeRequest{
		Role: role,
		Candidates: []candidateInput{
			{CandidateID: "weak", RawText: "A short note about gardening."},
			{CandidateID: "strong", RawText: "Senior Go engineer with 8 years of backend experience, led projects serving 5 million users."},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batch-analyze", body)
	w := httptest.NewRecorder()

	h.BatchAnalyzeHandler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp BatchAnalyzeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || len(resp.Data) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Data[0].CandidateID != "strong" {
		t.Errorf("expected 'strong' ranked first, got %q", resp.Data[0].CandidateID)
	}
}

func TestHealthHandler_ReturnsOK(t *testing.T) {
	h := buildTestBatchHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()

	h.HealthHandler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
