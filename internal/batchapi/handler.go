// Package batchapi exposes the candidate analysis pipeline over HTTP: a
// batch-analyze endpoint that scores many candidates against one role in
// parallel, and a health check.
package batchapi

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/rolematch/candidate-analyzer/internal/docparse"
	"github.com/rolematch/candidate-analyzer/internal/schema"
	"github.com/rolematch/candidate-analyzer/internal/textcache"
	"github.com/rolematch/candidate-analyzer/internal/textnorm"
	"github.com/rolematch/candidate-analyzer/pkg/coreapi"
)

// textNormSchemaVersion is bumped whenever textnorm's normalization rules
// change, invalidating previously cached normalized text in the textcache
// store without a migration.
const textNormSchemaVersion = 1

// Handler holds the HTTP handler dependencies for the batch analysis API.
type Handler struct {
	logger *log.Logger
	clock  func() schema.YearMonth
	cache  *textcache.Store // optional; nil disables caching
}

// NewHandler creates a new batchapi Handler. clock supplies the injected
// "now" for every analysis run through this handler; production wiring
// passes the wall-clock year/month, tests pass a fixed value.
func NewHandler(logger *log.Logger, clock func() schema.YearMonth) *Handler {
	return &Handler{logger: logger, clock: clock}
}

// WithCache attaches a text cache store, enabling UploadAnalyzeHandler to
// skip re-running docparse+textnorm for a previously seen candidate.
func (h *Handler) WithCache(store *textcache.Store) *Handler {
	h.cache = store
	return h
}

// RegisterRoutes registers the batch analysis routes on the given mux.
//
//	POST /api/v1/batch-analyze   – score N candidates against one role
//	POST /api/v1/upload-analyze  – upload one PDF/DOCX file, score against one role
//	GET  /api/v1/health          – liveness check
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/batch-analyze", h.withMiddleware(h.BatchAnalyzeHandler))
	mux.HandleFunc("/api/v1/upload-analyze", h.withMiddleware(h.UploadAnalyzeHandler))
	mux.HandleFunc("/api/v1/health", h.withMiddleware(h.HealthHandler))
}

func (h *Handler) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Printf("PANIC in batchapi: %v", rec)
				h.writeError(w, http.StatusInternalServerError, "an unexpected error occurred")
			}
		}()
		h.logger.Printf("%s %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next(w, r)
		h.logger.Printf("%s %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	}
}

// BatchAnalyzeRequest is the request body for POST /api/v1/batch-analyze.
type BatchAnalyzeRequest struct {
	Project    *schema.ProjectSpec `json:"project,omitempty"`
	Role       schema.RoleSpec     `json:"role"`
	Candidates []candidateInput    `json:"candidates"`
}

// BatchAnalyzeResponse wraps ranked results or an error, matching the
// teacher's {success, data, error} envelope.
type BatchAnalyzeResponse struct {
	Success bool                         `json:"success"`
	Data    []coreapi.CandidateAnalysis  `json:"data,omitempty"`
	Error   string                       `json:"error,omitempty"`
}

// BatchAnalyzeHandler handles POST /api/v1/batch-analyze.
func (h *Handler) BatchAnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "only POST is supported")
		return
	}

	var req BatchAnalyzeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Candidates) == 0 {
		h.writeError(w, http.StatusBadRequest, "candidates must not be empty")
		return
	}

	results := analyzeAll(req.Candidates, req.Project, &req.Role, h.clock())

	h.writeJSON(w, http.StatusOK, BatchAnalyzeResponse{Success: true, Data: results})
}

// AnalyzeResponse wraps a single candidate result or an error.
type AnalyzeResponse struct {
	Success bool                     `json:"success"`
	Data    *coreapi.CandidateAnalysis `json:"data,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

// UploadAnalyzeHandler handles POST /api/v1/upload-analyze. It accepts a
// raw PDF or DOCX file body, a candidateId and role JSON payload via query
// parameters and headers, extracts and normalizes the text (using the text
// cache when available), and returns one CandidateAnalysis.
//
// Expected request:
//
//	POST /api/v1/upload-analyze?candidateId=c1
//	Content-Type: application/pdf | application/vnd.openxmlformats-officedocument.wordprocessingml.document
//	X-Role-Spec: <JSON-encoded schema.RoleSpec>
//	body: raw file bytes
func (h *Handler) UploadAnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "only POST is supported")
		return
	}

	candidateID := r.URL.Query().Get("candidateId")
	if candidateID == "" {
		h.writeError(w, http.StatusBadRequest, "candidateId query parameter is required")
		return
	}

	var role schema.RoleSpec
	if err := json.Unmarshal([]byte(r.Header.Get("X-Role-Spec")), &role); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid X-Role-Spec header: "+err.Error())
		return
	}

	normalized, err := h.normalizedTextFor(r, candidateID)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result := coreapi.Analyze(coreapi.AnalyzeInput{
		CandidateID: candidateID,
		RawText:     normalized,
		Role:        &role,
		Now:         h.clock(),
	})
	h.writeJSON(w, http.StatusOK, AnalyzeResponse{Success: true, Data: &result})
}

// normalizedTextFor returns cached normalized text for candidateID when the
// cache is enabled and holds a current-schema-version entry, otherwise reads
// the request body, extracts and normalizes it, and stores it in the cache.
func (h *Handler) normalizedTextFor(r *http.Request, candidateID string) (string, error) {
	ctx := r.Context()
	if h.cache != nil {
		if rec, err := h.cache.Get(ctx, candidateID, textNormSchemaVersion); err == nil {
			return rec.NormalizedText, nil
		}
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	rawText, err := docparse.ExtractText(data, r.Header.Get("Content-Type"), r.URL.Query().Get("fileName"))
	if err != nil {
		return "", err
	}
	normalized := textnorm.Normalize(rawText)

	if h.cache != nil {
		if _, err := h.cache.Put(ctx, candidateID, textNormSchemaVersion, normalized); err != nil {
			h.logger.Printf("failed to cache normalized text for %s: %v", candidateID, err)
		}
	}
	return normalized, nil
}

// HealthHandler handles GET /api/v1/health.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Printf("failed to encode JSON response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, BatchAnalyzeResponse{Success: false, Error: message})
}
