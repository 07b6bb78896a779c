package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"github.com/cognicore/grammaru/pkg/grammaru/algorithm"
	"github.com/cognicore/grammaru/pkg/grammaru/algorithms/nncheck"
	"github.com/cognicore/grammaru/pkg/grammaru/config"
	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/separator"
)

// ---- JSON types ---------------------------------------------------------

// maxBodyBytes bounds request bodies read by decodeText.
const maxBodyBytes = 1 << 20

// Paragraphs is a pointer so an explicit empty list (check nothing) stays
// distinct from an absent field (check everything).
type textRequest struct {
	Text       string `json:"text"`
	Paragraphs *[]int `json:"paragraphs,omitempty"`
}

type analyzeResponse struct {
	Rows      int                     `json:"rows"`
	Analyzers map[string]*frame.Frame `json:"analyzers"`
}

type checkResponse struct {
	Algorithm string          `json:"algorithm"`
	Checked   int             `json:"checked"`
	Flagged   int             `json:"flagged"`
	Issues    []nncheck.Issue `json:"issues"`
	Frame     *frame.Frame    `json:"frame,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- helpers ------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeText(w http.ResponseWriter, r *http.Request) (textRequest, bool) {
	var body textRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(&body)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return body, false
	}
	if err != nil || body.Text == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'text' field")
		return body, false
	}
	return body, true
}

// ---- handlers -----------------------------------------------------------

type server struct {
	comp   *config.Components
	logger *slog.Logger
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeText(w, r)
	if !ok {
		return
	}
	f := separator.SeparateString(body.Text)
	results, err := s.comp.Pipeline.AnalyzeFrame(f)
	if err != nil {
		s.logger.Error("analyze failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Rows: f.Len(), Analyzers: results})
}

func (s *server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if s.comp.NN == nil {
		writeError(w, http.StatusServiceUnavailable, "no н/нн vocabulary configured")
		return
	}
	body, ok := decodeText(w, r)
	if !ok {
		return
	}
	var paragraphs algorithm.Paragraphs
	if body.Paragraphs != nil {
		paragraphs = algorithm.ParagraphSet(*body.Paragraphs...)
	}
	res, err := s.comp.NN.RunOnString(body.Text, paragraphs)
	if err != nil {
		s.logger.Error("check failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := checkResponse{
		Algorithm: s.comp.NN.Name(),
		Checked:   res.Applied.Checked,
		Flagged:   res.Applied.Flagged,
		Issues:    nncheck.Issues(res.Frame),
	}
	if r.URL.Query().Get("frame") == "true" {
		resp.Frame = res.Frame
	}
	if resp.Issues == nil {
		resp.Issues = []nncheck.Issue{}
	}
	s.logger.Debug("checked text", "rows", res.Frame.Len(), "flagged", res.Applied.Flagged)
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"version":   Version,
		"analyzers": s.comp.Pipeline.Names(),
		"check":     s.comp.NN != nil,
	})
}

// routes returns the API wrapped in CORS handling for allowedOrigins.
func (s *server) routes(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/check", s.handleCheck)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}
