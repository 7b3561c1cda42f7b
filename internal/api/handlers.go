package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/salonops/repeat-insight/internal/analytics"
	"github.com/salonops/repeat-insight/internal/archive"
	"github.com/salonops/repeat-insight/internal/charts"
	"github.com/salonops/repeat-insight/internal/config"
	"github.com/salonops/repeat-insight/internal/identity"
	"github.com/salonops/repeat-insight/internal/ingest"
	"github.com/salonops/repeat-insight/internal/normalize"
	"github.com/salonops/repeat-insight/internal/pkg/logger"
	"github.com/salonops/repeat-insight/internal/report"
	"github.com/salonops/repeat-insight/internal/session"
)

// Handlers contains all HTTP handlers and their dependencies
type Handlers struct {
	cfg     *config.Config
	store   session.Store
	engine  *analytics.Engine
	arch    *archive.Archive // nil when the run archive is disabled
	reports *report.Generator
}

// NewHandlers creates a new Handlers instance
func NewHandlers(cfg *config.Config, store session.Store, arch *archive.Archive, reports *report.Generator) *Handlers {
	return &Handlers{
		cfg:     cfg,
		store:   store,
		engine:  analytics.NewEngine(),
		arch:    arch,
		reports: reports,
	}
}

// HealthCheck returns server status
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "repeat-insight",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleUpload ingests one or more reservation CSV exports, normalizes
// them into a dataset, assigns customer identities and stores the result
// under a fresh session ID.
func (h *Handlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := h.cfg.Upload.MaxSizeBytes
	if maxSize <= 0 {
		maxSize = 64 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart request: %v", err))
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		files = r.MultipartForm.File["file"]
	}
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "no CSV files in request")
		return
	}

	sessionID := session.NewID()
	dir := filepath.Join(h.cfg.Upload.Dir, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to prepare upload directory")
		return
	}

	var paths []string
	for _, fh := range files {
		path, err := saveUpload(dir, fh.Filename, fh)
		if err != nil {
			logger.Warn("failed to persist upload", "file", fh.Filename, "error", err.Error())
			continue
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		respondError(w, http.StatusBadRequest, "no uploaded file could be saved")
		return
	}

	loader := ingest.NewLoader(h.cfg.Ingest.DefaultEncoding)
	tables, err := loader.LoadFiles(paths)
	if err != nil {
		if errors.Is(err, ingest.ErrNoReadableInput) {
			respondError(w, http.StatusBadRequest, "none of the uploaded files could be decoded as CSV")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ds := normalize.BuildDataset(tables, h.cfg.Analysis.CompletedStatus)
	identity.Assign(ds)

	if err := h.store.SaveDataset(r.Context(), sessionID, ds); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store session dataset")
		return
	}

	sources := make([]string, 0, len(tables))
	for _, t := range tables {
		sources = append(sources, filepath.Base(t.SourceFile))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"files":      sources,
		"records":    len(ds.Records),
	})
}

// analyzeRequest is the POST /api/analyze body.
type analyzeRequest struct {
	SessionID string           `json:"session_id"`
	Params    analytics.Params `json:"params"`
}

// HandleAnalyze runs the repeat analysis against a previously uploaded
// dataset and stores the result back on the session.
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		respondError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	ds, err := h.store.GetDataset(r.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			respondError(w, http.StatusNotFound, "session not found or expired")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := h.engine.Analyze(ds, req.Params)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.SaveResult(r.Context(), req.SessionID, result); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store analysis result")
		return
	}

	if h.arch != nil {
		if runID, err := h.arch.SaveRun(r.Context(), req.SessionID, result); err != nil {
			logger.Warn("failed to archive analysis run", "session_id", req.SessionID, "error", err.Error())
		} else {
			logger.Info("archived analysis run", "session_id", req.SessionID, "run_id", runID)
		}
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleDashboard returns the full dashboard payload for a session.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	result, ok := h.sessionResult(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, charts.Build(result))
}

// HandleChart returns one named chart for a session.
func (h *Handlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	result, ok := h.sessionResult(w, r)
	if !ok {
		return
	}
	chart, err := charts.Get(chi.URLParam(r, "type"), result)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, chart)
}

// HandleReport renders the plain-text report for a session and returns it
// as a download.
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	result, ok := h.sessionResult(w, r)
	if !ok {
		return
	}
	text, err := h.reports.Render(result)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	name := fmt.Sprintf("repeat-analysis-%s.txt", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, text)
}

// HandleListRuns lists archived analysis runs, newest first.
func (h *Handlers) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	if h.arch == nil {
		respondError(w, http.StatusNotFound, "run archive is not enabled")
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	runs, err := h.arch.ListRuns(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

// HandleGetRun returns one archived run's full result.
func (h *Handlers) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	if h.arch == nil {
		respondError(w, http.StatusNotFound, "run archive is not enabled")
		return
	}
	result, err := h.arch.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "run not found")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// sessionResult loads a session's stored analysis result, writing the
// error response itself when the lookup fails.
func (h *Handlers) sessionResult(w http.ResponseWriter, r *http.Request) (*analytics.AnalysisResult, bool) {
	id := chi.URLParam(r, "session")
	result, err := h.store.GetResult(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no analysis result for session")
		} else {
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return result, true
}

// saveUpload writes one multipart file under dir and returns its path.
func saveUpload(dir, name string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(dir, sanitizeFilename(name))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "upload.csv"
	}
	return name
}
