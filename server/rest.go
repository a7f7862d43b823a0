package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/umputun/tgbrief/pkg/analysis"
	"github.com/umputun/tgbrief/pkg/domain"
	"github.com/umputun/tgbrief/pkg/repository"
)

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	configured := false
	if cfg, err := s.configs.Get(r.Context()); err == nil && cfg != nil {
		configured = cfg.HasCredentials()
	}
	status := map[string]any{
		"status":     "ok",
		"version":    s.version,
		"time":       time.Now().UTC(),
		"configured": configured,
	}
	renderJSON(w, r, http.StatusOK, status)
}

// getConfigurationHandler returns the configuration without secrets, null if not configured
func (s *Server) getConfigurationHandler(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.configs.Get(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to get configuration: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if cfg == nil {
		renderJSON(w, r, http.StatusOK, nil)
		return
	}
	renderJSON(w, r, http.StatusOK, cfg.View())
}

// adminConfigurationView is the full configuration including secrets
type adminConfigurationView struct {
	*domain.Configuration
	WindowMinutes int `json:"window_minutes"`
}

// adminConfigurationHandler returns the full configuration including secrets
func (s *Server) adminConfigurationHandler(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.configs.Get(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to get configuration: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if cfg == nil {
		renderJSON(w, r, http.StatusOK, nil)
		return
	}
	renderJSON(w, r, http.StatusOK, adminConfigurationView{Configuration: cfg, WindowMinutes: cfg.WindowMinutes()})
}

// saveConfigurationHandler merges the request into the stored configuration
func (s *Server) saveConfigurationHandler(w http.ResponseWriter, r *http.Request) {
	var upd domain.ConfigurationUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	cfg, err := s.configs.Save(r.Context(), upd)
	if err != nil {
		renderError(w, r, err, statusCode(err))
		return
	}
	renderJSON(w, r, http.StatusOK, cfg.View())
}

// testConfigurationHandler probes telegram and openai with the stored configuration.
// Fields present in the request body override stored values for this test only.
func (s *Server) testConfigurationHandler(w http.ResponseWriter, r *http.Request) {
	var upd domain.ConfigurationUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil && !errors.Is(err, io.EOF) {
		renderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	cfg, err := s.configs.Merged(r.Context(), upd)
	if err != nil {
		log.Printf("[ERROR] failed to get configuration: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, s.configs.TestConnection(r.Context(), cfg))
}

// startAnalysisHandler creates a job and returns it while the pipeline runs in background
func (s *Server) startAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	job, err := s.analyzer.Start(r.Context())
	if err != nil {
		renderError(w, r, err, statusCode(err))
		return
	}
	renderJSON(w, r, http.StatusOK, job)
}

// latestJobHandler returns the most recent job, null if none
func (s *Server) latestJobHandler(w http.ResponseWriter, r *http.Request) {
	job, err := s.analyzer.LatestJob(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to get latest job: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if job == nil {
		renderJSON(w, r, http.StatusOK, nil)
		return
	}
	renderJSON(w, r, http.StatusOK, job)
}

// jobHandler returns a job by id
func (s *Server) jobHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		renderError(w, r, fmt.Errorf("invalid job ID"), http.StatusBadRequest)
		return
	}

	job, err := s.analyzer.Job(r.Context(), id)
	if err != nil {
		renderError(w, r, err, statusCode(err))
		return
	}
	renderJSON(w, r, http.StatusOK, job)
}

// jobsHandler returns recent jobs, newest first
func (s *Server) jobsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 {
			renderError(w, r, fmt.Errorf("invalid limit"), http.StatusBadRequest)
			return
		}
		limit = l
	}

	jobs, err := s.analyzer.Jobs(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] failed to get jobs: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if jobs == nil {
		jobs = []*domain.Job{}
	}
	renderJSON(w, r, http.StatusOK, jobs)
}

// statisticsHandler returns running totals
func (s *Server) statisticsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.analyzer.Statistics(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to get statistics: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, stats)
}

// statusCode maps domain errors to http status codes
func statusCode(err error) int {
	var verr *analysis.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		log.Printf("[ERROR] request failed: %v", err)
		return http.StatusInternalServerError
	}
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[ERROR] can't encode response to JSON: %v", err)
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	resp := map[string]string{"error": errMsg}
	if id := getRequestID(r.Context()); id != "" {
		resp["request_id"] = id
	}
	renderJSON(w, r, code, resp)
}
