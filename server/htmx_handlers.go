package server

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/umputun/tgbrief/pkg/analysis"
	"github.com/umputun/tgbrief/pkg/domain"
)

const (
	// template names
	templateJobCard          = "job-card"
	templateStats            = "stats"
	templateAlert            = "alert"
	templateConnectionStatus = "connection-status"

	recentJobsLimit = 10
)

// alertData is rendered by the alert component
type alertData struct {
	Kind    string // success or error
	Message string
}

// dashboardHandler displays statistics, the start button and the latest job
func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.analyzer.Statistics(ctx)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to load statistics", err)
		return
	}

	latest, err := s.analyzer.LatestJob(ctx)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to load latest analysis", err)
		return
	}

	jobs, err := s.analyzer.Jobs(ctx, recentJobsLimit)
	if err != nil {
		log.Printf("[WARN] failed to get recent jobs: %v", err)
		jobs = []*domain.Job{} // continue without history
	}

	var view *domain.ConfigurationView
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		log.Printf("[WARN] failed to get configuration: %v", err)
	}
	if cfg != nil {
		v := cfg.View()
		view = &v
	}

	data := struct {
		ActivePage    string
		Version       string
		Stats         *domain.Statistics
		Job           *domain.Job
		Jobs          []*domain.Job
		Configuration *domain.ConfigurationView
		AdminEnabled  bool
	}{
		ActivePage:    "dashboard",
		Version:       s.version,
		Stats:         stats,
		Job:           latest,
		Jobs:          jobs,
		Configuration: view,
		AdminEnabled:  len(s.adminHash) > 0,
	}

	if err := s.renderPage(w, "dashboard.html", data); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render page", err)
		return
	}
}

// adminHandler displays the configuration form
func (s *Server) adminHandler(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.configs.Get(r.Context())
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to load configuration", err)
		return
	}

	data := struct {
		ActivePage    string
		Version       string
		Config        *domain.Configuration
		Channels      string
		WindowMinutes int
		BaseURL       string
	}{
		ActivePage:    "admin",
		Version:       s.version,
		Config:        cfg,
		WindowMinutes: int(s.config.GetFullConfig().Analysis.Window / time.Minute),
		BaseURL:       s.config.GetFullConfig().Server.BaseURL,
	}
	if cfg != nil {
		data.Channels = strings.Join(cfg.Channels, "\n")
		data.WindowMinutes = cfg.WindowMinutes()
	}

	if err := s.renderPage(w, "admin.html", data); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render page", err)
		return
	}
}

// webStartAnalysisHandler starts a job and returns its card, polling until the job finishes
func (s *Server) webStartAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	job, err := s.analyzer.Start(r.Context())
	if err != nil {
		var verr *analysis.ValidationError
		if errors.As(err, &verr) {
			// htmx swaps only 2xx responses
			s.renderComponent(w, templateAlert, alertData{Kind: "error", Message: err.Error()})
			return
		}
		s.respondWithError(w, http.StatusInternalServerError, "Failed to start analysis", err)
		return
	}
	s.renderComponent(w, templateJobCard, job)
}

// webJobHandler returns the job card, used for polling
func (s *Server) webJobHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid job ID", err)
		return
	}

	job, err := s.analyzer.Job(r.Context(), id)
	if err != nil {
		s.respondWithError(w, statusCode(err), "Job not available", err)
		return
	}

	if job.Status.Terminal() {
		// refresh statistics when polling ends
		w.Header().Set("HX-Trigger", "analysis-finished")
	}
	s.renderComponent(w, templateJobCard, job)
}

// webStatisticsHandler returns the statistics panel
func (s *Server) webStatisticsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.analyzer.Statistics(r.Context())
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to load statistics", err)
		return
	}
	s.renderComponent(w, templateStats, stats)
}

// webSaveConfigurationHandler saves the admin form
func (s *Server) webSaveConfigurationHandler(w http.ResponseWriter, r *http.Request) {
	upd, err := formUpdate(r)
	if err != nil {
		s.renderComponent(w, templateAlert, alertData{Kind: "error", Message: err.Error()})
		return
	}

	cfg, err := s.configs.Save(r.Context(), upd)
	if err != nil {
		var verr *analysis.ValidationError
		if !errors.As(err, &verr) {
			log.Printf("[ERROR] failed to save configuration: %v", err)
		}
		s.renderComponent(w, templateAlert, alertData{Kind: "error", Message: err.Error()})
		return
	}

	msg := fmt.Sprintf("Configuration saved: %d channels, %d minutes window", len(cfg.Channels), cfg.WindowMinutes())
	s.renderComponent(w, templateAlert, alertData{Kind: "success", Message: msg})
}

// webTestConfigurationHandler tests connections with the form values on top of the stored configuration
func (s *Server) webTestConfigurationHandler(w http.ResponseWriter, r *http.Request) {
	upd, err := formUpdate(r)
	if err != nil {
		s.renderComponent(w, templateAlert, alertData{Kind: "error", Message: err.Error()})
		return
	}

	cfg, err := s.configs.Merged(r.Context(), upd)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to load configuration", err)
		return
	}
	s.renderComponent(w, templateConnectionStatus, s.configs.TestConnection(r.Context(), cfg))
}

// formUpdate builds a configuration update from the admin form.
// Secret fields left blank keep stored values, other fields are always applied.
func formUpdate(r *http.Request) (domain.ConfigurationUpdate, error) {
	if err := r.ParseForm(); err != nil {
		return domain.ConfigurationUpdate{}, fmt.Errorf("invalid form data")
	}

	upd := domain.ConfigurationUpdate{
		TelegramAPIID:   r.FormValue("telegram_api_id"),
		TelegramAPIHash: r.FormValue("telegram_api_hash"),
		TelegramPhone:   r.FormValue("telegram_phone"),
		OpenAIAPIKey:    r.FormValue("openai_api_key"),
	}

	if _, ok := r.Form["channels"]; ok {
		channels := strings.FieldsFunc(r.FormValue("channels"), func(c rune) bool {
			return c == '\n' || c == ',' || c == '\r'
		})
		upd.Channels = &channels
	}
	if _, ok := r.Form["prompt_template"]; ok {
		prompt := strings.TrimSpace(r.FormValue("prompt_template"))
		upd.PromptTemplate = &prompt
	}
	if windowStr := strings.TrimSpace(r.FormValue("window_minutes")); windowStr != "" {
		window, err := strconv.Atoi(windowStr)
		if err != nil {
			return domain.ConfigurationUpdate{}, fmt.Errorf("time window must be a number of minutes")
		}
		upd.WindowMinutes = &window
	}
	return upd, nil
}

// renderPage renders a pre-parsed page template
func (s *Server) renderPage(w http.ResponseWriter, templateName string, data any) error {
	tmpl, ok := s.pageTemplates[templateName]
	if !ok {
		return fmt.Errorf("template %s not found", templateName)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, templateName, data)
}

// renderComponent renders a named component template as an htmx fragment
func (s *Server) renderComponent(w http.ResponseWriter, name string, data any) {
	if s.templates == nil {
		s.respondWithError(w, http.StatusInternalServerError, "Templates not loaded", nil)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render "+name, err)
	}
}

// respondWithError logs the error and sends a plain text error response
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil {
		log.Printf("[ERROR] %s: %v", message, err)
	}
	http.Error(w, message, code)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"str": func(v *string) string {
			if v == nil {
				return ""
			}
			return *v
		},
		"num": func(v *int) int {
			if v == nil {
				return 0
			}
			return *v
		},
		"hasNum": func(v *int) bool { return v != nil },
		"fmtTime": func(t time.Time) string {
			if t.IsZero() {
				return "never"
			}
			return t.Local().Format("2006-01-02 15:04:05")
		},
		"duration": func(j *domain.Job) string {
			return j.Duration().Round(time.Second).String()
		},
		"sentimentClass": func(overall string) string {
			switch overall {
			case domain.SentimentPositive:
				return "positive"
			case domain.SentimentNegative:
				return "negative"
			default:
				return "neutral"
			}
		},
		"join": strings.Join,
	}
}
