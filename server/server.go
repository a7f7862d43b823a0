// Package server exposes the analysis api, the htmx web ui and the rss feed of completed reports
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"golang.org/x/crypto/bcrypt"

	"github.com/umputun/tgbrief/pkg/config"
	"github.com/umputun/tgbrief/pkg/domain"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/analyzer.go -pkg mocks -skip-ensure -fmt goimports . Analyzer
//go:generate moq -out mocks/config_manager.go -pkg mocks -skip-ensure -fmt goimports . ConfigManager

//go:embed templates
var templatesFS embed.FS

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	analyzer  Analyzer
	configs   ConfigManager
	version   string
	debug     bool
	adminHash []byte // bcrypt hash of admin password, nil disables admin routes

	templates     *template.Template
	pageTemplates map[string]*template.Template
	startLimiter  *clientLimiter

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Analyzer starts analysis jobs and reads their state
type Analyzer interface {
	Start(ctx context.Context) (*domain.Job, error)
	Job(ctx context.Context, id int64) (*domain.Job, error)
	LatestJob(ctx context.Context) (*domain.Job, error)
	Jobs(ctx context.Context, limit int) ([]*domain.Job, error)
	CompletedJobs(ctx context.Context, limit int) ([]*domain.Job, error)
	Statistics(ctx context.Context) (*domain.Statistics, error)
}

// ConfigManager reads and updates the operator configuration
type ConfigManager interface {
	Get(ctx context.Context) (*domain.Configuration, error)
	Save(ctx context.Context, upd domain.ConfigurationUpdate) (*domain.Configuration, error)
	Merged(ctx context.Context, upd domain.ConfigurationUpdate) (domain.Configuration, error)
	TestConnection(ctx context.Context, cfg domain.Configuration) domain.ConnectionStatus
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetFullConfig() *config.Config
}

// New initializes a new server instance
func New(cfg ConfigProvider, analyzer Analyzer, configs ConfigManager, version string, debug bool) *Server {
	full := cfg.GetFullConfig()
	s := &Server{
		config:       cfg,
		analyzer:     analyzer,
		configs:      configs,
		version:      version,
		debug:        debug,
		adminHash:    adminPasswordHash(full.Server.AdminPassword),
		startLimiter: newClientLimiter(full.Server.StartRate, 1),
		router:       routegroup.New(http.NewServeMux()),
	}

	if err := s.loadTemplates(); err != nil {
		log.Printf("[ERROR] failed to load templates: %v", err)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("tgbrief", "umputun", s.version))
	s.router.Use(rest.Ping)
	s.router.Use(requestID)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	// web ui
	s.router.HandleFunc("GET /{$}", s.dashboardHandler)
	s.router.Group().Route(func(r *routegroup.Bundle) {
		r.Use(s.adminAuth)
		r.HandleFunc("GET /admin", s.adminHandler)
	})

	// htmx partials
	s.router.Mount("/web").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /analysis/{id}", s.webJobHandler)
		r.HandleFunc("GET /statistics", s.webStatisticsHandler)
		r.Handle("POST /analysis", s.limitStart(http.HandlerFunc(s.webStartAnalysisHandler)))
		r.Group().Route(func(admin *routegroup.Bundle) {
			admin.Use(s.adminAuth)
			admin.HandleFunc("POST /configuration", s.webSaveConfigurationHandler)
			admin.HandleFunc("POST /configuration/test", s.webTestConfigurationHandler)
		})
	})

	// API routes
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /configuration", s.getConfigurationHandler)
		r.HandleFunc("GET /analysis", s.latestJobHandler)
		r.HandleFunc("GET /analysis/{id}", s.jobHandler)
		r.HandleFunc("GET /analyses", s.jobsHandler)
		r.HandleFunc("GET /statistics", s.statisticsHandler)
		r.Handle("POST /analysis", s.limitStart(http.HandlerFunc(s.startAnalysisHandler)))

		r.Group().Route(func(admin *routegroup.Bundle) {
			admin.Use(s.adminAuth)
			admin.HandleFunc("POST /configuration", s.saveConfigurationHandler)
			admin.HandleFunc("GET /admin/configuration", s.adminConfigurationHandler)
			admin.HandleFunc("POST /configuration/test", s.testConfigurationHandler)
		})
	})

	// RSS routes
	s.router.HandleFunc("GET /rss", s.rssHandler)
}

// loadTemplates parses component templates and one template set per page.
// Pages share base.html and the components, each page defines its own "content".
func (s *Server) loadTemplates() error {
	funcs := templateFuncs()

	components, err := fs.Glob(templatesFS, "templates/components/*.html")
	if err != nil {
		return fmt.Errorf("list components: %w", err)
	}

	s.templates, err = template.New("").Funcs(funcs).ParseFS(templatesFS, components...)
	if err != nil {
		return fmt.Errorf("parse components: %w", err)
	}

	pages, err := fs.Glob(templatesFS, "templates/pages/*.html")
	if err != nil {
		return fmt.Errorf("list pages: %w", err)
	}
	s.pageTemplates = make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		files := append([]string{"templates/base.html", page}, components...)
		tmpl, err := template.New("").Funcs(funcs).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parse page %s: %w", page, err)
		}
		s.pageTemplates[page[strings.LastIndex(page, "/")+1:]] = tmpl
	}
	return nil
}

// adminPasswordHash returns bcrypt hash of the admin password.
// A value which is already a bcrypt hash is used as is.
func adminPasswordHash(password string) []byte {
	if password == "" {
		return nil
	}
	if _, err := bcrypt.Cost([]byte(password)); err == nil {
		return []byte(password)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[WARN] can't hash admin password, admin routes disabled: %v", err)
		return nil
	}
	return hash
}
