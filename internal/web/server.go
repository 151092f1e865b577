// Package web serves the task page to browsers.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"todo/internal/app"
	"todo/internal/logging"
	"todo/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

const shutdownTimeout = 5 * time.Second

// Config configures the page server.
type Config struct {
	// Addr is the listen address.
	Addr string

	// ClearOnSubmit empties the form after a successful add.
	ClearOnSubmit bool

	// SyncDeletes also deletes removed tasks from the store.
	SyncDeletes bool

	// MaxSessions caps live browser sessions. Zero means DefaultMaxSessions.
	MaxSessions int
}

// Server serves the browser page. Each browser session gets its own
// composer, so lists are never shared between sessions.
type Server struct {
	svc      service.Service
	cfg      Config
	log      zerolog.Logger
	sessions *sessionStore
	router   *gin.Engine
	http     *http.Server
}

// New creates a server backed by svc. It does not start listening.
func New(svc service.Service, cfg Config, logger zerolog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		svc: svc,
		cfg: cfg,
		log: logger.With().Str("component", "web").Logger(),
	}
	s.sessions = newSessionStore(func() *app.Composer {
		return app.New(s.svc, logger, app.Options{SyncDeletes: s.cfg.SyncDeletes})
	}, cfg.MaxSessions)
	s.setupRouter(tmpl)
	return s, nil
}

func (s *Server) setupRouter(tmpl *template.Template) {
	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(logging.GinLogger(s.log))
	s.router.Use(gzip.Gzip(gzip.DefaultCompression))
	s.router.SetTrustedProxies(nil)
	s.router.SetHTMLTemplate(tmpl)

	s.router.GET("/healthz", s.handleHealth)

	page := s.router.Group("/", s.sessionMiddleware())
	page.GET("/", s.handleIndex)
	page.POST("/tasks", s.handleAdd)
	page.POST("/tasks/:position/delete", s.handleDelete)
	page.GET("/api/tasks", s.handleListJSON)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logging.StdErrorLogger(s.log),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("HTTP server starting")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
