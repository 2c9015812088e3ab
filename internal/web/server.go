// Package web serves the ledger dashboard to a browser.
package web

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/securecheck-dashboard/internal/catalog"
	"github.com/j-veylop/securecheck-dashboard/internal/config"
	"github.com/j-veylop/securecheck-dashboard/internal/ledger"
	"github.com/j-veylop/securecheck-dashboard/internal/logger"
)

const (
	sessionName   = "securecheck"
	shutdownGrace = 5 * time.Second
)

// Service is what the pages need from the service layer.
// *services.Manager satisfies it.
type Service interface {
	LoadLedger(ctx context.Context) (*ledger.Ledger, error)
	RunAnalysis(ctx context.Context, label string) (*catalog.Result, error)
}

// Config holds configuration for the web server.
type Config struct {
	Service       Service
	App           *config.Config
	Addr          string
	SessionSecret string
	Logger        *slog.Logger
	// Now is used for form defaults. Defaults to time.Now.
	Now func() time.Time
}

// Server is the browser dashboard.
type Server struct {
	svc          Service
	app          *config.Config
	addr         string
	sessionStore *sessions.CookieStore
	pages        map[string]*template.Template
	logger       *slog.Logger
	now          func() time.Time
}

// NewServer creates a server. An empty session secret gets a random key, so
// remembered picks last only as long as the process.
func NewServer(cfg Config) (*Server, error) {
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
	}

	sessionStore := sessions.NewCookieStore(secret)
	sessionStore.MaxAge(86400 * 30)
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		svc:          cfg.Service,
		app:          cfg.App,
		addr:         cfg.Addr,
		sessionStore: sessionStore,
		pages:        pages,
		logger:       cfg.Logger,
		now:          cfg.Now,
	}
	if s.app == nil {
		s.app = &config.Config{PageSize: 100}
	}
	if s.addr == "" {
		s.addr = s.app.Addr
	}
	if s.logger == nil {
		s.logger = logger.Logger
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Handler returns the router with every route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.routes(r)
	return r
}

func (s *Server) routes(r chi.Router) {
	r.Get("/", s.handleIntro)
	r.Get("/table", s.handleTable)
	r.Get("/metrics", s.handleMetrics)
	r.Get("/insights", s.handleInsights)
	r.Post("/insights", s.handleInsights)
	r.Get("/predict", s.handlePredict)
	r.Post("/predict", s.handlePredict)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Get("/catalog/run", s.handleCatalogRun)
	})
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting web server", "addr", s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		s.logger.Debug("shutting down web server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
