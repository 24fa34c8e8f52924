// ABOUTME: HTTP API server exposing editing sessions and stored documents behind a chi router.
// ABOUTME: Session routes mutate a workspace; document routes require an authenticated user.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/2389-research/tracie/scene/export"
	"github.com/2389-research/tracie/scene/server"
	"github.com/2389-research/tracie/scene/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Config holds what the server needs at construction.
type Config struct {
	Addr     string
	Sessions *server.Sessions
	Docs     store.DocumentStore
	Auth     *server.Authenticator
	Logger   *slog.Logger
	Render   export.RenderFunc // image renderer, graphviz when nil
}

// Server is the tracie HTTP API.
type Server struct {
	sessions *server.Sessions
	docs     store.DocumentStore
	auth     *server.Authenticator
	logger   *slog.Logger
	images   *export.RenderCache
	addr     string
	router   chi.Router
}

// NewServer wires the router. Missing optional pieces get working defaults.
func NewServer(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = server.DefaultBind
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Docs == nil {
		cfg.Docs = store.NewMemoryStore(nil)
	}
	if cfg.Sessions == nil {
		cfg.Sessions = server.NewSessions(server.SessionOptions{Docs: cfg.Docs, Logger: cfg.Logger}, server.DefaultMaxSessions, server.DefaultSessionTTL)
	}
	if cfg.Render == nil {
		cfg.Render = export.RenderGraphviz
	}
	if cfg.Auth == nil {
		cfg.Auth = server.NewAuthenticator(nil, server.DefaultUser)
	}

	s := &Server{
		sessions: cfg.Sessions,
		docs:     cfg.Docs,
		auth:     cfg.Auth,
		logger:   cfg.Logger,
		images:   export.NewRenderCache(cfg.Render, 10*time.Minute),
		addr:     cfg.Addr,
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server with timeouts suited to a JSON API
// and shuts it down when ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", "addr", s.addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.auth.Attach)

	r.Get("/health", s.handleHealth)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleSessionCreate)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleSessionGet)
			r.Delete("/", s.handleSessionDelete)

			r.Post("/shapes", s.handleShapeAdd)
			r.Delete("/shapes/{shapeID}", s.handleShapeDelete)
			r.Post("/shapes/{shapeID}/move", s.handleShapeMove)
			r.Post("/shapes/{shapeID}/duplicate", s.handleShapeDuplicate)
			r.Post("/moves", s.handleMoveMultiple)

			r.Post("/links", s.handleLinkCreate)
			r.Delete("/links", s.handleLinkDelete)
			r.Post("/links/optimize", s.handleLinksOptimize)

			r.Post("/undo", s.handleUndo)
			r.Post("/redo", s.handleRedo)
			r.Put("/routing", s.handleRouting)
			r.Post("/new", s.handleNewFile)
		})
	})

	r.Route("/api/documents", func(r chi.Router) {
		r.Use(server.RequireUser)
		r.Get("/", s.handleDocumentList)
		r.Route("/{name}", func(r chi.Router) {
			r.Put("/", s.handleDocumentSave)
			r.Delete("/", s.handleDocumentDelete)
			r.Post("/load", s.handleDocumentLoad)
			r.Get("/export.yaml", s.handleExportYAML)
			r.Get("/export.md", s.handleExportMarkdown)
			r.Get("/export.dot", s.handleExportDOT)
			r.Get("/export.svg", s.handleExportImage("svg"))
			r.Get("/export.png", s.handleExportImage("png"))
			r.Get("/summary", s.handleSummary)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.Len()})
}
