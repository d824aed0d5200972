package web

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/foxseedlab/presencedash/internal/config"
	"github.com/foxseedlab/presencedash/internal/dashboard"
	"github.com/foxseedlab/presencedash/internal/fanout"
	"github.com/foxseedlab/presencedash/internal/presence"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readHeaderTimeout = 10 * time.Second
	pageRenderTimeout = 30 * time.Second
)

//go:embed static
var staticFiles embed.FS

type PageBuilder interface {
	Build(ctx context.Context) dashboard.Page
}

type Hub interface {
	Join() (*fanout.Client, error)
	Leave(c *fanout.Client)
	Count() int
}

type LinkState interface {
	State() presence.State
}

type Server struct {
	cfg   *config.Config
	pages PageBuilder
	hub   Hub
	link  LinkState
	page  *pageRenderer
	http  *http.Server
}

func NewServer(cfg *config.Config, pages PageBuilder, hub Hub, link LinkState) (*Server, error) {
	renderer, err := newPageRenderer()
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:   cfg,
		pages: pages,
		hub:   hub,
		link:  link,
		page:  renderer,
	}
	s.http = &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s, nil
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.With(httprate.LimitByIP(s.cfg.PageRateLimitPerMinute, time.Minute)).Get("/", s.handlePage)
	r.Get("/api/socket", s.handleSocket)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.FS(static))))
	return r
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	slog.Info("http server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pageRenderTimeout)
	defer cancel()

	body, err := s.page.render(s.pages.Build(ctx))
	if err != nil {
		slog.Error("failed to render page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(body); err != nil {
		slog.Debug("failed to write page", "error", err)
	}
}
