// Package server implements the familytree HTTP API.
//
// Routes:
//
//	GET    /healthz
//	POST   /v1/layout                     lay out the tree in the body
//	GET    /v1/trees                      trees the caller can see
//	POST   /v1/trees                      store a new tree under a fresh ID
//	GET    /v1/trees/{id}
//	PUT    /v1/trees/{id}
//	DELETE /v1/trees/{id}
//	GET    /v1/trees/{id}/layout
//	GET    /v1/trees/{id}/members
//	POST   /v1/trees/{id}/members
//	DELETE /v1/trees/{id}/members/{user}
//
// Layout endpoints take ?format=json|svg|dot, ?style=, ?viz= and
// ?detailed=true. Everything under /v1/trees needs the caller's identity in
// the X-User-ID header; authenticating that header is left to a proxy in
// front of the server.
package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/familytree/pkg/buildinfo"
	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/httputil"
	"github.com/matzehuels/familytree/pkg/observability"
	"github.com/matzehuels/familytree/pkg/pipeline"
	"github.com/matzehuels/familytree/pkg/store"
)

// UserHeader carries the caller's identity.
const UserHeader = "X-User-ID"

// Options configures a Server.
type Options struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Defaults are the pipeline options requests start from.
	Defaults pipeline.Options
	// MaxBodyBytes limits request bodies. Zero uses httputil.DefaultMaxBody.
	MaxBodyBytes int64
}

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	defaults pipeline.Options
	maxBody  int64
	router   chi.Router
}

// New builds a server. A nil runner uses an uncached one, a nil store an
// empty MemoryStore.
func New(opts Options) *Server {
	s := &Server{
		runner:   opts.Runner,
		store:    opts.Store,
		logger:   opts.Logger,
		defaults: opts.Defaults,
		maxBody:  opts.MaxBodyBytes,
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(httputil.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)

		r.Route("/trees", func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/", s.handleListTrees)
			r.Post("/", s.handleCreateTree)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetTree)
				r.Put("/", s.handlePutTree)
				r.Delete("/", s.handleDeleteTree)
				r.Get("/layout", s.handleTreeLayout)
				r.Get("/members", s.handleMembers)
				r.Post("/members", s.handleShare)
				r.Delete("/members/{user}", s.handleUnshare)
			})
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// logRequests logs each request and reports it to the HTTP hooks under its
// route pattern.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d,
			"request_id", httputil.RequestIDFromContext(r.Context()))
	})
}

type userKey struct{}

// requireUser rejects requests without a valid X-User-ID.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := r.Header.Get(UserHeader)
		if err := errors.ValidateUserID(user); err != nil {
			httputil.WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	})
}

func userFrom(r *http.Request) string {
	u, _ := r.Context().Value(userKey{}).(string)
	return u
}

// fail writes err, logging it when it is the server's fault.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := httputil.WriteError(w, err); status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
			"request_id", httputil.RequestIDFromContext(r.Context()))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

// renderOptions builds pipeline options from the server defaults and the
// query string.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, string, error) {
	opts := s.defaults
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := errors.ValidateFormat(format, pipeline.ValidFormats...); err != nil {
		return opts, "", err
	}
	opts.Formats = []string{format}
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	if v := q.Get("viz"); v != "" {
		opts.VizType = v
	}
	if v := q.Get("detailed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, "", errors.New(errors.ErrCodeInvalidInput, "detailed: %q is not a boolean", v)
		}
		opts.Detailed = b
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, "", err
	}
	return opts, format, nil
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}
