package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vdomkit/pkg/memdom"
	"github.com/vango-dev/vdomkit/pkg/vdom"
)

//go:embed client.js
var clientJS []byte

// Server hosts live sessions.
type Server struct {
	config   *Config
	router   chi.Router
	upgrader websocket.Upgrader
	metrics  *metrics
	reconc   *vdom.Metrics
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	nextID   atomic.Uint64

	httpServer *http.Server
}

// New creates a Server. The zero fields of cfg take defaults.
func New(cfg *Config) (*Server, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg = cfg.withDefaults()

	// Fail at startup rather than on the first connection.
	if _, err := cfg.Root(); err != nil {
		return nil, err
	}

	s := &Server{
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     cfg.CheckOrigin,
		},
		metrics: newMetrics(cfg.Registry, cfg.MetricsNamespace),
		reconc: vdom.NewMetrics(
			vdom.WithRegistry(cfg.Registry),
			vdom.WithNamespace(cfg.MetricsNamespace),
		),
		logger:   cfg.Logger.With("component", "server"),
		sessions: make(map[string]*Session),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.HandleWebSocket)
	r.Get("/client.js", handleClientJS)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, s.config.MetricsPath,
		promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{}))
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.config.Addr, "app", s.config.App)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting connections and closes every session.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.mu.Lock()
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()
	for _, sess := range open {
		sess.Close()
	}
	return err
}

// SessionCount returns the number of connected sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// HandleWebSocket upgrades the connection and runs a session until the
// client disconnects.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	id := fmt.Sprintf("s%d", s.nextID.Add(1))
	sess := newSession(id, conn, s.config, s.metrics, s.newRenderer(id), s.logger)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	s.metrics.sessionsTotal.Inc()
	s.metrics.sessionsActive.Inc()
	defer func() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		s.metrics.sessionsActive.Dec()
	}()

	app, err := s.config.Root()
	if err != nil {
		sess.logger.Error("session root failed", "error", err)
		sess.Close()
		return
	}
	if err := sess.start(app); err != nil {
		sess.logger.Error("session start failed", "error", err)
		sess.Close()
		return
	}

	go sess.readLoop()
	sess.run(r.Context())
}

func (s *Server) newRenderer(session string) *vdom.Renderer {
	return vdom.NewRenderer(
		vdom.WithLogger(s.config.Logger.With("component", "vdom", "session_id", session)),
		vdom.WithMetrics(s.reconc),
		vdom.WithTracer(s.config.Tracer),
	)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>vdomkit · {{.App}}</title>
</head>
<body>
<div id="root">{{.Snapshot}}</div>
<script src="/client.js"></script>
</body>
</html>
`))

// handleIndex renders the app into a throwaway document and serves the
// markup. The client replaces it with the live session's tree on connect.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	app, err := s.config.Root()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	doc := memdom.New()
	root := doc.CreateElement("div")
	if err := s.newRenderer("snapshot").Render(app, root); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = indexTemplate.Execute(w, struct {
		App      string
		Snapshot template.HTML
	}{s.config.App, template.HTML(memdom.InnerHTML(root))})
	if err != nil {
		s.logger.Error("index render failed", "error", err)
	}
}

func handleClientJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Write(clientJS)
}

// logRequests logs each HTTP request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
