package server

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/middleware"
)

// WebSocketPath is where the client script connects.
const WebSocketPath = "/_vbind/ws"

// Server serves a bound page and its live sessions.
type Server struct {
	config   *Config
	router   chi.Router
	upgrader websocket.Upgrader
	sessions *sessionManager
	logger   *slog.Logger

	pageMu sync.RWMutex
	page   *PageFactory

	httpServer *http.Server
}

// New creates a new Server with the given configuration.
func New(config *Config) *Server {
	config = config.withDefaults()
	logger := config.Logger.With("component", "server")

	s := &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		sessions: newSessionManager(config.MaxSessions),
		logger:   logger,
		page:     config.Page,
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/", s.handlePage)
	r.Get(WebSocketPath, s.handleWebSocket)
	r.Get("/healthz", s.handleHealth)
	if config.MetricsPath != "" {
		r.Handle(config.MetricsPath, promhttp.Handler())
	}
	s.router = r
	s.httpServer = &http.Server{
		Addr:    config.Address,
		Handler: s,
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Config returns the effective configuration.
func (s *Server) Config() *Config {
	return s.config
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	return s.sessions.count()
}

// Session looks up a live session.
func (s *Server) Session(id string) (*Session, bool) {
	return s.sessions.get(id)
}

// SessionIDs returns the ids of live sessions, sorted.
func (s *Server) SessionIDs() []string {
	return s.sessions.ids()
}

// SetPage replaces the page factory and tells every connected client to
// reload. It returns how many clients were told.
func (s *Server) SetPage(page *PageFactory) int {
	s.pageMu.Lock()
	s.page = page
	s.pageMu.Unlock()

	notified := 0
	for _, id := range s.sessions.ids() {
		session, ok := s.sessions.get(id)
		if !ok {
			continue
		}
		if err := session.send(ServerMessage{Type: TypeReload}); err != nil {
			s.logger.Debug("reload notify failed", "session", id, "error", err)
			continue
		}
		notified++
	}
	s.logger.Info("page replaced", "clients", notified)
	return notified
}

func (s *Server) currentPage() *PageFactory {
	s.pageMu.RLock()
	defer s.pageMu.RUnlock()
	return s.page
}

func (s *Server) observer() binding.Observer {
	if s.config.Observer == nil {
		return nil
	}
	return s.config.Observer()
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, err := s.currentPage().Mount(s.config.Logger, s.observer())
	if err != nil {
		s.logger.Error("page mount failed", "error", err)
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, page.HTML())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.reserve(); err != nil {
		s.logger.Warn("session rejected", "error", err, "limit", s.config.MaxSessions)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	page, err := s.currentPage().Mount(s.config.Logger, s.observer())
	if err != nil {
		s.sessions.release()
		s.logger.Error("session mount failed", "error", errors.New("E300").Wrap(err))
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.sessions.release()
		s.logger.Debug("upgrade failed", "error", err)
		return
	}

	session := newSession(uuid.NewString(), conn, page, s.config)
	s.sessions.add(session)
	session.logger.Debug("session opened", "remote", r.RemoteAddr)

	if err := session.hello(); err != nil {
		session.Close()
		return
	}
	session.ReadLoop()
}

// ListenAndServe listens on the configured address.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "address", s.config.Address)

	err := s.httpServer.ListenAndServe()
	if stderrors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown closes every session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.sessions.closeAll()
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Observer returns a per-session observer factory that records to the
// shared Prometheus collectors and, when tracing is on, to OpenTelemetry.
func Observer(tracing bool) func() binding.Observer {
	prom := middleware.Prometheus()
	return func() binding.Observer {
		if !tracing {
			return prom
		}
		return middleware.Chain(prom, middleware.OpenTelemetry())
	}
}
