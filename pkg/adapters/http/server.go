package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/spire/internal/logging"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// Agent is the read-only view of a running agent served over HTTP.
type Agent interface {
	Status() domain.Status
	History(topic domain.Topic) ([]domain.Message, error)
}

// Server serves the status surface of one agent.
type Server struct {
	Agent   Agent
	Streams *StreamManager
	Version string

	metrics http.Handler
	diagram func(current domain.StateKind) string
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithStreams serves lifecycle events from sm on /events.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithDiagram serves the state machine drawn by render on /graph, with the active state marked.
func WithDiagram(render func(current domain.StateKind) string) Option {
	return func(s *Server) {
		s.diagram = render
	}
}

// WithVersion reports v on /healthz.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for agent.
func NewHandler(agent Agent, opts ...Option) http.Handler {
	s := &Server{Agent: agent, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/status", s.GetStatus)
	r.Get("/history/{topic}", s.GetHistory)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	if s.Streams != nil {
		r.Get("/events", s.SubscribeEvents)
	}
	if s.diagram != nil {
		r.Get("/graph", s.GetGraph)
	}
	return r
}

// GetGraph handles GET /graph. The body is Mermaid source.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprint(w, s.diagram(s.Agent.Status().State))
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	if s.Version != "" {
		resp["version"] = strings.TrimSpace(s.Version)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// GetStatus handles GET /status.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Agent.Status())
}

// GetHistory handles GET /history/{topic}.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	topic := domain.Topic(chi.URLParam(r, "topic"))
	history, err := s.Agent.History(topic)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrUnknownTopic) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	if history == nil {
		history = []domain.Message{}
	}
	s.writeJSON(w, http.StatusOK, history)
}

// SubscribeEvents handles GET /events (SSE). The optional "types" query parameter keeps only
// the listed event types, comma separated.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var filter map[domain.EventType]bool
	if raw := r.URL.Query().Get("types"); raw != "" {
		filter = make(map[domain.EventType]bool)
		for _, t := range strings.Split(raw, ",") {
			filter[domain.EventType(strings.TrimSpace(t))] = true
		}
	}

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if filter != nil && !filter[ev.Type] {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.Data)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("status server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
