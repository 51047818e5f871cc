package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/agents/orchestrator"
)

const (
	defaultChatTimeout = 120 * time.Second
	maxRequestBytes    = 1 << 20
)

// ChatService runs one conversation turn.
type ChatService interface {
	HandleMessage(ctx context.Context, threadID string, text string) (orchestrator.Reply, error)
}

type Options struct {
	Addr        string
	ChatTimeout time.Duration
	// Gatherer backs /metrics; nil leaves the route unregistered.
	Gatherer prometheus.Gatherer
}

type Server struct {
	mux    *http.ServeMux
	server *http.Server
}

func NewServer(chat ChatService, opts Options) (*Server, error) {
	if chat == nil {
		return nil, errors.New("chat service is required")
	}

	mux := http.NewServeMux()
	NewHandler(chat, opts.ChatTimeout).Register(mux)
	if opts.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	return &Server{
		mux: mux,
		server: &http.Server{
			Addr:              opts.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe blocks until the server stops. A graceful Shutdown is not
// reported as an error.
func (s *Server) ListenAndServe() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
