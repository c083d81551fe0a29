package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/w-h-a/moviesearch/server"
)

const defaultReadTimeout = 10 * time.Second

type httpServer struct {
	options server.Options
	srv     *http.Server
	ln      net.Listener
	mtx     sync.RWMutex
}

func (s *httpServer) Options() server.Options {
	return s.options
}

// Handle installs handler behind the configured middleware. The first
// middleware given is the outermost.
func (s *httpServer) Handle(handler any) error {
	h, ok := handler.(http.Handler)
	if !ok {
		return fmt.Errorf("http server: handler must be an http.Handler, got %T", handler)
	}

	if ms, ok := MiddlewareFrom(s.options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			h = ms[i](h)
		}
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.srv.Handler = h

	return nil
}

// Start listens on the configured address and serves in the background.
func (s *httpServer) Start() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.srv.Handler == nil {
		return errors.New("http server: no handler installed")
	}

	ln, err := net.Listen("tcp", s.options.Address)
	if err != nil {
		return err
	}

	s.ln = ln

	slog.InfoContext(s.options.Context, "server listening", "name", s.options.Name, "address", ln.Addr().String())

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(s.options.Context, "server failed", "name", s.options.Name, "error", err)
		}
	}()

	return nil
}

func (s *httpServer) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Addr reports the bound address once started.
func (s *httpServer) Addr() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.ln == nil {
		return s.options.Address
	}

	return s.ln.Addr().String()
}

func NewServer(opts ...server.Option) *httpServer {
	options := server.NewOptions(opts...)

	readTimeout := defaultReadTimeout
	if d, ok := ReadTimeoutFrom(options.Context); ok {
		readTimeout = d
	}

	return &httpServer{
		options: options,
		srv: &http.Server{
			ReadHeaderTimeout: readTimeout,
			ReadTimeout:       readTimeout,
		},
		mtx: sync.RWMutex{},
	}
}

var _ server.Server = (*httpServer)(nil)
