package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

const (
	// DefaultHTTPAddr is the default address for the MCP HTTP server.
	DefaultHTTPAddr = ":8080"

	// MCPEndpointPath is where the streamable HTTP transport is mounted.
	MCPEndpointPath = "/mcp"

	defaultHTTPReadHeaderTimeout = 10 * time.Second
	defaultHTTPWriteTimeout      = 60 * time.Second
	defaultHTTPIdleTimeout       = 120 * time.Second
)

// HTTPServerConfig holds configuration for the MCP HTTP server.
type HTTPServerConfig struct {
	// Addr is the listen address (e.g., ":8080").
	Addr string

	// MCPServer is the MCP server whose tools are exposed at /mcp.
	MCPServer *mcpserver.MCPServer

	// ServerContext supplies metrics and lifecycle state for health checks.
	ServerContext *ServerContext

	// DisableStreaming answers every request with a plain JSON response
	// instead of upgrading to SSE.
	DisableStreaming bool
}

// HTTPServer serves the MCP streamable HTTP transport and health endpoints.
type HTTPServer struct {
	mu         sync.Mutex
	addr       string
	handler    http.Handler
	health     *HealthChecker
	httpServer *http.Server
	boundAddr  string
}

// NewHTTPServer builds the HTTP surface. The server does not listen until
// Start is called.
func NewHTTPServer(config HTTPServerConfig) (*HTTPServer, error) {
	if config.MCPServer == nil {
		return nil, fmt.Errorf("MCP server is required for HTTP transport")
	}
	if config.Addr == "" {
		config.Addr = DefaultHTTPAddr
	}

	var streamable http.Handler
	if config.DisableStreaming {
		streamable = mcpserver.NewStreamableHTTPServer(config.MCPServer,
			mcpserver.WithEndpointPath(MCPEndpointPath),
			mcpserver.WithDisableStreaming(true),
		)
	} else {
		streamable = mcpserver.NewStreamableHTTPServer(config.MCPServer,
			mcpserver.WithEndpointPath(MCPEndpointPath),
		)
	}

	health := NewHealthChecker(config.ServerContext)

	mux := http.NewServeMux()
	mux.Handle(MCPEndpointPath, streamable)
	health.RegisterHealthEndpoints(mux)

	return &HTTPServer{
		addr:    config.Addr,
		handler: metricsMiddleware(config.ServerContext, mux),
		health:  health,
	}, nil
}

// Handler returns the root handler, including request metrics.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Health returns the health checker backing /healthz and /readyz.
func (s *HTTPServer) Health() *HealthChecker {
	return s.health
}

// Start listens on the configured address and blocks until Shutdown.
// ready, when non-nil, is closed once the listener is bound.
func (s *HTTPServer) Start(ready chan<- struct{}) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: defaultHTTPReadHeaderTimeout,
		WriteTimeout:      defaultHTTPWriteTimeout,
		IdleTimeout:       defaultHTTPIdleTimeout,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.boundAddr = ln.Addr().String()
	s.mu.Unlock()

	slog.Info("starting MCP HTTP server", "addr", s.boundAddr, "endpoint", MCPEndpointPath)
	if ready != nil {
		close(ready)
	}

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown marks the server not ready and drains in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	slog.Info("shutting down MCP HTTP server")
	return srv.Shutdown(ctx)
}

// BoundAddr returns the listener address once the server has started.
func (s *HTTPServer) BoundAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundAddr
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func metricsMiddleware(sc *ServerContext, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		if sc != nil {
			sc.Metrics().RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
		}
	})
}
