package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/PYAG1/scheduling-agent/internal/availability"
	"github.com/PYAG1/scheduling-agent/internal/instrumentation"
	"github.com/PYAG1/scheduling-agent/internal/meeting"
	"github.com/PYAG1/scheduling-agent/internal/scheduling"
	"github.com/PYAG1/scheduling-agent/internal/search"
)

// Scheduler answers availability lookups and books meetings.
type Scheduler interface {
	GetSchedule(ctx context.Context, q scheduling.ScheduleQuery) (availability.ScheduleRecommendation, error)
	BookMeeting(ctx context.Context, req meeting.Request) (scheduling.BookingResult, error)
}

// Searcher runs web searches.
type Searcher interface {
	Search(ctx context.Context, query string, n int) ([]search.Result, error)
}

// ServerContext holds the dependencies shared by all MCP tools
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	scheduler   Scheduler
	searcher    Searcher
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	logger      *slog.Logger
	mu          sync.RWMutex
	shutdown    bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithScheduler sets the scheduler behind the scheduling tools.
func WithScheduler(s Scheduler) Option {
	return func(sc *ServerContext) { sc.scheduler = s }
}

// WithSearcher sets the web search backend. Without one the search tool
// reports that search is not configured.
func WithSearcher(s Searcher) Option {
	return func(sc *ServerContext) { sc.searcher = s }
}

// WithLogger sets the logger handed to tools.
func WithLogger(l *slog.Logger) Option {
	return func(sc *ServerContext) { sc.logger = l }
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, opts ...Option) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Scheduler returns the scheduler, or nil when none is configured.
func (sc *ServerContext) Scheduler() Scheduler {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.scheduler
}

// Searcher returns the search backend, or nil when none is configured.
func (sc *ServerContext) Searcher() Searcher {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.searcher
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// SetMetrics sets the metrics used for tool instrumentation.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the tool metrics (may be nil).
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger for tool invocations.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// AuditLogger returns the audit logger (may be nil).
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
