package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/PYAG1/scheduling-agent/internal/calendar"
	"github.com/PYAG1/scheduling-agent/internal/google"
	"github.com/PYAG1/scheduling-agent/internal/instrumentation"
	"github.com/PYAG1/scheduling-agent/internal/logging"
	"github.com/PYAG1/scheduling-agent/internal/notify"
	"github.com/PYAG1/scheduling-agent/internal/resources"
	"github.com/PYAG1/scheduling-agent/internal/scheduling"
	"github.com/PYAG1/scheduling-agent/internal/search"
	"github.com/PYAG1/scheduling-agent/internal/server"
	"github.com/PYAG1/scheduling-agent/internal/tools/common"
	"github.com/PYAG1/scheduling-agent/internal/tools/schedule_tools"
	"github.com/PYAG1/scheduling-agent/internal/tools/search_tools"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"

	// Tool groups selectable with --tools.
	toolGroupSchedule = "schedule"
	toolGroupSearch   = "search"

	shutdownTimeout = 30 * time.Second
)

// envSenderEmail overrides the From header of confirmation emails.
const envSenderEmail = "SCHEDULER_SENDER_EMAIL"

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

type serveOptions struct {
	transport        string
	httpAddr         string
	configPath       string
	debug            bool
	logFormat        string
	disableStreaming bool
	notifications    bool
	tools            string
	metrics          MetricsConfig
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server exposing the scheduling and web search tools.

Google access uses a service account, read from GOOGLE_APPLICATION_CREDENTIALS
or GOOGLE_CLIENT_EMAIL and GOOGLE_PRIVATE_KEY. Set GOOGLE_IMPERSONATE_SUBJECT to
send confirmations as a Workspace user. Web search is enabled when
JSON_SEARCH_API_KEY and JSON_SEARCH_ENGINE_ID are set.

Supports two transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP server at /mcp`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", getEnvOrDefault("MCP_TRANSPORT", transportStdio), "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", getEnvOrDefault("MCP_HTTP_ADDR", server.DefaultHTTPAddr), "HTTP server address (for streamable-http transport)")
	cmd.Flags().StringVar(&opts.configPath, "config", os.Getenv("SCHEDULER_CONFIG"), "Path to a YAML scheduling config file")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", getEnvOrDefault("LOG_FORMAT", logging.FormatText), "Log format: text or json")
	cmd.Flags().BoolVar(&opts.disableStreaming, "disable-streaming", false, "Answer streamable-http requests with plain JSON instead of SSE")
	cmd.Flags().BoolVar(&opts.notifications, "notifications", true, "Send confirmation emails through Gmail after booking")
	cmd.Flags().StringVar(&opts.tools, "tools", "", "Comma-separated tool groups to enable: schedule, search (default: all)")
	cmd.Flags().BoolVar(&opts.metrics.Enabled, "metrics-enabled", getEnvOrDefault("METRICS_ENABLED", "true") == "true", "Serve Prometheus metrics on a dedicated port")
	cmd.Flags().StringVar(&opts.metrics.Addr, "metrics-addr", getEnvOrDefault("METRICS_ADDR", server.DefaultMetricsAddr), "Metrics server address")

	return cmd
}

func runServe(opts serveOptions) error {
	switch opts.transport {
	case transportStdio, transportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.transport)
	}

	groups, err := parseToolGroups(opts.tools)
	if err != nil {
		return err
	}

	level := "info"
	if opts.debug {
		level = "debug"
	}
	// stdout carries the stdio transport, so logs always go to stderr
	logger, err := logging.New(logging.Options{Level: level, Format: opts.logFormat})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	shutdownCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := scheduling.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid scheduling config: %w", err)
	}

	instrConfig := instrumentation.DefaultConfig().WithScheduler(cfg.CalendarID, cfg.TimeZone)
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	var metrics *instrumentation.Metrics
	if provider.Enabled() {
		metrics = provider.Metrics()
	}

	var metricsServer *server.MetricsServer
	if opts.metrics.Enabled && provider.ServesPrometheus() {
		metricsServer, err = startMetricsServer(opts.metrics, provider)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	httpClient, err := googleHTTPClient(shutdownCtx)
	if err != nil {
		return err
	}

	scheduler, err := newScheduler(shutdownCtx, cfg, httpClient, opts.notifications, logger, metrics)
	if err != nil {
		return err
	}

	serverOpts := []server.Option{
		server.WithScheduler(scheduler),
		server.WithLogger(logger),
	}
	if searcher := newSearcher(shutdownCtx, logger, metrics); searcher != nil {
		serverOpts = append(serverOpts, server.WithSearcher(searcher))
	}

	serverContext := server.NewServerContext(shutdownCtx, serverOpts...)
	if provider.Enabled() {
		serverContext.SetMetrics(metrics)
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()

	mcpSrv := mcpserver.NewMCPServer("scheduling-agent", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)

	if err := registerTools(mcpSrv, serverContext, groups); err != nil {
		return err
	}

	logger.Info("scheduling agent ready",
		slog.String("transport", opts.transport),
		slog.String(logging.KeyCalendar, cfg.CalendarID),
		slog.String("timezone", cfg.TimeZone),
		slog.Any("tools", groups))

	switch opts.transport {
	case transportStdio:
		return runStdioServer(mcpSrv)
	default:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, opts.httpAddr, opts.disableStreaming)
	}
}

func startMetricsServer(config MetricsConfig, provider *instrumentation.Provider) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    config.Addr,
		Enabled:                 config.Enabled,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil {
			metricsErr <- err
		}
	}()

	select {
	case <-metricsReady:
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	}
}

func googleHTTPClient(ctx context.Context) (*http.Client, error) {
	jwtConfig, err := google.LoadServiceAccount(google.CredentialsFromEnv())
	if err != nil {
		return nil, fmt.Errorf("failed to load Google credentials: %w", err)
	}
	return google.HTTPClient(ctx, jwtConfig), nil
}

func newScheduler(ctx context.Context, cfg scheduling.Config, client *http.Client, notifications bool, logger *slog.Logger, metrics *instrumentation.Metrics) (*scheduling.Service, error) {
	calOpts := []calendar.Option{calendar.WithMetrics(metrics)}
	if cfg.CalendarQPS > 0 {
		calOpts = append(calOpts, calendar.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.CalendarQPS), max(cfg.CalendarBurst, 1))))
	}

	calClient, err := calendar.NewClient(ctx, client, calOpts...)
	if err != nil {
		return nil, err
	}
	source := calendar.NewCachedSource(calClient, cfg.CacheTTL, metrics)

	svcOpts := []scheduling.Option{
		scheduling.WithLogger(logger),
		scheduling.WithMetrics(metrics),
	}

	if notifications {
		loc, err := cfg.Location()
		if err != nil {
			return nil, err
		}
		notifier, err := notify.NewGmailNotifier(ctx, client, notify.Options{
			From:       os.Getenv(envSenderEmail),
			AdminEmail: cfg.AdminEmail,
			Location:   loc,
			Logger:     logger,
			Metrics:    metrics,
		})
		if err != nil {
			return nil, err
		}
		svcOpts = append(svcOpts, scheduling.WithNotifier(notifier))
	}

	return scheduling.NewService(cfg, source, calClient, svcOpts...)
}

// newSearcher returns nil when the search credentials are not configured.
func newSearcher(ctx context.Context, logger *slog.Logger, metrics *instrumentation.Metrics) server.Searcher {
	apiKey, engineID := os.Getenv(search.EnvAPIKey), os.Getenv(search.EnvEngineID)
	if apiKey == "" || engineID == "" {
		logger.Info("web search disabled", slog.String("reason", "search credentials not set"))
		return nil
	}

	client, err := search.NewClient(ctx, apiKey, engineID, metrics)
	if err != nil {
		logger.Warn("web search disabled", logging.Err(err))
		return nil
	}
	return client
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, addr string, disableStreaming bool) error {
	httpServer, err := server.NewHTTPServer(server.HTTPServerConfig{
		Addr:             addr,
		MCPServer:        mcpSrv,
		ServerContext:    sc,
		DisableStreaming: disableStreaming,
	})
	if err != nil {
		return err
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(nil); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	slog.Info("HTTP server gracefully stopped")
	return nil
}

type toolRegistration struct {
	name     string
	register func() error
}

// registerTools registers the enabled tool groups and their resources.
func registerTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, groups []string) error {
	registrations := []toolRegistration{
		{
			name: toolGroupSchedule,
			register: func() error {
				if err := schedule_tools.RegisterScheduleTools(mcpSrv, sc); err != nil {
					return err
				}
				return resources.RegisterSchedulingResources(mcpSrv, sc)
			},
		},
		{
			name: toolGroupSearch,
			register: func() error {
				return search_tools.RegisterSearchTools(mcpSrv, sc)
			},
		},
	}

	for _, reg := range registrations {
		if !slices.Contains(groups, reg.name) {
			continue
		}
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", reg.name, err)
		}
	}
	return nil
}

// parseToolGroups resolves the --tools flag. Empty selects every group.
func parseToolGroups(s string) ([]string, error) {
	all := []string{toolGroupSchedule, toolGroupSearch}

	requested := common.ParseCommaSeparated(strings.ToLower(s))
	if len(requested) == 0 {
		return all, nil
	}

	var groups, unknown []string
	for _, g := range requested {
		switch {
		case !slices.Contains(all, g):
			unknown = append(unknown, g)
		case !slices.Contains(groups, g):
			groups = append(groups, g)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown tool group(s): %s (available: %s)", strings.Join(unknown, ", "), strings.Join(all, ", "))
	}
	return groups, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
