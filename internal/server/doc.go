// Package server provides the MCP server context and the HTTP surfaces of
// the scheduling agent.
//
// # Key Components
//
// ServerContext carries the injected scheduler, search backend, metrics and
// audit logger that every tool handler needs, and owns the server lifecycle.
//
// HTTPServer exposes the MCP streamable HTTP transport at /mcp together with
// the Kubernetes health endpoints:
//   - /healthz: liveness
//   - /readyz: readiness, fails while shutting down or unconfigured
//   - /healthz/detailed: uptime and configured components
//
// MetricsServer serves Prometheus metrics on a dedicated port so operational
// data is not exposed on the MCP listener.
package server
