// Package resources provides read-only MCP resources describing how the
// scheduler is configured, so an agent can phrase offers in the right time
// zone and respect the working day before calling any tool.
package resources
