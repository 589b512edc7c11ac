// Package cmd implements the command-line interface for scheduling-agent.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing the scheduling and search tools
//   - slots: Run the slot finder over a YAML or JSON file of busy periods
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
package cmd
