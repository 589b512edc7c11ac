// Package search_tools provides the web_search MCP tool, backed by a
// Google Programmable Search engine.
package search_tools
