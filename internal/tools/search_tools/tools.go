package search_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/PYAG1/scheduling-agent/internal/instrumentation"
	"github.com/PYAG1/scheduling-agent/internal/search"
	"github.com/PYAG1/scheduling-agent/internal/server"
	"github.com/PYAG1/scheduling-agent/internal/tools/common"
)

// ToolWebSearch is the tool name.
const ToolWebSearch = "web_search"

// NoResultsMessage is returned when a query matches nothing.
const NoResultsMessage = "No relevant search results found for the query."

const defaultMaxResults = 5

// RegisterSearchTools registers the web search tool with the MCP server
func RegisterSearchTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	webSearchTool := mcp.NewTool(ToolWebSearch,
		mcp.WithDescription("Search the web and return the title and snippet of the top results"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description(fmt.Sprintf("Maximum number of results to return, 1-%d (default: %d)", search.MaxResults, defaultMaxResults)),
		),
	)

	s.AddTool(webSearchTool, common.InstrumentedToolHandlerWithService(
		ToolWebSearch, instrumentation.ServiceCustomSearch, instrumentation.OperationSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleWebSearch(ctx, request, sc)
		}))

	return nil
}

func handleWebSearch(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	searcher := sc.Searcher()
	if searcher == nil {
		return mcp.NewToolResultError(fmt.Sprintf("web search is not configured; set %s and %s", search.EnvAPIKey, search.EnvEngineID)), nil
	}

	args := request.GetArguments()

	query := common.GetStringArg(args, "query")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	n, ok, err := common.GetIntArg(args, "maxResults")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		n = defaultMaxResults
	}

	results, err := searcher.Search(ctx, query, n)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			return mcp.NewToolResultError("query is required"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search: %v", err)), nil
	}

	if len(results) == 0 {
		common.RecordOutcome(ctx, "no_results")
		return mcp.NewToolResultText(NoResultsMessage), nil
	}

	return mcp.NewToolResultText(search.Format(results)), nil
}
