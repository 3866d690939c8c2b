package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aitistra/taskmaster/internal/report"
)

// Search queries the server for tasks matching query and renders the
// results. When a project is bound, the server session is switched to it
// first.
func (r *Reporter) Search(ctx context.Context, query string) string {
	if msg := r.switchFirst(ctx); msg != "" {
		return msg
	}
	payload, err := r.fetchListing(ctx, toolSearchTasks, map[string]any{
		"query":             query,
		"limit":             25,
		"offset":            0,
		"include_full_data": false,
	})
	if err != nil {
		return r.fail("searching tasks", err)
	}
	return report.SearchResults(query, payload.Items, payload.Total)
}

// SearchTool exposes Search over MCP.
type SearchTool struct {
	rep *Reporter
}

// NewSearchTool creates a SearchTool with its dependencies.
func NewSearchTool(rep *Reporter) *SearchTool {
	return &SearchTool{rep: rep}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("search_tasks",
		mcp.WithDescription(
			"Search for tasks matching a query. Returns matches with status, "+
				"priority, assignee, and id.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search terms."),
		),
		mcp.WithString("project_name",
			mcp.Description("Project to search in. Leave empty for the default project."),
		),
	)
}

// Handle processes the search_tasks tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	rep := t.rep.WithProject(req.GetString("project_name", ""))
	return mcp.NewToolResultText(rep.Search(ctx, query)), nil
}
