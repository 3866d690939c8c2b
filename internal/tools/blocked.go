package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aitistra/taskmaster/internal/report"
)

// Blocked fetches tasks in the blocked status and renders the
// blocked-task report.
func (r *Reporter) Blocked(ctx context.Context) string {
	payload, err := r.fetchListing(ctx, toolTasksByStatus, map[string]any{
		"status":            "blocked",
		"limit":             50,
		"offset":            0,
		"include_full_data": true,
	})
	if err != nil {
		return r.fail("getting blocked tasks", err)
	}
	return report.Blocked(payload.Items)
}

// BlockedTool exposes Blocked over MCP.
type BlockedTool struct {
	rep *Reporter
}

// NewBlockedTool creates a BlockedTool with its dependencies.
func NewBlockedTool(rep *Reporter) *BlockedTool {
	return &BlockedTool{rep: rep}
}

// Definition returns the MCP tool definition for registration.
func (t *BlockedTool) Definition() mcp.Tool {
	return mcp.NewTool("blocked_tasks",
		mcp.WithDescription(
			"List tasks that are currently blocked, with priority, assignee, "+
				"creation date, dependency counts, and descriptions.",
		),
		mcp.WithString("project_name",
			mcp.Description("Project to analyze. Leave empty for the default project."),
		),
	)
}

// Handle processes the blocked_tasks tool call.
func (t *BlockedTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep := t.rep.WithProject(req.GetString("project_name", ""))
	return mcp.NewToolResultText(rep.Blocked(ctx)), nil
}
