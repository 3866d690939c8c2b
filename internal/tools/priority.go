package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aitistra/taskmaster/internal/report"
)

// HighPriority fetches high-priority tasks and renders them grouped by
// status bucket, most urgent first.
func (r *Reporter) HighPriority(ctx context.Context) string {
	payload, err := r.fetchListing(ctx, toolTasksByPriority, map[string]any{
		"priority":          "high",
		"limit":             25,
		"offset":            0,
		"include_full_data": true,
	})
	if err != nil {
		return r.fail("getting high priority tasks", err)
	}
	return report.HighPriority(payload.Items)
}

// HighPriorityTool exposes HighPriority over MCP.
type HighPriorityTool struct {
	rep *Reporter
}

// NewHighPriorityTool creates a HighPriorityTool with its dependencies.
func NewHighPriorityTool(rep *Reporter) *HighPriorityTool {
	return &HighPriorityTool{rep: rep}
}

// Definition returns the MCP tool definition for registration.
func (t *HighPriorityTool) Definition() mcp.Tool {
	return mcp.NewTool("high_priority_tasks",
		mcp.WithDescription(
			"List high priority tasks that need attention, grouped by status "+
				"(blocked first, then todo, in progress, review, completed).",
		),
		mcp.WithString("project_name",
			mcp.Description("Project to analyze. Leave empty for the default project."),
		),
	)
}

// Handle processes the high_priority_tasks tool call.
func (t *HighPriorityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep := t.rep.WithProject(req.GetString("project_name", ""))
	return mcp.NewToolResultText(rep.HighPriority(ctx)), nil
}
