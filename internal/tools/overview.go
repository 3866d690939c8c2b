package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aitistra/taskmaster/internal/report"
)

// Overview fetches a task summary for the bound project and renders the
// project-wide overview report.
func (r *Reporter) Overview(ctx context.Context) string {
	payload, err := r.fetchListing(ctx, toolTasksSummary, map[string]any{
		"limit":             100,
		"offset":            0,
		"include_full_data": false,
	})
	if err != nil {
		return r.fail("getting tasks", err)
	}
	return report.Overview(payload.Items, payload.Total, r.project)
}

// OverviewTool exposes Overview over MCP.
type OverviewTool struct {
	rep *Reporter
}

// NewOverviewTool creates an OverviewTool with its dependencies.
func NewOverviewTool(rep *Reporter) *OverviewTool {
	return &OverviewTool{rep: rep}
}

// Definition returns the MCP tool definition for registration.
func (t *OverviewTool) Definition() mcp.Tool {
	return mcp.NewTool("task_overview",
		mcp.WithDescription(
			"Get an overview of tasks in the Simple Task project: total count, "+
				"status distribution, priority distribution, and recent high-priority tasks. "+
				"Rendered as Markdown.",
		),
		mcp.WithString("project_name",
			mcp.Description("Project to analyze. Leave empty for the default project."),
		),
	)
}

// Handle processes the task_overview tool call.
func (t *OverviewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep := t.rep.WithProject(req.GetString("project_name", ""))
	return mcp.NewToolResultText(rep.Overview(ctx)), nil
}
