package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aitistra/taskmaster/internal/report"
)

// Workload fetches the full task list and renders the per-assignee
// workload analysis. When a project is bound, the server session is
// switched to it first.
func (r *Reporter) Workload(ctx context.Context) string {
	if msg := r.switchFirst(ctx); msg != "" {
		return msg
	}
	payload, err := r.fetchListing(ctx, toolTasks, map[string]any{
		"limit":             200,
		"offset":            0,
		"include_full_data": true,
	})
	if err != nil {
		return r.fail("getting tasks", err)
	}
	return report.Workload(payload.Items)
}

// WorkloadTool exposes Workload over MCP.
type WorkloadTool struct {
	rep *Reporter
}

// NewWorkloadTool creates a WorkloadTool with its dependencies.
func NewWorkloadTool(rep *Reporter) *WorkloadTool {
	return &WorkloadTool{rep: rep}
}

// Definition returns the MCP tool definition for registration.
func (t *WorkloadTool) Definition() mcp.Tool {
	return mcp.NewTool("team_workload",
		mcp.WithDescription(
			"Analyze team workload distribution: per-assignee task counts by "+
				"status and priority, unassigned percentage, and load assessments.",
		),
		mcp.WithString("project_name",
			mcp.Description("Project to analyze. Leave empty for the default project."),
		),
	)
}

// Handle processes the team_workload tool call.
func (t *WorkloadTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep := t.rep.WithProject(req.GetString("project_name", ""))
	return mcp.NewToolResultText(rep.Workload(ctx)), nil
}
