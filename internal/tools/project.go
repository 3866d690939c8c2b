package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aitistra/taskmaster/internal/report"
	"github.com/aitistra/taskmaster/internal/task"
)

// ProjectInfo fetches the current project's info and the full project
// listing and renders them. When a project is bound, the server session
// is switched to it first.
func (r *Reporter) ProjectInfo(ctx context.Context) string {
	if msg := r.switchFirst(ctx); msg != "" {
		return msg
	}
	if _, err := r.inv.Invoke(ctx, toolProjectInfo, map[string]any{}); err != nil {
		return r.fail("getting project info", err)
	}

	// The listing is best-effort: a failure still yields the header with
	// an empty project list.
	var projects []task.Project
	result, err := r.inv.Invoke(ctx, toolListProjects, map[string]any{})
	if err == nil {
		projects, err = task.ParseProjects(result)
	}
	if err != nil {
		r.log.Warn().Err(err).Msg("project listing unavailable")
	}
	return report.Projects(r.project, projects)
}

// ProjectInfoTool exposes ProjectInfo over MCP.
type ProjectInfoTool struct {
	rep *Reporter
}

// NewProjectInfoTool creates a ProjectInfoTool with its dependencies.
func NewProjectInfoTool(rep *Reporter) *ProjectInfoTool {
	return &ProjectInfoTool{rep: rep}
}

// Definition returns the MCP tool definition for registration.
func (t *ProjectInfoTool) Definition() mcp.Tool {
	return mcp.NewTool("project_info",
		mcp.WithDescription(
			"Get information about the current project and the list of all "+
				"available projects.",
		),
		mcp.WithString("project_name",
			mcp.Description("Project to inspect. Leave empty for the default project."),
		),
	)
}

// Handle processes the project_info tool call.
func (t *ProjectInfoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep := t.rep.WithProject(req.GetString("project_name", ""))
	return mcp.NewToolResultText(rep.ProjectInfo(ctx)), nil
}
