// Package tools implements the reporting tools layered on the process
// bridge.
//
// Each tool fetches a listing from the external Simple Task server,
// decodes it defensively, and renders Markdown. Tools never return errors:
// the agent runtime and the MCP surface both expect a single string, so
// every failure (launch, timeout, protocol, server-side) degrades to a
// displayable "Error ...:" message.
//
// Design principles:
//   - one file = one tool (method + MCP definition)
//   - tools depend on the Invoker interface, not on the concrete bridge
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aitistra/taskmaster/internal/task"
)

// External tool names advertised by the Simple Task MCP server.
const (
	toolTasksSummary    = "simpletask_get_tasks_summary"
	toolTasksByStatus   = "simpletask_get_tasks_by_status"
	toolTasksByPriority = "simpletask_get_tasks_by_priority"
	toolTasks           = "simpletask_get_tasks"
	toolSearchTasks     = "simpletask_search_tasks"
	toolProjectInfo     = "simpletask_get_project_info"
	toolListProjects    = "simpletask_list_projects"
	toolSwitchProject   = "simpletask_switch_project"
)

// Invoker is the slice of the bridge the tools need. It lets tests supply
// canned results without spawning processes.
type Invoker interface {
	Invoke(ctx context.Context, toolName string, arguments map[string]any) (json.RawMessage, error)
}

// Reporter holds the six reporting tools, bound to an optional project.
// The zero project means the server's default project.
type Reporter struct {
	inv     Invoker
	project string
	log     zerolog.Logger
}

// NewReporter creates a Reporter. project may be empty.
func NewReporter(inv Invoker, project string, log zerolog.Logger) *Reporter {
	return &Reporter{inv: inv, project: project, log: log}
}

// Project returns the bound project key ("" for the default project).
func (r *Reporter) Project() string { return r.project }

// WithProject returns a Reporter bound to a different project, sharing
// the same invoker. Used by the MCP surface where the project arrives as
// a per-call argument.
func (r *Reporter) WithProject(project string) *Reporter {
	if project == "" || project == r.project {
		return r
	}
	return &Reporter{inv: r.inv, project: project, log: r.log}
}

// fetchListing invokes an external listing tool and decodes the payload.
func (r *Reporter) fetchListing(ctx context.Context, toolName string, params map[string]any) (*task.Payload, error) {
	if r.project != "" {
		params["project_name"] = r.project
	}
	result, err := r.inv.Invoke(ctx, toolName, params)
	if err != nil {
		return nil, err
	}
	return task.ParsePayload(result)
}

// switchFirst switches the server session to the bound project before
// tools that operate on session state. No-op when no project is bound.
func (r *Reporter) switchFirst(ctx context.Context) string {
	if r.project == "" {
		return ""
	}
	status := r.SwitchProject(ctx, r.project)
	if strings.Contains(status, "Error") {
		return fmt.Sprintf("Project switch failed: %s", status)
	}
	return ""
}

// fail logs the underlying error and returns the displayable message.
func (r *Reporter) fail(what string, err error) string {
	r.log.Warn().Err(err).Str("report", what).Msg("tool call failed")
	return fmt.Sprintf("Error %s: %v", what, err)
}

// SwitchProject switches the server session to the named project.
func (r *Reporter) SwitchProject(ctx context.Context, project string) string {
	_, err := r.inv.Invoke(ctx, toolSwitchProject, map[string]any{
		"project_identifier": project,
	})
	if err != nil {
		return fmt.Sprintf("Error switching to project: %v", err)
	}
	return fmt.Sprintf("✅ Switched to project: %s", project)
}
