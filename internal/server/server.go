// Package server wires the reporting tools into an MCP server instance.
//
// This is the composition root: it creates the process bridge, binds the
// reporter to it, and registers the tool definitions. No business logic
// lives here, only wiring.
package server

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/aitistra/taskmaster/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with the six reporting tools
// registered. The reporter is already bound to a bridge by the caller.
func New(rep *tools.Reporter, log zerolog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"taskmaster",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	overview := tools.NewOverviewTool(rep)
	s.AddTool(overview.Definition(), overview.Handle)

	blocked := tools.NewBlockedTool(rep)
	s.AddTool(blocked.Definition(), blocked.Handle)

	highPriority := tools.NewHighPriorityTool(rep)
	s.AddTool(highPriority.Definition(), highPriority.Handle)

	workload := tools.NewWorkloadTool(rep)
	s.AddTool(workload.Definition(), workload.Handle)

	search := tools.NewSearchTool(rep)
	s.AddTool(search.Definition(), search.Handle)

	projectInfo := tools.NewProjectInfoTool(rep)
	s.AddTool(projectInfo.Definition(), projectInfo.Handle)

	log.Info().Str("version", Version).Msg("mcp server configured")
	return s
}

// Serve runs the server over stdio until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func serverInstructions() string {
	return `taskmaster exposes live Simple Task project data as Markdown reports.

Available tools:
- task_overview: totals plus status and priority distributions
- blocked_tasks: blocked tasks with dependencies and descriptions
- high_priority_tasks: high priority tasks grouped by status
- team_workload: per-assignee load analysis
- search_tasks: free-text task search
- project_info: current project and the full project listing

Every tool accepts an optional project_name argument; leave it empty to
use the server's default project. Tools always return Markdown text, and
failures are reported inside the text rather than as protocol errors.`
}
