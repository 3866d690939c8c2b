package tools

import (
	"context"

	"github.com/aitistra/taskmaster/internal/agent"
)

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// projectParam is the JSON Schema shared by tools that only take an
// optional project name.
func projectParam() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"project_name": map[string]any{
				"type":        "string",
				"description": "Project to analyze. Leave empty for the default project.",
			},
		},
	}
}

// AgentTools wraps the reporter's methods as tools the conversational
// agent can call.
func AgentTools(rep *Reporter) []agent.Tool {
	return []agent.Tool{
		{
			Name:        "task_overview",
			Description: "Get an overview of all tasks: totals, status and priority distributions, and recent high-priority tasks.",
			Parameters:  projectParam(),
			Run: func(ctx context.Context, args map[string]any) string {
				return rep.WithProject(stringArg(args, "project_name")).Overview(ctx)
			},
		},
		{
			Name:        "blocked_tasks",
			Description: "List tasks that are currently blocked, with dependencies and descriptions.",
			Parameters:  projectParam(),
			Run: func(ctx context.Context, args map[string]any) string {
				return rep.WithProject(stringArg(args, "project_name")).Blocked(ctx)
			},
		},
		{
			Name:        "high_priority_tasks",
			Description: "List high priority tasks grouped by status, most urgent first.",
			Parameters:  projectParam(),
			Run: func(ctx context.Context, args map[string]any) string {
				return rep.WithProject(stringArg(args, "project_name")).HighPriority(ctx)
			},
		},
		{
			Name:        "team_workload",
			Description: "Analyze team workload distribution with per-assignee counts and load assessments.",
			Parameters:  projectParam(),
			Run: func(ctx context.Context, args map[string]any) string {
				return rep.WithProject(stringArg(args, "project_name")).Workload(ctx)
			},
		},
		{
			Name:        "search_tasks",
			Description: "Search for tasks matching a query string.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Search terms.",
					},
					"project_name": map[string]any{
						"type":        "string",
						"description": "Project to search in. Leave empty for the default project.",
					},
				},
				"required": []string{"query"},
			},
			Run: func(ctx context.Context, args map[string]any) string {
				return rep.WithProject(stringArg(args, "project_name")).Search(ctx, stringArg(args, "query"))
			},
		},
		{
			Name:        "project_info",
			Description: "Get information about the current project and the list of available projects.",
			Parameters:  projectParam(),
			Run: func(ctx context.Context, args map[string]any) string {
				return rep.WithProject(stringArg(args, "project_name")).ProjectInfo(ctx)
			},
		},
	}
}
