// Package agent runs a bounded tool-calling conversation against an LLM,
// giving it live task data through the reporting tools.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aitistra/taskmaster/internal/llm"
)

// maxTurns bounds the conversation so a misbehaving model cannot loop
// through tool calls forever.
const maxTurns = 10

// Completer produces chat completions. *llm.Client satisfies it.
type Completer interface {
	Chat(ctx context.Context, messages []llm.Message, tools []llm.ToolDef) (*llm.Response, error)
}

// Tool is a callable exposed to the model. Run receives the decoded
// arguments object and always returns displayable text.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Run         func(ctx context.Context, args map[string]any) string
}

// Agent drives the conversation loop.
type Agent struct {
	completer Completer
	tools     []Tool
	log       zerolog.Logger
	now       func() time.Time
}

// New creates an Agent with its dependencies.
func New(completer Completer, tools []Tool, log zerolog.Logger) *Agent {
	return &Agent{
		completer: completer,
		tools:     tools,
		log:       log,
		now:       time.Now,
	}
}

// Run sends prompt to the model and executes requested tools until the
// model produces a final answer or the turn bound is reached.
func (a *Agent) Run(ctx context.Context, prompt string) (string, error) {
	messages := []llm.Message{
		{Role: "system", Content: systemPrompt(a.now())},
		{Role: "user", Content: prompt},
	}
	defs := a.toolDefs()

	for turn := 0; turn < maxTurns; turn++ {
		resp, err := a.completer.Chat(ctx, messages, defs)
		if err != nil {
			return "", fmt.Errorf("completion: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			return resp.Content, nil
		}

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, tc := range resp.ToolCalls {
			a.log.Debug().Str("tool", tc.Name).Int("turn", turn).Msg("tool call")
			messages = append(messages, llm.Message{
				Role:       "tool",
				ToolCallID: tc.ID,
				Content:    a.dispatch(ctx, tc),
			})
		}
	}
	return "", fmt.Errorf("no final answer after %d turns", maxTurns)
}

func (a *Agent) dispatch(ctx context.Context, tc llm.ToolCall) string {
	tool, ok := a.findTool(tc.Name)
	if !ok {
		return fmt.Sprintf("Error: unknown tool %q", tc.Name)
	}

	args := map[string]any{}
	if tc.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
			a.log.Warn().Err(err).Str("tool", tc.Name).Msg("bad tool arguments")
			return fmt.Sprintf("Error: invalid arguments for %s: %v", tc.Name, err)
		}
	}
	return tool.Run(ctx, args)
}

func (a *Agent) findTool(name string) (Tool, bool) {
	for _, t := range a.tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

func (a *Agent) toolDefs() []llm.ToolDef {
	defs := make([]llm.ToolDef, 0, len(a.tools))
	for _, t := range a.tools {
		defs = append(defs, llm.ToolDef{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	return defs
}

// ProjectHealth runs a full health analysis of the current project state.
func (a *Agent) ProjectHealth(ctx context.Context, project string) (string, error) {
	prompt := "Analyze the current live project health by examining real task distribution, " +
		"actual blocked items, current high-priority work, and live team workloads. Provide " +
		"specific recommendations with task IDs and team member names for improving project " +
		"flow and addressing real bottlenecks."
	return a.Run(ctx, focusOn(prompt, project))
}

// Standup produces a daily standup briefing.
func (a *Agent) Standup(ctx context.Context, project string) (string, error) {
	prompt := "Create a daily standup briefing using live data that highlights the actual most " +
		"important tasks to focus on today, current blockers that need resolution, and real " +
		"priorities for the team. Include specific task IDs and current assignees."
	return a.Run(ctx, focusOn(prompt, project))
}

// Optimize looks for workflow optimization opportunities.
func (a *Agent) Optimize(ctx context.Context, project string) (string, error) {
	prompt := "Analyze the current live task workflow and identify specific opportunities for " +
		"optimization based on actual data patterns. Look for real bottlenecks, workload " +
		"imbalances, and process improvements that can be implemented immediately."
	return a.Run(ctx, focusOn(prompt, project))
}

// Risks assesses project risks from current task state.
func (a *Agent) Risks(ctx context.Context, project string) (string, error) {
	prompt := "Perform a comprehensive risk assessment based on actual current task statuses, " +
		"real priorities, and live blockers. Identify specific project risks from the actual " +
		"data and suggest concrete mitigation strategies with responsible team members."
	return a.Run(ctx, focusOn(prompt, project))
}

// SearchAndPrioritize searches for tasks and recommends a priority order.
func (a *Agent) SearchAndPrioritize(ctx context.Context, query, project string) (string, error) {
	prompt := fmt.Sprintf("Search for tasks related to '%s' and analyze the results to provide "+
		"prioritization recommendations based on current status, priorities, and team capacity.", query)
	return a.Run(ctx, focusOn(prompt, project))
}
