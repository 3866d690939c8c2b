package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type call struct {
	tool string
	args map[string]any
}

// fakeInvoker returns canned results per external tool name and records
// every invocation.
type fakeInvoker struct {
	results map[string]json.RawMessage
	errs    map[string]error
	calls   []call
}

func (f *fakeInvoker) Invoke(ctx context.Context, toolName string, arguments map[string]any) (json.RawMessage, error) {
	f.calls = append(f.calls, call{tool: toolName, args: arguments})
	if err, ok := f.errs[toolName]; ok {
		return nil, err
	}
	if res, ok := f.results[toolName]; ok {
		return res, nil
	}
	return json.RawMessage(`{"content": [{"type": "text", "text": "{\"items\": [], \"total_count\": 0}"}]}`), nil
}

func contentResult(t *testing.T, payload string) json.RawMessage {
	t.Helper()
	inner, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	return json.RawMessage(fmt.Sprintf(`{"content": [{"type": "text", "text": %s}]}`, inner))
}

func TestOverviewEmptyProject(t *testing.T) {
	inv := &fakeInvoker{}
	rep := NewReporter(inv, "", zerolog.Nop())

	out := rep.Overview(context.Background())

	if !strings.HasPrefix(out, "# Simple Task Overview\n") {
		t.Errorf("output does not start with the overview header:\n%s", out)
	}
	if !strings.Contains(out, "**Total Tasks**: 0") {
		t.Errorf("output does not report zero tasks:\n%s", out)
	}

	if len(inv.calls) != 1 {
		t.Fatalf("invoked %d tools, want 1", len(inv.calls))
	}
	c := inv.calls[0]
	if c.tool != toolTasksSummary {
		t.Errorf("tool = %q", c.tool)
	}
	if c.args["limit"] != 100 || c.args["include_full_data"] != false {
		t.Errorf("args = %v", c.args)
	}
	if _, ok := c.args["project_name"]; ok {
		t.Error("project_name sent for the default project")
	}
}

func TestOverviewBindsProject(t *testing.T) {
	inv := &fakeInvoker{}
	rep := NewReporter(inv, "webapp", zerolog.Nop())

	out := rep.Overview(context.Background())

	if !strings.Contains(out, "**Project**: webapp") {
		t.Errorf("output does not name the project:\n%s", out)
	}
	if got := inv.calls[0].args["project_name"]; got != "webapp" {
		t.Errorf("project_name = %v", got)
	}
}

func TestOverviewRendersTasks(t *testing.T) {
	inv := &fakeInvoker{results: map[string]json.RawMessage{
		toolTasksSummary: contentResult(t, `{
			"items": [
				{"id": 1, "title": "Fix login", "status": "todo", "priority": "high"},
				{"id": 2, "title": "Ship docs", "status": "completed", "priority": "low"}
			],
			"total_count": 2
		}`),
	}}
	rep := NewReporter(inv, "", zerolog.Nop())

	out := rep.Overview(context.Background())

	if !strings.Contains(out, "**Total Tasks**: 2") {
		t.Errorf("total missing:\n%s", out)
	}
	if !strings.Contains(out, "Fix login") {
		t.Errorf("high priority task missing:\n%s", out)
	}
}

func TestOverviewInvokeErrorDegrades(t *testing.T) {
	inv := &fakeInvoker{errs: map[string]error{
		toolTasksSummary: errors.New("spawn failed"),
	}}
	rep := NewReporter(inv, "", zerolog.Nop())

	out := rep.Overview(context.Background())
	if !strings.HasPrefix(out, "Error getting tasks:") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "spawn failed") {
		t.Errorf("underlying cause missing: %q", out)
	}
}

func TestBlockedParams(t *testing.T) {
	inv := &fakeInvoker{}
	rep := NewReporter(inv, "", zerolog.Nop())

	out := rep.Blocked(context.Background())
	if !strings.Contains(out, "No blocked tasks found") {
		t.Errorf("output = %q", out)
	}
	c := inv.calls[0]
	if c.tool != toolTasksByStatus || c.args["status"] != "blocked" || c.args["limit"] != 50 {
		t.Errorf("call = %+v", c)
	}
}

func TestHighPriorityParams(t *testing.T) {
	inv := &fakeInvoker{}
	rep := NewReporter(inv, "", zerolog.Nop())

	rep.HighPriority(context.Background())
	c := inv.calls[0]
	if c.tool != toolTasksByPriority || c.args["priority"] != "high" || c.args["limit"] != 25 {
		t.Errorf("call = %+v", c)
	}
}

func TestWorkloadSwitchesProjectFirst(t *testing.T) {
	inv := &fakeInvoker{}
	rep := NewReporter(inv, "webapp", zerolog.Nop())

	rep.Workload(context.Background())

	if len(inv.calls) != 2 {
		t.Fatalf("invoked %d tools, want 2", len(inv.calls))
	}
	if inv.calls[0].tool != toolSwitchProject {
		t.Errorf("first call = %q, want project switch", inv.calls[0].tool)
	}
	if got := inv.calls[0].args["project_identifier"]; got != "webapp" {
		t.Errorf("project_identifier = %v", got)
	}
	if inv.calls[1].tool != toolTasks {
		t.Errorf("second call = %q", inv.calls[1].tool)
	}
	if inv.calls[1].args["limit"] != 200 {
		t.Errorf("limit = %v", inv.calls[1].args["limit"])
	}
}

func TestWorkloadSwitchFailure(t *testing.T) {
	inv := &fakeInvoker{errs: map[string]error{
		toolSwitchProject: errors.New("no such project"),
	}}
	rep := NewReporter(inv, "ghost", zerolog.Nop())

	out := rep.Workload(context.Background())
	if !strings.HasPrefix(out, "Project switch failed:") {
		t.Errorf("output = %q", out)
	}
	if len(inv.calls) != 1 {
		t.Errorf("listing fetched despite failed switch: %+v", inv.calls)
	}
}

func TestWorkloadSkipsSwitchForDefaultProject(t *testing.T) {
	inv := &fakeInvoker{}
	rep := NewReporter(inv, "", zerolog.Nop())

	rep.Workload(context.Background())
	if len(inv.calls) != 1 || inv.calls[0].tool != toolTasks {
		t.Errorf("calls = %+v", inv.calls)
	}
}

func TestSearchPassesQuery(t *testing.T) {
	inv := &fakeInvoker{}
	rep := NewReporter(inv, "", zerolog.Nop())

	out := rep.Search(context.Background(), "authentication")
	if !strings.Contains(out, "'authentication'") {
		t.Errorf("output does not echo the query:\n%s", out)
	}
	c := inv.calls[0]
	if c.tool != toolSearchTasks || c.args["query"] != "authentication" || c.args["limit"] != 25 {
		t.Errorf("call = %+v", c)
	}
}

func TestSwitchProjectMessages(t *testing.T) {
	inv := &fakeInvoker{}
	rep := NewReporter(inv, "", zerolog.Nop())
	if got := rep.SwitchProject(context.Background(), "webapp"); got != "✅ Switched to project: webapp" {
		t.Errorf("success message = %q", got)
	}

	inv = &fakeInvoker{errs: map[string]error{toolSwitchProject: errors.New("nope")}}
	rep = NewReporter(inv, "", zerolog.Nop())
	if got := rep.SwitchProject(context.Background(), "webapp"); !strings.HasPrefix(got, "Error switching to project:") {
		t.Errorf("failure message = %q", got)
	}
}

func TestProjectInfoListsProjects(t *testing.T) {
	inv := &fakeInvoker{results: map[string]json.RawMessage{
		toolProjectInfo:  json.RawMessage(`{"content": [{"type": "text", "text": "current: webapp"}]}`),
		toolListProjects: contentResult(t, `[{"projectName": "webapp", "description": "The web app"}, {"projectName": "api"}]`),
	}}
	rep := NewReporter(inv, "webapp", zerolog.Nop())

	out := rep.ProjectInfo(context.Background())
	if !strings.Contains(out, "webapp") || !strings.Contains(out, "[CURRENT]") {
		t.Errorf("current project not marked:\n%s", out)
	}
	if !strings.Contains(out, "api") {
		t.Errorf("project listing incomplete:\n%s", out)
	}
}

func TestWithProject(t *testing.T) {
	rep := NewReporter(&fakeInvoker{}, "webapp", zerolog.Nop())
	if rep.WithProject("") != rep {
		t.Error("empty project should return the same reporter")
	}
	if rep.WithProject("webapp") != rep {
		t.Error("same project should return the same reporter")
	}
	other := rep.WithProject("api")
	if other == rep || other.Project() != "api" {
		t.Errorf("rebound reporter = %+v", other)
	}
}

func TestAgentToolsDispatch(t *testing.T) {
	inv := &fakeInvoker{}
	rep := NewReporter(inv, "", zerolog.Nop())
	ts := AgentTools(rep)

	if len(ts) != 6 {
		t.Fatalf("tool count = %d, want 6", len(ts))
	}

	byName := map[string]int{}
	for i, tool := range ts {
		byName[tool.Name] = i
		if tool.Description == "" {
			t.Errorf("tool %q has no description", tool.Name)
		}
	}
	for _, name := range []string{"task_overview", "blocked_tasks", "high_priority_tasks", "team_workload", "search_tasks", "project_info"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("missing tool %q", name)
		}
	}

	out := ts[byName["task_overview"]].Run(context.Background(), map[string]any{})
	if !strings.HasPrefix(out, "# Simple Task Overview") {
		t.Errorf("overview tool output = %q", out)
	}

	inv.calls = nil
	ts[byName["search_tasks"]].Run(context.Background(), map[string]any{"query": "login", "project_name": "webapp"})
	if len(inv.calls) != 2 {
		t.Fatalf("search with project made %d calls, want switch then search", len(inv.calls))
	}
	if inv.calls[1].args["query"] != "login" || inv.calls[1].args["project_name"] != "webapp" {
		t.Errorf("search args = %v", inv.calls[1].args)
	}
}
