// Package report renders task listings into human-readable Markdown.
//
// Every function here is pure string building over already-decoded
// records: no I/O, no errors. Ordering is deterministic everywhere:
// status buckets follow statusOrder, distributions are alphabetical, and
// workloads sort by size with a name tie-break.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aitistra/taskmaster/internal/task"
)

// dataSource appears in every report header so readers know where the
// numbers came from.
const dataSource = "**Data Source**: aitistra.com API"

// statusOrder is the canonical bucket order, most urgent first.
var statusOrder = []string{"blocked", "todo", "in_progress", "review", "completed"}

// Overview renders the project-wide task summary. The first line is
// always "# Simple Task Overview".
func Overview(items []task.Record, total int, project string) string {
	if project == "" {
		project = "Default Project"
	}

	var sb strings.Builder
	sb.WriteString("# Simple Task Overview\n")
	fmt.Fprintf(&sb, "**Total Tasks**: %d\n", total)
	fmt.Fprintf(&sb, "**Project**: %s\n", project)
	sb.WriteString(dataSource + "\n")

	sb.WriteString("\n## Status Distribution:\n")
	writeDistribution(&sb, countBy(items, task.Record.StatusKey), len(items))

	sb.WriteString("\n## Priority Distribution:\n")
	writeDistribution(&sb, countBy(items, task.Record.PriorityKey), len(items))

	high := filterPriority(items, "high")
	if len(high) > 5 {
		high = high[:5]
	}
	if len(high) > 0 {
		sb.WriteString("\n## Recent High Priority Tasks:\n")
		for _, t := range high {
			fmt.Fprintf(&sb, "- [%s] **%s**\n", task.Humanize(t.StatusKey()), t.DisplayTitle())
		}
	}

	return sb.String()
}

// Blocked renders the blocked-task list.
func Blocked(items []task.Record) string {
	if len(items) == 0 {
		return "✅ No blocked tasks found!"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Blocked Tasks (%d found)\n", len(items))
	sb.WriteString(dataSource + "\n\n")

	for i, t := range items {
		fmt.Fprintf(&sb, "## %d. %s\n", i+1, t.DisplayTitle())
		fmt.Fprintf(&sb, "- **Priority**: %s\n", task.Humanize(t.PriorityKey()))
		fmt.Fprintf(&sb, "- **Assigned to**: %s\n", t.Assignee())
		fmt.Fprintf(&sb, "- **Created**: %s\n", t.CreatedDate())
		if len(t.DependsOn) > 0 {
			fmt.Fprintf(&sb, "- **Depends on**: %d task(s)\n", len(t.DependsOn))
		}
		if desc := strings.TrimSpace(t.Description); desc != "" {
			fmt.Fprintf(&sb, "- **Description**: %s\n", truncate(desc, 200))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// HighPriority renders high-priority tasks grouped by status bucket.
func HighPriority(items []task.Record) string {
	if len(items) == 0 {
		return "No high priority tasks found."
	}

	byStatus := make(map[string][]task.Record)
	for _, t := range items {
		byStatus[t.StatusKey()] = append(byStatus[t.StatusKey()], t)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# High Priority Tasks (%d found)\n", len(items))
	sb.WriteString(dataSource + "\n\n")

	for _, status := range bucketKeys(byStatus) {
		tasks := byStatus[status]
		fmt.Fprintf(&sb, "## %s (%d)\n\n", task.Humanize(status), len(tasks))
		for _, t := range tasks {
			fmt.Fprintf(&sb, "- **%s** (ID: %s, Assigned: %s)\n", t.DisplayTitle(), t.DisplayID(), t.Assignee())
			if t.CreatedAt != "" {
				fmt.Fprintf(&sb, "  Created: %s\n", t.CreatedDate())
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// memberLoad accumulates one assignee's counts for Workload.
type memberLoad struct {
	total      int
	high       int
	blocked    int
	inProgress int
	completed  int
	todo       int
}

// Workload renders the per-assignee workload analysis.
func Workload(items []task.Record) string {
	if len(items) == 0 {
		return "No tasks found for workload analysis."
	}

	loads := make(map[string]*memberLoad)
	unassigned := 0
	for _, t := range items {
		if strings.TrimSpace(t.AssignedTo) == "" {
			unassigned++
			continue
		}
		load, ok := loads[t.AssignedTo]
		if !ok {
			load = &memberLoad{}
			loads[t.AssignedTo] = load
		}
		load.total++
		if t.PriorityKey() == "high" {
			load.high++
		}
		switch t.StatusKey() {
		case "blocked":
			load.blocked++
		case "in_progress":
			load.inProgress++
		case "completed":
			load.completed++
		case "todo":
			load.todo++
		}
	}

	var sb strings.Builder
	sb.WriteString("# Team Workload Analysis\n")
	fmt.Fprintf(&sb, "**Total Active Tasks**: %d\n", len(items))
	fmt.Fprintf(&sb, "**Unassigned Tasks**: %d (%.1f%%)\n", unassigned, percent(unassigned, len(items)))
	sb.WriteString(dataSource + "\n")
	sb.WriteString("\n## Individual Workloads:\n\n")

	for _, member := range sortedMembers(loads) {
		load := loads[member]
		fmt.Fprintf(&sb, "### %s\n", displayName(member))
		fmt.Fprintf(&sb, "- **Email**: %s\n", member)
		fmt.Fprintf(&sb, "- **Total Tasks**: %d\n", load.total)
		fmt.Fprintf(&sb, "- **High Priority**: %d\n", load.high)
		fmt.Fprintf(&sb, "- **Blocked**: %d\n", load.blocked)
		fmt.Fprintf(&sb, "- **In Progress**: %d\n", load.inProgress)
		fmt.Fprintf(&sb, "- **Completed**: %d\n", load.completed)
		fmt.Fprintf(&sb, "- **Todo**: %d\n", load.todo)
		sb.WriteString("\n")

		switch {
		case load.total > 10:
			sb.WriteString("  ⚠️  **High workload** - Consider redistributing tasks\n\n")
		case load.blocked > 2:
			sb.WriteString("  🚧 **Multiple blockers** - Needs support unblocking tasks\n\n")
		case load.high > 3:
			sb.WriteString("  🔥 **Many high-priority tasks** - May need prioritization help\n\n")
		}
	}

	return sb.String()
}

// SearchResults renders matches for a search query.
func SearchResults(query string, items []task.Record, total int) string {
	if len(items) == 0 {
		return fmt.Sprintf("No tasks found matching '%s'", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Search Results for '%s'\n", query)
	fmt.Fprintf(&sb, "**Found**: %d tasks\n", total)
	fmt.Fprintf(&sb, "**Showing**: %d results\n", len(items))
	sb.WriteString(dataSource + "\n\n")

	for i, t := range items {
		fmt.Fprintf(&sb, "## %d. %s\n", i+1, t.DisplayTitle())
		fmt.Fprintf(&sb, "- **Status**: %s\n", task.Humanize(t.StatusKey()))
		fmt.Fprintf(&sb, "- **Priority**: %s\n", task.Humanize(t.PriorityKey()))
		fmt.Fprintf(&sb, "- **Assigned**: %s\n", t.Assignee())
		fmt.Fprintf(&sb, "- **ID**: %s\n", t.DisplayID())
		sb.WriteString("\n")
	}

	return sb.String()
}

// Projects renders the available-project listing, marking the current one.
func Projects(current string, projects []task.Project) string {
	var sb strings.Builder
	sb.WriteString("# Project Information\n")
	sb.WriteString(dataSource + "\n\n")

	if len(projects) == 0 {
		sb.WriteString("No projects available.\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "## Available Projects (%d total):\n\n", len(projects))
	for _, p := range projects {
		marker := ""
		if current != "" && current == p.Key {
			marker = " **[CURRENT]**"
		}
		fmt.Fprintf(&sb, "### %s%s\n", p.DisplayName(), marker)
		fmt.Fprintf(&sb, "- **Project Key**: %s\n", p.DisplayKey())
		fmt.Fprintf(&sb, "- **Description**: %s\n", p.DisplayDescription())
		sb.WriteString("\n")
	}

	return sb.String()
}

// --- helpers ---

// countBy tallies records by the given key accessor.
func countBy(items []task.Record, key func(task.Record) string) map[string]int {
	counts := make(map[string]int)
	for _, t := range items {
		counts[key(t)]++
	}
	return counts
}

// writeDistribution emits one "- **Label**: n (p%)" line per key, in
// alphabetical key order.
func writeDistribution(sb *strings.Builder, counts map[string]int, population int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, "- **%s**: %d (%.1f%%)\n", task.Humanize(k), counts[k], percent(counts[k], population))
	}
}

// bucketKeys returns the present status buckets in canonical order,
// with any unlisted buckets appended alphabetically.
func bucketKeys(byStatus map[string][]task.Record) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, s := range statusOrder {
		if _, ok := byStatus[s]; ok {
			keys = append(keys, s)
			seen[s] = true
		}
	}
	var extra []string
	for s := range byStatus {
		if !seen[s] {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// sortedMembers orders assignees by total load descending, name ascending
// on ties.
func sortedMembers(loads map[string]*memberLoad) []string {
	members := make([]string, 0, len(loads))
	for m := range loads {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		a, b := loads[members[i]], loads[members[j]]
		if a.total != b.total {
			return a.total > b.total
		}
		return members[i] < members[j]
	})
	return members
}

func filterPriority(items []task.Record, priority string) []task.Record {
	var out []task.Record
	for _, t := range items {
		if t.PriorityKey() == priority {
			out = append(out, t)
		}
	}
	return out
}

// displayName extracts a readable name from an email address.
func displayName(member string) string {
	if at := strings.Index(member, "@"); at > 0 {
		return task.Humanize(member[:at])
	}
	return member
}

func percent(n, population int) float64 {
	if population == 0 {
		return 0
	}
	return float64(n) / float64(population) * 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
