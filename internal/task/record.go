// Package task defines the task record shape consumed from the Simple Task
// MCP server and the defensive decoding around it.
//
// The external server owns the data model: we read it, we never validate
// it. Every field is optional; absence of a key means "unknown/empty" and
// each accessor substitutes a stated default.
package task

import (
	"encoding/json"
	"strings"
)

// Record is one task as returned by the external server. All fields are
// optional on the wire; use the Display* accessors when rendering.
type Record struct {
	ID          FlexID   `json:"id"`
	Title       string   `json:"title"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	AssignedTo  string   `json:"assigned_to"`
	DependsOn   []string `json:"depends_on"`
	Description string   `json:"description"`
	CreatedAt   string   `json:"created_at"`
}

// FlexID tolerates both string and numeric task ids on the wire.
type FlexID string

// UnmarshalJSON accepts a JSON string, number, or null.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// DisplayID returns the id, or "unknown" when absent.
func (r Record) DisplayID() string {
	if r.ID == "" {
		return "unknown"
	}
	return string(r.ID)
}

// DisplayTitle returns the title, or "Untitled" when absent.
func (r Record) DisplayTitle() string {
	if strings.TrimSpace(r.Title) == "" {
		return "Untitled"
	}
	return r.Title
}

// StatusKey returns the raw status bucket, or "unknown" when absent.
func (r Record) StatusKey() string {
	if r.Status == "" {
		return "unknown"
	}
	return r.Status
}

// PriorityKey returns the raw priority, or "unknown" when absent.
func (r Record) PriorityKey() string {
	if r.Priority == "" {
		return "unknown"
	}
	return r.Priority
}

// Assignee returns the assignee, or "Unassigned" when absent.
func (r Record) Assignee() string {
	if strings.TrimSpace(r.AssignedTo) == "" {
		return "Unassigned"
	}
	return r.AssignedTo
}

// CreatedDate returns the date portion (YYYY-MM-DD) of created_at, or
// "Unknown" when absent.
func (r Record) CreatedDate() string {
	if r.CreatedAt == "" {
		return "Unknown"
	}
	if len(r.CreatedAt) > 10 {
		return r.CreatedAt[:10]
	}
	return r.CreatedAt
}

// Humanize turns a snake_case bucket key into a display label:
// "in_progress" → "In Progress".
func Humanize(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Project is one entry from the server's project listing.
type Project struct {
	Name        string `json:"name"`
	Key         string `json:"projectName"`
	Description string `json:"description"`
}

// DisplayName returns the project name, or "Unknown" when absent.
func (p Project) DisplayName() string {
	if strings.TrimSpace(p.Name) == "" {
		return "Unknown"
	}
	return p.Name
}

// DisplayKey returns the project key, or "unknown" when absent.
func (p Project) DisplayKey() string {
	if strings.TrimSpace(p.Key) == "" {
		return "unknown"
	}
	return p.Key
}

// DisplayDescription returns the description, or "No description".
func (p Project) DisplayDescription() string {
	if strings.TrimSpace(p.Description) == "" {
		return "No description"
	}
	return p.Description
}
