package task

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Payload is the task listing the external server returns for every
// list/search style tool.
type Payload struct {
	Items []Record
	Total int
}

// contentEnvelope is the MCP tool-result wrapper: the actual payload is a
// JSON string inside content[0].text.
type contentEnvelope struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// rawPayload is the bare listing shape. TotalCount is a pointer so that an
// absent key can default to len(items) rather than zero.
type rawPayload struct {
	Items      []Record `json:"items"`
	TotalCount *int     `json:"total_count"`
}

// ParsePayload decodes a task listing from a tool result. The server is
// inconsistent about wrapping: some tools return the MCP content envelope
// (content[0].text holding a JSON string), others return the listing
// directly. Both shapes are accepted.
func ParsePayload(result json.RawMessage) (*Payload, error) {
	var env contentEnvelope
	if err := json.Unmarshal(result, &env); err == nil && len(env.Content) > 0 {
		text := env.Content[0].Text
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("empty content text in tool result")
		}
		return parseListing([]byte(text))
	}
	return parseListing(result)
}

func parseListing(data []byte) (*Payload, error) {
	var raw rawPayload
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing task data: %w (raw: %s)", err, snippet(data, 200))
	}
	p := &Payload{Items: raw.Items}
	if raw.TotalCount != nil {
		p.Total = *raw.TotalCount
	} else {
		p.Total = len(raw.Items)
	}
	return p, nil
}

// ParseProjects decodes a project listing, accepting the same two shapes
// as ParsePayload (content-wrapped JSON string or a bare array).
func ParseProjects(result json.RawMessage) ([]Project, error) {
	data := []byte(result)

	var env contentEnvelope
	if err := json.Unmarshal(result, &env); err == nil && len(env.Content) > 0 {
		data = []byte(env.Content[0].Text)
	}

	var projects []Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("parsing project list: %w (raw: %s)", err, snippet(data, 200))
	}
	return projects, nil
}

// snippet truncates raw server output for error messages.
func snippet(data []byte, max int) string {
	s := string(data)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
