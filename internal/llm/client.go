// Package llm provides a minimal client for OpenAI-compatible chat
// completion APIs, including function tool calls.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config holds the connection settings for the completions endpoint.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Message is a single entry in a chat conversation.
type Message struct {
	Role       string
	Content    string
	ToolCallID string
	ToolCalls  []ToolCall
}

// ToolCall is a function invocation requested by the model. Arguments is
// the raw JSON object string as returned by the API.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolDef describes a callable tool in JSON Schema form.
type ToolDef struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Response is the assistant's reply to a chat request.
type Response struct {
	Content    string
	ToolCalls  []ToolCall
	StopReason string
}

// Client speaks the OpenAI chat completions protocol.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

// NewClient creates a Client from cfg. Missing fields fall back to the
// public OpenAI endpoint and a 60 second timeout.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	log.Debug().
		Str("base_url", cfg.BaseURL).
		Str("model", cfg.Model).
		Str("api_key", maskKey(cfg.APIKey)).
		Msg("llm client configured")
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

type wireToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
}

// Chat sends the conversation to the completions endpoint and returns the
// assistant's reply.
func (c *Client) Chat(ctx context.Context, messages []Message, tools []ToolDef) (*Response, error) {
	requestID := uuid.NewString()

	payload := map[string]any{
		"model":    c.cfg.Model,
		"messages": convertMessages(messages),
		"stream":   false,
	}
	if c.cfg.Temperature > 0 {
		payload["temperature"] = c.cfg.Temperature
	}
	if c.cfg.MaxTokens > 0 {
		payload["max_tokens"] = c.cfg.MaxTokens
	}
	if len(tools) > 0 {
		payload["tools"] = convertTools(tools)
		payload["tool_choice"] = "auto"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/chat/completions"
	c.log.Debug().
		Str("request_id", requestID).
		Str("endpoint", endpoint).
		Int("messages", len(messages)).
		Int("tools", len(tools)).
		Msg("llm request")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("llm API returned %d: %s", resp.StatusCode, snippet(respBody))
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content   string         `json:"content"`
				ToolCalls []wireToolCall `json:"tool_calls"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Error *struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return nil, fmt.Errorf("llm API error: %s", decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("llm API returned no choices")
	}

	choice := decoded.Choices[0]
	out := &Response{
		Content:    choice.Message.Content,
		StopReason: choice.FinishReason,
	}
	for _, tc := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	c.log.Debug().
		Str("request_id", requestID).
		Str("finish_reason", choice.FinishReason).
		Int("tool_calls", len(out.ToolCalls)).
		Msg("llm response")
	return out, nil
}

func convertMessages(messages []Message) []wireMessage {
	out := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		wm := wireMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			wtc := wireToolCall{ID: tc.ID, Type: "function"}
			wtc.Function.Name = tc.Name
			wtc.Function.Arguments = tc.Arguments
			wm.ToolCalls = append(wm.ToolCalls, wtc)
		}
		out = append(out, wm)
	}
	return out
}

func convertTools(tools []ToolDef) []map[string]any {
	out := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		params := t.Parameters
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		out = append(out, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name,
				"description": t.Description,
				"parameters":  params,
			},
		})
	}
	return out
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 300 {
		return s[:300] + "..."
	}
	return s
}
