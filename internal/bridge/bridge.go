// Package bridge translates a logical tool call into a one-shot child
// process invocation of the Simple Task MCP server and back into a
// structured result.
//
// Protocol: one line of UTF-8 JSON-RPC on the child's stdin
// ({"jsonrpc":"2.0","id":N,"method":"tools/call","params":{...}}), then
// stream close; the server treats EOF-after-one-line as "no more
// requests". The response is found by scanning stdout line by line for the
// first line that parses as a JSON object with a "result" key; everything
// else (logs, partial envelopes) is tolerated as noise.
//
// Each call spawns exactly one process. No retry, no connection reuse,
// no caching.
package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const (
	// jsonrpcVersion tags every request envelope.
	jsonrpcVersion = "2.0"

	// methodCallTool is the only method the bridge ever issues.
	methodCallTool = "tools/call"

	// DefaultTimeout bounds the wait for the child to exit.
	DefaultTimeout = 30 * time.Second

	// waitDelay is the grace period between killing a timed-out child
	// and giving up on its I/O pipes.
	waitDelay = 3 * time.Second

	// maxLine is the largest stdout line the scanner will accept.
	maxLine = 4 * 1024 * 1024
)

// Config describes how to launch the external server. Defaults are the
// caller's responsibility; the bridge only fills in the timeout.
type Config struct {
	// Command is the interpreter or executable, e.g. "node".
	Command string
	// Args are passed to Command, e.g. the server's entry script.
	Args []string
	// Timeout bounds each call; zero means DefaultTimeout.
	Timeout time.Duration
}

// Bridge invokes tools on the external server. Safe for concurrent use;
// each call is independent and spawns its own process.
type Bridge struct {
	cfg    Config
	log    zerolog.Logger
	nextID atomic.Int64
}

// New creates a Bridge with the given launch configuration.
func New(cfg Config, log zerolog.Logger) *Bridge {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Bridge{cfg: cfg, log: log}
}

// request is the JSON-RPC envelope written to the child's stdin.
type request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int64         `json:"id"`
	Method  string        `json:"method"`
	Params  requestParams `json:"params"`
}

type requestParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Invoke calls the named tool on the external server and returns the raw
// JSON value of the first result found in its output.
//
// Failure is one of the four typed errors in this package, or the
// context's own error if the caller cancelled.
func (b *Bridge) Invoke(ctx context.Context, toolName string, arguments map[string]any) (json.RawMessage, error) {
	if strings.TrimSpace(toolName) == "" {
		return nil, errors.New("tool name must not be empty")
	}
	if arguments == nil {
		arguments = map[string]any{}
	}

	line, err := json.Marshal(request{
		JSONRPC: jsonrpcVersion,
		ID:      b.nextID.Add(1),
		Method:  methodCallTool,
		Params:  requestParams{Name: toolName, Arguments: arguments},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request for %s: %w", toolName, err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, b.cfg.Command, b.cfg.Args...)
	cmd.Stdin = bytes.NewReader(append(line, '\n'))
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	b.log.Debug().Str("tool", toolName).Str("command", b.cfg.Command).Msg("invoking server")

	runErr := cmd.Run()

	b.log.Debug().
		Str("tool", toolName).
		Dur("elapsed", time.Since(start)).
		Int("stdout_bytes", stdout.Len()).
		Int("stderr_bytes", stderr.Len()).
		Msg("server exited")

	// The timeout kill surfaces as an ExitError too, so the context is
	// checked first. Caller cancellation propagates unchanged.
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return nil, &TimeoutError{Tool: toolName, Timeout: b.cfg.Timeout}
	case context.Canceled:
		return nil, ctx.Err()
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return nil, &ExternalError{
				Tool:     toolName,
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		return nil, &LaunchError{Command: b.cfg.Command, Err: runErr}
	}

	if result, ok := scanForResult(stdout.Bytes()); ok {
		return result, nil
	}
	return nil, &ProtocolError{Tool: toolName, RawOutput: stdout.String()}
}

// scanForResult walks stdout line by line and returns the "result" value
// of the first line that parses as a JSON object containing one. Taking
// the first match (not the last) is deliberate and pinned by tests.
func scanForResult(output []byte) (json.RawMessage, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal([]byte(line), &envelope); err != nil {
			continue // not JSON, keep scanning past log noise
		}
		if result, ok := envelope["result"]; ok {
			return result, true
		}
	}
	return nil, false
}
