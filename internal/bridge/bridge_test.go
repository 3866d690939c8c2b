package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// writeStub writes an executable /bin/sh script that plays the external
// server for one call and returns its path.
func writeStub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("writing stub: %v", err)
	}
	return path
}

func newTestBridge(stubPath string, timeout time.Duration) *Bridge {
	return New(Config{
		Command: "/bin/sh",
		Args:    []string{stubPath},
		Timeout: timeout,
	}, zerolog.Nop())
}

func TestInvoke_ResultAmongNoise(t *testing.T) {
	stub := writeStub(t, `
echo "starting up..."
echo "not json {{"
echo '{"jsonrpc":"2.0","id":1,"result":{"items":[],"total_count":0}}'
echo "shutting down"
`)
	b := newTestBridge(stub, 5*time.Second)

	result, err := b.Invoke(context.Background(), "simpletask_get_tasks_summary", map[string]any{"limit": 100})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	var payload struct {
		TotalCount int `json:"total_count"`
	}
	if err := json.Unmarshal(result, &payload); err != nil {
		t.Fatalf("result not JSON: %v", err)
	}
	if payload.TotalCount != 0 {
		t.Errorf("total_count = %d, want 0", payload.TotalCount)
	}
}

func TestInvoke_FirstResultWins(t *testing.T) {
	stub := writeStub(t, `
echo '{"jsonrpc":"2.0","id":1,"result":"first"}'
echo '{"jsonrpc":"2.0","id":2,"result":"second"}'
`)
	b := newTestBridge(stub, 5*time.Second)

	result, err := b.Invoke(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if string(result) != `"first"` {
		t.Errorf("result = %s, want \"first\"", result)
	}
}

func TestInvoke_IgnoresJSONWithoutResult(t *testing.T) {
	stub := writeStub(t, `
echo '{"jsonrpc":"2.0","method":"notifications/progress"}'
echo '{"result":42}'
`)
	b := newTestBridge(stub, 5*time.Second)

	result, err := b.Invoke(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if string(result) != "42" {
		t.Errorf("result = %s, want 42", result)
	}
}

func TestInvoke_NonzeroExitSkipsScan(t *testing.T) {
	// Stdout carries a perfectly good result, but exit code 1 must win.
	stub := writeStub(t, `
echo '{"result":"should not be seen"}'
echo "boom" >&2
exit 1
`)
	b := newTestBridge(stub, 5*time.Second)

	_, err := b.Invoke(context.Background(), "anything", nil)

	var extErr *ExternalError
	if !errors.As(err, &extErr) {
		t.Fatalf("error = %v, want *ExternalError", err)
	}
	if extErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", extErr.ExitCode)
	}
	if extErr.Stderr != "boom" {
		t.Errorf("Stderr = %q, want boom", extErr.Stderr)
	}
}

func TestInvoke_NoJSONIsProtocolError(t *testing.T) {
	stub := writeStub(t, `
echo "line one"
echo "line two"
`)
	b := newTestBridge(stub, 5*time.Second)

	_, err := b.Invoke(context.Background(), "anything", nil)

	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("error = %v, want *ProtocolError", err)
	}
	// Full stdout preserved verbatim for diagnosis.
	if protoErr.RawOutput != "line one\nline two\n" {
		t.Errorf("RawOutput = %q", protoErr.RawOutput)
	}
}

func TestInvoke_MissingExecutableIsLaunchError(t *testing.T) {
	b := New(Config{
		Command: filepath.Join(t.TempDir(), "no-such-binary"),
	}, zerolog.Nop())

	_, err := b.Invoke(context.Background(), "anything", nil)

	var launchErr *LaunchError
	if !errors.As(err, &launchErr) {
		t.Fatalf("error = %v, want *LaunchError", err)
	}
}

func TestInvoke_TimeoutKillsChild(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "pid")
	stub := writeStub(t, `
echo $$ > `+pidFile+`
sleep 30
`)
	b := newTestBridge(stub, 200*time.Millisecond)

	start := time.Now()
	_, err := b.Invoke(context.Background(), "anything", nil)
	elapsed := time.Since(start)

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("error = %v, want *TimeoutError", err)
	}
	if elapsed > 10*time.Second {
		t.Errorf("Invoke blocked for %s after timeout", elapsed)
	}

	// The child must not survive as an orphan.
	data, readErr := os.ReadFile(pidFile)
	if readErr != nil {
		t.Fatalf("reading pid file: %v", readErr)
	}
	pid, convErr := strconv.Atoi(strings.TrimSpace(string(data)))
	if convErr != nil {
		t.Fatalf("parsing pid: %v", convErr)
	}
	// Give the kernel a moment to reap, then probe with signal 0.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if syscall.Kill(pid, 0) != nil {
			return // process gone
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("child process %d still running after timeout", pid)
}

func TestInvoke_TimeoutKillsGrandchildren(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "pid")
	// The stub plays a wrapper script: the real work happens in a
	// background grandchild that must not outlive the timeout either.
	stub := writeStub(t, `
sleep 30 &
echo $! > `+pidFile+`
wait
`)
	b := newTestBridge(stub, 200*time.Millisecond)

	_, err := b.Invoke(context.Background(), "anything", nil)

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("error = %v, want *TimeoutError", err)
	}

	data, readErr := os.ReadFile(pidFile)
	if readErr != nil {
		t.Fatalf("reading pid file: %v", readErr)
	}
	pid, convErr := strconv.Atoi(strings.TrimSpace(string(data)))
	if convErr != nil {
		t.Fatalf("parsing pid: %v", convErr)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if syscall.Kill(pid, 0) != nil {
			return // grandchild gone
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("grandchild process %d still running after timeout", pid)
}

func TestInvoke_EmptyToolName(t *testing.T) {
	b := newTestBridge(writeStub(t, `echo '{"result":1}'`), time.Second)
	if _, err := b.Invoke(context.Background(), "  ", nil); err == nil {
		t.Error("expected error for empty tool name")
	}
}

func TestInvoke_CallerCancellation(t *testing.T) {
	stub := writeStub(t, `sleep 30`)
	b := newTestBridge(stub, 10*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	_, err := b.Invoke(ctx, "anything", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

// TestInvoke_EnvelopeRoundTrip bounces the request envelope off a stub
// that echoes its stdin back as the result, verifying both the wire shape
// and that arguments survive serialization structurally intact.
func TestInvoke_EnvelopeRoundTrip(t *testing.T) {
	stub := writeStub(t, `
read line
printf '{"result": %s}\n' "$line"
`)
	b := newTestBridge(stub, 5*time.Second)

	args := map[string]any{"a": float64(1), "b": []any{true, nil}}
	result, err := b.Invoke(context.Background(), "get_overview", args)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	var echoed struct {
		JSONRPC string `json:"jsonrpc"`
		ID      int64  `json:"id"`
		Method  string `json:"method"`
		Params  struct {
			Name      string         `json:"name"`
			Arguments map[string]any `json:"arguments"`
		} `json:"params"`
	}
	if err := json.Unmarshal(result, &echoed); err != nil {
		t.Fatalf("echoed request not JSON: %v", err)
	}

	if echoed.JSONRPC != "2.0" {
		t.Errorf("jsonrpc = %s, want 2.0", echoed.JSONRPC)
	}
	if echoed.ID == 0 {
		t.Error("id missing from envelope")
	}
	if echoed.Method != "tools/call" {
		t.Errorf("method = %s, want tools/call", echoed.Method)
	}
	if echoed.Params.Name != "get_overview" {
		t.Errorf("params.name = %s, want get_overview", echoed.Params.Name)
	}
	if !reflect.DeepEqual(echoed.Params.Arguments, args) {
		t.Errorf("arguments round trip = %#v, want %#v", echoed.Params.Arguments, args)
	}
}

func TestInvoke_IDsIncrement(t *testing.T) {
	stub := writeStub(t, `
read line
printf '{"result": %s}\n' "$line"
`)
	b := newTestBridge(stub, 5*time.Second)

	id := func() int64 {
		result, err := b.Invoke(context.Background(), "t", nil)
		if err != nil {
			t.Fatalf("Invoke: %v", err)
		}
		var echoed struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(result, &echoed); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return echoed.ID
	}

	first, second := id(), id()
	if second != first+1 {
		t.Errorf("ids = %d, %d; want consecutive", first, second)
	}
}
