package bridge

import (
	"fmt"
	"time"
)

// The bridge collapses every way a tool call can fail into four typed
// errors. Callers match them with errors.As; none of them is fatal to the
// process; the worst outcome is one tool call producing an error string
// instead of data.

// LaunchError means the child process could not be started at all
// (missing executable, bad path).
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// TimeoutError means the child did not exit within the allotted time and
// was force-killed.
type TimeoutError struct {
	Tool    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("tool %s: server did not respond within %s", e.Tool, e.Timeout)
}

// ExternalError means the child exited non-zero. Stderr is preserved for
// diagnosis; stdout is not scanned in this case.
type ExternalError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("tool %s: server exited with code %d: %s", e.Tool, e.ExitCode, e.Stderr)
}

// ProtocolError means the child exited cleanly but no line of its stdout
// parsed as a JSON object carrying a result. RawOutput holds the full
// captured stdout verbatim.
type ProtocolError struct {
	Tool      string
	RawOutput string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("tool %s: no result found in server output", e.Tool)
}
