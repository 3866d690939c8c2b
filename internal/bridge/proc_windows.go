//go:build !unix

package bridge

import "os/exec"

// setProcessGroup is a no-op where process groups are unavailable; the
// default context cancel kills the direct child.
func setProcessGroup(cmd *exec.Cmd) {}
