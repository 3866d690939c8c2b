//go:build unix

package bridge

import (
	"os"
	"os/exec"
	"syscall"
)

// setProcessGroup starts the child in its own process group and replaces
// the default context cancel with a group-wide SIGKILL. Killing only the
// direct child would leave grandchildren alive when the configured
// command is a wrapper script.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if err == syscall.ESRCH {
			return os.ErrProcessDone
		}
		return err
	}
}
