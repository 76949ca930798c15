//go:build unix

package runner

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the child in its own process group and makes
// context cancellation kill the whole group, so grandchildren spawned
// by ansible die with it.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		// Negative pid signals the group.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
