//go:build !unix

package runner

import "os/exec"

// setProcessGroup is a no-op where process groups are unavailable;
// exec.CommandContext's default Process.Kill applies on cancellation.
func setProcessGroup(cmd *exec.Cmd) {}
