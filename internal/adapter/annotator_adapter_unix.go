//go:build unix

package adapter

import (
	"os/exec"
	"syscall"
)

// killProcessGroup runs the annotator in its own process group and kills the
// whole group on cancellation, so wrapper scripts take their children down.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
