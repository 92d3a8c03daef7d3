//go:build unix

package harness

import (
	"os/exec"
	"syscall"
)

// isolate starts cmd in its own process group and makes cancellation kill
// the whole group, so children forked by the shell cannot outlive the run.
// Terminal signals then only reach the harness, which cancels the context.
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
