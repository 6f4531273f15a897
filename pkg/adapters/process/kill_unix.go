//go:build unix

package process

import (
	"os/exec"
	"syscall"
)

// killGroup runs the reader in its own process group and kills the whole group on cancel.
func killGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
