//go:build !unix

package process

import "os/exec"

// killGroup keeps the default cancel; WaitDelay still bounds the wait on inherited pipes.
func killGroup(cmd *exec.Cmd) {}
