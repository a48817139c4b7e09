//go:build !windows

package main

import (
	"os/exec"
	"syscall"
)

// detachProcess puts the server in its own session so it outlives the
// terminal that ran the CLI.
func detachProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
