//go:build windows

package main

import (
	"os/exec"
	"syscall"
)

// DETACHED_PROCESS from the Win32 process creation flags
const detachedProcess = 0x00000008

// detachProcess starts the server without a console and outside the CLI's
// process group so Ctrl+C in the terminal does not reach it.
func detachProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | detachedProcess,
		HideWindow:    true,
	}
}
