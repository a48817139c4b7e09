//go:build !windows

package infrastructure

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// killProcessTree starts cmd in its own process group and makes context
// cancellation kill the whole group, so helpers yt-dlp spawns (ffmpeg) die too.
func killProcessTree(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		if err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
}
