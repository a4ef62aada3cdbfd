//go:build !windows

// Package process reaps the headless browser the capture engine launches.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the browser's process group so that
// renderer and GPU helpers do not outlive the engine.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// launcher.Kill() still runs afterwards
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
