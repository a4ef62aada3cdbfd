//go:build windows

// Package process reaps the headless browser the capture engine launches.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup terminates the browser and its children with taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
