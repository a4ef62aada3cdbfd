//go:build !windows

package main

import (
	"os"
	"syscall"
)

// interruptSignals end a running export. SIGHUP covers a closed terminal
// during a long batch.
var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
