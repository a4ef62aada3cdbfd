//go:build windows

package main

import "os"

// interruptSignals end a running export. Windows only delivers os.Interrupt.
var interruptSignals = []os.Signal{os.Interrupt}
