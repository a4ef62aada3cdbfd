package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
)

// errInterrupted is the cancellation cause recorded when a signal stops the CLI.
var errInterrupted = errors.New("interrupted")

// interruptContext returns a context canceled on the first interrupt signal.
// The context's cause wraps errInterrupted and names the signal, so pending
// captures and bakes unwind and the sessions close before exit.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, interruptSignals...)
	ctx, stop := watchSignals(parent, sigs)
	return ctx, func() {
		signal.Stop(sigs)
		stop()
	}
}

// watchSignals cancels the returned context when sigs delivers a value.
// stop releases the watcher and cancels with context.Canceled.
func watchSignals(parent context.Context, sigs <-chan os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigs:
			cancel(fmt.Errorf("%w by %s", errInterrupted, sig))
		case <-ctx.Done():
		case <-done:
		}
	}()

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			close(done)
			cancel(context.Canceled)
		})
	}
}

// wasInterrupted reports whether ctx was canceled by a signal.
func wasInterrupted(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), errInterrupted)
}
