package util

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// ExitInterrupted is the exit code used when a second signal forces exit.
const ExitInterrupted = 130

// SetupSignalHandler returns a child of parent that is cancelled on the first SIGINT or SIGTERM.
// A running job treats that cancellation as an interrupted wait and still reports what it has.
// A second signal exits the process immediately.
func SetupSignalHandler(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		var sig os.Signal
		select {
		case sig = <-sigCh:
		case <-parent.Done():
			signal.Stop(sigCh)
			cancel()
			return
		}
		slog.Info("received interrupt signal, collecting available results", "signal", sig.String())
		cancel()

		sig = <-sigCh
		slog.Warn("received second signal, forcing exit", "signal", sig.String())
		os.Exit(ExitInterrupted)
	}()

	return ctx
}
