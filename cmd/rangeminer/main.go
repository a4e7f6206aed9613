package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aryankumar/rangeminer/internal/cli"
	"github.com/aryankumar/rangeminer/internal/util"
)

func main() {
	// First signal interrupts the run, a second one exits
	ctx := util.SetupSignalHandler(context.Background())

	if err := cli.Execute(ctx); err != nil {
		slog.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, util.FriendlyError(err))
		os.Exit(1)
	}
}
