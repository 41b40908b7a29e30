// Command c2d drives the Ocean compute-to-data workflow: publish a dataset and
// an algorithm, order them, run a compute job and print the result URL.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		zap.L().Error("c2d failed", zap.Error(err))
		_ = zap.L().Sync()
		os.Exit(1)
	}
}
