// Command regeval compares four regression models on a CSV dataset.
//
// With no arguments it reproduces the reference run: target
// "Food supply (kcal)", the 4 best predictors by F-statistic, a 70/20/10
// split and shuffled 5-fold cross-validation, all seeded with 42.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "regeval:", err)
		stop()
		os.Exit(1)
	}
}
