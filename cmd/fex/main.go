// Package main runs the fex interactive file explorer.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/idelchi/fex/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.New(version).Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
