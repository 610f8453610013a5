// Package main provides the bufferfill CLI.
//
// Usage:
//
//	bufferfill run   [--batch-size 5] [--count 39] [--parallel N] [--delay 0s]
//	bufferfill serve [--config config.yaml]
//
// run feeds integers from parallel goroutines into a batch buffer and prints
// every batch. serve exposes a batch buffer over HTTP and writes the batches
// to the sink selected in the config file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/huynhanx03/go-batchbuffer/cmd/bufferfill/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
