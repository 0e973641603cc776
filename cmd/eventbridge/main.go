package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"eventbridge/internal/cli"
)

func main() {
	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	code := cli.Main(ctx, os.Stderr)
	cancel()
	os.Exit(code)
}
