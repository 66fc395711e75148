package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stockkeeper/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	app := cli.New(cli.Bootstrap)
	err := app.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)

	if closeErr := app.Close(); closeErr != nil {
		fmt.Fprintln(os.Stderr, "shutdown:", closeErr)
	}
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
