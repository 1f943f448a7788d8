package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bennypowers.dev/themec/internal/cli"
	"bennypowers.dev/themec/internal/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		log.Error("%v", err)
		stop()
		os.Exit(1)
	}
}
