package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ytget/ytpick/internal/cli"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, version, os.Args[1:], cli.StdStreams())
	stop()
	os.Exit(code)
}
