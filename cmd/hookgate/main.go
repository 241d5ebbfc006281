// Package main is the entry point for the hookgate binary.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chmouel/hookgate/internal/buildinfo"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr))
}
