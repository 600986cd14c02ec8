package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command := os.Args[1]

	// Dispatch to subcommand
	var code int
	switch command {
	case "serve":
		code = runServe(ctx, os.Args[2:])
	case "resolve":
		code = runResolve(ctx, os.Args[2:], os.Stdout, os.Stderr)
	case "platforms":
		code = runPlatforms(ctx, os.Args[2:], os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		code = 1
	}

	stop()
	os.Exit(code)
}

func printUsage() {
	fmt.Println(`snapshots - Chromium snapshot download resolver

Usage:
  snapshots <command> [options]

Commands:
  serve      Run the HTTP download redirector
  resolve    Resolve a milestone or version to a snapshot URL
  platforms  List the supported platforms

Use "snapshots <command> --help" for more information about a command.`)
}
