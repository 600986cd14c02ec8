package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/ochairo/chromium-snapshots/internal/domain/interfaces"
	"github.com/ochairo/chromium-snapshots/internal/server"
)

func runServe(ctx context.Context, args []string) int {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	var (
		port      = fs.IntP("port", "p", 0, "Listen port (overrides config)")
		staticDir = fs.String("static-dir", "", "Directory served for non-API paths (overrides config)")
		devMode   = fs.Bool("dev", false, "Development mode (gin debug output)")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: snapshots serve [options]

Serve /platforms, /download and the static download page.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  snapshots serve
  snapshots serve --port 8080 --static-dir ./static
  curl -I 'http://localhost:8000/download?platform=windows&version=M120'
`)
	}

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return 1
	}

	cfg, err := common.loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *staticDir != "" {
		cfg.Server.StaticDir = *staticDir
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		return 1
	}

	a, err := newApp(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	srv := server.NewServer(server.Config{
		Addr:            cfg.Addr(),
		StaticDir:       cfg.Server.StaticDir,
		DevMode:         cfg.Server.DevMode,
		ShutdownTimeout: cfg.ShutdownTimeout(),
	}, a.orchestrator, a.logger)

	if err := srv.Serve(ctx); err != nil {
		a.logger.Error("server stopped", interfaces.Err(err))
		return 1
	}
	return 0
}
