package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/ochairo/chromium-snapshots/internal/domain/entities"
)

func runResolve(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("resolve", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	var (
		platform   = fs.String("platform", "", "Platform key (see 'snapshots platforms')")
		version    = fs.String("version", "", "Milestone (e.g. M120) or exact version (e.g. 120.0.6099.129)")
		jsonOutput = fs.Bool("json", false, "Print the full resolution as JSON")
	)

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: snapshots resolve --platform <key> --version <milestone|version> [options]

Resolve a milestone or version to the snapshot archive URL.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(stderr, `
Examples:
  snapshots resolve --platform windows --version M120
  snapshots resolve --platform macArm --version 120.0.6099.129 --json
`)
	}

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 1
	}

	cfg, err := common.loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	a, err := newApp(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	res, err := a.orchestrator.Resolve(ctx, *platform, *version)
	if err != nil {
		fmt.Fprintf(stderr, "Error (%d): %s\n", entities.HTTPStatus(err), err)
		return 1
	}

	if *jsonOutput {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintf(stderr, "Error encoding result: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Fprintln(stdout, res.URL)
	return 0
}
