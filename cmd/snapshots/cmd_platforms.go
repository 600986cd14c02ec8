package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/pflag"
)

func runPlatforms(_ context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("platforms", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	jsonOutput := fs.Bool("json", false, "Output the platform table as JSON")

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

	platforms := a.orchestrator.Platforms()

	if *jsonOutput {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(platforms); err != nil {
			fmt.Fprintf(stderr, "Error encoding platforms: %v\n", err)
			return 1
		}
		return 0
	}

	keys := make([]string, 0, len(platforms))
	for key := range platforms {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	fmt.Fprintf(stdout, "Supported platforms (%d total):\n\n", len(keys))
	for _, key := range keys {
		p := platforms[key]
		fmt.Fprintf(stdout, "  %-12s %s\n", key, p.DisplayName)
		fmt.Fprintf(stdout, "  %-12s Release history: %s  Listing: %s/  File: %s\n", "", p.VersionHistoryName, p.ListingDir, p.DownloadFileName)
	}
	return 0
}
