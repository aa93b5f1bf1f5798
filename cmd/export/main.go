package main

import (
	"fmt"
	"os"

	"github.com/woozymasta/heritagemap/internal/config"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file (embedded sites when empty)"`
	Input      string `short:"i" long:"in" description:"GeoJSON site collection to read instead of the configured source"`
	Output     string `short:"o" long:"out" description:"Output file path. Writes to stdout if empty"`
	Format     string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if opts.Input != "" {
		cfg.SitesInline = nil
		cfg.SitesFile = opts.Input
	}

	dir, err := cfg.LoadSites()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sites: %v\n", err)
		os.Exit(1)
	}

	// marshal
	var outputData []byte
	if opts.Format == "yaml" {
		outputData, err = dir.ExportYAML()
	} else {
		outputData, err = dir.Export()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully exported %d sites to %s (format: %s)\n", dir.Len(), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}
