package main

import (
	"fmt"
	"os"

	"github.com/woozymasta/heritagemap/internal/config"
	"github.com/woozymasta/heritagemap/internal/geo"
	"github.com/woozymasta/heritagemap/internal/sites"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file (embedded sites when empty)"`

	Args struct {
		From string `positional-arg-name:"FROM" description:"Site name or \"lat,lng\""`
		To   string `positional-arg-name:"TO" description:"Site name or \"lat,lng\""`
	} `positional-args:"yes" required:"yes"`
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

	dir, err := cfg.LoadSites()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sites: %v\n", err)
		os.Exit(1)
	}

	from, err := resolve(dir, opts.Args.From)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	to, err := resolve(dir, opts.Args.To)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(geo.FormatKm(geo.Distance(from, to)))
}

// resolve accepts a site name first, then a "lat,lng" pair.
func resolve(dir *sites.Directory, arg string) (geo.Point, error) {
	if site, ok := dir.FindByName(arg); ok {
		return site.Point, nil
	}

	p, err := geo.ParsePoint(arg)
	if err != nil {
		return geo.Point{}, fmt.Errorf("%q is neither a known site nor a coordinate: %w", arg, err)
	}

	return p, nil
}
