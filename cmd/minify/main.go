package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/woozymasta/heritagemap/assets"
	"github.com/woozymasta/heritagemap/internal/config"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Output string `short:"o" long:"out"   description:"Output file" default:"dist/index.html"`
	Title  string `short:"t" long:"title" description:"Page title (defaults to the built-in title)"`
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	title := opts.Title
	if title == "" {
		title = config.Default().Title
	}

	page, err := assets.Render(title)
	if err != nil {
		log.Fatal("error render page: ", err)
	}

	if err := os.MkdirAll(filepath.Dir(opts.Output), 0755); err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(opts.Output, page, 0644); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("minify done: %s (%d bytes)\n", opts.Output, len(page))
}
