package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Lenersebastian/sebov-autofill/pkg/snapshot"
)

// options are the flags shared by every subcommand.
type options struct {
	url        string
	htmlFile   string
	configPath string
	rulesFile  string
	headed     bool
	logLevel   string

	// capture and fill only
	file      string
	clipboard bool
	only      string
	skip      string
}

func newFlagSet(name string, opts *options, std streams) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(std.err)

	fs.StringVar(&opts.url, "url", "", "page to open in the browser")
	fs.StringVar(&opts.htmlFile, "html", "", "read the page from a saved HTML file instead of a browser")
	fs.StringVar(&opts.configPath, "config", "", "config file (default ~/.autofill/config.json)")
	fs.StringVar(&opts.rulesFile, "rules", "", "YAML file of extra widget selectors")
	fs.BoolVar(&opts.headed, "headed", false, "show the browser window")
	fs.StringVar(&opts.logLevel, "log-level", "debug", "log file level: debug, info, warn, error")
	return fs
}

func addSnapshotFlags(fs *flag.FlagSet, opts *options, fileFlag, fileUsage string) {
	fs.StringVar(&opts.file, fileFlag, "", fileUsage)
	fs.BoolVar(&opts.clipboard, "clipboard", false, "use the system clipboard for the snapshot")
	fs.StringVar(&opts.only, "only", "", "comma-separated key globs to include")
	fs.StringVar(&opts.skip, "skip", "", "comma-separated key globs to exclude")
}

func (o *options) validate() error {
	switch {
	case o.url == "" && o.htmlFile == "":
		return errors.New("one of -url or -html is required")
	case o.url != "" && o.htmlFile != "":
		return errors.New("-url and -html are mutually exclusive")
	}
	if o.htmlFile != "" {
		if _, err := os.Stat(o.htmlFile); err != nil {
			return fmt.Errorf("html file: %w", err)
		}
	}
	return nil
}

// filter returns nil when neither -only nor -skip was given.
func (o *options) filter() (*snapshot.Filter, error) {
	if o.only == "" && o.skip == "" {
		return nil, nil
	}
	return snapshot.NewFilter(splitList(o.only), splitList(o.skip))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
