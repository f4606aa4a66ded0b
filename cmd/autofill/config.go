package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	appconfig "github.com/Lenersebastian/sebov-autofill/pkg/config"
)

// runConfig validates the config file, fills in missing settings and writes
// it back. With -reset every section returns to its defaults first.
func runConfig(_ context.Context, args []string, std streams) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(std.err)
	configPath := fs.String("config", "", "config file (default ~/.autofill/config.json)")
	reset := fs.Bool("reset", false, "restore default settings")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := appconfig.NewFileStore(*configPath)
	if err != nil {
		return err
	}
	manager, err := appconfig.NewDefaultManager(store)
	if err != nil {
		return err
	}

	if err := manager.LoadAll(); err != nil {
		if !*reset {
			return fmt.Errorf("failed to load config: %w", err)
		}
		printWarn(std.err, "discarding invalid config: "+err.Error())
	}
	if *reset {
		manager.ResetAll()
	}
	if err := manager.SaveAll(); err != nil {
		return err
	}

	sections := make(map[string]map[string]interface{})
	for _, s := range manager.GetSections() {
		sections[s.ID()] = s.Data()
	}
	data, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(std.out, string(data))
	printOK(std.err, "Wrote "+store.Path())
	return nil
}
