package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"

	"github.com/Lenersebastian/sebov-autofill/pkg/bridge"
	"github.com/Lenersebastian/sebov-autofill/pkg/snapshot"
)

// clipboardRead and clipboardWrite are replaced in tests.
var (
	clipboardRead  = clipboard.ReadAll
	clipboardWrite = clipboard.WriteAll
)

func runCapture(ctx context.Context, args []string, std streams) error {
	opts := &options{}
	fs := newFlagSet("capture", opts, std)
	addSnapshotFlags(fs, opts, "out", "write the snapshot to FILE instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := opts.validate(); err != nil {
		return err
	}
	filter, err := opts.filter()
	if err != nil {
		return err
	}

	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.engine.Capture(ctx, a.doc)
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}
	snap = filter.Apply(snap)
	a.log.Infof("captured %d fields", len(snap))

	data, err := snap.MarshalIndent()
	if err != nil {
		return err
	}

	toStdout := opts.file == ""
	if opts.clipboard {
		if err := clipboardWrite(string(data)); err != nil {
			a.log.Warnf("clipboard unavailable: %v", err)
			printWarn(std.err, "clipboard unavailable, writing snapshot to stdout")
			toStdout = true
		} else {
			toStdout = false
			printOK(std.err, "copied snapshot to clipboard")
		}
	}
	if opts.file != "" {
		if err := os.WriteFile(opts.file, append(data, '\n'), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.file, err)
		}
		printOK(std.err, fmt.Sprintf("wrote %s", opts.file))
	}
	if toStdout {
		fmt.Fprintln(std.out, string(data))
	}

	printOK(std.err, fmt.Sprintf("Captured %d fields", len(snap)))
	return nil
}

func runFill(ctx context.Context, args []string, std streams) error {
	opts := &options{}
	fs := newFlagSet("fill", opts, std)
	addSnapshotFlags(fs, opts, "in", "read the snapshot from FILE instead of stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := opts.validate(); err != nil {
		return err
	}
	filter, err := opts.filter()
	if err != nil {
		return err
	}

	raw, err := readSnapshot(opts, std.in)
	if err != nil {
		return err
	}
	snap, err := snapshot.Parse(raw)
	if err != nil {
		return err
	}
	snap = filter.Apply(snap)

	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	filled, err := a.engine.Fill(ctx, a.doc, snap)
	if err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	a.log.Infof("filled %d of %d fields", filled, len(snap))

	msg := fmt.Sprintf("Filled %d of %d fields", filled, len(snap))
	if opts.htmlFile != "" {
		msg += muted.Render(" (saved page, nothing persisted)")
	}
	if filled < len(snap) {
		printWarn(std.err, msg)
	} else {
		printOK(std.err, msg)
	}
	return nil
}

func readSnapshot(opts *options, stdin io.Reader) ([]byte, error) {
	switch {
	case opts.clipboard:
		s, err := clipboardRead()
		if err != nil {
			return nil, fmt.Errorf("failed to read clipboard: %w", err)
		}
		return []byte(s), nil
	case opts.file != "":
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", opts.file, err)
		}
		return data, nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
}

func runServe(ctx context.Context, args []string, std streams) error {
	opts := &options{}
	fs := newFlagSet("serve", opts, std)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := opts.validate(); err != nil {
		return err
	}

	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	handler := bridge.NewHandler(a.engine, a.doc, a.logger("bridge", a.level))
	printOK(std.err, "serving requests on stdin")
	if err := handler.Serve(ctx, std.in, std.out); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
