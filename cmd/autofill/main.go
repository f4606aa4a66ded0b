// Command autofill captures the values of a page's form fields into a JSON
// snapshot and writes snapshots back into pages.
//
//	autofill capture -url https://example.com/form -out profile.json
//	autofill fill -url https://example.com/form -in profile.json
//	autofill serve -url https://example.com/form < requests.jsonl
//	autofill config -reset
//
// Pages come from a Playwright-driven Chromium, or from a saved HTML file
// with -html.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const version = "0.1.0"

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	std := streams{in: os.Stdin, out: os.Stdout, err: os.Stderr}
	if err := run(ctx, os.Args[1:], std); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, std streams) error {
	if len(args) == 0 {
		usage(std.err)
		return flag.ErrHelp
	}

	switch args[0] {
	case "capture":
		return runCapture(ctx, args[1:], std)
	case "fill":
		return runFill(ctx, args[1:], std)
	case "serve":
		return runServe(ctx, args[1:], std)
	case "config":
		return runConfig(ctx, args[1:], std)
	case "version", "-version", "--version":
		fmt.Fprintf(std.out, "autofill v%s\n", version)
		return nil
	case "help", "-h", "-help", "--help":
		usage(std.out)
		return nil
	default:
		usage(std.err)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "autofill - capture and restore form field values\n\n")
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  autofill capture (-url URL | -html FILE) [-out FILE] [-clipboard] [-only GLOB] [-skip GLOB]\n")
	fmt.Fprintf(w, "  autofill fill    (-url URL | -html FILE) [-in FILE] [-clipboard] [-only GLOB] [-skip GLOB]\n")
	fmt.Fprintf(w, "  autofill serve   (-url URL | -html FILE)\n")
	fmt.Fprintf(w, "  autofill config  [-config FILE] [-reset]\n")
	fmt.Fprintf(w, "  autofill version\n\n")
	fmt.Fprintf(w, "Run 'autofill <command> -h' for command options.\n")
}
