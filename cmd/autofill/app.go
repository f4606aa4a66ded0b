package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Lenersebastian/sebov-autofill/pkg/autofill"
	"github.com/Lenersebastian/sebov-autofill/pkg/browser"
	appconfig "github.com/Lenersebastian/sebov-autofill/pkg/config"
	"github.com/Lenersebastian/sebov-autofill/pkg/dom"
	"github.com/Lenersebastian/sebov-autofill/pkg/dom/memdom"
	"github.com/Lenersebastian/sebov-autofill/pkg/logging"
)

const sessionName = "autofill"

// app holds what one subcommand needs: loggers, the engine and a page.
type app struct {
	log     *logging.Logger
	level   logging.Level
	engine  *autofill.Engine
	doc     dom.Document
	loggers []*logging.Logger
	manager *browser.SessionManager
}

func newApp(ctx context.Context, opts *options) (*app, error) {
	a := &app{}
	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return nil, err
	}
	a.level = level
	a.log = a.logger("cli", level)
	a.log.Infof("run %s starting", logging.GetRunID())

	if err := appconfig.Initialize(opts.configPath); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	engine, err := a.newEngine(opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.engine = engine

	if err := a.openPage(ctx, opts); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) logger(component string, level logging.Level) *logging.Logger {
	l, err := logging.NewLogger(component)
	if err == nil {
		l.SetLevel(level)
	}
	a.loggers = append(a.loggers, l)
	return l
}

func (a *app) newEngine(opts *options) (*autofill.Engine, error) {
	section := appconfig.GetAutofill()
	poll, wait, settle := section.Timings()

	rules := autofill.DefaultRules()
	rulesFile := opts.rulesFile
	if rulesFile == "" {
		rulesFile = section.GetRulesFile()
	}
	if rulesFile != "" {
		extra, err := autofill.LoadRules(rulesFile)
		if err != nil {
			return nil, err
		}
		rules = rules.Merge(extra)
		a.log.Infof("merged widget rules from %s", rulesFile)
	}

	return autofill.New(autofill.Options{
		PollInterval: poll,
		WaitTimeout:  wait,
		SettleDelay:  &settle,
		Rules:        rules,
		Logger:       a.logger("engine", a.level),
	}), nil
}

func (a *app) openPage(ctx context.Context, opts *options) error {
	if opts.htmlFile != "" {
		src, err := os.ReadFile(opts.htmlFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", opts.htmlFile, err)
		}
		doc, err := memdom.Parse(string(src))
		if err != nil {
			return err
		}
		a.doc = doc
		a.log.Infof("loaded page from %s", opts.htmlFile)
		return nil
	}

	cfg := appconfig.GetBrowser()
	headless, width, height, timeout := cfg.Snapshot()
	if opts.headed {
		headless = false
	}

	a.manager = browser.NewSessionManager()
	if err := a.manager.Initialize(); err != nil {
		return err
	}
	session, err := a.manager.StartSession(sessionName, browser.SessionOptions{
		Headless: headless,
		Viewport: &browser.Viewport{Width: width, Height: height},
		Timeout:  timeout,
	})
	if err != nil {
		return err
	}
	if err := session.Navigate(ctx, opts.url, browser.NavigateOptions{WaitUntil: "load"}); err != nil {
		return err
	}
	a.log.Infof("opened %s", session.CurrentURL())
	a.doc = session.Document()
	return nil
}

// Close shuts the browser down and closes every log file.
func (a *app) Close() {
	if a.manager != nil {
		if err := a.manager.Shutdown(); err != nil && a.log != nil {
			a.log.Warnf("browser shutdown: %v", err)
		}
	}
	for _, l := range a.loggers {
		l.Close()
	}
}
