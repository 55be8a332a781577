package main

import (
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"

	"github.com/covinstrument/covinstrument/pkg/config"
	"github.com/covinstrument/covinstrument/pkg/report"
	"github.com/covinstrument/covinstrument/pkg/runner"
)

// main is the CLI entry point.
// It executes the runner and handles fatal errors (including check failures) by exiting with status 1.
func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run parses arguments and executes the instrumentation runner.
//
// args: Command line arguments.
// stdout: Writer for logs and output.
func run(args []string, stdout io.Writer) error {
	var cfg Config
	parser, err := kong.New(&cfg,
		kong.Name("covinstrument"),
		kong.Description("Instrument JavaScript/TypeScript sources with Istanbul-compatible coverage counters."),
		kong.Writers(stdout, io.Discard),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return err
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}

	log.SetOutput(stdout)
	log.Printf("Starting instrumentation on paths: %v", cfg.Paths)

	base := config.Default()
	if cfg.CoverageVariable != "" {
		base.CoverageVariable = cfg.CoverageVariable
	}
	base.Compact = cfg.Compact
	base.ReportLogic = cfg.ReportLogic
	base.CoverageGlobalScopeFunc = cfg.CoverageGlobalScopeFunc
	base.IgnoreClassMethods = cfg.IgnoreClassMethods

	rep := report.New()
	opts := runner.Options{
		Paths:       cfg.Paths,
		ExcludeGlob: cfg.ExcludeGlob,
		ConfigPath:  cfg.ConfigPath,
		Cfg:         base,
		HasCfg:      true,
		Check:       cfg.Check,
		DryRun:      cfg.DryRun,
		Write:       cfg.Write,
		Concurrency: cfg.Concurrency,
		Reporter:    rep,
	}

	if opts.Check {
		log.Printf("Mode: CI Check (Verification)")
	}

	err = runner.Run(opts)

	if cfg.ReportPath != "" {
		if f, ferr := os.Create(cfg.ReportPath); ferr == nil {
			_ = rep.WriteJSON(f)
			f.Close()
		}
	}

	return err
}
