package main

// Config holds the complete configuration for the covinstrument CLI
// invocation. It maps directly to command line flags. When --config names a
// YAML config file, the instrumentation settings come from that file
// (over the built-in defaults) and the instrumentation flags below
// (coverage-variable, compact, report-logic, coverage-global-scope-func,
// ignore-class-method) are not applied.
type Config struct {
	// Paths are the directories (or individual fixture files) to instrument.
	Paths []string `arg:"" optional:"" help:"Directories or fixture files to instrument." type:"path" default:"."`

	// ConfigPath points at a YAML config file (e.g. .covinstrumentrc.yml)
	// whose settings replace the instrumentation flags below.
	ConfigPath string `name:"config" help:"Path to a YAML config file." type:"path"`

	// CoverageVariable names the global coverage object injected by the
	// preamble (default "__coverage__").
	CoverageVariable string `name:"coverage-variable" help:"Name of the global coverage variable."`

	// Compact controls whether the embedded coverage JSON is pretty-printed.
	Compact bool `name:"compact" help:"Emit compact (not pretty-printed) coverage JSON in the preamble." default:"true"`

	// ReportLogic enables the bT truthy/falsy sibling counters for logical
	// and binary-expression branches.
	ReportLogic bool `name:"report-logic" help:"Track truthy/falsy outcomes for logical and binary-expression branches."`

	// CoverageGlobalScopeFunc selects the self-invoking-function global
	// lookup strategy over a direct reference.
	CoverageGlobalScopeFunc bool `name:"coverage-global-scope-func" help:"Use a self-invoking function to locate the global scope." default:"true"`

	// IgnoreClassMethods lists method names whose bodies are never
	// instrumented, by exact name match.
	IgnoreClassMethods []string `name:"ignore-class-method" help:"Class method names to exclude from instrumentation."`

	// ExcludeGlob is a list of file glob patterns to exclude from collection.
	ExcludeGlob []string `name:"exclude-glob" help:"Glob patterns to exclude specific files or folders."`

	// DryRun prints a unified diff to stdout instead of writing files.
	DryRun bool `name:"dry-run" help:"Print changes to stdout instead of rewriting files."`

	// Write rewrites each instrumented file in place.
	Write bool `name:"write" help:"Rewrite instrumented files in place."`

	// Check runs in CI verification mode: fails if any file cannot be
	// instrumented, without writing anything.
	Check bool `name:"check" help:"Verify every file instruments cleanly; exit non-zero otherwise."`

	// Concurrency bounds how many files are transformed in parallel; 0 means
	// unbounded (errgroup.SetLimit is skipped).
	Concurrency int `name:"concurrency" help:"Maximum number of files transformed in parallel (0 = unbounded)."`

	// ReportPath, if set, writes the run's JSON report to this path.
	ReportPath string `name:"report" help:"Path to write the JSON run report." type:"path"`
}
