// Package config holds the Configuration bag the Entry component is
// parameterized by (spec §6), plus a YAML file loader; when the root CLI is
// given --config, the loaded file's settings replace those built from its
// kong flags.
package config

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/covinstrument/covinstrument/pkg/errtype"
)

// Config is the instrumentation Configuration bag (spec §6). Field names
// match the wire/flag names the real tool's config file uses, so a
// `.covinstrumentrc.yml` checked into a JS/TS repo reads naturally.
type Config struct {
	// CoverageVariable names the global the preamble assigns the coverage
	// map to, before per-file hashing is applied to it. Default "__coverage__".
	CoverageVariable string `yaml:"coverageVariable"`

	// Compact, when true, tells the preamble synthesizer to prefer a
	// single-line map literal over a pretty-printed one.
	Compact bool `yaml:"compact"`

	// ReportLogic enables the bT truthy/falsy sibling counters on logical
	// expression branches.
	ReportLogic bool `yaml:"reportLogic"`

	// CoverageGlobalScope is the JS expression the preamble uses to locate
	// the shared global object, e.g. "this" or "globalThis".
	CoverageGlobalScope string `yaml:"coverageGlobalScope"`

	// CoverageGlobalScopeFunc selects between the two preamble strategies
	// (spec §4.8): true wraps CoverageGlobalScope resolution in a
	// self-invoking function, false references CoverageGlobalScope
	// directly.
	CoverageGlobalScopeFunc bool `yaml:"coverageGlobalScopeFunc"`

	// IgnoreClassMethods lists method names (exact string match) whose
	// bodies are excluded from instrumentation entirely.
	IgnoreClassMethods []string `yaml:"ignoreClassMethods"`

	// InputSourceMap, when non-empty, is embedded verbatim into the
	// CoverageMap's inputSourceMap field.
	InputSourceMap string `yaml:"inputSourceMap"`
}

// Default returns the Configuration bag's default values (spec §6).
func Default() Config {
	return Config{
		CoverageVariable:        "__coverage__",
		Compact:                 false,
		ReportLogic:             false,
		CoverageGlobalScope:     "this",
		CoverageGlobalScopeFunc: true,
		IgnoreClassMethods:      nil,
		InputSourceMap:          "",
	}
}

// Validate checks the bag for contradictions the CLI flags and the YAML
// loader both funnel through.
func (c Config) Validate() error {
	if c.CoverageVariable == "" {
		return errtype.ConfigError("coverageVariable must not be empty")
	}
	if c.CoverageGlobalScope == "" {
		return errtype.ConfigError("coverageGlobalScope must not be empty")
	}
	return nil
}

// LoadYAML reads a config file at path and overlays it onto Default().
// Fields absent from the file keep their default value.
func LoadYAML(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errtype.ConfigError("read %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errtype.ConfigError("parse %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
