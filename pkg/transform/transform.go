// Package transform implements the Entry component (spec §2 "Entry"):
// Transform(*ast.Program, config.Config, path, source.Service) instruments a
// single program in place, prepends the coverage preamble to it, and returns
// the frozen coverage map together with the coverage variable name.
package transform

import (
	"encoding/json"

	"github.com/covinstrument/covinstrument/internal/directive"
	"github.com/covinstrument/covinstrument/pkg/ast"
	"github.com/covinstrument/covinstrument/pkg/config"
	"github.com/covinstrument/covinstrument/pkg/coverage"
	"github.com/covinstrument/covinstrument/pkg/errtype"
	"github.com/covinstrument/covinstrument/pkg/preamble"
	"github.com/covinstrument/covinstrument/pkg/source"
	"github.com/covinstrument/covinstrument/pkg/visitor"
)

// coverageCommentMarker prefixes the trailing block comment a rewritten
// program carries its serialized coverage map under, the out-of-band
// channel a host recovers coverage metadata through (spec §4.6 "attach the
// serialized map as a trailing block comment").
const coverageCommentMarker = "__coverage_data_json_comment__::"

// Result is what a successful Transform produces.
type Result struct {
	// Ignored is true when the file carried an `istanbul ignore file` hint or
	// already carried its own coverage preamble; Program is left untouched
	// and Map/CoverageVariable are the zero value.
	Ignored bool
	Map     *coverage.Map
	// CoverageVariable is the identifier name the preamble declared.
	CoverageVariable string
}

// Transform instruments prog in place per cfg, using path as the
// CoverageMap's "path" field and, salted with cfg.CoverageVariable, to derive
// the coverage variable name, and pos to resolve byte spans to line/column
// pairs.
func Transform(prog *ast.Program, cfg config.Config, path string, pos source.Service) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cmap := coverage.New(path)
	varName := coverage.VariableName(path, cfg.CoverageVariable)
	if cfg.InputSourceMap != "" {
		cmap.InputSourceMap = []byte(cfg.InputSourceMap)
	}

	v := visitor.New(cfg, varName, cmap, pos, prog.Comments)

	// Re-running Transform over output it already produced is a no-op
	// (spec §1 Non-goal "already-instrumented input is passed through
	// unchanged"): prog already carries this file's own preamble, so there
	// is nothing left to walk, freeze or re-prepend.
	if v.AlreadyInstrumented(prog) {
		return &Result{Ignored: true}, nil
	}

	if err := v.VisitProgram(prog); err != nil {
		return nil, err
	}

	// A file-ignore hint short-circuits VisitProgram without allocating
	// anything; a frozen empty map would still be wire-valid, but there is
	// nothing to report or prepend for this file.
	if len(cmap.StatementMap) == 0 && len(cmap.FnMap) == 0 && len(cmap.BranchMap) == 0 {
		if directive.FileIgnored(prog) {
			return &Result{Ignored: true}, nil
		}
	}

	if err := cmap.Freeze(); err != nil {
		return nil, errtype.SerializationFailure(err, "freeze coverage map")
	}

	decl, call, err := preamble.Synthesize(cfg, varName, cmap)
	if err != nil {
		return nil, err
	}
	prog.Body = append([]ast.Stmt{decl, call}, prog.Body...)

	if prog.Comments == nil {
		prog.Comments = ast.NewMapCommentStore()
	}
	buf, err := json.Marshal(cmap)
	if err != nil {
		return nil, errtype.SerializationFailure(err, "encode trailing coverage comment")
	}
	prog.Comments.AddTrailing(prog, ast.Comment{Text: coverageCommentMarker + string(buf)})

	return &Result{Map: cmap, CoverageVariable: varName}, nil
}
