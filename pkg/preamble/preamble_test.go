package preamble

import (
	"testing"

	"github.com/covinstrument/covinstrument/pkg/ast"
	"github.com/covinstrument/covinstrument/pkg/config"
	"github.com/covinstrument/covinstrument/pkg/coverage"
	"github.com/covinstrument/covinstrument/pkg/errtype"
	"github.com/covinstrument/covinstrument/pkg/source"
)

func frozenMap(t *testing.T) *coverage.Map {
	t.Helper()
	m := coverage.New("sample.js")
	if _, err := m.NewStatement(source.Range{StartLine: 1, EndLine: 1}); err != nil {
		t.Fatal(err)
	}
	if err := m.Freeze(); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSynthesizeRejectsUnfrozenMap(t *testing.T) {
	m := coverage.New("sample.js")
	_, _, err := Synthesize(config.Default(), "cov_abc", m)
	if err == nil {
		t.Fatal("Synthesize() = nil error, want error for unfrozen map")
	}
	if !errtype.Is(err, errtype.ErrConfig) {
		t.Errorf("expected ErrConfig cause, got %v", err)
	}
}

func TestSynthesizeDeclAndCall(t *testing.T) {
	m := frozenMap(t)
	decl, call, err := Synthesize(config.Default(), "cov_abc", m)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if decl.Name.Name != "cov_abc" {
		t.Errorf("decl.Name.Name = %q, want cov_abc", decl.Name.Name)
	}
	callExpr, ok := call.X.(*ast.CallExpr)
	if !ok {
		t.Fatalf("call.X = %T, want *ast.CallExpr", call.X)
	}
	callee, ok := callExpr.Callee.(*ast.Identifier)
	if !ok || callee.Name != "cov_abc" {
		t.Errorf("call callee = %+v, want identifier cov_abc", callExpr.Callee)
	}
	if len(decl.Body.List) == 0 {
		t.Fatal("decl.Body.List is empty")
	}
}

func TestGlobalScopeExprStrategies(t *testing.T) {
	cfg := config.Default()
	cfg.CoverageGlobalScopeFunc = true
	if _, ok := globalScopeExpr(cfg).(*ast.CallExpr); !ok {
		t.Error("expected a self-invoking function expression when CoverageGlobalScopeFunc is true")
	}

	cfg.CoverageGlobalScopeFunc = false
	cfg.CoverageGlobalScope = "globalThis"
	expr, ok := globalScopeExpr(cfg).(*ast.Identifier)
	if !ok || expr.Name != "globalThis" {
		t.Errorf("expected a direct identifier reference when CoverageGlobalScopeFunc is false, got %+v", globalScopeExpr(cfg))
	}
}

func TestCoverageDataExprCompactVsPretty(t *testing.T) {
	m := frozenMap(t)

	cfg := config.Default()
	cfg.Compact = true
	compact, err := coverageDataExpr(cfg, m)
	if err != nil {
		t.Fatalf("coverageDataExpr() error = %v", err)
	}
	compactCall := compact.(*ast.CallExpr)
	compactLit := compactCall.Args[0].(*ast.StringLiteral).Raw

	cfg.Compact = false
	pretty, err := coverageDataExpr(cfg, m)
	if err != nil {
		t.Fatalf("coverageDataExpr() error = %v", err)
	}
	prettyLit := pretty.(*ast.CallExpr).Args[0].(*ast.StringLiteral).Raw

	if compactLit == prettyLit {
		t.Error("expected compact and pretty JSON encodings to differ")
	}
}
