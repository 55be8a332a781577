// Package preamble synthesizes the coverage-function declaration and its
// eager self-call that the transformer prepends to every instrumented file
// (spec §4.8 "Preamble Synthesizer").
package preamble

import (
	"encoding/json"
	"strconv"

	"github.com/covinstrument/covinstrument/pkg/ast"
	"github.com/covinstrument/covinstrument/pkg/config"
	"github.com/covinstrument/covinstrument/pkg/coverage"
	"github.com/covinstrument/covinstrument/pkg/errtype"
)

// Synthesize builds the coverage function declaration for varName and the
// statement that eagerly calls it once at module load, per cfg's global-
// scope strategy. m must already be frozen (its hash is embedded in the
// preamble's cache check).
func Synthesize(cfg config.Config, varName string, m *coverage.Map) (*ast.FuncDecl, *ast.ExprStmt, error) {
	if !m.Frozen() {
		return nil, nil, errtype.ConfigError("preamble: coverage map for %s must be frozen before synthesis", m.Path)
	}
	dataExpr, err := coverageDataExpr(cfg, m)
	if err != nil {
		return nil, nil, errtype.SerializationFailure(err, "encode coverage data literal")
	}

	globalExpr := globalScopeExpr(cfg)

	body := &ast.BlockStmt{List: []ast.Stmt{
		letDecl("path", strLit(m.Path)),
		letDecl("hash", strLit(m.Hash)),
		letDecl("global", globalExpr),
		letDecl("gcv", strLit(cfg.CoverageVariable)),
		letDecl("coverageData", dataExpr),
		letDecl("coverage", &ast.LogicalExpr{
			Op:   "||",
			Left: bracket(ident("global"), ident("gcv")),
			Right: &ast.AssignExpr{
				Op:    "=",
				Left:  bracket(ident("global"), ident("gcv")),
				Right: &ast.ObjectExpr{},
			},
		}),
		&ast.IfStmt{
			Test: &ast.LogicalExpr{
				Op:   "&&",
				Left: bracket(ident("coverage"), ident("path")),
				Right: &ast.BinaryExpr{
					Op:    "===",
					Left:  &ast.MemberExpr{Object: bracket(ident("coverage"), ident("path")), Property: ident("hash")},
					Right: ident("hash"),
				},
			},
			Consequent: &ast.BlockStmt{},
			Alternate: &ast.BlockStmt{List: []ast.Stmt{
				&ast.ExprStmt{X: &ast.AssignExpr{
					Op:    "=",
					Left:  bracket(ident("coverage"), ident("path")),
					Right: ident("coverageData"),
				}},
			}},
		},
		&ast.ReturnStmt{Arg: bracket(ident("coverage"), ident("path"))},
	}}

	decl := &ast.FuncDecl{
		Name: &ast.Identifier{Name: varName},
		Body: body,
	}
	call := &ast.ExprStmt{X: &ast.CallExpr{Callee: &ast.Identifier{Name: varName}}}
	return decl, call, nil
}

// globalScopeExpr implements the two strategies gated by
// CoverageGlobalScopeFunc: a self-invoking function resolving the global
// (the safer default, insulated from `this` being undefined in strict-mode
// module scope) versus a direct reference to the configured global
// identifier.
func globalScopeExpr(cfg config.Config) ast.Expr {
	scope := ident(cfg.CoverageGlobalScope)
	if !cfg.CoverageGlobalScopeFunc {
		return scope
	}
	return &ast.CallExpr{
		Callee: &ast.FunctionExpr{
			Body: &ast.BlockStmt{List: []ast.Stmt{
				&ast.ReturnStmt{Arg: scope},
			}},
		},
	}
}

// coverageDataExpr renders m as `JSON.parse("...")`, the compact-literal
// form real-world coverage preambles use to avoid re-parsing a deeply
// nested object-expression tree; cfg.Compact only controls the indentation
// of the embedded JSON text.
func coverageDataExpr(cfg config.Config, m *coverage.Map) (ast.Expr, error) {
	var (
		buf []byte
		err error
	)
	if cfg.Compact {
		buf, err = json.Marshal(m)
	} else {
		buf, err = json.MarshalIndent(m, "", "  ")
	}
	if err != nil {
		return nil, err
	}
	return &ast.CallExpr{
		Callee: &ast.MemberExpr{Object: &ast.Identifier{Name: "JSON"}, Property: &ast.Identifier{Name: "parse"}},
		Args:   []ast.Expr{strLit(string(buf))},
	}, nil
}

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func strLit(s string) *ast.StringLiteral {
	return &ast.StringLiteral{Raw: strconv.Quote(s)}
}

func bracket(obj, prop ast.Expr) *ast.MemberExpr {
	return &ast.MemberExpr{Object: obj, Property: prop, Computed: true}
}

func letDecl(name string, init ast.Expr) *ast.VarDeclStmt {
	return &ast.VarDeclStmt{
		Kind: "var",
		Decls: []*ast.VariableDeclarator{
			{Id: &ast.Identifier{Name: name}, Init: init},
		},
	}
}
