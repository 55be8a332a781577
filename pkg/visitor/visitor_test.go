package visitor

import (
	"testing"

	"github.com/covinstrument/covinstrument/internal/loader"
	"github.com/covinstrument/covinstrument/pkg/ast"
	"github.com/covinstrument/covinstrument/pkg/astgen"
	"github.com/covinstrument/covinstrument/pkg/config"
	"github.com/covinstrument/covinstrument/pkg/coverage"
	"github.com/covinstrument/covinstrument/pkg/source"
)

// memberField returns the name of the final `.field` property in a chain
// rooted at a covVar().field[...] counter access, e.g. "b" for a branch
// counter, without reaching into astgen's unexported table constants.
func memberField(e ast.Expr) string {
	outer, ok := e.(*ast.MemberExpr)
	if !ok {
		return ""
	}
	if !outer.Computed {
		id, ok := outer.Property.(*ast.Identifier)
		if ok {
			return id.Name
		}
		return ""
	}
	return memberField(outer.Object)
}

func decodeAndVisit(t *testing.T, fixture string, cfg config.Config) (*ast.Program, *coverage.Map) {
	t.Helper()
	prog, text, err := loader.Decode([]byte(fixture))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	pos := source.NewPositions(text)
	cmap := coverage.New("sample.js")
	v := New(cfg, "cov_test", cmap, pos, prog.Comments)
	if err := v.VisitProgram(prog); err != nil {
		t.Fatalf("VisitProgram() error = %v", err)
	}
	return prog, cmap
}

const switchFixture = `{
	"path": "sample.js",
	"text": "switch (x) {\ncase 1:\na();\nbreak;\ncase 2:\nb();\nbreak;\n}\n",
	"ast": {
		"type": "Program",
		"start": 0,
		"end": 54,
		"body": [
			{
				"type": "SwitchStatement",
				"start": 0,
				"end": 54,
				"discriminant": {"type": "Identifier", "start": 8, "end": 9, "name": "x"},
				"cases": [
					{
						"type": "SwitchCase",
						"start": 13,
						"end": 32,
						"test": {"type": "NumericLiteral", "start": 18, "end": 19, "raw": "1"},
						"consequent": [
							{
								"type": "ExpressionStatement",
								"start": 21,
								"end": 25,
								"expression": {
									"type": "CallExpression",
									"start": 21,
									"end": 24,
									"callee": {"type": "Identifier", "start": 21, "end": 22, "name": "a"},
									"arguments": []
								}
							},
							{"type": "BreakStatement", "start": 26, "end": 32}
						]
					},
					{
						"type": "SwitchCase",
						"start": 33,
						"end": 52,
						"test": {"type": "NumericLiteral", "start": 38, "end": 39, "raw": "2"},
						"consequent": [
							{
								"type": "ExpressionStatement",
								"start": 41,
								"end": 45,
								"expression": {
									"type": "CallExpression",
									"start": 41,
									"end": 44,
									"callee": {"type": "Identifier", "start": 41, "end": 42, "name": "b"},
									"arguments": []
								}
							},
							{"type": "BreakStatement", "start": 46, "end": 52}
						]
					}
				]
			}
		]
	},
	"comments": []
}`

func TestVisitSwitchCaseCounters(t *testing.T) {
	prog, cmap := decodeAndVisit(t, switchFixture, config.Default())

	if len(cmap.BranchMap) != 1 {
		t.Fatalf("len(BranchMap) = %d, want 1", len(cmap.BranchMap))
	}
	for _, b := range cmap.BranchMap {
		if len(b.Locations) != 2 {
			t.Errorf("switch branch locations = %d, want 2 (one per case)", len(b.Locations))
		}
	}

	// No separate statement id is allocated for either case body as a whole
	// (SPEC_FULL.md D.3): only the statements inside each case (the call and
	// the break) get statement counters, plus the case's own branch-path
	// counter at the head of the body.
	sw := prog.Body[0].(*ast.SwitchStmt)
	for i, c := range sw.Cases {
		if len(c.Body) == 0 {
			t.Fatalf("case %d has no body", i)
		}
		first, ok := c.Body[0].(*ast.ExprStmt)
		if !ok {
			t.Fatalf("case %d body[0] = %T, want *ast.ExprStmt (branch counter)", i, c.Body[0])
		}
		upd, ok := first.X.(*ast.UpdateExpr)
		if !ok {
			t.Fatalf("case %d body[0].X = %T, want *ast.UpdateExpr", i, first.X)
		}
		if !astgen.IsCounterIncrement("cov_test", upd) {
			t.Errorf("case %d body[0] is not a recognized counter increment", i)
		}
		if memberField(upd.X) != "b" {
			t.Errorf("case %d body[0] does not increment the branch table", i)
		}
	}
}

const classFixture = `{
	"path": "sample.js",
	"text": "class C {\n  keep() {}\n  skip() {}\n}\n",
	"ast": {
		"type": "Program",
		"start": 0,
		"end": 37,
		"body": [
			{
				"type": "ClassDeclaration",
				"start": 0,
				"end": 36,
				"id": {"type": "Identifier", "start": 6, "end": 7, "name": "C"},
				"body": {
					"type": "ClassBody",
					"start": 8,
					"end": 36,
					"body": [
						{
							"type": "ClassMethod",
							"start": 11,
							"end": 22,
							"key": {"type": "Identifier", "start": 11, "end": 15, "name": "keep"},
							"kind": "method",
							"static": false,
							"params": [],
							"body": {"type": "BlockStatement", "start": 20, "end": 22, "body": []}
						},
						{
							"type": "ClassMethod",
							"start": 25,
							"end": 36,
							"key": {"type": "Identifier", "start": 25, "end": 29, "name": "skip"},
							"kind": "method",
							"static": false,
							"params": [],
							"body": {"type": "BlockStatement", "start": 34, "end": 36, "body": []}
						}
					]
				}
			}
		]
	},
	"comments": []
}`

func TestVisitClassIgnoreMethod(t *testing.T) {
	cfg := config.Default()
	cfg.IgnoreClassMethods = []string{"skip"}
	_, cmap := decodeAndVisit(t, classFixture, cfg)

	if len(cmap.FnMap) != 1 {
		t.Fatalf("len(FnMap) = %d, want 1 (only 'keep' instrumented)", len(cmap.FnMap))
	}
	for _, fn := range cmap.FnMap {
		if fn.Name != "keep" {
			t.Errorf("instrumented function = %q, want 'keep'", fn.Name)
		}
	}
}

const logicalChainFixture = `{
	"path": "sample.js",
	"text": "a && b && c;\n",
	"ast": {
		"type": "Program",
		"start": 0,
		"end": 13,
		"body": [
			{
				"type": "ExpressionStatement",
				"start": 0,
				"end": 12,
				"expression": {
					"type": "LogicalExpression",
					"start": 0,
					"end": 11,
					"operator": "&&",
					"left": {
						"type": "LogicalExpression",
						"start": 0,
						"end": 6,
						"operator": "&&",
						"left": {"type": "Identifier", "start": 0, "end": 1, "name": "a"},
						"right": {"type": "Identifier", "start": 5, "end": 6, "name": "b"}
					},
					"right": {"type": "Identifier", "start": 10, "end": 11, "name": "c"}
				}
			}
		]
	},
	"comments": []
}`

func TestVisitLogicalChainFlattensToOneBranch(t *testing.T) {
	_, cmap := decodeAndVisit(t, logicalChainFixture, config.Default())

	if len(cmap.BranchMap) != 1 {
		t.Fatalf("len(BranchMap) = %d, want 1 (same-operator chain flattened)", len(cmap.BranchMap))
	}
	for _, b := range cmap.BranchMap {
		if len(b.Locations) != 3 {
			t.Errorf("logical chain branch locations = %d, want 3 (a, b, c)", len(b.Locations))
		}
	}
}

func TestVisitLogicalChainReportLogic(t *testing.T) {
	cfg := config.Default()
	cfg.ReportLogic = true
	_, cmap := decodeAndVisit(t, logicalChainFixture, cfg)

	for id := range cmap.BranchMap {
		if len(cmap.BT[id]) != 6 {
			t.Errorf("bT counters = %d, want 6 (3 paths * 2)", len(cmap.BT[id]))
		}
	}
}

// A statement list that already contains a previously-injected counter
// increment must pass it through unchanged rather than wrapping it with a
// second counter (spec §4.6 "Injected-counter recognition", the idempotence
// invariant's statement-list rule).
func TestVisitStmtListSkipsExistingCounterStatement(t *testing.T) {
	cfg := config.Default()
	cmap := coverage.New("sample.js")
	pos := source.NewPositions(nil)
	v := New(cfg, "cov_test", cmap, pos, ast.NewMapCommentStore())

	counterStmt := &ast.ExprStmt{X: astgen.StatementCounter("cov_test", 7)}
	real := &ast.ExprStmt{X: &ast.Identifier{Name: "x"}}

	out, err := v.visitStmtList([]ast.Stmt{counterStmt, real})
	if err != nil {
		t.Fatalf("visitStmtList() error = %v", err)
	}
	if len(out) != 2 || out[0] != ast.Stmt(counterStmt) {
		t.Errorf("out[0] = %+v, want the pre-existing counter statement passed through unchanged", out[0])
	}
	// Only the real statement gets a fresh id; the counter statement itself
	// is recognized and skipped, not treated as a new coverable statement.
	if len(cmap.StatementMap) != 1 {
		t.Errorf("len(StatementMap) = %d, want 1", len(cmap.StatementMap))
	}
}

// VisitProgram over a program that already begins with this visitor's own
// coverage preamble must be a complete no-op (spec §1 Non-goal: already-
// instrumented input is passed through unchanged), not re-instrument the
// preamble's FuncDecl as if it were user code.
func TestVisitProgramAlreadyInstrumentedIsNoOp(t *testing.T) {
	cfg := config.Default()
	cmap := coverage.New("sample.js")
	pos := source.NewPositions(nil)
	v := New(cfg, "cov_abc", cmap, pos, ast.NewMapCommentStore())

	decl := &ast.FuncDecl{
		Name: &ast.Identifier{Name: "cov_abc"},
		Body: &ast.BlockStmt{List: []ast.Stmt{
			&ast.ReturnStmt{Arg: &ast.Identifier{Name: "x"}},
		}},
	}
	call := &ast.ExprStmt{X: &ast.CallExpr{Callee: &ast.Identifier{Name: "cov_abc"}}}
	prog := &ast.Program{Comments: ast.NewMapCommentStore(), Body: []ast.Stmt{decl, call}}

	if !v.AlreadyInstrumented(prog) {
		t.Fatal("AlreadyInstrumented() = false, want true for a program starting with its own preamble")
	}
	if err := v.VisitProgram(prog); err != nil {
		t.Fatalf("VisitProgram() error = %v", err)
	}
	if len(cmap.FnMap) != 0 || len(cmap.StatementMap) != 0 {
		t.Errorf("VisitProgram() registered coverage for an already-instrumented program: fnMap=%d statementMap=%d",
			len(cmap.FnMap), len(cmap.StatementMap))
	}
	if len(prog.Body) != 2 {
		t.Errorf("len(prog.Body) = %d, want 2 (untouched)", len(prog.Body))
	}
}
