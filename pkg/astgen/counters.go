// Package astgen builds the counter-increment expressions the Main
// Coverage Visitor splices into the program (spec §4.4 "Counter Expression
// Builder"), and recognizes that same shape on the way back in so a second
// pass over already-instrumented code is a no-op (spec §4.6 "Injected-
// counter recognition", the idempotence invariant).
package astgen

import (
	"strconv"

	"github.com/covinstrument/covinstrument/pkg/ast"
)

const (
	fieldStatements    = "s"
	fieldFunctions     = "f"
	fieldBranches      = "b"
	fieldTruthyFalsy   = "bT"
)

// callCoverageFn builds `covVar()`, the call that returns the live
// CoverageMap counters object the preamble declared.
func callCoverageFn(covVar string) *ast.CallExpr {
	return &ast.CallExpr{Callee: &ast.Identifier{Name: covVar}}
}

// member builds `base.field`.
func member(base ast.Expr, field string) *ast.MemberExpr {
	return &ast.MemberExpr{Object: base, Property: &ast.Identifier{Name: field}}
}

// index builds `base[i]` (a computed member access).
func index(base ast.Expr, i int) *ast.MemberExpr {
	return &ast.MemberExpr{
		Object:   base,
		Property: &ast.NumberLiteral{Raw: strconv.Itoa(i)},
		Computed: true,
	}
}

func postIncrement(x ast.Expr) *ast.UpdateExpr {
	return &ast.UpdateExpr{Op: "++", Prefix: false, X: x}
}

// StatementCounter builds `covVar().s[id]++`.
func StatementCounter(covVar string, id int) *ast.UpdateExpr {
	return postIncrement(index(member(callCoverageFn(covVar), fieldStatements), id))
}

// FunctionCounter builds `covVar().f[id]++`.
func FunctionCounter(covVar string, id int) *ast.UpdateExpr {
	return postIncrement(index(member(callCoverageFn(covVar), fieldFunctions), id))
}

// BranchCounter builds `covVar().b[id][pathIdx]++`.
func BranchCounter(covVar string, id, pathIdx int) *ast.UpdateExpr {
	return postIncrement(index(index(member(callCoverageFn(covVar), fieldBranches), id), pathIdx))
}

// TruthyFalsyCounter builds `covVar().bT[id][slot]++`, where slot is
// 2*pathIdx for the truthy count and 2*pathIdx+1 for the falsy count
// (spec §9 reportLogic).
func TruthyFalsyCounter(covVar string, id, pathIdx int, truthy bool) *ast.UpdateExpr {
	slot := 2 * pathIdx
	if !truthy {
		slot++
	}
	return postIncrement(index(index(member(callCoverageFn(covVar), fieldTruthyFalsy), id), slot))
}

// PrependStatement splices counter in front of stmt inside a block,
// returning both as a two-element statement slice (spec §4.5 "before"
// splice).
func PrependStatement(counter ast.Expr, stmt ast.Stmt) []ast.Stmt {
	return []ast.Stmt{&ast.ExprStmt{X: counter}, stmt}
}

// WrapExpr builds `(counter, expr)`, the sequence-expression form used to
// inject a counter increment in an expression position where no statement
// list is available (an arrow's expression body, a branch consequent that
// is itself an expression, a default-argument initializer).
func WrapExpr(counter ast.Expr, expr ast.Expr) *ast.SequenceExpr {
	return &ast.SequenceExpr{Exprs: []ast.Expr{counter, expr}}
}
