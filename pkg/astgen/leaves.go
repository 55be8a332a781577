package astgen

import "github.com/covinstrument/covinstrument/pkg/ast"

// LeafCounter wraps one operand of a logical-expression chain (or a
// ConditionalExpr/default-argument branch) with its branch-path counter.
//
// Without reportLogic this is the lightweight sequence form
// `(covVar().b[id][idx]++, leaf)`.
//
// With reportLogic it additionally needs the leaf's own truthy/falsy
// outcome, which can't be read from a counter expression alone without
// evaluating the leaf a second time (corrupting both its side effects and
// the chain's short-circuit count). An immediately-invoked function
// expression gives the leaf a single evaluation as its argument, binds it
// to a local, bumps both counters, then returns it unchanged.
func LeafCounter(covVar string, branchID, pathIdx int, leaf ast.Expr, reportLogic bool) ast.Expr {
	if !reportLogic {
		return WrapExpr(BranchCounter(covVar, branchID, pathIdx), leaf)
	}
	v := &ast.Identifier{Name: "v"}
	body := &ast.BlockStmt{List: []ast.Stmt{
		&ast.ExprStmt{X: BranchCounter(covVar, branchID, pathIdx)},
		&ast.IfStmt{
			Test:       v,
			Consequent: &ast.BlockStmt{List: []ast.Stmt{&ast.ExprStmt{X: TruthyFalsyCounter(covVar, branchID, pathIdx, true)}}},
			Alternate:  &ast.BlockStmt{List: []ast.Stmt{&ast.ExprStmt{X: TruthyFalsyCounter(covVar, branchID, pathIdx, false)}}},
		},
		&ast.ReturnStmt{Arg: v},
	}}
	fn := &ast.FunctionExpr{Params: []*ast.Param{{Name: &ast.Identifier{Name: "v"}}}, Body: body}
	return &ast.CallExpr{Callee: fn, Args: []ast.Expr{leaf}}
}
