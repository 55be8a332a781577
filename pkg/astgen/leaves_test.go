package astgen

import (
	"testing"

	"github.com/covinstrument/covinstrument/pkg/ast"
)

func TestLeafCounterWithoutReportLogic(t *testing.T) {
	leaf := &ast.Identifier{Name: "x"}
	got := LeafCounter("cov_abc", 1, 0, leaf, false)

	seq, ok := got.(*ast.SequenceExpr)
	if !ok {
		t.Fatalf("LeafCounter() = %T, want *ast.SequenceExpr", got)
	}
	if len(seq.Exprs) != 2 {
		t.Fatalf("len(seq.Exprs) = %d, want 2", len(seq.Exprs))
	}
	upd, ok := seq.Exprs[0].(*ast.UpdateExpr)
	if !ok || !IsCounterIncrement("cov_abc", upd) {
		t.Errorf("seq.Exprs[0] = %+v, want a branch counter increment", seq.Exprs[0])
	}
	if counterField("cov_abc", upd.X) != fieldBranches {
		t.Errorf("counterField() = %q, want %q", counterField("cov_abc", upd.X), fieldBranches)
	}
	if seq.Exprs[1] != ast.Expr(leaf) {
		t.Error("expected the leaf itself to be the sequence's result expression")
	}
}

func TestLeafCounterWithReportLogic(t *testing.T) {
	leaf := &ast.Identifier{Name: "x"}
	got := LeafCounter("cov_abc", 2, 1, leaf, true)

	call, ok := got.(*ast.CallExpr)
	if !ok {
		t.Fatalf("LeafCounter() = %T, want *ast.CallExpr (IIFE)", got)
	}
	if len(call.Args) != 1 || call.Args[0] != ast.Expr(leaf) {
		t.Fatalf("call.Args = %+v, want the leaf as the sole argument", call.Args)
	}

	fn, ok := call.Callee.(*ast.FunctionExpr)
	if !ok {
		t.Fatalf("call.Callee = %T, want *ast.FunctionExpr", call.Callee)
	}
	if len(fn.Params) != 1 || fn.Params[0].Name.Name != "v" {
		t.Fatalf("fn.Params = %+v, want a single param named v", fn.Params)
	}

	body := fn.Body
	if len(body.List) != 3 {
		t.Fatalf("len(body.List) = %d, want 3 (branch counter, if/else, return)", len(body.List))
	}

	branchStmt, ok := body.List[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("body.List[0] = %T, want *ast.ExprStmt", body.List[0])
	}
	if upd, ok := branchStmt.X.(*ast.UpdateExpr); !ok || counterField("cov_abc", upd.X) != fieldBranches {
		t.Errorf("body.List[0] does not wrap a branch counter: %+v", branchStmt.X)
	}

	ifStmt, ok := body.List[1].(*ast.IfStmt)
	if !ok {
		t.Fatalf("body.List[1] = %T, want *ast.IfStmt", body.List[1])
	}
	testID, ok := ifStmt.Test.(*ast.Identifier)
	if !ok || testID.Name != "v" {
		t.Errorf("if test = %+v, want reference to bound parameter v", ifStmt.Test)
	}

	truthyStmt := ifStmt.Consequent.(*ast.BlockStmt).List[0].(*ast.ExprStmt)
	truthyUpd := truthyStmt.X.(*ast.UpdateExpr)
	if counterField("cov_abc", truthyUpd.X) != fieldTruthyFalsy {
		t.Errorf("truthy branch does not increment bT: %+v", truthyUpd.X)
	}

	falsyStmt := ifStmt.Alternate.(*ast.BlockStmt).List[0].(*ast.ExprStmt)
	falsyUpd := falsyStmt.X.(*ast.UpdateExpr)
	if counterField("cov_abc", falsyUpd.X) != fieldTruthyFalsy {
		t.Errorf("falsy branch does not increment bT: %+v", falsyUpd.X)
	}

	ret, ok := body.List[2].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("body.List[2] = %T, want *ast.ReturnStmt", body.List[2])
	}
	retID, ok := ret.Arg.(*ast.Identifier)
	if !ok || retID.Name != "v" {
		t.Errorf("return arg = %+v, want reference to bound parameter v", ret.Arg)
	}
}
