package visitor

import (
	"github.com/covinstrument/covinstrument/pkg/ast"
	"github.com/covinstrument/covinstrument/pkg/astgen"
	"github.com/covinstrument/covinstrument/pkg/coverage"
)

// visitExpr is the generic expression walk. It recurses into every
// subexpression-bearing node, and specially rewrites LogicalExpr and
// ConditionalExpr chains into their branch-instrumented form. Counter
// expressions astgen already built are left untouched (the idempotence
// guard described in spec §4.6 "Injected-counter recognition").
func (v *Visitor) visitExpr(e ast.Expr) (ast.Expr, error) {
	if e == nil || astgen.IsCounterIncrement(v.covVar, e) {
		return e, nil
	}
	switch x := e.(type) {
	case *ast.LogicalExpr:
		return v.visitLogicalChain(x)
	case *ast.ConditionalExpr:
		return v.visitConditional(x)
	case *ast.MemberExpr:
		obj, err := v.visitExpr(x.Object)
		if err != nil {
			return nil, err
		}
		x.Object = obj
		if x.Computed {
			prop, err := v.visitExpr(x.Property)
			if err != nil {
				return nil, err
			}
			x.Property = prop
		}
		return x, nil
	case *ast.CallExpr:
		callee, err := v.visitExpr(x.Callee)
		if err != nil {
			return nil, err
		}
		x.Callee = callee
		for i, a := range x.Args {
			visited, err := v.visitExpr(a)
			if err != nil {
				return nil, err
			}
			x.Args[i] = visited
		}
		return x, nil
	case *ast.SequenceExpr:
		for i, sub := range x.Exprs {
			visited, err := v.visitExpr(sub)
			if err != nil {
				return nil, err
			}
			x.Exprs[i] = visited
		}
		return x, nil
	case *ast.BinaryExpr:
		l, err := v.visitExpr(x.Left)
		if err != nil {
			return nil, err
		}
		r, err := v.visitExpr(x.Right)
		if err != nil {
			return nil, err
		}
		x.Left, x.Right = l, r
		return x, nil
	case *ast.AssignExpr:
		r, err := v.visitExpr(x.Right)
		if err != nil {
			return nil, err
		}
		x.Right = r
		return x, nil
	case *ast.UnaryExpr:
		sub, err := v.visitExpr(x.X)
		if err != nil {
			return nil, err
		}
		x.X = sub
		return x, nil
	case *ast.UpdateExpr:
		sub, err := v.visitExpr(x.X)
		if err != nil {
			return nil, err
		}
		x.X = sub
		return x, nil
	case *ast.ArrayExpr:
		for i, el := range x.Elements {
			if el == nil {
				continue
			}
			visited, err := v.visitExpr(el)
			if err != nil {
				return nil, err
			}
			x.Elements[i] = visited
		}
		return x, nil
	case *ast.ObjectExpr:
		for i, p := range x.Properties {
			if p.Value == nil {
				continue
			}
			visited, err := v.visitExpr(p.Value)
			if err != nil {
				return nil, err
			}
			x.Properties[i].Value = visited
		}
		return x, nil
	case *ast.FunctionExpr:
		if err := v.instrumentFunction(nameOf(x.Name), x.Params, x.Body, x.DeclSpan, x.NodeSpan); err != nil {
			return nil, err
		}
		return x, nil
	case *ast.ArrowFunctionExpr:
		if err := v.visitArrowBody(x); err != nil {
			return nil, err
		}
		return x, nil
	default:
		// Identifier, ThisExpr, NumberLiteral, StringLiteral, BooleanLiteral,
		// NullLiteral: leaves, nothing to recurse into.
		return e, nil
	}
}

// visitArrowBody instruments an arrow function: a block body is handled
// exactly like any other function body; an expression body has no
// statement list to prepend a counter to, so the function counter is
// spliced in as the leading element of a sequence expression instead
// (spec §4.6 "Arrow expression").
func (v *Visitor) visitArrowBody(a *ast.ArrowFunctionExpr) error {
	declR, err := v.rangeOf(a.DeclSpan)
	if err != nil {
		return err
	}
	bodyR, err := v.rangeOf(a.NodeSpan)
	if err != nil {
		return err
	}
	fnID, err := v.cmap.NewFunction("(anonymous)", declR, bodyR)
	if err != nil {
		return err
	}
	if err := v.visitParams(a.Params); err != nil {
		return err
	}
	v.push("Arrow")
	defer v.pop()

	if a.ExprBody {
		body := a.Body.(ast.Expr)
		visited, err := v.visitExpr(body)
		if err != nil {
			return err
		}
		a.Body = astgen.WrapExpr(astgen.FunctionCounter(v.covVar, fnID), visited)
		return nil
	}

	block := a.Body.(*ast.BlockStmt)
	list, err := v.visitStmtList(block.List)
	if err != nil {
		return err
	}
	block.List = append([]ast.Stmt{&ast.ExprStmt{X: astgen.FunctionCounter(v.covVar, fnID)}}, list...)
	return nil
}

// visitLogicalChain implements the Logical-Expression Visitor (spec §4.5,
// §4.6): same-operator runs are flattened into one branch with one path
// per leaf operand, each leaf wrapped with its path counter (and, when
// reportLogic is set, its bT truthy/falsy counters).
func (v *Visitor) visitLogicalChain(root *ast.LogicalExpr) (ast.Expr, error) {
	leaves := flattenSameOp(root, root.Op)
	for i, leaf := range leaves {
		visited, err := v.visitExpr(leaf)
		if err != nil {
			return nil, err
		}
		leaves[i] = visited
	}

	rootR, err := v.rangeOf(root.NodeSpan)
	if err != nil {
		return nil, err
	}
	firstR, err := v.rangeOf(leaves[0].Span())
	if err != nil {
		return nil, err
	}
	branchID, err := v.cmap.NewBranch(coverage.BranchBinaryExpr, rootR, firstR)
	if err != nil {
		return nil, err
	}
	for _, leaf := range leaves[1:] {
		r, err := v.rangeOf(leaf.Span())
		if err != nil {
			return nil, err
		}
		if _, err := v.cmap.AddBranchPath(branchID, r); err != nil {
			return nil, err
		}
	}
	if v.cfg.ReportLogic {
		if err := v.cmap.EnableTruthyFalsy(branchID); err != nil {
			return nil, err
		}
	}

	for i, leaf := range leaves {
		leaves[i] = astgen.LeafCounter(v.covVar, branchID, i, leaf, v.cfg.ReportLogic)
	}
	return rebuildLogical(leaves, root.Op), nil
}

// flattenSameOp collects the left-associative chain of LogicalExpr nodes
// sharing op into an ordered leaf list; a differently-operated LogicalExpr
// is a leaf of its own (it gets its own branch when visitExpr reaches it).
func flattenSameOp(e ast.Expr, op string) []ast.Expr {
	if le, ok := e.(*ast.LogicalExpr); ok && le.Op == op {
		return append(flattenSameOp(le.Left, op), le.Right)
	}
	return []ast.Expr{e}
}

// rebuildLogical re-assembles a left-associative chain from wrapped leaves.
func rebuildLogical(leaves []ast.Expr, op string) ast.Expr {
	acc := leaves[0]
	for _, leaf := range leaves[1:] {
		acc = &ast.LogicalExpr{Op: op, Left: acc, Right: leaf}
	}
	return acc
}

// visitConditional implements the Conditional rewrite rule: a two-path
// branch covering the consequent/alternate, each wrapped with its path
// counter.
func (v *Visitor) visitConditional(c *ast.ConditionalExpr) (ast.Expr, error) {
	test, err := v.visitExpr(c.Test)
	if err != nil {
		return nil, err
	}
	c.Test = test

	cons, err := v.visitExpr(c.Consequent)
	if err != nil {
		return nil, err
	}
	alt, err := v.visitExpr(c.Alternate)
	if err != nil {
		return nil, err
	}

	rootR, err := v.rangeOf(c.NodeSpan)
	if err != nil {
		return nil, err
	}
	consR, err := v.rangeOf(cons.Span())
	if err != nil {
		return nil, err
	}
	altR, err := v.rangeOf(alt.Span())
	if err != nil {
		return nil, err
	}
	branchID, err := v.cmap.NewBranch(coverage.BranchCondExpr, rootR, consR)
	if err != nil {
		return nil, err
	}
	if _, err := v.cmap.AddBranchPath(branchID, altR); err != nil {
		return nil, err
	}

	c.Consequent = astgen.LeafCounter(v.covVar, branchID, 0, cons, false)
	c.Alternate = astgen.LeafCounter(v.covVar, branchID, 1, alt, false)
	return c, nil
}
