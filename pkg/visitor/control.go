package visitor

import (
	"github.com/covinstrument/covinstrument/internal/directive"
	"github.com/covinstrument/covinstrument/pkg/ast"
	"github.com/covinstrument/covinstrument/pkg/astgen"
	"github.com/covinstrument/covinstrument/pkg/coverage"
)

// ensureBlockVisited wraps stmt in a block if it isn't already one, visits
// the block's statement list, and returns the (possibly new) block.
func (v *Visitor) ensureBlockVisited(stmt ast.Stmt) (*ast.BlockStmt, error) {
	block, ok := stmt.(*ast.BlockStmt)
	if !ok {
		block = &ast.BlockStmt{List: []ast.Stmt{stmt}}
	}
	list, err := v.visitStmtList(block.List)
	if err != nil {
		return nil, err
	}
	block.List = list
	return block, nil
}

// visitIf implements the If rewrite rule (spec §4.6): a missing `else` is
// synthesized as an empty block so both branches always have somewhere to
// carry a counter, then a two-path "if" branch is allocated and each side
// gets its own branch-path counter, unless suppressed by an `istanbul
// ignore if`/`ignore else` hint on the statement.
func (v *Visitor) visitIf(s *ast.IfStmt) error {
	scope := directive.NodeScope(v.store, s)
	if s.Alternate == nil {
		s.Alternate = &ast.BlockStmt{}
	}

	ifR, err := v.rangeOf(s.NodeSpan)
	if err != nil {
		return err
	}
	consR, err := v.rangeOf(s.Consequent.Span())
	if err != nil {
		return err
	}
	altR, err := v.rangeOf(s.Alternate.Span())
	if err != nil {
		return err
	}
	branchID, err := v.cmap.NewBranch(coverage.BranchIf, ifR, consR)
	if err != nil {
		return err
	}
	if _, err := v.cmap.AddBranchPath(branchID, altR); err != nil {
		return err
	}

	consBlock, err := v.ensureBlockVisited(s.Consequent)
	if err != nil {
		return err
	}
	if scope != directive.ScopeIf {
		consBlock.List = append([]ast.Stmt{&ast.ExprStmt{X: astgen.BranchCounter(v.covVar, branchID, 0)}}, consBlock.List...)
	}
	s.Consequent = consBlock

	altBlock, err := v.ensureBlockVisited(s.Alternate)
	if err != nil {
		return err
	}
	if scope != directive.ScopeElse {
		altBlock.List = append([]ast.Stmt{&ast.ExprStmt{X: astgen.BranchCounter(v.covVar, branchID, 1)}}, altBlock.List...)
	}
	s.Alternate = altBlock

	test, err := v.visitExpr(s.Test)
	if err != nil {
		return err
	}
	s.Test = test
	return nil
}

func (v *Visitor) visitFor(s *ast.ForStmt) error {
	if s.Init != nil {
		switch init := s.Init.(type) {
		case *ast.VarDeclStmt:
			if err := v.visitVarDecl(init); err != nil {
				return err
			}
		case *ast.ExprStmt:
			e, err := v.visitExpr(init.X)
			if err != nil {
				return err
			}
			init.X = e
		}
	}
	if s.Test != nil {
		test, err := v.visitExpr(s.Test)
		if err != nil {
			return err
		}
		s.Test = test
	}
	if s.Update != nil {
		update, err := v.visitExpr(s.Update)
		if err != nil {
			return err
		}
		s.Update = update
	}
	body, err := v.bodyAsStmtList(s.Body)
	if err != nil {
		return err
	}
	s.Body = body
	return nil
}

func (v *Visitor) visitForIn(s *ast.ForInStmt) error {
	if vd, ok := s.Left.(*ast.VarDeclStmt); ok {
		if err := v.visitVarDecl(vd); err != nil {
			return err
		}
	}
	right, err := v.visitExpr(s.Right)
	if err != nil {
		return err
	}
	s.Right = right
	body, err := v.bodyAsStmtList(s.Body)
	if err != nil {
		return err
	}
	s.Body = body
	return nil
}

func (v *Visitor) visitWhile(s *ast.WhileStmt) error {
	test, err := v.visitExpr(s.Test)
	if err != nil {
		return err
	}
	s.Test = test
	body, err := v.bodyAsStmtList(s.Body)
	if err != nil {
		return err
	}
	s.Body = body
	return nil
}

func (v *Visitor) visitDoWhile(s *ast.DoWhileStmt) error {
	body, err := v.bodyAsStmtList(s.Body)
	if err != nil {
		return err
	}
	s.Body = body
	test, err := v.visitExpr(s.Test)
	if err != nil {
		return err
	}
	s.Test = test
	return nil
}

// visitSwitch implements the Switch rewrite rule: one branch covering all
// cases (each case's own span is a path location), and per
// SPEC_FULL.md §D.3 each case body receives only its branch-path counter
// — no separate statement id is allocated for the case as a whole (the
// statements inside it still get their own, via the normal statement
// list walk).
func (v *Visitor) visitSwitch(s *ast.SwitchStmt) error {
	disc, err := v.visitExpr(s.Discriminant)
	if err != nil {
		return err
	}
	s.Discriminant = disc

	if len(s.Cases) == 0 {
		return nil
	}
	swR, err := v.rangeOf(s.NodeSpan)
	if err != nil {
		return err
	}
	first, err := v.rangeOf(s.Cases[0].Span())
	if err != nil {
		return err
	}
	branchID, err := v.cmap.NewBranch(coverage.BranchSwitch, swR, first)
	if err != nil {
		return err
	}
	for i, c := range s.Cases {
		if i > 0 {
			r, err := v.rangeOf(c.Span())
			if err != nil {
				return err
			}
			if _, err := v.cmap.AddBranchPath(branchID, r); err != nil {
				return err
			}
		}
		list, err := v.visitStmtList(c.Body)
		if err != nil {
			return err
		}
		c.Body = append([]ast.Stmt{&ast.ExprStmt{X: astgen.BranchCounter(v.covVar, branchID, i)}}, list...)
	}
	return nil
}
