package visitor

import (
	"github.com/covinstrument/covinstrument/pkg/ast"
	"github.com/covinstrument/covinstrument/pkg/astgen"
	"github.com/covinstrument/covinstrument/pkg/coverage"
	"github.com/covinstrument/covinstrument/pkg/source"
)

// isIgnoredMethod reports whether name exactly matches one of the
// configured ignoreClassMethods entries (SPEC_FULL.md §D.2: exact string
// match, not a glob).
func (v *Visitor) isIgnoredMethod(name string) bool {
	for _, m := range v.cfg.IgnoreClassMethods {
		if m == name {
			return true
		}
	}
	return false
}

// visitParams instruments default-argument expressions (spec §4.6
// "Default-argument expression"): each parameter default gets a one-path
// branch recording whether the default was evaluated.
func (v *Visitor) visitParams(params []*ast.Param) error {
	for _, p := range params {
		if p.Default == nil {
			continue
		}
		visited, err := v.visitExpr(p.Default)
		if err != nil {
			return err
		}
		r, err := v.rangeOf(p.Default.Span())
		if err != nil {
			return err
		}
		id, err := v.cmap.NewBranch(coverage.BranchDefaultArg, r, r)
		if err != nil {
			return err
		}
		p.Default = astgen.LeafCounter(v.covVar, id, 0, visited, false)
	}
	return nil
}

func nameOf(id *ast.Identifier) string {
	if id == nil {
		return "(anonymous)"
	}
	return id.Name
}

// instrumentFunction allocates the function id for name/declSpan/bodySpan,
// instruments its default-argument parameters, prepends the function
// counter to its body, and recurses into the statement list. It's the
// shared core for function declarations, function expressions and class
// methods; arrow functions go through visitArrowBody instead.
func (v *Visitor) instrumentFunction(name string, params []*ast.Param, body *ast.BlockStmt, declSpan, bodySpan source.Span) error {
	declR, err := v.rangeOf(declSpan)
	if err != nil {
		return err
	}
	bodyR, err := v.rangeOf(bodySpan)
	if err != nil {
		return err
	}
	fnID, err := v.cmap.NewFunction(name, declR, bodyR)
	if err != nil {
		return err
	}
	if err := v.visitParams(params); err != nil {
		return err
	}
	v.push("Func")
	list, err := v.visitStmtList(body.List)
	v.pop()
	if err != nil {
		return err
	}
	body.List = append([]ast.Stmt{&ast.ExprStmt{X: astgen.FunctionCounter(v.covVar, fnID)}}, list...)
	return nil
}

func (v *Visitor) visitFuncDecl(d *ast.FuncDecl) error {
	if v.inClass && v.isIgnoredMethod(nameOf(d.Name)) {
		return nil
	}
	return v.instrumentFunction(nameOf(d.Name), d.Params, d.Body, d.DeclSpan, d.NodeSpan)
}

func (v *Visitor) visitClassDecl(c *ast.ClassDecl) error {
	prevInClass := v.inClass
	v.inClass = true
	v.push("Class")
	defer func() { v.inClass = prevInClass; v.pop() }()

	for _, m := range c.Members {
		switch member := m.(type) {
		case *ast.MethodDef:
			if v.isIgnoredMethod(nameOf(member.Name)) {
				continue
			}
			v.push("Method")
			err := v.instrumentFunction(nameOf(member.Name), member.Params, member.Body, member.DeclSpan, member.NodeSpan)
			v.pop()
			if err != nil {
				return err
			}
		case *ast.PropertyDef:
			if member.Value == nil {
				continue
			}
			visited, err := v.visitExpr(member.Value)
			if err != nil {
				return err
			}
			r, err := v.rangeOf(member.NodeSpan)
			if err != nil {
				return err
			}
			id, err := v.cmap.NewStatement(r)
			if err != nil {
				return err
			}
			member.Value = astgen.WrapExpr(astgen.StatementCounter(v.covVar, id), visited)
		}
	}
	return nil
}

func (v *Visitor) visitVarDecl(d *ast.VarDeclStmt) error {
	for _, decl := range d.Decls {
		if decl.Init == nil {
			continue
		}
		switch init := decl.Init.(type) {
		case *ast.FunctionExpr:
			if err := v.instrumentFunction(nameOf(init.Name), init.Params, init.Body, init.DeclSpan, init.NodeSpan); err != nil {
				return err
			}
		case *ast.ArrowFunctionExpr:
			if err := v.visitArrowBody(init); err != nil {
				return err
			}
		default:
			visited, err := v.visitExpr(decl.Init)
			if err != nil {
				return err
			}
			decl.Init = visited
		}
		// Declarator wrapping applies uniformly, including to function/arrow
		// expression initializers (SPEC_FULL.md §D.1).
		r, err := v.rangeOf(decl.NodeSpan)
		if err != nil {
			return err
		}
		id, err := v.cmap.NewStatement(r)
		if err != nil {
			return err
		}
		decl.Init = astgen.WrapExpr(astgen.StatementCounter(v.covVar, id), decl.Init)
	}
	return nil
}
