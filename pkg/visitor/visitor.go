// Package visitor implements the Main Coverage Visitor: the tree-walk that
// allocates coverage ids and splices counter expressions into the program,
// per the rewrite rules in spec §4.6. It composes the Statement Visitor
// (prepend/replace splicing) and the Logical-Expression Visitor (branch-
// chain leaf wrapping) described in spec §4.5.
package visitor

import (
	"github.com/covinstrument/covinstrument/pkg/ast"
	"github.com/covinstrument/covinstrument/pkg/astgen"
	"github.com/covinstrument/covinstrument/pkg/config"
	"github.com/covinstrument/covinstrument/pkg/coverage"
	"github.com/covinstrument/covinstrument/pkg/errtype"
	"github.com/covinstrument/covinstrument/internal/directive"
	"github.com/covinstrument/covinstrument/pkg/source"
)

// Visitor walks a Program, registering statements, functions and branches
// in a coverage.Map and rewriting the tree in place with counter
// increments. One Visitor instruments exactly one file (spec §5: "one
// transformer per file; they share nothing").
type Visitor struct {
	cfg     config.Config
	covVar  string
	cmap    *coverage.Map
	pos     source.Service
	store   ast.CommentStore
	path    []string // NodePath: stack of enclosing node-kind tags
	inClass bool
}

// New returns a Visitor that will register coverage entries into cmap and
// emit counter calls against covVar, using pos to resolve spans and store
// to read ignore-hint comments.
func New(cfg config.Config, covVar string, cmap *coverage.Map, pos source.Service, store ast.CommentStore) *Visitor {
	return &Visitor{cfg: cfg, covVar: covVar, cmap: cmap, pos: pos, store: store}
}

func (v *Visitor) push(tag string) { v.path = append(v.path, tag) }
func (v *Visitor) pop()            { v.path = v.path[:len(v.path)-1] }

// enclosingFunc reports whether the current NodePath has a function-like
// frame. Nothing in the package calls it at present.
func (v *Visitor) enclosingFunc() bool {
	for i := len(v.path) - 1; i >= 0; i-- {
		switch v.path[i] {
		case "Func", "Arrow", "Method":
			return true
		}
	}
	return false
}

func (v *Visitor) rangeOf(span source.Span) (source.Range, error) {
	r, ok, err := source.RangeOf(v.pos, span)
	if err != nil {
		return source.Range{}, errtype.PositionLookupFailure(err, "visitor")
	}
	if !ok {
		return source.Range{}, nil
	}
	return r, nil
}

// VisitProgram rewrites prog in place. If the file carries an `istanbul
// ignore file` hint (checked at all four positions SPEC_FULL.md §D.4
// names), or already carries this visitor's own coverage preamble, it
// returns immediately without allocating anything.
func (v *Visitor) VisitProgram(prog *ast.Program) error {
	v.store = prog.Comments
	if directive.FileIgnored(prog) {
		return nil
	}
	if v.AlreadyInstrumented(prog) {
		return nil
	}
	v.push("Program")
	defer v.pop()
	body, err := v.visitStmtList(prog.Body)
	if err != nil {
		return err
	}
	prog.Body = body
	return nil
}

// AlreadyInstrumented reports whether prog.Body already begins with this
// visitor's own coverage preamble: the `function covVar() {...}` declaration
// and its eager `covVar();` self-call that Synthesize prepends (spec §1
// Non-goal "already-instrumented input is passed through unchanged";
// mirrors the original's is_instrumented_already guard in
// visit_mut_program). A second Transform pass over such a program is a
// no-op rather than re-registering the preamble's own body as user code.
func (v *Visitor) AlreadyInstrumented(prog *ast.Program) bool {
	if len(prog.Body) < 2 {
		return false
	}
	decl, ok := prog.Body[0].(*ast.FuncDecl)
	if !ok || decl.Name == nil || decl.Name.Name != v.covVar {
		return false
	}
	call, ok := prog.Body[1].(*ast.ExprStmt)
	if !ok {
		return false
	}
	ce, ok := call.X.(*ast.CallExpr)
	if !ok || len(ce.Args) != 0 {
		return false
	}
	callee, ok := ce.Callee.(*ast.Identifier)
	return ok && callee.Name == v.covVar
}

// visitStmtList is the Statement Visitor: it walks a statement list,
// allocating a statement counter for each top-level coverable statement
// (skipping declarations that are instrumented at finer grain instead:
// function/class declarations and variable declarations, whose pieces get
// their own ids) and recursing into each statement's nested structure.
func (v *Visitor) visitStmtList(list []ast.Stmt) ([]ast.Stmt, error) {
	out := make([]ast.Stmt, 0, len(list))
	for _, stmt := range list {
		rewritten, err := v.visitTopLevelStmt(stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, rewritten...)
	}
	return out, nil
}

func (v *Visitor) visitTopLevelStmt(stmt ast.Stmt) ([]ast.Stmt, error) {
	scope := directive.NodeScope(v.store, stmt)
	if scope == directive.ScopeNext {
		return []ast.Stmt{stmt}, nil
	}

	switch s := stmt.(type) {
	case *ast.FuncDecl:
		if err := v.visitFuncDecl(s); err != nil {
			return nil, err
		}
		return []ast.Stmt{s}, nil

	case *ast.ClassDecl:
		if err := v.visitClassDecl(s); err != nil {
			return nil, err
		}
		return []ast.Stmt{s}, nil

	case *ast.VarDeclStmt:
		if err := v.visitVarDecl(s); err != nil {
			return nil, err
		}
		return []ast.Stmt{s}, nil

	case *ast.BlockStmt:
		body, err := v.visitStmtList(s.List)
		if err != nil {
			return nil, err
		}
		s.List = body
		return v.prependCounter(s)

	default:
		// A statement that is itself a previously-injected counter
		// increment (spec §4.6 "Injected-counter recognition") is passed
		// through unchanged: it is not user code to recurse into, and
		// prepending a fresh counter in front of it would double-count
		// the statement it already covers.
		if es, ok := stmt.(*ast.ExprStmt); ok && astgen.IsCounterIncrement(v.covVar, es.X) {
			return []ast.Stmt{stmt}, nil
		}
		if err := v.recurseInto(stmt); err != nil {
			return nil, err
		}
		return v.prependCounter(stmt)
	}
}

// prependCounter allocates a statement id for stmt's own span and splices
// the counter increment in front of it.
func (v *Visitor) prependCounter(stmt ast.Stmt) ([]ast.Stmt, error) {
	r, err := v.rangeOf(stmt.Span())
	if err != nil {
		return nil, err
	}
	id, err := v.cmap.NewStatement(r)
	if err != nil {
		return nil, err
	}
	return astgen.PrependStatement(astgen.StatementCounter(v.covVar, id), stmt), nil
}

// recurseInto rewrites the nested statements/expressions a statement
// carries, without allocating an id for the statement itself (the caller
// does that once recursion returns).
func (v *Visitor) recurseInto(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		e, err := v.visitExpr(s.X)
		if err != nil {
			return err
		}
		s.X = e
	case *ast.ReturnStmt:
		if s.Arg != nil {
			e, err := v.visitExpr(s.Arg)
			if err != nil {
				return err
			}
			s.Arg = e
		}
	case *ast.ThrowStmt:
		e, err := v.visitExpr(s.Arg)
		if err != nil {
			return err
		}
		s.Arg = e
	case *ast.LabeledStmt:
		rewritten, err := v.visitTopLevelStmt(s.Body)
		if err != nil {
			return err
		}
		if len(rewritten) == 1 {
			s.Body = rewritten[0]
		} else {
			s.Body = &ast.BlockStmt{List: rewritten}
		}
	case *ast.IfStmt:
		return v.visitIf(s)
	case *ast.ForStmt:
		return v.visitFor(s)
	case *ast.ForInStmt:
		return v.visitForIn(s)
	case *ast.WhileStmt:
		return v.visitWhile(s)
	case *ast.DoWhileStmt:
		return v.visitDoWhile(s)
	case *ast.SwitchStmt:
		return v.visitSwitch(s)
	case *ast.ContinueStmt, *ast.BreakStmt, *ast.DebuggerStmt:
		// leaves, nothing to recurse into
	}
	return nil
}

// bodyAsStmtList visits a control-flow body, whether it's an explicit
// block or a single bare statement, and returns the rewritten Stmt to
// install back in the tree. A bare statement is instrumented the same as
// any top-level statement, exactly as if wrapped in a block.
func (v *Visitor) bodyAsStmtList(body ast.Stmt) (ast.Stmt, error) {
	if b, ok := body.(*ast.BlockStmt); ok {
		list, err := v.visitStmtList(b.List)
		if err != nil {
			return nil, err
		}
		b.List = list
		return b, nil
	}
	rewritten, err := v.visitTopLevelStmt(body)
	if err != nil {
		return nil, err
	}
	if len(rewritten) == 1 {
		return rewritten[0], nil
	}
	return &ast.BlockStmt{List: rewritten}, nil
}
