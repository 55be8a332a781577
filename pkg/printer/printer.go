// Package printer is a minimal debug renderer for the pkg/ast node set. It
// is NOT the spec's printer collaborator (the real host toolchain owns
// faithful source reproduction); this renderer exists only so pkg/runner
// can produce a dry-run diff and so golden tests have something concrete
// to assert against.
package printer

import (
	"fmt"
	"strings"

	"github.com/covinstrument/covinstrument/pkg/ast"
)

// Print renders prog as indented JS-like source text.
func Print(prog *ast.Program) string {
	p := &printer{}
	for _, s := range prog.Body {
		p.stmt(s)
	}
	return p.b.String()
}

type printer struct {
	b     strings.Builder
	depth int
}

func (p *printer) indent() string { return strings.Repeat("  ", p.depth) }

func (p *printer) line(format string, args ...interface{}) {
	p.b.WriteString(p.indent())
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteByte('\n')
}

func (p *printer) block(b *ast.BlockStmt) {
	p.b.WriteString("{\n")
	p.depth++
	for _, s := range b.List {
		p.stmt(s)
	}
	p.depth--
	p.b.WriteString(p.indent())
	p.b.WriteString("}")
}

func paramList(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, pr := range params {
		if pr.Default != nil {
			parts[i] = pr.Name.Name + " = " + expr(pr.Default)
		} else {
			parts[i] = pr.Name.Name
		}
	}
	return strings.Join(parts, ", ")
}

func (p *printer) stmt(s ast.Stmt) {
	switch v := s.(type) {
	case *ast.ExprStmt:
		p.line("%s;", expr(v.X))
	case *ast.BlockStmt:
		p.b.WriteString(p.indent())
		p.block(v)
		p.b.WriteString("\n")
	case *ast.VarDeclStmt:
		parts := make([]string, len(v.Decls))
		for i, d := range v.Decls {
			if d.Init != nil {
				parts[i] = d.Id.Name + " = " + expr(d.Init)
			} else {
				parts[i] = d.Id.Name
			}
		}
		p.line("%s %s;", v.Kind, strings.Join(parts, ", "))
	case *ast.FuncDecl:
		name := ""
		if v.Name != nil {
			name = v.Name.Name
		}
		p.b.WriteString(p.indent())
		fmt.Fprintf(&p.b, "function %s(%s) ", name, paramList(v.Params))
		p.block(v.Body)
		p.b.WriteString("\n")
	case *ast.ReturnStmt:
		if v.Arg != nil {
			p.line("return %s;", expr(v.Arg))
		} else {
			p.line("return;")
		}
	case *ast.ContinueStmt:
		if v.Label != "" {
			p.line("continue %s;", v.Label)
		} else {
			p.line("continue;")
		}
	case *ast.BreakStmt:
		if v.Label != "" {
			p.line("break %s;", v.Label)
		} else {
			p.line("break;")
		}
	case *ast.LabeledStmt:
		p.line("%s:", v.Label)
		p.stmt(v.Body)
	case *ast.ThrowStmt:
		p.line("throw %s;", expr(v.Arg))
	case *ast.DebuggerStmt:
		p.line("debugger;")
	case *ast.IfStmt:
		p.b.WriteString(p.indent())
		fmt.Fprintf(&p.b, "if (%s) ", expr(v.Test))
		p.blockOrStmt(v.Consequent)
		if v.Alternate != nil {
			p.b.WriteString(" else ")
			p.blockOrStmt(v.Alternate)
		}
		p.b.WriteString("\n")
	case *ast.ForStmt:
		init, test, update := "", "", ""
		if v.Init != nil {
			init = strings.TrimSuffix(strings.TrimSpace(renderInline(v.Init)), ";")
		}
		if v.Test != nil {
			test = expr(v.Test)
		}
		if v.Update != nil {
			update = expr(v.Update)
		}
		p.b.WriteString(p.indent())
		fmt.Fprintf(&p.b, "for (%s; %s; %s) ", init, test, update)
		p.blockOrStmt(v.Body)
		p.b.WriteString("\n")
	case *ast.ForInStmt:
		kw := "in"
		if v.Of {
			kw = "of"
		}
		p.b.WriteString(p.indent())
		fmt.Fprintf(&p.b, "for (%s %s %s) ", strings.TrimSuffix(strings.TrimSpace(renderInline(v.Left)), ";"), kw, expr(v.Right))
		p.blockOrStmt(v.Body)
		p.b.WriteString("\n")
	case *ast.WhileStmt:
		p.b.WriteString(p.indent())
		fmt.Fprintf(&p.b, "while (%s) ", expr(v.Test))
		p.blockOrStmt(v.Body)
		p.b.WriteString("\n")
	case *ast.DoWhileStmt:
		p.b.WriteString(p.indent())
		p.b.WriteString("do ")
		p.blockOrStmt(v.Body)
		fmt.Fprintf(&p.b, " while (%s);\n", expr(v.Test))
	case *ast.SwitchStmt:
		p.line("switch (%s) {", expr(v.Discriminant))
		p.depth++
		for _, c := range v.Cases {
			if c.Test != nil {
				p.line("case %s:", expr(c.Test))
			} else {
				p.line("default:")
			}
			p.depth++
			for _, st := range c.Body {
				p.stmt(st)
			}
			p.depth--
		}
		p.depth--
		p.line("}")
	case *ast.ClassDecl:
		name := ""
		if v.Name != nil {
			name = v.Name.Name
		}
		p.line("class %s {", name)
		p.depth++
		for _, m := range v.Members {
			p.classMember(m)
		}
		p.depth--
		p.line("}")
	default:
		p.line("/* unhandled statement %T */", s)
	}
}

func (p *printer) classMember(m ast.ClassMember) {
	switch v := m.(type) {
	case *ast.MethodDef:
		prefix := ""
		if v.Static {
			prefix = "static "
		}
		p.b.WriteString(p.indent())
		fmt.Fprintf(&p.b, "%s%s(%s) ", prefix, v.Name.Name, paramList(v.Params))
		p.block(v.Body)
		p.b.WriteString("\n")
	case *ast.PropertyDef:
		prefix := ""
		if v.Static {
			prefix = "static "
		}
		name := v.Name.Name
		if v.Private {
			name = "#" + name
		}
		if v.Value != nil {
			p.line("%s%s = %s;", prefix, name, expr(v.Value))
		} else {
			p.line("%s%s;", prefix, name)
		}
	}
}

func (p *printer) blockOrStmt(s ast.Stmt) {
	if b, ok := s.(*ast.BlockStmt); ok {
		p.block(b)
		return
	}
	p.b.WriteString("\n")
	p.depth++
	p.stmt(s)
	p.depth--
}

// renderInline prints a single statement without its own indentation,
// used for the for-loop init clause.
func renderInline(s ast.Stmt) string {
	sub := &printer{}
	sub.stmt(s)
	return strings.TrimSpace(sub.b.String())
}

func expr(e ast.Expr) string {
	switch v := e.(type) {
	case nil:
		return ""
	case *ast.Identifier:
		return v.Name
	case *ast.ThisExpr:
		return "this"
	case *ast.NumberLiteral:
		return v.Raw
	case *ast.StringLiteral:
		return v.Raw
	case *ast.BooleanLiteral:
		if v.Value {
			return "true"
		}
		return "false"
	case *ast.NullLiteral:
		return "null"
	case *ast.MemberExpr:
		if v.Computed {
			return fmt.Sprintf("%s[%s]", expr(v.Object), expr(v.Property))
		}
		return fmt.Sprintf("%s.%s", expr(v.Object), expr(v.Property))
	case *ast.CallExpr:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = expr(a)
		}
		return fmt.Sprintf("%s(%s)", expr(v.Callee), strings.Join(args, ", "))
	case *ast.SequenceExpr:
		parts := make([]string, len(v.Exprs))
		for i, e := range v.Exprs {
			parts[i] = expr(e)
		}
		return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", expr(v.Left), v.Op, expr(v.Right))
	case *ast.LogicalExpr:
		return fmt.Sprintf("(%s %s %s)", expr(v.Left), v.Op, expr(v.Right))
	case *ast.ConditionalExpr:
		return fmt.Sprintf("(%s ? %s : %s)", expr(v.Test), expr(v.Consequent), expr(v.Alternate))
	case *ast.AssignExpr:
		return fmt.Sprintf("%s %s %s", expr(v.Left), v.Op, expr(v.Right))
	case *ast.UnaryExpr:
		return fmt.Sprintf("%s%s", v.Op, expr(v.X))
	case *ast.UpdateExpr:
		if v.Prefix {
			return fmt.Sprintf("%s%s", v.Op, expr(v.X))
		}
		return fmt.Sprintf("%s%s", expr(v.X), v.Op)
	case *ast.ArrowFunctionExpr:
		body := ""
		if v.ExprBody {
			body = expr(v.Body.(ast.Expr))
		} else {
			sub := &printer{}
			sub.block(v.Body.(*ast.BlockStmt))
			body = sub.b.String()
		}
		return fmt.Sprintf("(%s) => %s", paramList(v.Params), body)
	case *ast.FunctionExpr:
		name := ""
		if v.Name != nil {
			name = v.Name.Name
		}
		sub := &printer{}
		sub.block(v.Body)
		return fmt.Sprintf("function %s(%s) %s", name, paramList(v.Params), sub.b.String())
	case *ast.ArrayExpr:
		parts := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			parts[i] = expr(el)
		}
		return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
	case *ast.ObjectExpr:
		parts := make([]string, len(v.Properties))
		for i, pr := range v.Properties {
			key := pr.Key
			if pr.Computed {
				key = "[" + key + "]"
			}
			parts[i] = fmt.Sprintf("%s: %s", key, expr(pr.Value))
		}
		return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
	default:
		return fmt.Sprintf("/* unhandled expr %T */", e)
	}
}
