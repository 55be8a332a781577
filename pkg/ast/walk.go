package ast

// Inspect traverses n depth-first, calling fn(n) before visiting n's
// children. If fn returns false, n's children are skipped. Modeled on
// go/ast.Inspect, generalized to the Stmt/Expr/ClassMember node set above;
// used by internal/loader's comment attachment, which only needs to read the
// tree, never rewrite it in place.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch v := n.(type) {
	case *Program:
		for _, s := range v.Body {
			Inspect(s, fn)
		}
	// expressions
	case *Identifier, *ThisExpr, *NumberLiteral, *StringLiteral, *BooleanLiteral, *NullLiteral:
		// leaves
	case *MemberExpr:
		Inspect(v.Object, fn)
		Inspect(v.Property, fn)
	case *CallExpr:
		Inspect(v.Callee, fn)
		for _, a := range v.Args {
			Inspect(a, fn)
		}
	case *SequenceExpr:
		for _, e := range v.Exprs {
			Inspect(e, fn)
		}
	case *BinaryExpr:
		Inspect(v.Left, fn)
		Inspect(v.Right, fn)
	case *LogicalExpr:
		Inspect(v.Left, fn)
		Inspect(v.Right, fn)
	case *ConditionalExpr:
		Inspect(v.Test, fn)
		Inspect(v.Consequent, fn)
		Inspect(v.Alternate, fn)
	case *AssignExpr:
		Inspect(v.Left, fn)
		Inspect(v.Right, fn)
	case *UnaryExpr:
		Inspect(v.X, fn)
	case *UpdateExpr:
		Inspect(v.X, fn)
	case *ArrowFunctionExpr:
		for _, p := range v.Params {
			inspectParam(p, fn)
		}
		Inspect(v.Body, fn)
	case *FunctionExpr:
		if v.Name != nil {
			Inspect(v.Name, fn)
		}
		for _, p := range v.Params {
			inspectParam(p, fn)
		}
		Inspect(v.Body, fn)
	case *ArrayExpr:
		for _, e := range v.Elements {
			if e != nil {
				Inspect(e, fn)
			}
		}
	case *ObjectExpr:
		for _, p := range v.Properties {
			if p.Value != nil {
				Inspect(p.Value, fn)
			}
		}

	// statements
	case *ExprStmt:
		Inspect(v.X, fn)
	case *BlockStmt:
		for _, s := range v.List {
			Inspect(s, fn)
		}
	case *VariableDeclarator:
		Inspect(v.Id, fn)
		if v.Init != nil {
			Inspect(v.Init, fn)
		}
	case *VarDeclStmt:
		for _, d := range v.Decls {
			Inspect(d, fn)
		}
	case *FuncDecl:
		if v.Name != nil {
			Inspect(v.Name, fn)
		}
		for _, p := range v.Params {
			inspectParam(p, fn)
		}
		Inspect(v.Body, fn)
	case *ReturnStmt:
		if v.Arg != nil {
			Inspect(v.Arg, fn)
		}
	case *ContinueStmt, *BreakStmt, *DebuggerStmt:
		// leaves
	case *LabeledStmt:
		Inspect(v.Body, fn)
	case *ThrowStmt:
		Inspect(v.Arg, fn)
	case *IfStmt:
		Inspect(v.Test, fn)
		Inspect(v.Consequent, fn)
		if v.Alternate != nil {
			Inspect(v.Alternate, fn)
		}
	case *ForStmt:
		if v.Init != nil {
			Inspect(v.Init, fn)
		}
		if v.Test != nil {
			Inspect(v.Test, fn)
		}
		if v.Update != nil {
			Inspect(v.Update, fn)
		}
		Inspect(v.Body, fn)
	case *ForInStmt:
		Inspect(v.Left, fn)
		Inspect(v.Right, fn)
		Inspect(v.Body, fn)
	case *WhileStmt:
		Inspect(v.Test, fn)
		Inspect(v.Body, fn)
	case *DoWhileStmt:
		Inspect(v.Body, fn)
		Inspect(v.Test, fn)
	case *SwitchCase:
		if v.Test != nil {
			Inspect(v.Test, fn)
		}
		for _, s := range v.Body {
			Inspect(s, fn)
		}
	case *SwitchStmt:
		Inspect(v.Discriminant, fn)
		for _, c := range v.Cases {
			Inspect(c, fn)
		}
	case *MethodDef:
		Inspect(v.Name, fn)
		for _, p := range v.Params {
			inspectParam(p, fn)
		}
		Inspect(v.Body, fn)
	case *PropertyDef:
		Inspect(v.Name, fn)
		if v.Value != nil {
			Inspect(v.Value, fn)
		}
	case *ClassDecl:
		if v.Name != nil {
			Inspect(v.Name, fn)
		}
		for _, m := range v.Members {
			Inspect(m, fn)
		}
	}
}

// inspectParam visits a parameter's name and, if present, default-value
// expression. Param itself carries no source span and so isn't a Node.
func inspectParam(p *Param, fn func(Node) bool) {
	Inspect(p.Name, fn)
	if p.Default != nil {
		Inspect(p.Default, fn)
	}
}
