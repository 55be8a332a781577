package loader

import (
	"encoding/json"

	"github.com/covinstrument/covinstrument/pkg/ast"
	"github.com/covinstrument/covinstrument/pkg/errtype"
	"github.com/covinstrument/covinstrument/pkg/source"
)

func (d *decoder) block(raw json.RawMessage) (*ast.BlockStmt, error) {
	n, err := peekType(raw)
	if err != nil {
		return nil, err
	}
	var v struct {
		Body []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errtype.SerializationFailure(err, "decode block")
	}
	list, err := d.stmtList(v.Body)
	if err != nil {
		return nil, err
	}
	return &ast.BlockStmt{List: list, NodeSpan: span(n)}, nil
}

func (d *decoder) stmt(raw json.RawMessage) (ast.Stmt, error) {
	n, err := peekType(raw)
	if err != nil {
		return nil, err
	}
	sp := span(n)
	switch n.Type {
	case "BlockStatement":
		return d.block(raw)

	case "ExpressionStatement":
		var v struct {
			Expression json.RawMessage `json:"expression"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode expr stmt")
		}
		x, err := d.expr(v.Expression)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{X: x, NodeSpan: sp}, nil

	case "VariableDeclaration":
		var v struct {
			Kind         string            `json:"kind"`
			Declarations []json.RawMessage `json:"declarations"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode var decl")
		}
		decls := make([]*ast.VariableDeclarator, 0, len(v.Declarations))
		for _, dr := range v.Declarations {
			dn, err := peekType(dr)
			if err != nil {
				return nil, err
			}
			var dv struct {
				Id   json.RawMessage `json:"id"`
				Init json.RawMessage `json:"init"`
			}
			if err := json.Unmarshal(dr, &dv); err != nil {
				return nil, errtype.SerializationFailure(err, "decode declarator")
			}
			id, err := d.ident(dv.Id)
			if err != nil {
				return nil, err
			}
			var init ast.Expr
			if len(dv.Init) > 0 && string(dv.Init) != "null" {
				init, err = d.expr(dv.Init)
				if err != nil {
					return nil, err
				}
			}
			decls = append(decls, &ast.VariableDeclarator{Id: id, Init: init, NodeSpan: span(dn)})
		}
		return &ast.VarDeclStmt{Kind: v.Kind, Decls: decls, NodeSpan: sp}, nil

	case "FunctionDeclaration":
		return d.funcDecl(raw, n)

	case "ReturnStatement":
		var v struct {
			Argument json.RawMessage `json:"argument"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode return")
		}
		var arg ast.Expr
		if len(v.Argument) > 0 && string(v.Argument) != "null" {
			var err error
			arg, err = d.expr(v.Argument)
			if err != nil {
				return nil, err
			}
		}
		return &ast.ReturnStmt{Arg: arg, NodeSpan: sp}, nil

	case "ContinueStatement":
		var v struct {
			Label *struct{ Name string } `json:"label"`
		}
		_ = json.Unmarshal(raw, &v)
		label := ""
		if v.Label != nil {
			label = v.Label.Name
		}
		return &ast.ContinueStmt{Label: label, NodeSpan: sp}, nil

	case "BreakStatement":
		var v struct {
			Label *struct{ Name string } `json:"label"`
		}
		_ = json.Unmarshal(raw, &v)
		label := ""
		if v.Label != nil {
			label = v.Label.Name
		}
		return &ast.BreakStmt{Label: label, NodeSpan: sp}, nil

	case "LabeledStatement":
		var v struct {
			Label struct{ Name string } `json:"label"`
			Body  json.RawMessage       `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode labeled stmt")
		}
		body, err := d.stmt(v.Body)
		if err != nil {
			return nil, err
		}
		return &ast.LabeledStmt{Label: v.Label.Name, Body: body, NodeSpan: sp}, nil

	case "ThrowStatement":
		var v struct {
			Argument json.RawMessage `json:"argument"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode throw")
		}
		arg, err := d.expr(v.Argument)
		if err != nil {
			return nil, err
		}
		return &ast.ThrowStmt{Arg: arg, NodeSpan: sp}, nil

	case "DebuggerStatement":
		return &ast.DebuggerStmt{NodeSpan: sp}, nil

	case "IfStatement":
		var v struct {
			Test       json.RawMessage `json:"test"`
			Consequent json.RawMessage `json:"consequent"`
			Alternate  json.RawMessage `json:"alternate"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode if")
		}
		test, err := d.expr(v.Test)
		if err != nil {
			return nil, err
		}
		cons, err := d.stmt(v.Consequent)
		if err != nil {
			return nil, err
		}
		var alt ast.Stmt
		if len(v.Alternate) > 0 && string(v.Alternate) != "null" {
			alt, err = d.stmt(v.Alternate)
			if err != nil {
				return nil, err
			}
		}
		return &ast.IfStmt{Test: test, Consequent: cons, Alternate: alt, NodeSpan: sp}, nil

	case "ForStatement":
		var v struct {
			Init   json.RawMessage `json:"init"`
			Test   json.RawMessage `json:"test"`
			Update json.RawMessage `json:"update"`
			Body   json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode for")
		}
		var init ast.Stmt
		if len(v.Init) > 0 && string(v.Init) != "null" {
			in, err := peekType(v.Init)
			if err != nil {
				return nil, err
			}
			if in.Type == "VariableDeclaration" {
				init, err = d.stmt(v.Init)
			} else {
				var e ast.Expr
				e, err = d.expr(v.Init)
				if err == nil {
					init = &ast.ExprStmt{X: e, NodeSpan: e.Span()}
				}
			}
			if err != nil {
				return nil, err
			}
		}
		var test, update ast.Expr
		var err error
		if len(v.Test) > 0 && string(v.Test) != "null" {
			if test, err = d.expr(v.Test); err != nil {
				return nil, err
			}
		}
		if len(v.Update) > 0 && string(v.Update) != "null" {
			if update, err = d.expr(v.Update); err != nil {
				return nil, err
			}
		}
		body, err := d.stmt(v.Body)
		if err != nil {
			return nil, err
		}
		return &ast.ForStmt{Init: init, Test: test, Update: update, Body: body, NodeSpan: sp}, nil

	case "ForInStatement", "ForOfStatement":
		var v struct {
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
			Body  json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode for-in/of")
		}
		left, err := d.stmt(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.expr(v.Right)
		if err != nil {
			return nil, err
		}
		body, err := d.stmt(v.Body)
		if err != nil {
			return nil, err
		}
		return &ast.ForInStmt{Left: left, Right: right, Body: body, Of: n.Type == "ForOfStatement", NodeSpan: sp}, nil

	case "WhileStatement":
		var v struct {
			Test json.RawMessage `json:"test"`
			Body json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode while")
		}
		test, err := d.expr(v.Test)
		if err != nil {
			return nil, err
		}
		body, err := d.stmt(v.Body)
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{Test: test, Body: body, NodeSpan: sp}, nil

	case "DoWhileStatement":
		var v struct {
			Test json.RawMessage `json:"test"`
			Body json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode do-while")
		}
		body, err := d.stmt(v.Body)
		if err != nil {
			return nil, err
		}
		test, err := d.expr(v.Test)
		if err != nil {
			return nil, err
		}
		return &ast.DoWhileStmt{Body: body, Test: test, NodeSpan: sp}, nil

	case "SwitchStatement":
		var v struct {
			Discriminant json.RawMessage   `json:"discriminant"`
			Cases        []json.RawMessage `json:"cases"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode switch")
		}
		disc, err := d.expr(v.Discriminant)
		if err != nil {
			return nil, err
		}
		cases := make([]*ast.SwitchCase, 0, len(v.Cases))
		for _, cr := range v.Cases {
			cn, err := peekType(cr)
			if err != nil {
				return nil, err
			}
			var cv struct {
				Test       json.RawMessage   `json:"test"`
				Consequent []json.RawMessage `json:"consequent"`
			}
			if err := json.Unmarshal(cr, &cv); err != nil {
				return nil, errtype.SerializationFailure(err, "decode case")
			}
			var test ast.Expr
			if len(cv.Test) > 0 && string(cv.Test) != "null" {
				test, err = d.expr(cv.Test)
				if err != nil {
					return nil, err
				}
			}
			body, err := d.stmtList(cv.Consequent)
			if err != nil {
				return nil, err
			}
			cases = append(cases, &ast.SwitchCase{Test: test, Body: body, NodeSpan: span(cn)})
		}
		return &ast.SwitchStmt{Discriminant: disc, Cases: cases, NodeSpan: sp}, nil

	case "ClassDeclaration":
		return d.classDecl(raw, n)

	default:
		return nil, errtype.UnsupportedConstruct("statement kind "+n.Type, "")
	}
}

func (d *decoder) funcDecl(raw json.RawMessage, n node) (*ast.FuncDecl, error) {
	var v struct {
		Id     json.RawMessage   `json:"id"`
		Params []json.RawMessage `json:"params"`
		Body   json.RawMessage   `json:"body"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errtype.SerializationFailure(err, "decode function decl")
	}
	name, err := d.ident(v.Id)
	if err != nil {
		return nil, err
	}
	params, err := d.params(v.Params)
	if err != nil {
		return nil, err
	}
	body, err := d.block(v.Body)
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Name: name, Params: params, Body: body, DeclSpan: span(n), NodeSpan: span(n)}, nil
}

func (d *decoder) classDecl(raw json.RawMessage, n node) (*ast.ClassDecl, error) {
	var v struct {
		Id   json.RawMessage   `json:"id"`
		Body struct {
			Body []json.RawMessage `json:"body"`
		} `json:"body"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errtype.SerializationFailure(err, "decode class decl")
	}
	name, err := d.ident(v.Id)
	if err != nil {
		return nil, err
	}
	members := make([]ast.ClassMember, 0, len(v.Body.Body))
	for _, mr := range v.Body.Body {
		mn, err := peekType(mr)
		if err != nil {
			return nil, err
		}
		switch mn.Type {
		case "ClassMethod", "MethodDefinition":
			var mv struct {
				Key    json.RawMessage   `json:"key"`
				Kind   string            `json:"kind"`
				Static bool              `json:"static"`
				Params []json.RawMessage `json:"params"`
				Body   json.RawMessage   `json:"body"`
			}
			if err := json.Unmarshal(mr, &mv); err != nil {
				return nil, errtype.SerializationFailure(err, "decode class method")
			}
			key, err := d.ident(mv.Key)
			if err != nil {
				return nil, err
			}
			params, err := d.params(mv.Params)
			if err != nil {
				return nil, err
			}
			body, err := d.block(mv.Body)
			if err != nil {
				return nil, err
			}
			kind := mv.Kind
			if kind == "" {
				kind = "method"
			}
			members = append(members, &ast.MethodDef{
				Name: key, Kind: kind, Params: params, Body: body, Static: mv.Static,
				DeclSpan: span(mn), NodeSpan: span(mn),
			})
		case "ClassProperty", "PropertyDefinition":
			var mv struct {
				Key      json.RawMessage `json:"key"`
				Value    json.RawMessage `json:"value"`
				Static   bool            `json:"static"`
				Computed bool            `json:"computed"`
			}
			if err := json.Unmarshal(mr, &mv); err != nil {
				return nil, errtype.SerializationFailure(err, "decode class property")
			}
			key, err := d.ident(mv.Key)
			if err != nil {
				return nil, err
			}
			var value ast.Expr
			if len(mv.Value) > 0 && string(mv.Value) != "null" {
				value, err = d.expr(mv.Value)
				if err != nil {
					return nil, err
				}
			}
			private := key != nil && len(key.Name) > 0 && key.Name[0] == '#'
			members = append(members, &ast.PropertyDef{
				Name: key, Value: value, Static: mv.Static, Private: private, NodeSpan: span(mn),
			})
		default:
			return nil, errtype.UnsupportedConstruct("class member kind "+mn.Type, "")
		}
	}
	return &ast.ClassDecl{Name: name, Members: members, NodeSpan: span(n)}, nil
}

func (d *decoder) expr(raw json.RawMessage) (ast.Expr, error) {
	n, err := peekType(raw)
	if err != nil {
		return nil, err
	}
	sp := span(n)
	switch n.Type {
	case "Identifier":
		return d.ident(raw)

	case "ThisExpression":
		return &ast.ThisExpr{NodeSpan: sp}, nil

	case "NumericLiteral", "NumberLiteral":
		var v struct {
			Raw string `json:"raw"`
		}
		_ = json.Unmarshal(raw, &v)
		return &ast.NumberLiteral{Raw: v.Raw, NodeSpan: sp}, nil

	case "StringLiteral":
		var v struct {
			Raw   string `json:"raw"`
			Value string `json:"value"`
		}
		_ = json.Unmarshal(raw, &v)
		raw := v.Raw
		if raw == "" {
			raw = `"` + v.Value + `"`
		}
		return &ast.StringLiteral{Raw: raw, NodeSpan: sp}, nil

	case "BooleanLiteral":
		var v struct {
			Value bool `json:"value"`
		}
		_ = json.Unmarshal(raw, &v)
		return &ast.BooleanLiteral{Value: v.Value, NodeSpan: sp}, nil

	case "NullLiteral":
		return &ast.NullLiteral{NodeSpan: sp}, nil

	case "MemberExpression":
		var v struct {
			Object   json.RawMessage `json:"object"`
			Property json.RawMessage `json:"property"`
			Computed bool            `json:"computed"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode member expr")
		}
		obj, err := d.expr(v.Object)
		if err != nil {
			return nil, err
		}
		prop, err := d.expr(v.Property)
		if err != nil {
			return nil, err
		}
		return &ast.MemberExpr{Object: obj, Property: prop, Computed: v.Computed, NodeSpan: sp}, nil

	case "CallExpression":
		var v struct {
			Callee    json.RawMessage   `json:"callee"`
			Arguments []json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode call expr")
		}
		callee, err := d.expr(v.Callee)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expr, 0, len(v.Arguments))
		for _, ar := range v.Arguments {
			a, err := d.expr(ar)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		return &ast.CallExpr{Callee: callee, Args: args, NodeSpan: sp}, nil

	case "SequenceExpression":
		var v struct {
			Expressions []json.RawMessage `json:"expressions"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode sequence expr")
		}
		exprs := make([]ast.Expr, 0, len(v.Expressions))
		for _, er := range v.Expressions {
			e, err := d.expr(er)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, e)
		}
		return &ast.SequenceExpr{Exprs: exprs, NodeSpan: sp}, nil

	case "BinaryExpression":
		return d.binaryLike(raw, sp, false)

	case "LogicalExpression":
		return d.binaryLike(raw, sp, true)

	case "ConditionalExpression":
		var v struct {
			Test       json.RawMessage `json:"test"`
			Consequent json.RawMessage `json:"consequent"`
			Alternate  json.RawMessage `json:"alternate"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode conditional")
		}
		test, err := d.expr(v.Test)
		if err != nil {
			return nil, err
		}
		cons, err := d.expr(v.Consequent)
		if err != nil {
			return nil, err
		}
		alt, err := d.expr(v.Alternate)
		if err != nil {
			return nil, err
		}
		return &ast.ConditionalExpr{Test: test, Consequent: cons, Alternate: alt, NodeSpan: sp}, nil

	case "AssignmentExpression":
		var v struct {
			Operator string          `json:"operator"`
			Left     json.RawMessage `json:"left"`
			Right    json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode assign expr")
		}
		left, err := d.expr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.expr(v.Right)
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Op: v.Operator, Left: left, Right: right, NodeSpan: sp}, nil

	case "UnaryExpression":
		var v struct {
			Operator string          `json:"operator"`
			Argument json.RawMessage `json:"argument"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode unary expr")
		}
		x, err := d.expr(v.Argument)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: v.Operator, X: x, NodeSpan: sp}, nil

	case "UpdateExpression":
		var v struct {
			Operator string          `json:"operator"`
			Prefix   bool            `json:"prefix"`
			Argument json.RawMessage `json:"argument"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode update expr")
		}
		x, err := d.expr(v.Argument)
		if err != nil {
			return nil, err
		}
		return &ast.UpdateExpr{Op: v.Operator, Prefix: v.Prefix, X: x, NodeSpan: sp}, nil

	case "ArrowFunctionExpression":
		var v struct {
			Params     []json.RawMessage `json:"params"`
			Body       json.RawMessage   `json:"body"`
			ExprBody   bool              `json:"expression"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode arrow expr")
		}
		params, err := d.params(v.Params)
		if err != nil {
			return nil, err
		}
		bn, err := peekType(v.Body)
		if err != nil {
			return nil, err
		}
		var body ast.Node
		exprBody := v.ExprBody || bn.Type != "BlockStatement"
		if exprBody {
			body, err = d.expr(v.Body)
		} else {
			body, err = d.block(v.Body)
		}
		if err != nil {
			return nil, err
		}
		return &ast.ArrowFunctionExpr{Params: params, Body: body, ExprBody: exprBody, DeclSpan: sp, NodeSpan: sp}, nil

	case "FunctionExpression":
		var v struct {
			Id     json.RawMessage   `json:"id"`
			Params []json.RawMessage `json:"params"`
			Body   json.RawMessage   `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode function expr")
		}
		name, err := d.ident(v.Id)
		if err != nil {
			return nil, err
		}
		params, err := d.params(v.Params)
		if err != nil {
			return nil, err
		}
		body, err := d.block(v.Body)
		if err != nil {
			return nil, err
		}
		return &ast.FunctionExpr{Name: name, Params: params, Body: body, DeclSpan: sp, NodeSpan: sp}, nil

	case "ArrayExpression":
		var v struct {
			Elements []json.RawMessage `json:"elements"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode array expr")
		}
		elems := make([]ast.Expr, 0, len(v.Elements))
		for _, er := range v.Elements {
			if len(er) == 0 || string(er) == "null" {
				elems = append(elems, nil)
				continue
			}
			e, err := d.expr(er)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return &ast.ArrayExpr{Elements: elems, NodeSpan: sp}, nil

	case "ObjectExpression":
		var v struct {
			Properties []struct {
				Key      json.RawMessage `json:"key"`
				Value    json.RawMessage `json:"value"`
				Computed bool            `json:"computed"`
			} `json:"properties"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errtype.SerializationFailure(err, "decode object expr")
		}
		props := make([]ast.ObjectProperty, 0, len(v.Properties))
		for _, p := range v.Properties {
			keyID, err := d.ident(p.Key)
			if err != nil {
				return nil, err
			}
			key := ""
			if keyID != nil {
				key = keyID.Name
			}
			val, err := d.expr(p.Value)
			if err != nil {
				return nil, err
			}
			props = append(props, ast.ObjectProperty{Key: key, Value: val, Computed: p.Computed})
		}
		return &ast.ObjectExpr{Properties: props, NodeSpan: sp}, nil

	default:
		return nil, errtype.UnsupportedConstruct("expression kind "+n.Type, "")
	}
}

func (d *decoder) binaryLike(raw json.RawMessage, sp source.Span, logical bool) (ast.Expr, error) {
	var v struct {
		Operator string          `json:"operator"`
		Left     json.RawMessage `json:"left"`
		Right    json.RawMessage `json:"right"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errtype.SerializationFailure(err, "decode binary/logical expr")
	}
	left, err := d.expr(v.Left)
	if err != nil {
		return nil, err
	}
	right, err := d.expr(v.Right)
	if err != nil {
		return nil, err
	}
	if logical {
		return &ast.LogicalExpr{Op: v.Operator, Left: left, Right: right, NodeSpan: sp}, nil
	}
	return &ast.BinaryExpr{Op: v.Operator, Left: left, Right: right, NodeSpan: sp}, nil
}
