// Package ast models the slice of a JavaScript/TypeScript program
// representation the instrumentation transformer needs. The real parser,
// printer, and source-map machinery are host collaborators and stay out of
// this package; it only carries the node shapes the rewrite rules in
// pkg/visitor dispatch on.
package ast

import "github.com/covinstrument/covinstrument/pkg/source"

// Node is implemented by every statement and expression. Synthesized nodes
// (built by pkg/astgen) report source.NoSpan.
type Node interface {
	Span() source.Span
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Program is the root of the rewritten tree. ModuleSpan covers the whole
// source text, used for "istanbul ignore file" matching against both ends.
type Program struct {
	Body       []Stmt
	ModuleSpan source.Span
	Comments   CommentStore
}

func (p *Program) Span() source.Span { return p.ModuleSpan }

// Param is a function parameter, optionally carrying a default-value
// expression (spec §4.6 "Default-argument expression").
type Param struct {
	Name    *Identifier
	Default Expr
}

// ---- Expressions ----

type Identifier struct {
	Name      string
	NodeSpan  source.Span
}

func (n *Identifier) Span() source.Span { return n.NodeSpan }
func (*Identifier) exprNode()           {}

type ThisExpr struct{ NodeSpan source.Span }

func (n *ThisExpr) Span() source.Span { return n.NodeSpan }
func (*ThisExpr) exprNode()           {}

type NumberLiteral struct {
	Raw      string
	NodeSpan source.Span
}

func (n *NumberLiteral) Span() source.Span { return n.NodeSpan }
func (*NumberLiteral) exprNode()           {}

type StringLiteral struct {
	// Raw includes the surrounding quotes, as the host printer would emit them.
	Raw      string
	NodeSpan source.Span
}

func (n *StringLiteral) Span() source.Span { return n.NodeSpan }
func (*StringLiteral) exprNode()           {}

type BooleanLiteral struct {
	Value    bool
	NodeSpan source.Span
}

func (n *BooleanLiteral) Span() source.Span { return n.NodeSpan }
func (*BooleanLiteral) exprNode()           {}

type NullLiteral struct{ NodeSpan source.Span }

func (n *NullLiteral) Span() source.Span { return n.NodeSpan }
func (*NullLiteral) exprNode()           {}

// MemberExpr is `Object.Property` (Computed == false) or `Object[Property]`
// (Computed == true).
type MemberExpr struct {
	Object   Expr
	Property Expr
	Computed bool
	NodeSpan source.Span
}

func (n *MemberExpr) Span() source.Span { return n.NodeSpan }
func (*MemberExpr) exprNode()           {}

type CallExpr struct {
	Callee   Expr
	Args     []Expr
	NodeSpan source.Span
}

func (n *CallExpr) Span() source.Span { return n.NodeSpan }
func (*CallExpr) exprNode()           {}

// SequenceExpr is the comma operator; the printer always parenthesizes it,
// which is what the Counter Expression Builder relies on (spec §4.4, §4.6).
type SequenceExpr struct {
	Exprs    []Expr
	NodeSpan source.Span
}

func (n *SequenceExpr) Span() source.Span { return n.NodeSpan }
func (*SequenceExpr) exprNode()           {}

type BinaryExpr struct {
	Op       string
	Left     Expr
	Right    Expr
	NodeSpan source.Span
}

func (n *BinaryExpr) Span() source.Span { return n.NodeSpan }
func (*BinaryExpr) exprNode()           {}

// LogicalExpr is &&, || or ??.
type LogicalExpr struct {
	Op       string
	Left     Expr
	Right    Expr
	NodeSpan source.Span
}

func (n *LogicalExpr) Span() source.Span { return n.NodeSpan }
func (*LogicalExpr) exprNode()           {}

type ConditionalExpr struct {
	Test       Expr
	Consequent Expr
	Alternate  Expr
	NodeSpan   source.Span
}

func (n *ConditionalExpr) Span() source.Span { return n.NodeSpan }
func (*ConditionalExpr) exprNode()           {}

type AssignExpr struct {
	Op       string
	Left     Expr
	Right    Expr
	NodeSpan source.Span
}

func (n *AssignExpr) Span() source.Span { return n.NodeSpan }
func (*AssignExpr) exprNode()           {}

type UnaryExpr struct {
	Op       string
	X        Expr
	NodeSpan source.Span
}

func (n *UnaryExpr) Span() source.Span { return n.NodeSpan }
func (*UnaryExpr) exprNode()           {}

// UpdateExpr is ++ or --. The Counter Expression Builder only ever emits
// postfix (Prefix == false) UpdateExpr nodes.
type UpdateExpr struct {
	Op       string
	Prefix   bool
	X        Expr
	NodeSpan source.Span
}

func (n *UpdateExpr) Span() source.Span { return n.NodeSpan }
func (*UpdateExpr) exprNode()           {}

// ArrowFunctionExpr body is either a single Expr (ExprBody == true) or a
// *BlockStmt. DeclSpan covers the parameter list; NodeSpan covers the whole
// arrow including its body.
type ArrowFunctionExpr struct {
	Params   []*Param
	Body     Node
	ExprBody bool
	DeclSpan source.Span
	NodeSpan source.Span
}

func (n *ArrowFunctionExpr) Span() source.Span { return n.NodeSpan }
func (*ArrowFunctionExpr) exprNode()           {}

type FunctionExpr struct {
	Name     *Identifier
	Params   []*Param
	Body     *BlockStmt
	DeclSpan source.Span
	NodeSpan source.Span
}

func (n *FunctionExpr) Span() source.Span { return n.NodeSpan }
func (*FunctionExpr) exprNode()           {}

type ArrayExpr struct {
	Elements []Expr
	NodeSpan source.Span
}

func (n *ArrayExpr) Span() source.Span { return n.NodeSpan }
func (*ArrayExpr) exprNode()           {}

type ObjectProperty struct {
	Key      string
	Value    Expr
	Computed bool
}

type ObjectExpr struct {
	Properties []ObjectProperty
	NodeSpan   source.Span
}

func (n *ObjectExpr) Span() source.Span { return n.NodeSpan }
func (*ObjectExpr) exprNode()           {}

// ---- Statements ----

type ExprStmt struct {
	X        Expr
	NodeSpan source.Span
}

func (n *ExprStmt) Span() source.Span { return n.NodeSpan }
func (*ExprStmt) stmtNode()           {}

type BlockStmt struct {
	List     []Stmt
	NodeSpan source.Span
}

func (n *BlockStmt) Span() source.Span { return n.NodeSpan }
func (*BlockStmt) stmtNode()           {}

type VariableDeclarator struct {
	Id       *Identifier
	Init     Expr
	NodeSpan source.Span
}

func (n *VariableDeclarator) Span() source.Span { return n.NodeSpan }

type VarDeclStmt struct {
	Kind     string // "var", "let", "const"
	Decls    []*VariableDeclarator
	NodeSpan source.Span
}

func (n *VarDeclStmt) Span() source.Span { return n.NodeSpan }
func (*VarDeclStmt) stmtNode()           {}

// FuncDecl.DeclSpan covers the signature (`function name(params)`);
// NodeSpan covers the whole declaration including the body, used as the
// fnMap "loc"/lineCount span.
type FuncDecl struct {
	Name     *Identifier
	Params   []*Param
	Body     *BlockStmt
	DeclSpan source.Span
	NodeSpan source.Span
}

func (n *FuncDecl) Span() source.Span { return n.NodeSpan }
func (*FuncDecl) stmtNode()           {}

type ReturnStmt struct {
	Arg      Expr
	NodeSpan source.Span
}

func (n *ReturnStmt) Span() source.Span { return n.NodeSpan }
func (*ReturnStmt) stmtNode()           {}

type ContinueStmt struct {
	Label    string
	NodeSpan source.Span
}

func (n *ContinueStmt) Span() source.Span { return n.NodeSpan }
func (*ContinueStmt) stmtNode()           {}

type BreakStmt struct {
	Label    string
	NodeSpan source.Span
}

func (n *BreakStmt) Span() source.Span { return n.NodeSpan }
func (*BreakStmt) stmtNode()           {}

type LabeledStmt struct {
	Label    string
	Body     Stmt
	NodeSpan source.Span
}

func (n *LabeledStmt) Span() source.Span { return n.NodeSpan }
func (*LabeledStmt) stmtNode()           {}

type ThrowStmt struct {
	Arg      Expr
	NodeSpan source.Span
}

func (n *ThrowStmt) Span() source.Span { return n.NodeSpan }
func (*ThrowStmt) stmtNode()           {}

type DebuggerStmt struct{ NodeSpan source.Span }

func (n *DebuggerStmt) Span() source.Span { return n.NodeSpan }
func (*DebuggerStmt) stmtNode()           {}

// IfStmt.Alternate is nil when the source had no `else`; the If rewrite
// rule synthesizes an empty BlockStmt for it before wrapping (spec §4.6).
type IfStmt struct {
	Test       Expr
	Consequent Stmt
	Alternate  Stmt
	NodeSpan   source.Span
}

func (n *IfStmt) Span() source.Span { return n.NodeSpan }
func (*IfStmt) stmtNode()           {}

type ForStmt struct {
	Init     Stmt
	Test     Expr
	Update   Expr
	Body     Stmt
	NodeSpan source.Span
}

func (n *ForStmt) Span() source.Span { return n.NodeSpan }
func (*ForStmt) stmtNode()           {}

// ForInStmt models both for-in (Of == false) and for-of (Of == true).
type ForInStmt struct {
	Left     Stmt
	Right    Expr
	Body     Stmt
	Of       bool
	NodeSpan source.Span
}

func (n *ForInStmt) Span() source.Span { return n.NodeSpan }
func (*ForInStmt) stmtNode()           {}

type WhileStmt struct {
	Test     Expr
	Body     Stmt
	NodeSpan source.Span
}

func (n *WhileStmt) Span() source.Span { return n.NodeSpan }
func (*WhileStmt) stmtNode()           {}

type DoWhileStmt struct {
	Body     Stmt
	Test     Expr
	NodeSpan source.Span
}

func (n *DoWhileStmt) Span() source.Span { return n.NodeSpan }
func (*DoWhileStmt) stmtNode()           {}

// SwitchCase.Test is nil for the default clause.
type SwitchCase struct {
	Test     Expr
	Body     []Stmt
	NodeSpan source.Span
}

func (n *SwitchCase) Span() source.Span { return n.NodeSpan }

type SwitchStmt struct {
	Discriminant Expr
	Cases        []*SwitchCase
	NodeSpan     source.Span
}

func (n *SwitchStmt) Span() source.Span { return n.NodeSpan }
func (*SwitchStmt) stmtNode()           {}

// ClassMember is implemented by MethodDef and PropertyDef.
type ClassMember interface {
	Node
	classMember()
}

type MethodDef struct {
	Name     *Identifier
	Kind     string // "method", "constructor", "get", "set"
	Params   []*Param
	Body     *BlockStmt
	Static   bool
	DeclSpan source.Span
	NodeSpan source.Span
}

func (n *MethodDef) Span() source.Span { return n.NodeSpan }
func (*MethodDef) classMember()        {}

// PropertyDef is a class field, including private fields (`#name`). It is
// instrumented the same way a VariableDeclarator's initializer is (spec
// §4.6 "Class property / private property").
type PropertyDef struct {
	Name     *Identifier
	Value    Expr
	Static   bool
	Private  bool
	NodeSpan source.Span
}

func (n *PropertyDef) Span() source.Span { return n.NodeSpan }
func (*PropertyDef) classMember()        {}

type ClassDecl struct {
	Name     *Identifier
	Members  []ClassMember
	NodeSpan source.Span
}

func (n *ClassDecl) Span() source.Span { return n.NodeSpan }
func (*ClassDecl) stmtNode()           {}
