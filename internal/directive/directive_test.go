package directive

import (
	"testing"

	"github.com/covinstrument/covinstrument/pkg/ast"
)

func TestParseHint(t *testing.T) {
	tests := []struct {
		text string
		want IgnoreScope
	}{
		{" istanbul ignore file ", ScopeFile},
		{" istanbul ignore next ", ScopeNext},
		{" istanbul ignore if ", ScopeIf},
		{" istanbul ignore else ", ScopeElse},
		{"/* istanbul ignore next */", ScopeNext},
		{"// istanbul ignore next", ScopeNext},
		{" just a regular comment ", ScopeNone},
		{" istanbul ignore something-else ", ScopeNone},
		{" istanbulignore next ", ScopeNone},
	}
	for _, tt := range tests {
		if got := ParseHint(tt.text); got != tt.want {
			t.Errorf("ParseHint(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestNodeScopeReadsLeadingComments(t *testing.T) {
	store := ast.NewMapCommentStore()
	node := &ast.ExprStmt{}
	store.SetLeading(node, []ast.Comment{{Text: " istanbul ignore next "}})

	if got := NodeScope(store, node); got != ScopeNext {
		t.Errorf("NodeScope() = %v, want ScopeNext", got)
	}

	bare := &ast.ExprStmt{}
	if got := NodeScope(store, bare); got != ScopeNone {
		t.Errorf("NodeScope() for uncommented node = %v, want ScopeNone", got)
	}
}

func TestFileIgnoredNilStore(t *testing.T) {
	prog := &ast.Program{Body: []ast.Stmt{&ast.ExprStmt{}}}
	if FileIgnored(prog) {
		t.Error("FileIgnored() = true for a program with no comment store")
	}
}

func TestFileIgnoredEmptyProgram(t *testing.T) {
	store := ast.NewMapCommentStore()
	prog := &ast.Program{Comments: store}
	if FileIgnored(prog) {
		t.Error("FileIgnored() = true for an empty, uncommented program")
	}
}

func TestFileIgnoredProgramLeading(t *testing.T) {
	store := ast.NewMapCommentStore()
	first := &ast.ExprStmt{}
	prog := &ast.Program{Comments: store, Body: []ast.Stmt{first}}
	store.SetLeading(prog, []ast.Comment{{Text: " istanbul ignore file "}})

	if !FileIgnored(prog) {
		t.Error("FileIgnored() = false, want true (Program leading comment)")
	}
}

func TestFileIgnoredProgramTrailing(t *testing.T) {
	store := ast.NewMapCommentStore()
	first := &ast.ExprStmt{}
	prog := &ast.Program{Comments: store, Body: []ast.Stmt{first}}
	store.AddTrailing(prog, ast.Comment{Text: " istanbul ignore file "})

	if !FileIgnored(prog) {
		t.Error("FileIgnored() = false, want true (Program trailing comment)")
	}
}

func TestFileIgnoredFirstStatementLeading(t *testing.T) {
	store := ast.NewMapCommentStore()
	first := &ast.ExprStmt{}
	last := &ast.ExprStmt{}
	prog := &ast.Program{Comments: store, Body: []ast.Stmt{first, last}}
	store.SetLeading(first, []ast.Comment{{Text: " istanbul ignore file "}})

	if !FileIgnored(prog) {
		t.Error("FileIgnored() = false, want true (first statement leading comment)")
	}
}

func TestFileIgnoredLastStatementTrailing(t *testing.T) {
	store := ast.NewMapCommentStore()
	first := &ast.ExprStmt{}
	last := &ast.ExprStmt{}
	prog := &ast.Program{Comments: store, Body: []ast.Stmt{first, last}}
	store.AddTrailing(last, ast.Comment{Text: " istanbul ignore file "})

	if !FileIgnored(prog) {
		t.Error("FileIgnored() = false, want true (last statement trailing comment)")
	}
}

func TestFileIgnoredUnrelatedHintDoesNotTrigger(t *testing.T) {
	store := ast.NewMapCommentStore()
	first := &ast.ExprStmt{}
	prog := &ast.Program{Comments: store, Body: []ast.Stmt{first}}
	store.SetLeading(first, []ast.Comment{{Text: " istanbul ignore next "}})

	if FileIgnored(prog) {
		t.Error("FileIgnored() = true for an unrelated 'ignore next' hint")
	}
}
