// Package directive scans comment text for `istanbul ignore ...` hints and
// turns them into an IgnoreScope the Main Coverage Visitor consults before
// allocating statement, function or branch ids (spec §4.3, §4.6). The
// anchored-regex-over-comment-text approach mirrors the glob-to-regex
// idiom the teacher repo uses for exclude-symbol matching.
package directive

import (
	"regexp"
	"strings"

	"github.com/covinstrument/covinstrument/pkg/ast"
)

// IgnoreScope is the kind of ignore hint a comment carries.
type IgnoreScope int

const (
	// ScopeNone means the comment carried no recognized hint.
	ScopeNone IgnoreScope = iota
	// ScopeFile skips the whole program.
	ScopeFile
	// ScopeNext skips the node the comment is attached to, together with
	// everything nested inside it.
	ScopeNext
	// ScopeIf skips an `if` statement's consequent branch only.
	ScopeIf
	// ScopeElse skips an `if` statement's alternate branch only.
	ScopeElse
)

var hintPattern = regexp.MustCompile(`^\s*istanbul\s+ignore\s+(file|next|if|else)\b`)

// ParseHint inspects a single comment's text and returns the scope it
// names, if any.
func ParseHint(text string) IgnoreScope {
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimPrefix(text, "//")
	m := hintPattern.FindStringSubmatch(text)
	if m == nil {
		return ScopeNone
	}
	switch m[1] {
	case "file":
		return ScopeFile
	case "next":
		return ScopeNext
	case "if":
		return ScopeIf
	case "else":
		return ScopeElse
	}
	return ScopeNone
}

// scanAll returns the first recognized scope among cs, scanning in order;
// a node is expected to carry at most one ignore hint among its comments.
func scanAll(cs []ast.Comment) IgnoreScope {
	for _, c := range cs {
		if s := ParseHint(c.Text); s != ScopeNone {
			return s
		}
	}
	return ScopeNone
}

// NodeScope returns the ignore scope attached to n via its leading
// comments, consulted by the Main Coverage Visitor immediately before it
// would otherwise instrument n.
func NodeScope(store ast.CommentStore, n ast.Node) IgnoreScope {
	return scanAll(store.Leading(n))
}

// FileIgnored reports whether `istanbul ignore file` applies anywhere the
// original checks it: the program's own leading/trailing comments, or the
// leading comments of its first statement, or the trailing comments of its
// last statement (spec, SPEC_FULL.md §D.4).
func FileIgnored(prog *ast.Program) bool {
	store := prog.Comments
	if store == nil {
		return false
	}
	if scanAll(store.Leading(prog)) == ScopeFile || scanAll(store.Trailing(prog)) == ScopeFile {
		return true
	}
	if len(prog.Body) == 0 {
		return false
	}
	first := prog.Body[0]
	last := prog.Body[len(prog.Body)-1]
	if scanAll(store.Leading(first)) == ScopeFile {
		return true
	}
	if scanAll(store.Trailing(last)) == ScopeFile {
		return true
	}
	return false
}
