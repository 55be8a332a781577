package astgen

import "github.com/covinstrument/covinstrument/pkg/ast"

// IsCounterIncrement reports whether e has exactly the shape this package
// builds for covVar: a postfix increment of a computed member access into
// one of covVar's `().{s,f,b,bT}` tables. The Main Coverage Visitor
// consults this before instrumenting a statement expression so that
// transforming an already-instrumented file is idempotent (spec §9, the
// re-instrumentation Non-goal's mirror invariant): it never walks past a
// node already in this shape to add a second counter under it. covVar must
// equal the file's own coverage identifier (spec §4.6: "with F equal to the
// file's coverage identifier") so a user call like `foo().s[0]++` against
// some unrelated `foo` isn't mistaken for an injected counter.
func IsCounterIncrement(covVar string, e ast.Expr) bool {
	upd, ok := e.(*ast.UpdateExpr)
	if !ok || upd.Op != "++" || upd.Prefix {
		return false
	}
	return counterField(covVar, upd.X) != ""
}

// counterField returns the table name ("s", "f", "b" or "bT") the access
// chain rooted at e indexes into, or "" if e isn't such a chain against
// covVar.
func counterField(covVar string, e ast.Expr) string {
	outer, ok := e.(*ast.MemberExpr)
	if !ok || !outer.Computed {
		return ""
	}
	if !isIntLiteral(outer.Property) {
		return ""
	}
	switch inner := outer.Object.(type) {
	case *ast.MemberExpr:
		// one level of indexing: covVar().field[i]
		if field, ok := fieldAccess(covVar, inner); ok {
			return field
		}
		// two levels: covVar().field[i][j] (branch / truthy-falsy paths)
		if inner.Computed && isIntLiteral(inner.Property) {
			if field, ok := fieldAccess2(covVar, inner.Object); ok {
				return field
			}
		}
	}
	return ""
}

// fieldAccess matches `covVar().field`.
func fieldAccess(covVar string, m *ast.MemberExpr) (string, bool) {
	if m.Computed {
		return "", false
	}
	id, ok := m.Property.(*ast.Identifier)
	if !ok || !isCoverageCall(covVar, m.Object) {
		return "", false
	}
	switch id.Name {
	case fieldStatements, fieldFunctions, fieldBranches, fieldTruthyFalsy:
		return id.Name, true
	}
	return "", false
}

func fieldAccess2(covVar string, e ast.Expr) (string, bool) {
	m, ok := e.(*ast.MemberExpr)
	if !ok {
		return "", false
	}
	return fieldAccess(covVar, m)
}

// isCoverageCall matches `covVar()`: a zero-argument call of the identifier
// equal to the file's own coverage variable, not any other callee.
func isCoverageCall(covVar string, e ast.Expr) bool {
	call, ok := e.(*ast.CallExpr)
	if !ok || len(call.Args) != 0 {
		return false
	}
	id, ok := call.Callee.(*ast.Identifier)
	return ok && id.Name == covVar
}

func isIntLiteral(e ast.Expr) bool {
	_, ok := e.(*ast.NumberLiteral)
	return ok
}
