// Package loader decodes a JSON-serialized AST fixture into a
// pkg/ast.Program. The real parser is a host collaborator this repo never
// links against (spec §1 "out of scope"); this package's JSON schema is
// the boundary a host toolchain's ESTree/Babel-shaped output is expected
// to cross through, and it's what pkg/runner reads fixture files as.
// Adapted from the teacher's internal/loader, which loaded *go/ast* trees
// via golang.org/x/tools/go/packages — not applicable here since there is
// no Go source to load.
package loader

import (
	"encoding/json"

	"github.com/covinstrument/covinstrument/pkg/ast"
	"github.com/covinstrument/covinstrument/pkg/errtype"
	"github.com/covinstrument/covinstrument/pkg/source"
)

// Fixture is the on-disk JSON shape: the source text (so pkg/batch can
// build a Position service over it) plus its AST, comments and path.
type Fixture struct {
	Path     string          `json:"path"`
	Text     string          `json:"text"`
	AST      json.RawMessage `json:"ast"`
	Comments []rawComment    `json:"comments"`
}

type rawComment struct {
	Text    string `json:"text"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Leading bool   `json:"leading"`
}

// node is the generic ESTree-ish wire shape every AST node decodes through
// before being dispatched on its "type" field.
type node struct {
	Type  string          `json:"type"`
	Start int             `json:"start"`
	End   int             `json:"end"`
	Raw   json.RawMessage `json:"-"`
}

// Decode parses data as a Fixture and builds a *ast.Program plus the raw
// source text.
func Decode(data []byte) (*ast.Program, []byte, error) {
	var fx Fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, nil, errtype.SerializationFailure(err, "decode fixture")
	}
	d := &decoder{store: ast.NewMapCommentStore()}
	prog, err := d.program(fx.AST)
	if err != nil {
		return nil, nil, err
	}
	prog.Comments = d.store
	attachComments(prog, fx.Comments, d.store)
	return prog, []byte(fx.Text), nil
}

// attachComments wires fixture.comments into store by proximity: a leading
// comment attaches to the nearest node starting at or after its end, a
// trailing comment to the nearest node ending at or before its start. This
// is an adjacency heuristic rather than a true parser comment-attachment
// pass, but it's enough to exercise every position the directive scanner
// checks (spec "ignore scope" leading/trailing on Program and on the
// first/last statement alike fall out of the same proximity search).
func attachComments(prog *ast.Program, comments []rawComment, store *ast.MapCommentStore) {
	if len(comments) == 0 {
		return
	}
	var all []ast.Node
	ast.Inspect(prog, func(n ast.Node) bool {
		all = append(all, n)
		return true
	})

	for _, c := range comments {
		var leadTarget, trailTarget ast.Node
		var leadStart, trailEnd int
		for _, n := range all {
			sp := n.Span()
			if !sp.Valid {
				continue
			}
			if sp.Low >= c.End && (leadTarget == nil || sp.Low < leadStart) {
				leadTarget, leadStart = n, sp.Low
			}
			if sp.High <= c.Start && (trailTarget == nil || sp.High > trailEnd) {
				trailTarget, trailEnd = n, sp.High
			}
		}
		cm := ast.Comment{Text: c.Text, Span: source.Span{Low: c.Start, High: c.End, Valid: true}}
		if c.Leading && leadTarget != nil {
			store.SetLeading(leadTarget, append(store.Leading(leadTarget), cm))
		} else if !c.Leading && trailTarget != nil {
			store.AddTrailing(trailTarget, cm)
		}
	}
}

type decoder struct {
	store *ast.MapCommentStore
}

func span(n node) source.Span {
	if n.Start == 0 && n.End == 0 {
		return source.NoSpan
	}
	return source.Span{Low: n.Start, High: n.End, Valid: true}
}

func peekType(raw json.RawMessage) (node, error) {
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return node{}, errtype.SerializationFailure(err, "peek node type")
	}
	return n, nil
}

func (d *decoder) program(raw json.RawMessage) (*ast.Program, error) {
	var body struct {
		Body []json.RawMessage `json:"body"`
	}
	n, err := peekType(raw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, errtype.SerializationFailure(err, "decode program body")
	}
	stmts, err := d.stmtList(body.Body)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Body: stmts, ModuleSpan: span(n)}, nil
}

func (d *decoder) stmtList(raws []json.RawMessage) ([]ast.Stmt, error) {
	out := make([]ast.Stmt, 0, len(raws))
	for _, r := range raws {
		s, err := d.stmt(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *decoder) ident(raw json.RawMessage) (*ast.Identifier, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var v struct {
		node
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errtype.SerializationFailure(err, "decode identifier")
	}
	return &ast.Identifier{Name: v.Name, NodeSpan: span(v.node)}, nil
}

func (d *decoder) params(raws []json.RawMessage) ([]*ast.Param, error) {
	out := make([]*ast.Param, 0, len(raws))
	for _, r := range raws {
		n, err := peekType(r)
		if err != nil {
			return nil, err
		}
		if n.Type == "AssignmentPattern" {
			var v struct {
				Left    json.RawMessage `json:"left"`
				Right   json.RawMessage `json:"right"`
			}
			if err := json.Unmarshal(r, &v); err != nil {
				return nil, errtype.SerializationFailure(err, "decode default param")
			}
			name, err := d.ident(v.Left)
			if err != nil {
				return nil, err
			}
			def, err := d.expr(v.Right)
			if err != nil {
				return nil, err
			}
			out = append(out, &ast.Param{Name: name, Default: def})
			continue
		}
		name, err := d.ident(r)
		if err != nil {
			return nil, err
		}
		out = append(out, &ast.Param{Name: name})
	}
	return out, nil
}
