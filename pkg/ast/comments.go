package ast

import "github.com/covinstrument/covinstrument/pkg/source"

// Comment is a single line or block comment attached to a node.
type Comment struct {
	Text string
	Span source.Span
}

// CommentStore is the host collaborator that associates comments with
// nodes. The transformer never scans raw source text for comments itself;
// it only ever asks the store for what's attached to a given node (spec
// §4.3 "Host-provided comment store").
type CommentStore interface {
	Leading(n Node) []Comment
	Trailing(n Node) []Comment
	AddTrailing(n Node, c Comment)
}

// MapCommentStore is the in-repo CommentStore used by the loader and by
// tests to build fixtures; a real host would back this with whatever table
// its parser already produces.
type MapCommentStore struct {
	leading  map[Node][]Comment
	trailing map[Node][]Comment
}

// NewMapCommentStore returns an empty store.
func NewMapCommentStore() *MapCommentStore {
	return &MapCommentStore{
		leading:  make(map[Node][]Comment),
		trailing: make(map[Node][]Comment),
	}
}

func (s *MapCommentStore) Leading(n Node) []Comment  { return s.leading[n] }
func (s *MapCommentStore) Trailing(n Node) []Comment { return s.trailing[n] }

func (s *MapCommentStore) AddTrailing(n Node, c Comment) {
	s.trailing[n] = append(s.trailing[n], c)
}

// SetLeading replaces the leading comment list attached to n. Used by
// fixture loaders; not part of the CommentStore interface itself since the
// transformer only ever appends trailing comments.
func (s *MapCommentStore) SetLeading(n Node, cs []Comment) {
	s.leading[n] = cs
}

// SetTrailing replaces the trailing comment list attached to n.
func (s *MapCommentStore) SetTrailing(n Node, cs []Comment) {
	s.trailing[n] = cs
}
