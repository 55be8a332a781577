// Package source provides the Position service and the SourceRange value type
// used to bind coverage map entries to byte spans in the original program.
package source

import (
	"encoding/json"
	"fmt"
)

// Range is a source location expressed as 1-based lines and 0-based columns,
// matching the Istanbul coverage wire format.
type Range struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

type jsonPos struct {
	Line int `json:"line"`
	Col  int `json:"column"`
}

type jsonRange struct {
	Start jsonPos `json:"start"`
	End   jsonPos `json:"end"`
}

// MarshalJSON renders the Istanbul {start:{line,column},end:{line,column}} shape.
func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonRange{
		Start: jsonPos{Line: r.StartLine, Col: r.StartCol},
		End:   jsonPos{Line: r.EndLine, Col: r.EndCol},
	})
}

// UnmarshalJSON accepts the Istanbul {start:{line,column},end:{line,column}} shape.
func (r *Range) UnmarshalJSON(data []byte) error {
	var jr jsonRange
	if err := json.Unmarshal(data, &jr); err != nil {
		return err
	}
	r.StartLine, r.StartCol = jr.Start.Line, jr.Start.Col
	r.EndLine, r.EndCol = jr.End.Line, jr.End.Col
	return nil
}

// Valid reports whether the range respects the ordering invariant:
// startLine<endLine, or startLine=endLine and startCol<=endCol.
func (r Range) Valid() bool {
	if r.StartLine < r.EndLine {
		return true
	}
	return r.StartLine == r.EndLine && r.StartCol <= r.EndCol
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.StartLine, r.StartCol, r.EndLine, r.EndCol)
}

// Span is a pair of byte offsets into the original source text, the unit the
// host AST nodes carry. Synthetic (counter-injected) nodes have no span.
type Span struct {
	Low  int
	High int
	// Valid is false for synthetic nodes; callers must tolerate its absence.
	Valid bool
}

// NoSpan is the zero value representing a synthesized node with no source position.
var NoSpan = Span{}
