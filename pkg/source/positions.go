package source

import (
	"sort"

	"github.com/pkg/errors"
)

// Service translates byte offsets into line/column pairs. It is the
// abstraction the host toolchain's position lookup is consumed through;
// the core never parses source text itself.
type Service interface {
	// LineCol returns the 1-based line and 0-based column for a byte offset.
	// It returns an error (wrapping ErrOutOfRange) if offset falls outside the
	// text the service was built from.
	LineCol(offset int) (line, col int, err error)
}

// ErrOutOfRange is the sentinel cause of the error Positions.LineCol returns
// for an offset outside the bounds of its indexed text.
var ErrOutOfRange = errors.New("source: offset out of range")

// Positions is the default Service, built once per file from its full text.
// It mirrors the line-table approach of go/token.File: a sorted slice of
// line-start offsets located with a binary search.
type Positions struct {
	lineStarts []int
	size       int
}

// NewPositions indexes text and returns a Service over it.
func NewPositions(text []byte) *Positions {
	p := &Positions{lineStarts: []int{0}, size: len(text)}
	for i, b := range text {
		if b == '\n' {
			p.lineStarts = append(p.lineStarts, i+1)
		}
	}
	return p
}

// LineCol implements Service.
func (p *Positions) LineCol(offset int) (int, int, error) {
	if offset < 0 || offset > p.size {
		return 0, 0, errors.Wrapf(ErrOutOfRange, "offset %d not in [0,%d]", offset, p.size)
	}
	// index of the last line-start <= offset
	i := sort.Search(len(p.lineStarts), func(i int) bool { return p.lineStarts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	line := i + 1 // 1-based
	col := offset - p.lineStarts[i]
	return line, col, nil
}

// RangeOf derives a Range from a Span using svc. A synthetic span (Valid ==
// false) yields the zero Range with ok == false; callers must tolerate that.
func RangeOf(svc Service, span Span) (Range, bool, error) {
	if !span.Valid {
		return Range{}, false, nil
	}
	sl, sc, err := svc.LineCol(span.Low)
	if err != nil {
		return Range{}, false, errors.Wrap(err, "source: resolve span start")
	}
	el, ec, err := svc.LineCol(span.High)
	if err != nil {
		return Range{}, false, errors.Wrap(err, "source: resolve span end")
	}
	return Range{StartLine: sl, StartCol: sc, EndLine: el, EndCol: ec}, true, nil
}
