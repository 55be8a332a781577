// Package coverage builds the per-file CoverageMap the instrumentation
// preamble embeds: statement, function and branch tables plus their runtime
// counters, serialized in the Istanbul wire format (spec §3, §4.1, §4.7).
package coverage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"github.com/covinstrument/covinstrument/pkg/source"
)

// BranchKind is the Istanbul branchMap "type" discriminant.
type BranchKind string

const (
	BranchIf         BranchKind = "if"
	BranchBinaryExpr BranchKind = "binary-expr"
	BranchCondExpr   BranchKind = "cond-expr"
	BranchSwitch     BranchKind = "switch"
	BranchDefaultArg BranchKind = "default-arg"
)

// FunctionMeta is one fnMap entry.
type FunctionMeta struct {
	Name string       `json:"name"`
	Decl source.Range `json:"decl"`
	Loc  source.Range `json:"loc"`
	Line int          `json:"line"`
}

// BranchMeta is one branchMap entry.
type BranchMeta struct {
	Type      BranchKind     `json:"type"`
	Loc       source.Range   `json:"loc"`
	Line      int            `json:"line"`
	Locations []source.Range `json:"locations"`
}

// Map is the coverage object embedded in the instrumented file's preamble,
// keyed by the synthesized coverage variable; it's the value Freeze
// serializes into the map literal the Preamble Synthesizer emits.
type Map struct {
	Path           string                `json:"path"`
	StatementMap   map[string]source.Range `json:"statementMap"`
	FnMap          map[string]FunctionMeta `json:"fnMap"`
	BranchMap      map[string]BranchMeta   `json:"branchMap"`
	S              map[string]int          `json:"s"`
	F              map[string]int          `json:"f"`
	B              map[string][]int        `json:"b"`
	BT             map[string][]int        `json:"bT,omitempty"`
	InputSourceMap json.RawMessage         `json:"inputSourceMap,omitempty"`
	Hash           string                  `json:"hash"`

	nextStatement int
	nextFunction  int
	nextBranch    int
	frozen        bool
}

// ErrFrozen is returned by the mutating operations once Freeze has run;
// the coverage object is a value the preamble serializes exactly once.
var ErrFrozen = errors.New("coverage: map already frozen")

// New returns an empty Map for path, ready to accept statements, functions
// and branches as the Main Coverage Visitor walks the program.
func New(path string) *Map {
	return &Map{
		Path:         path,
		StatementMap: make(map[string]source.Range),
		FnMap:        make(map[string]FunctionMeta),
		BranchMap:    make(map[string]BranchMeta),
		S:            make(map[string]int),
		F:            make(map[string]int),
		B:            make(map[string][]int),
	}
}

// NewStatement registers a statement at loc and returns its id.
func (m *Map) NewStatement(loc source.Range) (int, error) {
	if m.frozen {
		return 0, ErrFrozen
	}
	id := m.nextStatement
	m.nextStatement++
	key := strconv.Itoa(id)
	m.StatementMap[key] = loc
	m.S[key] = 0
	return id, nil
}

// NewFunction registers a function at decl/loc and returns its id.
func (m *Map) NewFunction(name string, decl, loc source.Range) (int, error) {
	if m.frozen {
		return 0, ErrFrozen
	}
	id := m.nextFunction
	m.nextFunction++
	key := strconv.Itoa(id)
	m.FnMap[key] = FunctionMeta{Name: name, Decl: decl, Loc: loc, Line: loc.StartLine}
	m.F[key] = 0
	return id, nil
}

// NewBranch registers a branch of kind at loc with its first location and
// returns its id. Additional branch paths are added with AddBranchPath.
func (m *Map) NewBranch(kind BranchKind, loc source.Range, first source.Range) (int, error) {
	if m.frozen {
		return 0, ErrFrozen
	}
	id := m.nextBranch
	m.nextBranch++
	key := strconv.Itoa(id)
	m.BranchMap[key] = BranchMeta{Type: kind, Loc: loc, Line: loc.StartLine, Locations: []source.Range{first}}
	m.B[key] = []int{0}
	return id, nil
}

// AddBranchPath appends another path location to branchID (e.g. a further
// `else if`, switch case, or ??/&&/|| leaf) and returns its path index.
func (m *Map) AddBranchPath(branchID int, loc source.Range) (int, error) {
	if m.frozen {
		return 0, ErrFrozen
	}
	key := strconv.Itoa(branchID)
	meta, ok := m.BranchMap[key]
	if !ok {
		return 0, errors.Errorf("coverage: unknown branch id %d", branchID)
	}
	idx := len(meta.Locations)
	meta.Locations = append(meta.Locations, loc)
	m.BranchMap[key] = meta
	m.B[key] = append(m.B[key], 0)
	if m.BT != nil {
		if _, ok := m.BT[key]; ok {
			m.BT[key] = append(m.BT[key], 0, 0)
		}
	}
	return idx, nil
}

// EnableTruthyFalsy allocates the bT sibling counters for branchID (two per
// path: truthy, falsy), used when config.ReportLogic is set (spec §9).
func (m *Map) EnableTruthyFalsy(branchID int) error {
	if m.frozen {
		return ErrFrozen
	}
	if m.BT == nil {
		m.BT = make(map[string][]int)
	}
	key := strconv.Itoa(branchID)
	meta, ok := m.BranchMap[key]
	if !ok {
		return errors.Errorf("coverage: unknown branch id %d", branchID)
	}
	m.BT[key] = make([]int, 2*len(meta.Locations))
	return nil
}

// Freeze computes the map's content hash, then forbids further mutation. It must run once all statements,
// functions and branches for the file have been registered.
func (m *Map) Freeze() error {
	if m.frozen {
		return ErrFrozen
	}
	digest, err := m.contentDigest()
	if err != nil {
		return errors.Wrap(err, "coverage: compute content hash")
	}
	m.Hash = fmt.Sprintf("%016x", digest)
	m.frozen = true
	return nil
}

// Frozen reports whether Freeze has already run.
func (m *Map) Frozen() bool { return m.frozen }

// contentDigest hashes a canonical (sorted-key) encoding of the map's
// structural tables, excluding counters and the hash field itself, so the
// hash is stable across runs of the same source and changes whenever the
// instrumentation shape changes (spec §4.7 "hash must change iff the set of
// instrumented locations changes").
func (m *Map) contentDigest() (uint64, error) {
	type canonical struct {
		Path         string                  `json:"path"`
		StatementMap map[string]source.Range `json:"statementMap"`
		FnMap        map[string]FunctionMeta `json:"fnMap"`
		BranchMap    map[string]BranchMeta   `json:"branchMap"`
	}
	buf, err := json.Marshal(canonical{
		Path:         m.Path,
		StatementMap: m.StatementMap,
		FnMap:        m.FnMap,
		BranchMap:    m.BranchMap,
	})
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(buf), nil
}

// VariableName derives the `cov_<hash>` identifier the preamble declares
// for path, stable for a given path + salt (Transform passes the configured
// CoverageVariable as the salt) so repeated runs over the same file agree
// with themselves while different paths get different identifiers.
func VariableName(path, salt string) string {
	h := xxhash.Sum64String(salt + "\x00" + path)
	return fmt.Sprintf("cov_%s", strconv.FormatUint(h, 36))
}

// SortedStatementIDs returns statement ids in numeric order, used by the
// printer and tests that need deterministic iteration over a map.
func SortedStatementIDs(m *Map) []int {
	return sortedKeys(m.StatementMap)
}

func sortedKeys[V any](set map[string]V) []int {
	ids := make([]int, 0, len(set))
	for k := range set {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
