// Package report collects run-wide statistics across a batch transform and
// writes them as JSON for CI integration, adapted from the teacher's
// pkg/report/json.go Reporter.
package report

import (
	"encoding/json"
	"io"
	"sort"
	"sync"
)

// Data is the JSON report schema.
type Data struct {
	// FilesInstrumented lists the unique paths that were rewritten.
	FilesInstrumented []string `json:"files_instrumented"`
	// FilesSkipped lists paths left untouched because of an `istanbul ignore
	// file` hint or because they were already instrumented.
	FilesSkipped []string `json:"files_skipped"`
	// Statements, Functions and Branches are the total counts of ids allocated
	// across the whole run.
	Statements int `json:"statements"`
	Functions  int `json:"functions"`
	Branches   int `json:"branches"`
}

// Reporter collects statistics during a batch run. Safe for concurrent use
// from the errgroup workers in pkg/batch.
type Reporter struct {
	mu           sync.Mutex
	data         Data
	instrumented map[string]struct{}
	skipped      map[string]struct{}
}

// New returns an empty Reporter.
func New() *Reporter {
	return &Reporter{
		instrumented: make(map[string]struct{}),
		skipped:      make(map[string]struct{}),
		data: Data{
			FilesInstrumented: []string{},
			FilesSkipped:      []string{},
		},
	}
}

// AddInstrumented records path as rewritten and tallies its counts.
func (r *Reporter) AddInstrumented(path string, statements, functions, branches int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.instrumented[path]; !ok {
		r.instrumented[path] = struct{}{}
		r.data.FilesInstrumented = append(r.data.FilesInstrumented, path)
	}
	r.data.Statements += statements
	r.data.Functions += functions
	r.data.Branches += branches
}

// AddSkipped records path as left untouched.
func (r *Reporter) AddSkipped(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.skipped[path]; !ok {
		r.skipped[path] = struct{}{}
		r.data.FilesSkipped = append(r.data.FilesSkipped, path)
	}
}

// WriteJSON serializes the collected statistics to w, sorting file lists
// first for deterministic output.
func (r *Reporter) WriteJSON(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sort.Strings(r.data.FilesInstrumented)
	sort.Strings(r.data.FilesSkipped)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.data)
}

// GetData returns a copy of the internal data structure.
func (r *Reporter) GetData() Data {
	r.mu.Lock()
	defer r.mu.Unlock()

	instrumented := make([]string, len(r.data.FilesInstrumented))
	copy(instrumented, r.data.FilesInstrumented)
	sort.Strings(instrumented)

	skipped := make([]string, len(r.data.FilesSkipped))
	copy(skipped, r.data.FilesSkipped)
	sort.Strings(skipped)

	return Data{
		FilesInstrumented: instrumented,
		FilesSkipped:      skipped,
		Statements:        r.data.Statements,
		Functions:         r.data.Functions,
		Branches:          r.data.Branches,
	}
}
