package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

func TestReporterWorkflow(t *testing.T) {
	r := New()

	r.AddInstrumented("a.js", 3, 1, 2)
	r.AddInstrumented("b.js", 5, 2, 0)
	r.AddInstrumented("a.js", 3, 1, 2) // duplicate path, should not double the file list
	r.AddSkipped("c.js")

	data := r.GetData()
	if len(data.FilesInstrumented) != 2 {
		t.Errorf("len(FilesInstrumented) = %d, want 2", len(data.FilesInstrumented))
	}
	if len(data.FilesSkipped) != 1 {
		t.Errorf("len(FilesSkipped) = %d, want 1", len(data.FilesSkipped))
	}
	if data.Statements != 11 || data.Functions != 4 || data.Branches != 4 {
		t.Errorf("totals = %+v, want statements=11 functions=4 branches=4", data)
	}

	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	out := buf.String()
	for _, part := range []string{`"files_instrumented"`, `"a.js"`, `"statements": 11`} {
		if !strings.Contains(out, part) {
			t.Errorf("JSON output missing %q, got:\n%s", part, out)
		}
	}

	var decoded Data
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.FilesInstrumented) != 2 {
		t.Errorf("decoded FilesInstrumented len = %d, want 2", len(decoded.FilesInstrumented))
	}
}

func TestReporterConcurrency(t *testing.T) {
	r := New()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if id%2 == 0 {
				r.AddInstrumented("concurrent.js", 1, 1, 1)
			} else {
				r.AddSkipped("skipped.js")
			}
		}(i)
	}
	wg.Wait()

	data := r.GetData()
	if len(data.FilesInstrumented) != 1 {
		t.Errorf("len(FilesInstrumented) = %d, want 1", len(data.FilesInstrumented))
	}
	if data.Statements != 50 {
		t.Errorf("Statements = %d, want 50", data.Statements)
	}
}

func TestReporterSorting(t *testing.T) {
	r := New()
	r.AddInstrumented("b.js", 0, 0, 0)
	r.AddInstrumented("a.js", 0, 0, 0)
	r.AddInstrumented("c.js", 0, 0, 0)

	data := r.GetData()
	if data.FilesInstrumented[0] != "a.js" || data.FilesInstrumented[1] != "b.js" || data.FilesInstrumented[2] != "c.js" {
		t.Errorf("files not sorted: %v", data.FilesInstrumented)
	}
}

func TestReporterEmpty(t *testing.T) {
	r := New()
	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	var decoded Data
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.FilesInstrumented) != 0 || decoded.Statements != 0 {
		t.Error("expected empty report")
	}
}
