package files

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func TestCollectSourceFiles(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(dir string) error
		dir          string
		excludeGlobs []string
		want         []string
		wantErr      bool
	}{
		{
			name:  "no files",
			setup: func(dir string) error { return nil },
			want:  nil,
		},
		{
			name: "collect basic source files, skip declarations and tests",
			setup: func(dir string) error {
				for _, f := range []string{"main.js", "other.ts", "types.d.ts", "main.test.js", "other.spec.ts"} {
					if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644); err != nil {
						return err
					}
				}
				if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
					return err
				}
				return nil
			},
			want: []string{"main.js", "other.ts"},
		},
		{
			name: "exclude specific file",
			setup: func(dir string) error {
				if err := os.WriteFile(filepath.Join(dir, "main.js"), []byte("x"), 0644); err != nil {
					return err
				}
				return os.WriteFile(filepath.Join(dir, "other.js"), []byte("x"), 0644)
			},
			excludeGlobs: []string{"main.js"},
			want:         []string{"other.js"},
		},
		{
			name: "exclude directory",
			setup: func(dir string) error {
				if err := os.WriteFile(filepath.Join(dir, "main.js"), []byte("x"), 0644); err != nil {
					return err
				}
				if err := os.Mkdir(filepath.Join(dir, "node_modules"), 0755); err != nil {
					return err
				}
				return os.WriteFile(filepath.Join(dir, "node_modules", "lib.js"), []byte("x"), 0644)
			},
			excludeGlobs: []string{"node_modules"},
			want:         []string{"main.js"},
		},
		{
			name:    "invalid directory",
			dir:     "/nonexistent/directory",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir, err := os.MkdirTemp("", "collect-test-*")
			if err != nil {
				t.Fatal(err)
			}
			defer os.RemoveAll(tempDir)

			dir := tempDir
			if tt.dir != "" {
				dir = tt.dir
			} else if tt.setup != nil {
				if err := tt.setup(tempDir); err != nil {
					t.Fatal(err)
				}
			}

			got, err := CollectSourceFiles(dir, tt.excludeGlobs)
			if (err != nil) != tt.wantErr {
				t.Errorf("CollectSourceFiles() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			var gotBases []string
			for _, p := range got {
				gotBases = append(gotBases, filepath.Base(p))
			}
			sort.Strings(gotBases)
			sort.Strings(tt.want)

			if !reflect.DeepEqual(gotBases, tt.want) {
				t.Errorf("CollectSourceFiles() got = %v, want %v", gotBases, tt.want)
			}
		})
	}
}
