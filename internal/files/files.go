// Package files provides utilities for filesystem traversal and file
// collection, adapted from the teacher's internal/files to collect JS/TS
// source files instead of Go source files.
package files

import (
	"os"
	"path/filepath"
	"strings"
)

// sourceExtensions are the extensions considered instrumentable source.
var sourceExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"}

// CollectSourceFiles collects JS/TS source files in the directory tree
// rooted at dir. It traverses with filepath.WalkDir, skipping directories
// and files that match any of excludeGlobs via filepath.Match against the
// relative path. Declaration files (.d.ts) and test files (*.test.*,
// *.spec.*) are always skipped, since instrumenting a type-only or test
// file is never meaningful.
//
// dir: root directory to traverse.
// excludeGlobs: glob patterns matched against relative paths for exclusion.
func CollectSourceFiles(dir string, excludeGlobs []string) ([]string, error) {
	var out []string
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(absDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		matched := false
		for _, glob := range excludeGlobs {
			if ok, _ := filepath.Match(glob, rel); ok {
				matched = true
				break
			}
		}
		if matched {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if isSourceFile(d.Name()) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func isSourceFile(name string) bool {
	if strings.HasSuffix(name, ".d.ts") {
		return false
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if strings.HasSuffix(base, ".test") || strings.HasSuffix(base, ".spec") {
		return false
	}
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
