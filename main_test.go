package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestRun verifies CLI parsing logic and defaults.
func TestRun(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		expected  string
		expectErr bool
	}{
		{
			name:     "DefaultPath",
			args:     []string{},
			expected: "Starting instrumentation on paths: [.]",
		},
		{
			name:     "WithPath",
			args:     []string{"--dry-run", "./fixtures"},
			expected: "Starting instrumentation on paths: [./fixtures]",
		},
		{
			name:     "CheckFlag",
			args:     []string{"--check", "."},
			expected: "Mode: CI Check (Verification)",
		},
		{
			name:      "UnknownFlag",
			args:      []string{"--foo-bar"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := run(tt.args, &buf)

			if tt.expectErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Logf("runner execution error: %v", err)
			}

			output := buf.String()
			if !strings.Contains(output, tt.expected) {
				t.Errorf("output missing %q. Got:\n%s", tt.expected, output)
			}
		})
	}
}
