// Package testkit provides testing helpers and compressed fixtures
package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MustNotPanic asserts that fn does not panic
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain asserts that haystack contains needle
// on failure the full haystack is written under t.TempDir for inspection
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n\nfull output written to %s", needle, dump(t, haystack))
	}
}

// MustNotContain is the negation of MustContain
func MustNotContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Fatalf("expected output not to contain %q\n\nfull output written to %s", needle, dump(t, haystack))
	}
}

func dump(t *testing.T, s string) string {
	p := filepath.Join(t.TempDir(), "output.txt")
	_ = os.WriteFile(p, []byte(s), 0o600)
	return p
}
