// Package testutil loads the HTML survey fixtures used by tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FixturePath returns the path of a fixture under survey/testdata/fixtures.
func FixturePath(name string) string {
	_, filename, _, _ := runtime.Caller(0)
	baseDir := filepath.Dir(filepath.Dir(filename)) // up to survey/

	return filepath.Join(baseDir, "testdata", "fixtures", name+".html")
}

// LoadFixture reads an HTML survey fixture.
func LoadFixture(t testing.TB, name string) string {
	t.Helper()

	data, err := os.ReadFile(FixturePath(name))
	if err != nil {
		t.Fatalf("Failed to load fixture %s: %v", name, err)
	}

	return string(data)
}
