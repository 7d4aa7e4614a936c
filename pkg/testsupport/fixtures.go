package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-thesisforge/pkg/catalog"
)

// LoadCatalog reads a catalog fixture. Testing helpers fail the test on error
// to keep contract tests concise.
func LoadCatalog(t *testing.T, path string) catalog.Catalog {
	t.Helper()

	cat, err := LoadCatalogFromPath(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

// LoadCatalogFromPath returns a Catalog without requiring testing.T.
func LoadCatalogFromPath(path string) (catalog.Catalog, error) {
	if path == "" {
		return catalog.Catalog{}, errors.New("testsupport: catalog path is required")
	}
	cat, err := catalog.Load(context.Background(), catalog.SourceFromFile(path))
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("testsupport: load catalog: %w", err)
	}
	return cat, nil
}

// Rule returns a fully populated rule matching the TEST_UNI scenario. Callers
// mutate the copy to build edge cases.
func Rule() catalog.FormatRule {
	return catalog.FormatRule{
		ID:             "TEST_UNI",
		Name:           "Test University",
		Margins:        catalog.Margins{Left: 1.5, Right: 1.0, Top: 1.0, Bottom: 1.0},
		Font:           catalog.Font{Name: "Times New Roman", Size: 12},
		LineSpacing:    1.5,
		ReferenceStyle: "APA 7th",
		Preliminary:    []string{"Title Page", "Abstract", "Table of Contents"},
	}
}

// WriteGolden writes arbitrary data as JSON to a golden file when
// UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
