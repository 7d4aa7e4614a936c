package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-thesisforge/pkg/catalog"
	"github.com/goliatone/go-thesisforge/pkg/docx"
	"github.com/goliatone/go-thesisforge/pkg/orchestrator"
)

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestGenerate_WritesOutputTree(t *testing.T) {
	out := t.TempDir()
	metricsFile := filepath.Join(t.TempDir(), "run.prom")

	code, stdout, stderr := execute(t,
		"--catalog", filepath.Join("testdata", "data.json"),
		"--output", out,
		"--metrics-file", metricsFile,
	)
	require.Equal(t, 0, code, "stderr: %s", stderr)

	for _, rel := range []string{
		"TEST_UNI/Template.docx",
		"TEST_UNI/index.html",
		"UK_OXFORD/Template.docx",
		"UK_OXFORD/index.html",
		"index.html",
	} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(rel)))
	}
	assert.Contains(t, stdout, "2 of 2 institutions generated, 0 failed")

	snap, err := docx.InspectFile(filepath.Join(out, "TEST_UNI", "Template.docx"))
	require.NoError(t, err)
	assert.Equal(t, docx.Margins{Left: 1.5, Right: 1, Top: 1, Bottom: 1}, snap.Margins)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `thesisforge_artifacts_rendered_total{format="docx"} 2`)
	assert.Contains(t, string(prom), "thesisforge_catalog_rules 2")
}

func TestGenerate_OnlyAndFormat(t *testing.T) {
	out := t.TempDir()
	code, _, stderr := execute(t,
		"-c", filepath.Join("testdata", "data.json"),
		"-o", out,
		"--format", "docx",
		"--only", "UK_*",
	)
	require.Equal(t, 0, code, "stderr: %s", stderr)

	assert.FileExists(t, filepath.Join(out, "UK_OXFORD", "Template.docx"))
	assert.NoFileExists(t, filepath.Join(out, "UK_OXFORD", "index.html"))
	assert.NoDirExists(t, filepath.Join(out, "TEST_UNI"))
	assert.NoFileExists(t, filepath.Join(out, "index.html"))
}

func TestGenerate_DuplicateIdentifiers(t *testing.T) {
	out := filepath.Join(t.TempDir(), "Output")
	code, _, stderr := execute(t, "-c", filepath.Join("testdata", "dup.json"), "-o", out)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `duplicate identifier "DUP"`)
	assert.NoDirExists(t, out)
}

func TestGenerate_InvalidRecordsListed(t *testing.T) {
	out := filepath.Join(t.TempDir(), "Output")
	code, _, stderr := execute(t, "-c", filepath.Join("testdata", "invalid.json"), "-o", out)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "record 0 (NEG)")
	assert.Contains(t, stderr, "record 1 (NOFONT)")
	assert.NoDirExists(t, out)
}

func TestGenerate_StrictFontsFailsRun(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "fonts.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`
- id: ODD
  uni_name: Odd Institute
  margins: {left: 1, right: 1, top: 1, bottom: 1}
  font: {name: Imaginary Serif, size: 11}
  line_spacing: 1.5
  reference_style: MLA
  preliminary_order: []
`), 0o644))

	out := filepath.Join(dir, "Output")
	code, stdout, _ := execute(t, "-c", catalogPath, "-o", out, "--strict-fonts")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "0 of 1 institutions generated, 1 failed")
	assert.NoFileExists(t, filepath.Join(out, "ODD", "Template.docx"))

	code, stdout, _ = execute(t, "-c", catalogPath, "-o", out)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Imaginary Serif")
	assert.FileExists(t, filepath.Join(out, "ODD", "Template.docx"))
}

func TestGenerate_Interactive(t *testing.T) {
	out := t.TempDir()
	var stdout, stderr bytes.Buffer
	a := &app{
		stdout: &stdout,
		stderr: &stderr,
		selector: orchestrator.SelectorFunc(func(_ context.Context, rules []catalog.FormatRule) ([]string, error) {
			return []string{rules[0].ID}, nil
		}),
	}
	cmd := a.rootCmd()
	cmd.SetArgs([]string{"-c", filepath.Join("testdata", "data.json"), "-o", out, "--interactive"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.DirExists(t, filepath.Join(out, "TEST_UNI"))
	assert.NoDirExists(t, filepath.Join(out, "UK_OXFORD"))
}

func TestValidate(t *testing.T) {
	code, stdout, _ := execute(t, "validate", "-c", filepath.Join("testdata", "data.json"))
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "2 rules, all valid")

	code, _, stderr := execute(t, "validate", "-c", filepath.Join("testdata", "missing.json"))
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, stderr)
}

func TestList(t *testing.T) {
	code, stdout, _ := execute(t, "list", "-c", filepath.Join("testdata", "data.json"))
	require.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Test University")
	assert.Contains(t, lines[2], "University of Oxford")
	assert.Contains(t, lines[2], "DPhil")
}

func TestShow(t *testing.T) {
	code, stdout, _ := execute(t, "show", "UK_OXFORD", "--plain", "-c", filepath.Join("testdata", "data.json"))
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "# University of Oxford")
	assert.Contains(t, stdout, "| Font | Garamond 11.5pt |")
	assert.Contains(t, stdout, "| Page size | A4 |")
	assert.Contains(t, stdout, "3. Conclusion")

	code, stdout, _ = execute(t, "show", "TEST_UNI", "-c", filepath.Join("testdata", "data.json"))
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Test University")
	assert.Contains(t, stdout, "Times New Roman")

	code, _, stderr := execute(t, "show", "NOPE", "-c", filepath.Join("testdata", "data.json"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `unknown identifier "NOPE"`)
}

func TestInspect(t *testing.T) {
	out := t.TempDir()
	code, _, _ := execute(t, "-c", filepath.Join("testdata", "data.json"), "-o", out, "--format", "docx")
	require.Equal(t, 0, code)

	code, stdout, _ := execute(t, "inspect", filepath.Join(out, "UK_OXFORD", "Template.docx"))
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "A4")
	assert.Contains(t, stdout, "left 1.25in")
	assert.Contains(t, stdout, "Garamond 11.5pt, line spacing 2")
	assert.Contains(t, stdout, `TOC \o "1-3" \h \z \u`)
	assert.Contains(t, stdout, "PAGE")

	code, _, _ = execute(t, "inspect", filepath.Join(out, "missing.docx"))
	assert.Equal(t, 1, code)
}

func TestInvalidLogLevel(t *testing.T) {
	code, _, _ := execute(t, "--log-level", "loud", "-c", filepath.Join("testdata", "data.json"), "-o", t.TempDir())
	assert.Equal(t, 1, code)
}
