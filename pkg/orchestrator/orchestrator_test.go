package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-thesisforge/pkg/catalog"
	"github.com/goliatone/go-thesisforge/pkg/docx"
	"github.com/goliatone/go-thesisforge/pkg/orchestrator"
	"github.com/goliatone/go-thesisforge/pkg/render"
	"github.com/goliatone/go-thesisforge/pkg/renderers/word"
	"github.com/goliatone/go-thesisforge/pkg/testsupport"
)

type recordingMetrics struct {
	rules    int
	rendered map[string]int
	failed   map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{rendered: map[string]int{}, failed: map[string]int{}}
}

func (m *recordingMetrics) CatalogLoaded(rules int) { m.rules = rules }
func (m *recordingMetrics) ArtifactRendered(renderer string, _ time.Duration) {
	m.rendered[renderer]++
}
func (m *recordingMetrics) RenderFailed(renderer string, _ time.Duration) {
	m.failed[renderer]++
}

func TestGenerate_WritesArtifactsPerRule(t *testing.T) {
	sink := orchestrator.NewMemorySink()
	metrics := newRecordingMetrics()
	o := orchestrator.New(orchestrator.WithSink(sink), orchestrator.WithMetrics(metrics))

	report, err := o.Generate(testsupport.Context(), orchestrator.Request{
		Source: catalog.SourceFromFile(filepath.Join("testdata", "data.json")),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Failed() {
		t.Fatalf("unexpected failures: %v", report.Err())
	}

	want := []string{
		"TEST_UNI/Template.docx",
		"TEST_UNI/index.html",
		"UK_OXFORD/Template.docx",
		"UK_OXFORD/index.html",
		"index.html",
	}
	if diff := cmp.Diff(want, sink.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if report.IndexPath != "index.html" || report.Rules != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if diff := cmp.Diff([]string{"TEST_UNI", "UK_OXFORD"}, report.Rendered()); diff != "" {
		t.Fatalf("rendered mismatch (-want +got):\n%s", diff)
	}
	if metrics.rules != 2 || metrics.rendered["docx"] != 2 || metrics.rendered["html"] != 2 {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}

	data, _ := sink.File("UK_OXFORD/Template.docx")
	snap, err := docx.InspectBytes(data)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if snap.PageSize.Name != "A4" || snap.Margins.Left != 1.25 {
		t.Fatalf("unexpected layout: %+v %+v", snap.PageSize, snap.Margins)
	}
}

func TestGenerate_DuplicateIdentifiersWriteNothing(t *testing.T) {
	sink := orchestrator.NewMemorySink()
	o := orchestrator.New(orchestrator.WithSink(sink))

	_, err := o.Generate(testsupport.Context(), orchestrator.Request{
		Source: catalog.SourceFromFile(filepath.Join("testdata", "dup.json")),
	})
	var dup *catalog.DuplicateIdentifierError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateIdentifierError, got %v", err)
	}
	if dup.ID != "DUP" {
		t.Fatalf("unexpected duplicate id %q", dup.ID)
	}
	if paths := sink.Paths(); len(paths) != 0 {
		t.Fatalf("expected zero artifacts, got %v", paths)
	}
}

func TestGenerate_FailureIsIsolated(t *testing.T) {
	sink := orchestrator.NewMemorySink()
	metrics := newRecordingMetrics()
	o := orchestrator.New(orchestrator.WithSink(sink), orchestrator.WithMetrics(metrics))

	report, err := o.Generate(testsupport.Context(), orchestrator.Request{
		Source:        catalog.SourceFromFile(filepath.Join("testdata", "mixed_fonts.json")),
		RenderOptions: render.RenderOptions{StrictFonts: true},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !report.Failed() || len(report.Failures) != 1 {
		t.Fatalf("expected one failure, got %+v", report.Failures)
	}

	failure := report.Failures[0]
	if failure.RuleID != "ODD" || failure.Renderer != "docx" {
		t.Fatalf("unexpected failure: %+v", failure)
	}
	if !errors.Is(report.Err(), render.ErrFontUnavailable) {
		t.Fatalf("expected ErrFontUnavailable in %v", report.Err())
	}
	var renderErr *render.RenderError
	if !errors.As(report.Err(), &renderErr) || renderErr.RuleID != "ODD" {
		t.Fatalf("expected RenderError for ODD, got %v", report.Err())
	}

	want := []string{"GOOD/Template.docx", "GOOD/index.html", "index.html"}
	if diff := cmp.Diff(want, sink.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	index, _ := sink.File("index.html")
	if strings.Contains(string(index), "Odd Institute") {
		t.Fatalf("failed rule must not be listed on the index")
	}
	if metrics.failed["docx"] != 1 || metrics.failed["html"] != 0 {
		t.Fatalf("unexpected failure metrics: %+v", metrics.failed)
	}
}

// notesRenderer fails for rules listed in failFor.
type notesRenderer struct {
	failFor map[string]bool
}

func (notesRenderer) Name() string        { return "notes" }
func (notesRenderer) ContentType() string { return "text/plain" }
func (notesRenderer) FileName() string    { return "notes.txt" }

func (r notesRenderer) Render(_ context.Context, rule catalog.FormatRule, _ render.RenderOptions) (render.Artifact, error) {
	if r.failFor[rule.ID] {
		return render.Artifact{}, errors.New("notes unavailable")
	}
	return render.Artifact{RuleID: rule.ID, Renderer: "notes", FileName: "notes.txt", Data: []byte(rule.Name)}, nil
}

func TestGenerate_LaterFailureWritesNothingForRule(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(word.New())
	registry.MustRegister(notesRenderer{failFor: map[string]bool{"UK_OXFORD": true}})

	sink := orchestrator.NewMemorySink()
	metrics := newRecordingMetrics()
	o := orchestrator.New(
		orchestrator.WithSink(sink),
		orchestrator.WithRegistry(registry),
		orchestrator.WithMetrics(metrics),
	)

	report, err := o.Generate(testsupport.Context(), orchestrator.Request{
		Source:  catalog.SourceFromFile(filepath.Join("testdata", "data.json")),
		Formats: []string{"docx", "notes"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(report.Failures) != 1 || report.Failures[0].RuleID != "UK_OXFORD" || report.Failures[0].Renderer != "notes" {
		t.Fatalf("unexpected failures: %+v", report.Failures)
	}

	want := []string{"TEST_UNI/Template.docx", "TEST_UNI/notes.txt"}
	if diff := cmp.Diff(want, sink.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"TEST_UNI"}, report.Rendered()); diff != "" {
		t.Fatalf("rendered mismatch (-want +got):\n%s", diff)
	}
	if metrics.rendered["docx"] != 1 || metrics.failed["notes"] != 1 {
		t.Fatalf("unexpected metrics: rendered=%v failed=%v", metrics.rendered, metrics.failed)
	}
}

func TestGenerate_SubstitutionWarning(t *testing.T) {
	sink := orchestrator.NewMemorySink()
	o := orchestrator.New(orchestrator.WithSink(sink))

	report, err := o.Generate(testsupport.Context(), orchestrator.Request{
		Source:  catalog.SourceFromFile(filepath.Join("testdata", "mixed_fonts.json")),
		Formats: []string{"docx"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Failed() {
		t.Fatalf("unexpected failures: %v", report.Err())
	}
	warned := report.Warnings()
	if len(warned) != 1 || warned[0].RuleID != "ODD" || warned[0].Warnings[0].Code != render.WarningFontSubstituted {
		t.Fatalf("unexpected warnings: %+v", warned)
	}
	if report.IndexPath != "" {
		t.Fatalf("docx-only run should not write an index, got %q", report.IndexPath)
	}
}

func TestGenerate_OnlyAndSelector(t *testing.T) {
	sink := orchestrator.NewMemorySink()
	var offered []string
	selector := orchestrator.SelectorFunc(func(_ context.Context, rules []catalog.FormatRule) ([]string, error) {
		for _, rule := range rules {
			offered = append(offered, rule.ID)
		}
		return []string{"UK_OXFORD"}, nil
	})
	o := orchestrator.New(orchestrator.WithSink(sink), orchestrator.WithSelector(selector), orchestrator.WithIndex(false))

	report, err := o.Generate(testsupport.Context(), orchestrator.Request{
		Source:  catalog.SourceFromFile(filepath.Join("testdata", "data.json")),
		Formats: []string{"html"},
		Only:    []string{"UK_*", "TEST_*"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if diff := cmp.Diff([]string{"TEST_UNI", "UK_OXFORD"}, offered); diff != "" {
		t.Fatalf("offered mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"UK_OXFORD/index.html"}, sink.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if report.Rules != 1 {
		t.Fatalf("expected 1 rule, got %d", report.Rules)
	}
}

func TestGenerate_NothingSelected(t *testing.T) {
	o := orchestrator.New(orchestrator.WithSink(orchestrator.NewMemorySink()))
	_, err := o.Generate(testsupport.Context(), orchestrator.Request{
		Source: catalog.SourceFromFile(filepath.Join("testdata", "data.json")),
		Only:   []string{"NOPE_*"},
	})
	if !errors.Is(err, orchestrator.ErrNothingSelected) {
		t.Fatalf("expected ErrNothingSelected, got %v", err)
	}
}

func TestGenerate_RequestValidation(t *testing.T) {
	o := orchestrator.New(orchestrator.WithSink(orchestrator.NewMemorySink()))

	if _, err := o.Generate(testsupport.Context(), orchestrator.Request{}); err == nil {
		t.Fatalf("expected error for missing source")
	}
	if _, err := o.Generate(testsupport.Context(), orchestrator.Request{
		Source:  catalog.SourceFromFile(filepath.Join("testdata", "data.json")),
		Formats: []string{"pdf"},
	}); err == nil {
		t.Fatalf("expected error for unknown format")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := o.Generate(ctx, orchestrator.Request{
		Source: catalog.SourceFromFile(filepath.Join("testdata", "data.json")),
	}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGenerate_PreloadedCatalog(t *testing.T) {
	cat, err := catalog.New("memory", []catalog.FormatRule{testsupport.Rule()})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	sink := orchestrator.NewMemorySink()
	report, err := orchestrator.New(orchestrator.WithSink(sink)).Generate(testsupport.Context(), orchestrator.Request{
		Catalog: &cat,
		Formats: []string{"docx"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(report.Outputs) != 1 || report.Outputs[0].Path != "TEST_UNI/Template.docx" {
		t.Fatalf("unexpected outputs: %+v", report.Outputs)
	}
}

func TestDirSink_WritesAndOverwrites(t *testing.T) {
	root := t.TempDir()
	sink := orchestrator.NewDirSink(root)
	artifact := render.Artifact{RuleID: "X", FileName: "Template.docx", Data: []byte("first")}

	path, err := sink.Write(testsupport.Context(), "X", artifact)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != filepath.Join(root, "X", "Template.docx") {
		t.Fatalf("unexpected path %q", path)
	}

	artifact.Data = []byte("second")
	if _, err := sink.Write(testsupport.Context(), "X", artifact); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("expected overwrite, got %q", got)
	}

	if _, err := sink.Write(testsupport.Context(), "X", render.Artifact{RuleID: "X"}); err == nil {
		t.Fatalf("expected error for missing file name")
	}
}

func TestGenerate_DirSinkIsDeterministic(t *testing.T) {
	root := t.TempDir()
	o := orchestrator.New(orchestrator.WithSink(orchestrator.NewDirSink(root)))
	req := orchestrator.Request{Source: catalog.SourceFromFile(filepath.Join("testdata", "data.json"))}

	if _, err := o.Generate(testsupport.Context(), req); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, err := os.ReadFile(filepath.Join(root, "TEST_UNI", "Template.docx"))
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	if _, err := o.Generate(testsupport.Context(), req); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, err := os.ReadFile(filepath.Join(root, "TEST_UNI", "Template.docx"))
	if err != nil {
		t.Fatalf("read second: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("expected byte-identical documents across runs")
	}
}
