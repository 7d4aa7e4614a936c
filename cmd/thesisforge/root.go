package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-thesisforge/internal/logging"
	"github.com/goliatone/go-thesisforge/internal/metrics"
	"github.com/goliatone/go-thesisforge/internal/prompt"
	"github.com/goliatone/go-thesisforge/pkg/catalog"
	"github.com/goliatone/go-thesisforge/pkg/orchestrator"
	"github.com/goliatone/go-thesisforge/pkg/render"
)

// errRunFailed is returned after the summary already explained the failure.
var errRunFailed = errors.New("run failed")

const (
	defaultCatalog = "data.json"
	defaultOutput  = orchestrator.DefaultOutputDir
)

type globalFlags struct {
	catalog   string
	logLevel  string
	logFormat string
}

type generateFlags struct {
	output      string
	formats     []string
	only        []string
	interactive bool
	strictFonts bool
	noIndex     bool
	metricsFile string
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	global globalFlags

	// selector overrides the survey prompt used by --interactive.
	selector orchestrator.Selector
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	return a.rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "thesisforge",
		Short: "Generate thesis templates from a catalog of university formatting rules",
		Long: `thesisforge reads a catalog of university formatting rules and writes one
Word template per institution, plus an HTML landing page and a searchable
index, under the output directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.generate(cmd, flags)
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	persistent := cmd.PersistentFlags()
	persistent.StringVarP(&a.global.catalog, "catalog", "c", defaultCatalog, "catalog file (.json, .yaml or .yml)")
	persistent.StringVar(&a.global.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	persistent.StringVar(&a.global.logFormat, "log-format", logging.FormatText, "log format: text or json")

	local := cmd.Flags()
	local.StringVarP(&flags.output, "output", "o", defaultOutput, "output directory")
	local.StringSliceVarP(&flags.formats, "format", "f", orchestrator.DefaultFormats, "renderers to run, in order")
	local.StringArrayVar(&flags.only, "only", nil, "only generate ids matching this glob (repeatable)")
	local.BoolVarP(&flags.interactive, "interactive", "i", false, "pick institutions interactively")
	local.BoolVar(&flags.strictFonts, "strict-fonts", false, "fail rules whose font is not in the known-font table")
	local.BoolVar(&flags.noIndex, "no-index", false, "skip the index page at the output root")
	local.StringVar(&flags.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")

	cmd.AddCommand(
		a.validateCmd(),
		a.listCmd(),
		a.showCmd(),
		a.inspectCmd(),
	)
	return cmd
}

func (a *app) logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(a.global.logLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(a.stderr, level, a.global.logFormat)
}

func (a *app) loadCatalog(cmd *cobra.Command, logger *slog.Logger) (catalog.Catalog, error) {
	loader := catalog.NewLoader(catalog.WithLogger(logger))
	return loader.Load(cmd.Context(), catalog.SourceFromFile(a.global.catalog))
}

func (a *app) generate(cmd *cobra.Command, flags generateFlags) error {
	logger, err := a.logger()
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	logger = logger.With("run", runID)

	recorder := metrics.New()
	options := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithLoader(catalog.NewLoader(catalog.WithLogger(logger))),
		orchestrator.WithSink(orchestrator.NewDirSink(flags.output)),
		orchestrator.WithMetrics(recorder),
		orchestrator.WithIndex(!flags.noIndex),
	}
	if flags.interactive {
		selector := a.selector
		if selector == nil {
			selector = prompt.NewRuleSelector(nil)
		}
		options = append(options, orchestrator.WithSelector(selector))
	}

	report, err := orchestrator.New(options...).Generate(cmd.Context(), orchestrator.Request{
		Source:  catalog.SourceFromFile(a.global.catalog),
		Formats: normaliseFormats(flags.formats),
		Only:    flags.only,
		RenderOptions: render.RenderOptions{
			StrictFonts: flags.strictFonts,
		},
	})

	if flags.metricsFile != "" {
		if werr := recorder.WriteTextfile(flags.metricsFile); werr != nil {
			logger.Error("metrics not written", "error", werr)
		}
	}

	if err != nil {
		if errors.Is(err, orchestrator.ErrNothingSelected) {
			fmt.Fprintln(a.stdout, "Nothing selected.")
			return nil
		}
		printCatalogError(a.stderr, err)
		return errRunFailed
	}

	writeSummary(a.stdout, report, runID)
	if report.Failed() {
		return errRunFailed
	}
	return nil
}

func normaliseFormats(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
