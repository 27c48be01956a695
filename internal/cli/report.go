package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/martlens/internal/engine"
	"github.com/roach88/martlens/internal/value"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	CatalogPath string
	Parallel    bool
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the unified KPI report",
		Long: `Evaluate the measure catalog against the warehouse and print one
two-column report (measure name, measure value) in catalog order.

The default catalog holds the standard six KPIs. A custom catalog can be
supplied as a CUE or YAML file via --catalog.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.CatalogPath, "catalog", "", "measure catalog file (.cue, .yaml)")
	cmd.Flags().BoolVar(&opts.Parallel, "parallel", false, "evaluate measures concurrently")

	return cmd
}

func runReport(rootOpts *RootOptions, opts *ReportOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	catalog, err := LoadCatalogFile(opts.CatalogPath)
	if err != nil {
		_ = formatter.Error(ErrCodeCatalog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load catalog", err)
	}
	formatter.VerboseLog("Catalog: %d measure(s)", len(catalog))

	s, err := openWarehouse(rootOpts)
	if err != nil {
		_ = formatter.Error(ErrCodeWarehouse, err.Error(), nil)
		return err
	}
	defer s.Close()

	var builderOpts []engine.BuilderOption
	if opts.Parallel {
		builderOpts = append(builderOpts, engine.WithParallel())
	}
	builder := engine.NewBuilder(engine.NewEvaluator(s), builderOpts...)

	report, err := builder.BuildReport(cmd.Context(), catalog)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("report build interrupted: %v", err), nil)
		return WrapExitError(ExitCommandError, "build report", err)
	}
	formatter.VerboseLog("Run %s complete", report.RunID)

	if formatter.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		fmt.Fprint(formatter.Writer, renderReport(report))
	}

	if report.AnyFailed() {
		return NewExitError(ExitFailure, "report completed with failed measures")
	}
	return nil
}

// renderReport renders a report as a plain two-column table.
// Failed measures show NULL with their error tag; nothing is dropped.
func renderReport(report engine.Report) string {
	const nameHeader, valueHeader = "MEASURE", "VALUE"

	nameWidth := len(nameHeader)
	for _, res := range report.Results {
		if len(res.Name) > nameWidth {
			nameWidth = len(res.Name)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s  %s\n", nameWidth, nameHeader, valueHeader)
	for _, res := range report.Results {
		rendered := renderValue(res.Value)
		if res.Failed() {
			rendered = fmt.Sprintf("%s (%s)", rendered, res.ErrTag)
		}
		fmt.Fprintf(&b, "%-*s  %s\n", nameWidth, res.Name, rendered)
	}
	if !report.Complete {
		fmt.Fprintf(&b, "(partial report: build was cancelled)\n")
	}
	return b.String()
}

// englishPrinter formats numbers with thousands separators for table output.
var englishPrinter = message.NewPrinter(language.English)

// renderValue renders a scalar for the text table. Floats print with at
// most four decimals, trailing zeros trimmed.
func renderValue(v value.Value) string {
	switch val := v.(type) {
	case value.Int:
		return englishPrinter.Sprintf("%d", int64(val))
	case value.Float:
		s := englishPrinter.Sprintf("%.4f", float64(val))
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
		return s
	default:
		return value.String(v)
	}
}
