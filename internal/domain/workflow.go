package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"covgate.dev/pkg/covgate/internal/adapter"
	"covgate.dev/pkg/covgate/internal/controller"
	m "covgate.dev/pkg/covgate/internal/model"
	"covgate.dev/pkg/covgate/internal/validation"
)

const (
	artifactPattern   = "**/*.gcno"
	annotationPattern = "*.gcov"
)

// ReportArgs holds the inputs of a full coverage report run.
type ReportArgs struct {
	// Root is the source root used to shorten displayed source paths.
	Root      m.Path `validate:"required"`
	ObjectDir m.Path `validate:"required"`
	// OutputDir is the scratch directory; it is wiped at the start of a run.
	OutputDir     m.Path `validate:"required"`
	TextReport    m.Path `validate:"required"`
	HTMLReport    m.Path `validate:"required"`
	SummaryReport m.Path

	MinLineRate   float64 `validate:"gte=0,lte=1"`
	MinBranchRate float64 `validate:"gte=0,lte=1"`

	// Exclude lists doublestar patterns for declared sources to skip.
	Exclude []string

	Annotator        string
	AnnotatorTimeout time.Duration `validate:"gte=0"`

	// ShowFiles prints the per-file table before the gate runs.
	ShowFiles bool
}

// Workflow runs the annotate, aggregate, report, and gate pipeline.
type Workflow interface {
	Report(ctx context.Context, args ReportArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportWriter
	controller.UI
	Producer
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportWriter adapter.ReportWriter,
	ui controller.UI,
	producer Producer,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportWriter:    reportWriter,
		UI:              ui,
		Producer:        producer,
	}
}

// Report resets the scratch directory, annotates every artifact, aggregates
// the annotation files, writes the reports, and finally enforces the
// thresholds. Reports are written even when the gate fails.
func (w *workflow) Report(ctx context.Context, args ReportArgs) error {
	if err := validation.ValidateStruct(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	excluder, err := NewGlobExcluder(args.Exclude)
	if err != nil {
		return err
	}

	if err := w.ResetDir(ctx, args.OutputDir); err != nil {
		slog.Error("Failed to reset scratch directory", "path", args.OutputDir, "error", err)
		return fmt.Errorf("reset output dir: %w", err)
	}

	artifacts, err := w.FindFiles(ctx, args.ObjectDir, artifactPattern)
	if err != nil {
		slog.Error("Failed to discover coverage artifacts", "objectDir", args.ObjectDir, "error", err)
		return fmt.Errorf("discover artifacts: %w", err)
	}

	if len(artifacts) == 0 {
		return newCoverageError("No .gcno files found. Did you enable coverage instrumentation?")
	}

	w.DisplayRunInfo(ctx, len(artifacts))

	if err := w.Produce(ctx, ProduceArgs{
		Artifacts:  artifacts,
		WorkDir:    args.OutputDir,
		Executable: args.Annotator,
		Timeout:    args.AnnotatorTimeout,
	}); err != nil {
		return err
	}

	annotations, err := w.FindFiles(ctx, args.OutputDir, annotationPattern)
	if err != nil {
		slog.Error("Failed to list annotation files", "outputDir", args.OutputDir, "error", err)
		return fmt.Errorf("discover annotations: %w", err)
	}

	coverage, err := NewAggregator(w.SourceFSAdapter, excluder).Aggregate(ctx, annotations)
	if err != nil {
		return err
	}

	slog.Info("Aggregated coverage",
		"files", len(coverage.Files),
		"lineRate", coverage.LineRate(),
		"branchRate", coverage.BranchRate(),
	)

	if err := w.Write(ctx, coverage, adapter.ReportPaths{
		Text:    args.TextReport,
		HTML:    args.HTMLReport,
		Summary: args.SummaryReport,
	}); err != nil {
		return err
	}

	if args.ShowFiles {
		w.DisplayCoverage(ctx, coverage, args.Root)
	}

	if err := Gate(coverage, m.Thresholds{
		MinLineRate:   args.MinLineRate,
		MinBranchRate: args.MinBranchRate,
	}); err != nil {
		slog.Warn("Coverage gate failed", "error", err)
		return err
	}

	w.DisplaySummary(ctx, coverage, args.TextReport, args.HTMLReport)

	return nil
}
