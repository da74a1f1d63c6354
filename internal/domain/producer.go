package domain

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"covgate.dev/pkg/covgate/internal/adapter"
	m "covgate.dev/pkg/covgate/internal/model"
)

// ProduceArgs holds the inputs for one annotation pass.
type ProduceArgs struct {
	Artifacts []m.Path
	WorkDir   m.Path
	// Executable overrides the annotator binary; empty means gcov.
	Executable string
	// Timeout bounds every single invocation; zero disables the bound.
	Timeout time.Duration
}

// Producer materializes annotation files for coverage-metadata artifacts.
type Producer interface {
	Produce(ctx context.Context, args ProduceArgs) error
}

type producer struct {
	annotator adapter.AnnotatorAdapter
}

// NewProducer constructs a Producer backed by the given annotator adapter.
func NewProducer(annotator adapter.AnnotatorAdapter) Producer {
	return &producer{annotator: annotator}
}

// Produce invokes the annotator once per artifact, in order, and stops at the
// first failure. Partial output left in WorkDir must not be aggregated.
func (p *producer) Produce(ctx context.Context, args ProduceArgs) error {
	name := annotatorName(args.Executable)

	for _, artifact := range args.Artifacts {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := p.annotate(ctx, name, artifact, args); err != nil {
			return err
		}
	}

	slog.Info("Annotated coverage artifacts", "count", len(args.Artifacts), "workDir", args.WorkDir)

	return nil
}

func (p *producer) annotate(ctx context.Context, name string, artifact m.Path, args ProduceArgs) error {
	invocationCtx := ctx

	if args.Timeout > 0 {
		var cancel context.CancelFunc

		invocationCtx, cancel = context.WithTimeout(ctx, args.Timeout)
		defer cancel()
	}

	slog.Debug("Running annotator", "executable", name, "artifact", artifact, "workDir", args.WorkDir)

	result, err := p.annotator.Annotate(invocationCtx, adapter.AnnotateRequest{
		Executable: args.Executable,
		WorkDir:    string(args.WorkDir),
		Artifact:   string(artifact),
	})

	switch {
	case err != nil && ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		slog.Error("Annotator timed out", "artifact", artifact, "timeout", args.Timeout)
		return newCoverageError("%s timed out for %s after %s (exit code %d):\n%s", name, artifact, args.Timeout, result.ExitCode, result.Output)
	case err != nil:
		slog.Error("Annotator could not run", "artifact", artifact, "error", err)
		return newCoverageError("%s failed for %s: %v", name, artifact, err)
	case result.ExitCode != 0:
		slog.Error("Annotator failed", "artifact", artifact, "exitCode", result.ExitCode)
		return newCoverageError("%s failed for %s with exit code %d:\n%s", name, artifact, result.ExitCode, result.Output)
	}

	return nil
}

func annotatorName(executable string) string {
	if executable == "" {
		return adapter.DefaultAnnotator
	}

	return filepath.Base(executable)
}
