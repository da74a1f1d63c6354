package adapter

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// DefaultAnnotator is the executable used to materialize .gcov files.
const DefaultAnnotator = "gcov"

// annotatorFlags request branch counts, branch probabilities, and path
// preservation so every source file gets a distinct annotation file.
var annotatorFlags = []string{
	"--branch-counts",
	"--branch-probabilities",
	"--preserve-paths",
}

// annotatorWaitDelay bounds how long Annotate waits for the output pipes to
// close after the process was killed. Wrapper scripts may leave children
// holding them open.
const annotatorWaitDelay = 2 * time.Second

// AnnotateRequest describes one annotator invocation.
type AnnotateRequest struct {
	// Executable defaults to DefaultAnnotator when empty.
	Executable string
	WorkDir    string
	Artifact   string
}

// AnnotateResult is the outcome of a finished annotator process.
type AnnotateResult struct {
	// Output holds the interleaved stdout/stderr of the process.
	Output   string
	ExitCode int
}

// AnnotatorAdapter abstracts running the external coverage annotator.
type AnnotatorAdapter interface {
	// Annotate runs the annotator for a single coverage-metadata artifact.
	// A non-zero exit is reported through AnnotateResult.ExitCode; the
	// error is reserved for processes that could not run to completion
	// (missing executable, cancelled or expired context).
	Annotate(ctx context.Context, req AnnotateRequest) (AnnotateResult, error)
}

// LocalAnnotatorAdapter provides a concrete implementation using os/exec.
type LocalAnnotatorAdapter struct{}

// NewLocalAnnotatorAdapter constructs a LocalAnnotatorAdapter.
func NewLocalAnnotatorAdapter() *LocalAnnotatorAdapter {
	return &LocalAnnotatorAdapter{}
}

// Annotate runs `<executable> --branch-counts --branch-probabilities
// --preserve-paths <artifact>` inside req.WorkDir.
func (a *LocalAnnotatorAdapter) Annotate(ctx context.Context, req AnnotateRequest) (AnnotateResult, error) {
	executable := req.Executable
	if executable == "" {
		executable = DefaultAnnotator
	}

	args := append(append([]string{}, annotatorFlags...), req.Artifact)

	// #nosec G204 - executable is operator configuration, not remote input
	cmd := exec.CommandContext(ctx, executable, args...)
	cmd.Dir = req.WorkDir
	cmd.WaitDelay = annotatorWaitDelay
	killProcessGroup(cmd)

	var output bytes.Buffer

	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	result := AnnotateResult{Output: output.String()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	if err != nil {
		result.ExitCode = -1
		return result, err
	}

	return result, nil
}
