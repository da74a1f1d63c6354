package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"covgate.dev/pkg/covgate/internal/adapter"
	m "covgate.dev/pkg/covgate/internal/model"
)

const (
	sourceMarker     = "Source:"
	branchToken      = "branch"
	callToken        = "call"
	neverExecuted    = "never executed"
	takenZero        = "taken 0"
	notExecutedCount = "#####"
	noCodeCount      = "-"
	// unexecutedBlockSuffix marks a line whose count is non-zero but which
	// contains blocks that never ran (e.g. "12*").
	unexecutedBlockSuffix = "*"
)

// Aggregator turns annotation files into overall and per-file coverage.
type Aggregator interface {
	Aggregate(ctx context.Context, paths []m.Path) (m.Coverage, error)
}

type aggregator struct {
	fsAdapter adapter.SourceFSAdapter
	excluder  Excluder
}

// NewAggregator constructs an Aggregator reading annotation files through
// fsAdapter and skipping files whose declared source is excluded.
func NewAggregator(fsAdapter adapter.SourceFSAdapter, excluder Excluder) Aggregator {
	return &aggregator{
		fsAdapter: fsAdapter,
		excluder:  excluder,
	}
}

// Aggregate reads every annotation file in order and accumulates the
// included ones. Files with no executable lines contribute nothing.
func (a *aggregator) Aggregate(ctx context.Context, paths []m.Path) (m.Coverage, error) {
	var coverage m.Coverage

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return m.Coverage{}, err
		}

		content, err := a.fsAdapter.ReadFile(ctx, path)
		if err != nil {
			slog.Error("Failed to read annotation file", "path", path, "error", err)
			return m.Coverage{}, fmt.Errorf("read annotation %s: %w", path, err)
		}

		file := NewAnnotationFile(path, content)
		if a.excluder != nil && a.excluder.Excluded(file.Source) {
			slog.Debug("Skipping excluded annotation", "path", path, "source", file.Source)
			continue
		}

		summary := Summarize(file)
		if summary.Lines == 0 {
			slog.Debug("Skipping annotation without executable lines", "path", path)
			continue
		}

		slog.Debug("Aggregated annotation",
			"path", path,
			"lines", summary.Lines,
			"coveredLines", summary.CoveredLines,
			"branches", summary.Branches,
			"coveredBranches", summary.CoveredBranches,
		)

		coverage.Add(summary)
	}

	if coverage.Lines == 0 {
		return m.Coverage{}, newCoverageError("No executable lines were discovered in gcov output.")
	}

	return coverage, nil
}

// NewAnnotationFile wraps raw annotation content, extracting the declared
// source path from the first line carrying the "Source:" marker.
func NewAnnotationFile(path m.Path, content []byte) m.AnnotationFile {
	return m.AnnotationFile{
		Name:    filepath.Base(string(path)),
		Path:    path,
		Source:  declaredSource(splitLines(content)),
		Content: content,
	}
}

func declaredSource(lines []string) string {
	for _, line := range lines {
		if idx := strings.Index(line, sourceMarker); idx >= 0 {
			return strings.TrimSpace(line[idx+len(sourceMarker):])
		}
	}

	return ""
}

// Summarize classifies every record of a single annotation file.
func Summarize(file m.AnnotationFile) m.FileCoverage {
	summary := m.FileCoverage{
		Name:   file.Name,
		Source: file.Source,
	}

	for _, line := range splitLines(file.Content) {
		switch classifyRecord(line) {
		case recordBranchTaken:
			summary.Branches++
			summary.CoveredBranches++
		case recordBranchMissed:
			summary.Branches++
		case recordLineCovered:
			summary.Lines++
			summary.CoveredLines++
		case recordLineMissed:
			summary.Lines++
		case recordIgnored:
		}
	}

	return summary
}

type recordKind int

const (
	recordIgnored recordKind = iota
	recordBranchTaken
	recordBranchMissed
	recordLineCovered
	recordLineMissed
)

// classifyRecord maps one annotation line to its coverage weight.
func classifyRecord(line string) recordKind {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, branchToken) {
		// Any status other than the two "not taken" forms counts as taken.
		if strings.Contains(trimmed, neverExecuted) || strings.Contains(trimmed, takenZero) {
			return recordBranchMissed
		}

		return recordBranchTaken
	}

	if strings.HasPrefix(trimmed, callToken) {
		return recordIgnored
	}

	fields := strings.SplitN(line, ":", 3)
	if len(fields) < 3 {
		return recordIgnored
	}

	lineNo := strings.TrimSpace(fields[1])
	if !isDigits(lineNo) || strings.TrimLeft(lineNo, "0") == "" {
		return recordIgnored
	}

	count := strings.TrimSpace(fields[0])
	if count == "" || count == noCodeCount || isSeparator(count) {
		return recordIgnored
	}

	if count == notExecutedCount {
		return recordLineMissed
	}

	// gcov counters are unsigned 64-bit.
	count = strings.TrimSuffix(count, unexecutedBlockSuffix)
	if executed, err := strconv.ParseUint(count, 10, 64); err == nil {
		if executed > 0 {
			return recordLineCovered
		}

		return recordLineMissed
	}

	if _, err := strconv.ParseInt(count, 10, 64); err == nil {
		return recordLineMissed
	}

	return recordIgnored
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

func isSeparator(s string) bool {
	return strings.Trim(s, "=") == ""
}

func splitLines(content []byte) []string {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}
