// Package controller provides console output for coverage results.
package controller

import (
	"context"

	m "covgate.dev/pkg/covgate/internal/model"
)

// UI defines how the workflow reports progress and results to the user.
type UI interface {
	// DisplayRunInfo announces how many artifacts are about to be annotated.
	DisplayRunInfo(ctx context.Context, artifacts int)
	// DisplayCoverage renders the per-file breakdown. Sources are shown
	// relative to root when they live beneath it.
	DisplayCoverage(ctx context.Context, coverage m.Coverage, root m.Path)
	// DisplaySummary prints the final one-line result.
	DisplaySummary(ctx context.Context, coverage m.Coverage, textReport, htmlReport m.Path)
}
