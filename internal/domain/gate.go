package domain

import (
	m "covgate.dev/pkg/covgate/internal/model"
)

// Gate fails when either rate is strictly below its configured minimum.
func Gate(coverage m.Coverage, thresholds m.Thresholds) error {
	lineRate := coverage.LineRate()
	branchRate := coverage.BranchRate()

	if lineRate < thresholds.MinLineRate || branchRate < thresholds.MinBranchRate {
		return newCoverageError(
			"Coverage below threshold. line=%.2f%%, branch=%.2f%%",
			lineRate*100, branchRate*100,
		)
	}

	return nil
}
