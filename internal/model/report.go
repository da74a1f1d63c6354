package model

import (
	"fmt"
	"html"
)

// FileCoverage holds the line and branch counters for a single annotation file.
type FileCoverage struct {
	Name            string `yaml:"name"`
	Source          string `yaml:"source,omitempty"`
	Lines           int    `yaml:"lines"`
	CoveredLines    int    `yaml:"covered_lines"`
	Branches        int    `yaml:"branches"`
	CoveredBranches int    `yaml:"covered_branches"`
}

// LinePercent returns covered lines as a percentage in [0,100].
func (f FileCoverage) LinePercent() float64 {
	return percent(f.CoveredLines, f.Lines)
}

// BranchPercent returns covered branches as a percentage in [0,100],
// or 0 when the file has no branch records.
func (f FileCoverage) BranchPercent() float64 {
	return percent(f.CoveredBranches, f.Branches)
}

// Row renders the file as an HTML table row.
func (f FileCoverage) Row() string {
	return fmt.Sprintf(
		"<tr><td>%s</td><td>%.2f%%</td><td>%.2f%%</td></tr>",
		html.EscapeString(f.Name), f.LinePercent(), f.BranchPercent(),
	)
}

// Coverage is the aggregate over every included annotation file.
type Coverage struct {
	Files           []FileCoverage
	Lines           int
	CoveredLines    int
	Branches        int
	CoveredBranches int
}

// Add accumulates a file into the totals and appends it to Files.
func (c *Coverage) Add(file FileCoverage) {
	c.Files = append(c.Files, file)
	c.Lines += file.Lines
	c.CoveredLines += file.CoveredLines
	c.Branches += file.Branches
	c.CoveredBranches += file.CoveredBranches
}

// LineRate returns the covered/total line ratio in [0,1].
func (c Coverage) LineRate() float64 {
	return ratio(c.CoveredLines, c.Lines)
}

// BranchRate returns the covered/total branch ratio in [0,1]; 0 when no
// branch records were seen.
func (c Coverage) BranchRate() float64 {
	return ratio(c.CoveredBranches, c.Branches)
}

// Rows returns one HTML table row per file in discovery order.
func (c Coverage) Rows() []string {
	rows := make([]string, 0, len(c.Files))
	for _, file := range c.Files {
		rows = append(rows, file.Row())
	}

	return rows
}

// Thresholds are the minimum acceptable rates, each in [0,1].
type Thresholds struct {
	MinLineRate   float64
	MinBranchRate float64
}

func ratio(covered, total int) float64 {
	if total == 0 {
		return 0
	}

	return float64(covered) / float64(total)
}

func percent(covered, total int) float64 {
	return ratio(covered, total) * 100.0
}
