package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "covgate.dev/pkg/covgate/internal/model"
)

// SimpleUI implements UI by writing to a cobra Command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayRunInfo prints the number of artifacts to annotate.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, artifacts int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Annotating %d coverage artifact(s)\n", artifacts)
}

// DisplayCoverage prints a table with one row per included file.
func (s *SimpleUI) DisplayCoverage(ctx context.Context, coverage m.Coverage, root m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderCoverageTable(coverage, root))
}

// DisplaySummary prints the overall rates and report destinations.
func (s *SimpleUI) DisplaySummary(ctx context.Context, coverage m.Coverage, textReport, htmlReport m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	line := fmt.Sprintf(
		"Line coverage %.2f%%, branch coverage %.2f%%. Reports saved to %s and %s",
		coverage.LineRate()*100, coverage.BranchRate()*100, textReport, htmlReport,
	)

	s.printf("%s\n", summaryStyle(s.out()).Render(line))
}

func renderCoverageTable(coverage m.Coverage, root m.Path) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Lines", "Line %", "Branches", "Branch %"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	for _, file := range coverage.Files {
		table.Append([]string{
			displayName(file, root),
			fmt.Sprintf("%d/%d", file.CoveredLines, file.Lines),
			fmt.Sprintf("%.2f%%", file.LinePercent()),
			fmt.Sprintf("%d/%d", file.CoveredBranches, file.Branches),
			fmt.Sprintf("%.2f%%", file.BranchPercent()),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(coverage.Files)),
		fmt.Sprintf("%d/%d", coverage.CoveredLines, coverage.Lines),
		fmt.Sprintf("%.2f%%", coverage.LineRate()*100),
		fmt.Sprintf("%d/%d", coverage.CoveredBranches, coverage.Branches),
		fmt.Sprintf("%.2f%%", coverage.BranchRate()*100),
	})

	table.Render()

	return tableBuffer.String()
}

func displayName(file m.FileCoverage, root m.Path) string {
	if file.Source == "" {
		return file.Name
	}

	if root == "" || !filepath.IsAbs(file.Source) {
		return file.Source
	}

	absRoot, err := filepath.Abs(string(root))
	if err != nil {
		return file.Source
	}

	rel, err := filepath.Rel(absRoot, file.Source)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return file.Source
	}

	return rel
}

func summaryStyle(w io.Writer) lipgloss.Style {
	return lipgloss.NewRenderer(w).NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
}

func (s *SimpleUI) out() io.Writer {
	return s.cmd.OutOrStdout()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out(), format, args...)
}
