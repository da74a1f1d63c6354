package adapter

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	m "covgate.dev/pkg/covgate/internal/model"
)

// ReportPaths are the report destinations. Summary is optional.
type ReportPaths struct {
	Text    m.Path
	HTML    m.Path
	Summary m.Path
}

// ReportWriter persists aggregated coverage as human and machine readable reports.
type ReportWriter interface {
	Write(ctx context.Context, coverage m.Coverage, paths ReportPaths) error
}

type reportWriter struct {
	fs SourceFSAdapter
}

// NewReportWriter constructs a ReportWriter that writes through fs.
func NewReportWriter(fs SourceFSAdapter) ReportWriter {
	return &reportWriter{fs: fs}
}

// Write renders every configured report. The reports are independent, so
// they are written concurrently; the first failure is returned.
func (w *reportWriter) Write(ctx context.Context, coverage m.Coverage, paths ReportPaths) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return w.write(groupCtx, paths.Text, []byte(RenderText(coverage)))
	})

	group.Go(func() error {
		content, err := RenderHTML(coverage)
		if err != nil {
			return err
		}

		return w.write(groupCtx, paths.HTML, content)
	})

	if strings.TrimSpace(string(paths.Summary)) != "" {
		group.Go(func() error {
			content, err := RenderSummary(coverage)
			if err != nil {
				return err
			}

			return w.write(groupCtx, paths.Summary, content)
		})
	}

	return group.Wait()
}

func (w *reportWriter) write(ctx context.Context, path m.Path, content []byte) error {
	if err := w.fs.WriteFile(ctx, path, content, 0o644); err != nil {
		slog.Error("Failed to write report", "path", path, "error", err)
		return fmt.Errorf("write report %s: %w", path, err)
	}

	slog.Debug("Wrote report", "path", path, "bytes", len(content))

	return nil
}

// RenderText returns the two-line plain text summary.
func RenderText(coverage m.Coverage) string {
	return fmt.Sprintf(
		"Overall line coverage : %.2f%%\nOverall branch coverage: %.2f%%\n",
		coverage.LineRate()*100, coverage.BranchRate()*100,
	)
}

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8" />
<title>Coverage Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.5rem; text-align: left; }
th { background: #f4f4f4; }
</style>
</head>
<body>
<h1>Coverage Report</h1>
<p>Overall line coverage: {{.Line}}</p>
<p>Overall branch coverage: {{.Branch}}</p>
<table>
<thead><tr><th>File</th><th>Line %</th><th>Branch %</th></tr></thead>
<tbody>
{{range .Rows}}{{.}}
{{end}}</tbody>
</table>
</body>
</html>
`))

type htmlReportData struct {
	Line   string
	Branch string
	// Rows are produced by FileCoverage.Row, which escapes the file name.
	Rows []template.HTML
}

// RenderHTML returns the HTML report document.
func RenderHTML(coverage m.Coverage) ([]byte, error) {
	rows := coverage.Rows()
	data := htmlReportData{
		Line:   formatRate(coverage.LineRate()),
		Branch: formatRate(coverage.BranchRate()),
		Rows:   make([]template.HTML, 0, len(rows)),
	}

	for _, row := range rows {
		// #nosec G203 - row content is escaped by FileCoverage.Row
		data.Rows = append(data.Rows, template.HTML(row))
	}

	var buf bytes.Buffer
	if err := htmlReport.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render html report: %w", err)
	}

	return buf.Bytes(), nil
}

type summaryDocument struct {
	LineRate        float64          `yaml:"line_rate"`
	BranchRate      float64          `yaml:"branch_rate"`
	Lines           int              `yaml:"lines"`
	CoveredLines    int              `yaml:"covered_lines"`
	Branches        int              `yaml:"branches"`
	CoveredBranches int              `yaml:"covered_branches"`
	Files           []m.FileCoverage `yaml:"files"`
}

// RenderSummary returns a YAML document with the rates, totals, and per-file counters.
func RenderSummary(coverage m.Coverage) ([]byte, error) {
	doc := summaryDocument{
		LineRate:        coverage.LineRate(),
		BranchRate:      coverage.BranchRate(),
		Lines:           coverage.Lines,
		CoveredLines:    coverage.CoveredLines,
		Branches:        coverage.Branches,
		CoveredBranches: coverage.CoveredBranches,
		Files:           coverage.Files,
	}

	if doc.Files == nil {
		doc.Files = []m.FileCoverage{}
	}

	content, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}

	return content, nil
}

func formatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}
