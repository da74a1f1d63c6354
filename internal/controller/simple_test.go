package controller

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	m "covgate.dev/pkg/covgate/internal/model"
)

func newTestUI() (*SimpleUI, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)

	return NewSimpleUI(cmd), out
}

func sampleCoverage(root string) m.Coverage {
	var c m.Coverage
	c.Add(m.FileCoverage{Name: "heap.c.gcov", Source: filepath.Join(root, "src", "heap.c"), Lines: 4, CoveredLines: 3, Branches: 2, CoveredBranches: 1})
	c.Add(m.FileCoverage{Name: "vector.h.gcov", Source: "/usr/include/vector.h", Lines: 1, CoveredLines: 1})

	return c
}

func TestSimpleUI_DisplayRunInfo(t *testing.T) {
	ui, out := newTestUI()

	ui.DisplayRunInfo(context.Background(), 3)

	assert.Equal(t, "Annotating 3 coverage artifact(s)\n", out.String())
}

func TestSimpleUI_DisplayCoverage(t *testing.T) {
	root := t.TempDir()
	ui, out := newTestUI()

	ui.DisplayCoverage(context.Background(), sampleCoverage(root), m.Path(root))

	got := out.String()
	assert.Contains(t, got, filepath.Join("src", "heap.c"))
	assert.NotContains(t, got, filepath.Join(root, "src", "heap.c"))
	assert.Contains(t, got, "/usr/include/vector.h")
	assert.Contains(t, got, "3/4")
	assert.Contains(t, got, "75.00%")
	assert.Contains(t, got, "TOTAL FILES 2")
	assert.Contains(t, got, "80.00%")
}

func TestSimpleUI_DisplaySummary(t *testing.T) {
	ui, out := newTestUI()

	ui.DisplaySummary(context.Background(), sampleCoverage("/work"), m.Path("out/coverage.txt"), m.Path("out/coverage.html"))

	assert.Equal(t,
		"Line coverage 80.00%, branch coverage 50.00%. Reports saved to out/coverage.txt and out/coverage.html\n",
		out.String(),
	)
}

func TestSimpleUI_CancelledContextPrintsNothing(t *testing.T) {
	ui, out := newTestUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ui.DisplayRunInfo(ctx, 1)
	ui.DisplayCoverage(ctx, sampleCoverage("/work"), "")
	ui.DisplaySummary(ctx, sampleCoverage("/work"), "a", "b")

	assert.Empty(t, out.String())
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		file m.FileCoverage
		root m.Path
		want string
	}{
		{"falls back to annotation name", m.FileCoverage{Name: "a.c.gcov"}, "/work", "a.c.gcov"},
		{"relative source kept", m.FileCoverage{Source: "src/a.c"}, "/work", "src/a.c"},
		{"absolute under root", m.FileCoverage{Source: "/work/src/a.c"}, "/work", filepath.Join("src", "a.c")},
		{"absolute outside root", m.FileCoverage{Source: "/other/a.c"}, "/work", "/other/a.c"},
		{"no root", m.FileCoverage{Source: "/work/src/a.c"}, "", "/work/src/a.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayName(tt.file, tt.root))
		})
	}
}
