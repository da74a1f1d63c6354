// Package mocks provides testify mocks for the adapter interfaces.
package mocks

import (
	"context"
	"os"

	"github.com/stretchr/testify/mock"

	"covgate.dev/pkg/covgate/internal/adapter"
	m "covgate.dev/pkg/covgate/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockSourceFSAdapter is a mock of adapter.SourceFSAdapter.
type MockSourceFSAdapter struct {
	mock.Mock
}

// NewMockSourceFSAdapter creates a mock that asserts its expectations on cleanup.
func NewMockSourceFSAdapter(t testingT) *MockSourceFSAdapter {
	mockFS := &MockSourceFSAdapter{}
	mockFS.Mock.Test(t)
	t.Cleanup(func() { mockFS.AssertExpectations(t) })

	return mockFS
}

// ResetDir implements adapter.SourceFSAdapter.
func (_m *MockSourceFSAdapter) ResetDir(ctx context.Context, path m.Path) error {
	ret := _m.Called(ctx, path)
	return ret.Error(0)
}

// FindFiles implements adapter.SourceFSAdapter.
func (_m *MockSourceFSAdapter) FindFiles(ctx context.Context, root m.Path, pattern string) ([]m.Path, error) {
	ret := _m.Called(ctx, root, pattern)

	var paths []m.Path
	if v := ret.Get(0); v != nil {
		paths = v.([]m.Path)
	}

	return paths, ret.Error(1)
}

// ReadFile implements adapter.SourceFSAdapter.
func (_m *MockSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	ret := _m.Called(ctx, path)

	var content []byte
	if v := ret.Get(0); v != nil {
		content = v.([]byte)
	}

	return content, ret.Error(1)
}

// WriteFile implements adapter.SourceFSAdapter.
func (_m *MockSourceFSAdapter) WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error {
	ret := _m.Called(ctx, path, content, perm)
	return ret.Error(0)
}

// RelPath implements adapter.SourceFSAdapter.
func (_m *MockSourceFSAdapter) RelPath(ctx context.Context, base, target m.Path) (m.Path, error) {
	ret := _m.Called(ctx, base, target)
	return ret.Get(0).(m.Path), ret.Error(1)
}

// MockAnnotatorAdapter is a mock of adapter.AnnotatorAdapter.
type MockAnnotatorAdapter struct {
	mock.Mock
}

// NewMockAnnotatorAdapter creates a mock that asserts its expectations on cleanup.
func NewMockAnnotatorAdapter(t testingT) *MockAnnotatorAdapter {
	mockAnnotator := &MockAnnotatorAdapter{}
	mockAnnotator.Mock.Test(t)
	t.Cleanup(func() { mockAnnotator.AssertExpectations(t) })

	return mockAnnotator
}

// Annotate implements adapter.AnnotatorAdapter.
func (_m *MockAnnotatorAdapter) Annotate(ctx context.Context, req adapter.AnnotateRequest) (adapter.AnnotateResult, error) {
	ret := _m.Called(ctx, req)
	return ret.Get(0).(adapter.AnnotateResult), ret.Error(1)
}

// MockReportWriter is a mock of adapter.ReportWriter.
type MockReportWriter struct {
	mock.Mock
}

// NewMockReportWriter creates a mock that asserts its expectations on cleanup.
func NewMockReportWriter(t testingT) *MockReportWriter {
	mockWriter := &MockReportWriter{}
	mockWriter.Mock.Test(t)
	t.Cleanup(func() { mockWriter.AssertExpectations(t) })

	return mockWriter
}

// Write implements adapter.ReportWriter.
func (_m *MockReportWriter) Write(ctx context.Context, coverage m.Coverage, paths adapter.ReportPaths) error {
	ret := _m.Called(ctx, coverage, paths)
	return ret.Error(0)
}

var (
	_ adapter.SourceFSAdapter  = (*MockSourceFSAdapter)(nil)
	_ adapter.AnnotatorAdapter = (*MockAnnotatorAdapter)(nil)
	_ adapter.ReportWriter     = (*MockReportWriter)(nil)
)
