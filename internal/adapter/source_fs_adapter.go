// Package adapter contains infrastructure adapters for the covgate CLI.
package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	m "covgate.dev/pkg/covgate/internal/model"
)

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when discovering coverage artifacts and reading annotation files.
// It hides direct `os` access so the workflow logic can be tested without
// touching the disk.
type SourceFSAdapter interface {
	// ResetDir removes path if it exists and creates it again, empty.
	ResetDir(ctx context.Context, path m.Path) error

	// FindFiles returns the regular files under root matching a doublestar
	// glob pattern (e.g. "**/*.gcno"), sorted lexically.
	FindFiles(ctx context.Context, root m.Path, pattern string) ([]m.Path, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// WriteFile writes content to a file, creating parent directories.
	WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error

	// RelPath returns the relative path from base to target.
	RelPath(ctx context.Context, base, target m.Path) (m.Path, error)
}

// LocalSourceFSAdapter is the concrete implementation backed by the local disk.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// ResetDir removes the directory tree at path and recreates it.
func (a *LocalSourceFSAdapter) ResetDir(ctx context.Context, path m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.RemoveAll(string(path)); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}

	if err := os.MkdirAll(string(path), 0o750); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	return nil
}

// FindFiles globs root with a doublestar pattern.
func (a *LocalSourceFSAdapter) FindFiles(ctx context.Context, root m.Path, pattern string) ([]m.Path, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(string(root))
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	matches, err := doublestar.Glob(os.DirFS(string(root)), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q in %s: %w", pattern, root, err)
	}

	paths := make([]m.Path, 0, len(matches))
	for _, match := range matches {
		paths = append(paths, m.Path(filepath.Join(string(root), filepath.FromSlash(match))))
	}

	sort.Slice(paths, func(i, j int) bool {
		return paths[i] < paths[j]
	})

	return paths, nil
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// #nosec G304 - path comes from the scratch directory listing
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(string(path)); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}

	return os.WriteFile(string(path), content, perm)
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(_ context.Context, base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}
