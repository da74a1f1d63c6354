package domain

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludePatterns skip sources under a tests directory and the
// minunit test-harness support file.
var DefaultExcludePatterns = []string{
	"**/tests/**/*",
	"**/minunit.c",
}

// Excluder decides whether an annotation file's declared source is left out of
// the aggregate.
type Excluder interface {
	Excluded(source string) bool
}

type globExcluder struct {
	patterns []string
}

// NewGlobExcluder returns an Excluder matching doublestar patterns against the
// declared source path. Paths are slash-normalised and any leading "/" is
// dropped before matching, so "**/tests/**/*" matches "/src/tests/a.c".
func NewGlobExcluder(patterns []string) (Excluder, error) {
	normalized := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		pattern = strings.TrimLeft(normalizeSlashes(pattern), "/")
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}

		normalized = append(normalized, pattern)
	}

	return &globExcluder{patterns: normalized}, nil
}

func (g *globExcluder) Excluded(source string) bool {
	if source == "" {
		return false
	}

	path := strings.TrimLeft(normalizeSlashes(source), "/")
	for _, pattern := range g.patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}

	return false
}

func normalizeSlashes(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
