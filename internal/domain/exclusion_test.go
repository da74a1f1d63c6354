package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobExcluder_DefaultPatterns(t *testing.T) {
	excluder, err := NewGlobExcluder(DefaultExcludePatterns)
	require.NoError(t, err)

	tests := []struct {
		source string
		want   bool
	}{
		{"/work/Algorithms_C/tests/unit/test_heap.c", true},
		{"/work/Algorithms_C/tests/helpers/all_tests.c", true},
		{"tests/unit/test_heap.c", true},
		{"../tests/stress/sorting_stress.c", true},
		{"/work/Algorithms_C/src/utils/minunit.c", true},
		{"minunit.c", true},
		{`C:\work\tests\unit\test_heap.c`, true},
		{"/work/Algorithms_C/src/structures/heap.c", false},
		{"/work/Algorithms_C/test/runners/all_tests.c", false},
		{"/work/Algorithms_C/src/tests.c", false},
		{"/w/tests", false},
		{"/work/Algorithms_C/src/tests", false},
		{"/work/Algorithms_C/src/minunit.h", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, excluder.Excluded(tt.source))
		})
	}
}

func TestGlobExcluder_CustomPatterns(t *testing.T) {
	excluder, err := NewGlobExcluder([]string{"/usr/include/**", " ", "**/*_generated.c"})
	require.NoError(t, err)

	assert.True(t, excluder.Excluded("/usr/include/stdio.h"))
	assert.True(t, excluder.Excluded("/work/src/parser_generated.c"))
	assert.False(t, excluder.Excluded("/work/tests/unit/test_heap.c"))
}

func TestGlobExcluder_NoPatternsExcludesNothing(t *testing.T) {
	excluder, err := NewGlobExcluder(nil)
	require.NoError(t, err)

	assert.False(t, excluder.Excluded("/work/tests/unit/test_heap.c"))
}

func TestGlobExcluder_InvalidPattern(t *testing.T) {
	_, err := NewGlobExcluder([]string{"src/[unterminated"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")
}
