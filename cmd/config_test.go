package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "covgate", configBaseName)
	assert.Equal(t, "covgate.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "exclude", excludeFlagName)
	assert.Equal(t, "paths.exclude", excludeConfigKey)
	assert.Equal(t, "threshold.line", minLineRateConfigKey)
	assert.Equal(t, "threshold.branch", minBranchRateConfigKey)
	assert.Equal(t, "annotator.executable", annotatorConfigKey)
	assert.Equal(t, 0.80, defaultMinLineRate)
	assert.Equal(t, 0.0, defaultMinBranchRate)
	assert.Equal(t, "gcov", defaultAnnotator)
	assert.Equal(t, "COVGATE", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestConfigDefaults(t *testing.T) {
	// Rebind the keys to fresh, unchanged flags.
	root := newRootCmd()
	root.AddCommand(newReportCmd())

	assert.Equal(t, defaultMinLineRate, viper.GetFloat64(minLineRateConfigKey))
	assert.Equal(t, defaultAnnotator, viper.GetString(annotatorConfigKey))
	assert.Equal(t, []string{"**/tests/**/*", "**/minunit.c"}, viper.GetStringSlice(excludeConfigKey))
}

func TestDefaultExcludePatternsReturnsCopy(t *testing.T) {
	patterns := defaultExcludePatterns()
	patterns[0] = "changed"

	assert.Equal(t, "**/tests/**/*", defaultExcludePatterns()[0])
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}

func TestConfigureLogger_WritesToFile(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	logPath := filepath.Join(t.TempDir(), "covgate.log")
	configureLogger(logPath, true)

	require.NotNil(t, globalLogger)
	assert.True(t, globalLogger.Enabled(context.Background(), slog.LevelDebug))

	slog.Debug("annotating", "artifact", "heap.c.gcno")

	contents, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "artifact=heap.c.gcno")
}

func TestConfigureLogger_DefaultLevel(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	configureLogger(filepath.Join(t.TempDir(), "covgate.log"), false)

	assert.False(t, globalLogger.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, globalLogger.Enabled(context.Background(), slog.LevelInfo))
}
