package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"covgate.dev/pkg/covgate/internal/adapter"
	"covgate.dev/pkg/covgate/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "covgate"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	rootFlagName             = "root"
	objectDirFlagName        = "object-dir"
	outputDirFlagName        = "output-dir"
	textReportFlagName       = "txt"
	htmlReportFlagName       = "html"
	summaryReportFlagName    = "summary"
	minLineRateFlagName      = "min-line-rate"
	minBranchRateFlagName    = "min-branch-rate"
	annotatorFlagName        = "gcov"
	annotatorTimeoutFlagName = "annotator-timeout"
	showFilesFlagName        = "files"
	excludeFlagName          = "exclude"
	logFileFlagName          = "log-file"
	verboseFlagName          = "verbose"

	rootConfigKey             = "report.root"
	objectDirConfigKey        = "report.object_dir"
	outputDirConfigKey        = "report.output_dir"
	textReportConfigKey       = "report.txt"
	htmlReportConfigKey       = "report.html"
	summaryReportConfigKey    = "report.summary"
	showFilesConfigKey        = "report.show_files"
	minLineRateConfigKey      = "threshold.line"
	minBranchRateConfigKey    = "threshold.branch"
	annotatorConfigKey        = "annotator.executable"
	annotatorTimeoutConfigKey = "annotator.timeout"
	excludeConfigKey          = "paths.exclude"

	defaultMinLineRate      = 0.80
	defaultMinBranchRate    = 0.0
	defaultAnnotator        = adapter.DefaultAnnotator
	defaultAnnotatorTimeout = 0
	defaultShowFiles        = false

	envPrefix = "COVGATE"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".covgate.log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

// configReadErr holds a config file that exists but could not be parsed.
var configReadErr error

func defaultExcludePatterns() []string {
	return append([]string{}, domain.DefaultExcludePatterns...)
}

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(rootConfigKey, "")
	viper.SetDefault(objectDirConfigKey, "")
	viper.SetDefault(outputDirConfigKey, "")
	viper.SetDefault(textReportConfigKey, "")
	viper.SetDefault(htmlReportConfigKey, "")
	viper.SetDefault(summaryReportConfigKey, "")
	viper.SetDefault(showFilesConfigKey, defaultShowFiles)
	viper.SetDefault(minLineRateConfigKey, defaultMinLineRate)
	viper.SetDefault(minBranchRateConfigKey, defaultMinBranchRate)
	viper.SetDefault(annotatorConfigKey, defaultAnnotator)
	viper.SetDefault(annotatorTimeoutConfigKey, defaultAnnotatorTimeout)
	viper.SetDefault(excludeConfigKey, defaultExcludePatterns())

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return
		}

		// Reported once the logger is configured.
		configReadErr = err
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at the configured level (info); if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
