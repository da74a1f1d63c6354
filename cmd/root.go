// Package cmd provides the root command and CLI setup for covgate.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"covgate.dev/pkg/covgate/internal/adapter"
	"covgate.dev/pkg/covgate/internal/controller"
	"covgate.dev/pkg/covgate/internal/domain"
)

var fsAdapter adapter.SourceFSAdapter
var annotatorAdapter adapter.AnnotatorAdapter
var reportWriter adapter.ReportWriter
var producer domain.Producer
var workflow domain.Workflow
var ui controller.UI

// logFileFlag overrides the configured log file path.
var logFileFlag string

// verboseFlag forces debug logging.
var verboseFlag bool

// excludePatterns is a root-level flag that filters declared sources out of the aggregate.
var excludePatterns []string

func init() {
	configureRootFlags(rootCmd)

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

		if configReadErr != nil {
			slog.Warn("Ignoring unreadable config file", "file", viper.ConfigFileUsed(), "error", configReadErr)
		}
	}

	// Initialize shared dependencies.
	ui = controller.NewSimpleUI(rootCmd)
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	annotatorAdapter = adapter.NewLocalAnnotatorAdapter()
	reportWriter = adapter.NewReportWriter(fsAdapter)
	producer = domain.NewProducer(annotatorAdapter)
	workflow = domain.NewWorkflow(
		fsAdapter,
		reportWriter,
		ui,
		producer,
	)
}

const excludeHelp = `Exclude patterns are doublestar globs matched against the "Source:" path
recorded in each .gcov file, for example:
  - **/tests/**/*   any source below a tests directory
  - **/minunit.c    the minunit test harness
  - /usr/include/** system headers`

const rootLongDescription = `covgate aggregates gcov annotation output into overall line and branch
coverage rates, writes text and HTML reports, and fails when the rates are
below the configured thresholds. It is a drop-in fallback for gcovr in
build pipelines that only have gcc and gcov available.

` + excludeHelp

const reportLongDescription = `Run gcov for every .gcno file below the object directory, aggregate the
resulting .gcov files, write the reports, and enforce the thresholds.

The output directory is wiped and recreated at the start of every run.

` + excludeHelp

// errorPrefix marks every diagnostic printed on failure.
const errorPrefix = "[coverage]"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "covgate",
		Short:         "gcov coverage aggregator and threshold gate",
		Long:          rootLongDescription,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

// newRootCmd builds a root command with flags but without the logger hook.
func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, defaultLogFilename, "path of the rotating log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", defaultExcludePatterns(), "exclude sources matching a doublestar glob (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		stop()
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	prefix := color.New(color.FgRed, color.Bold).Sprint(errorPrefix)
	_, _ = fmt.Fprintf(w, "%s %v\n", prefix, err)
}
