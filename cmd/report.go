package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"covgate.dev/pkg/covgate/internal/domain"
	m "covgate.dev/pkg/covgate/internal/model"
)

var (
	rootDirFlag          string
	objectDirFlag        string
	outputDirFlag        string
	textReportFlag       string
	htmlReportFlag       string
	summaryReportFlag    string
	minLineRateFlag      float64
	minBranchRateFlag    float64
	annotatorFlag        string
	annotatorTimeoutFlag int
	showFilesFlag        bool
)

// reportCmd represents the report command.
var reportCmd = newReportCmd()

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate gcov output, write reports, and enforce thresholds",
		Long:  reportLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Flag parsing succeeded; failures from here on are pipeline failures.
			cmd.SilenceUsage = true

			return workflow.Report(cmd.Context(), reportArgsFromConfig())
		},
	}

	configureReportFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func configureReportFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringVar(&rootDirFlag, rootFlagName, "", "source root used to shorten displayed source paths")
	bindFlagToConfig(flags.Lookup(rootFlagName), rootConfigKey)

	flags.StringVar(&objectDirFlag, objectDirFlagName, "", "directory searched recursively for .gcno files")
	bindFlagToConfig(flags.Lookup(objectDirFlagName), objectDirConfigKey)

	flags.StringVar(&outputDirFlag, outputDirFlagName, "", "scratch directory for .gcov files (wiped on every run)")
	bindFlagToConfig(flags.Lookup(outputDirFlagName), outputDirConfigKey)

	flags.StringVar(&textReportFlag, textReportFlagName, "", "destination of the text report")
	bindFlagToConfig(flags.Lookup(textReportFlagName), textReportConfigKey)

	flags.StringVar(&htmlReportFlag, htmlReportFlagName, "", "destination of the HTML report")
	bindFlagToConfig(flags.Lookup(htmlReportFlagName), htmlReportConfigKey)

	flags.StringVar(&summaryReportFlag, summaryReportFlagName, "", "optional destination of a YAML summary")
	bindFlagToConfig(flags.Lookup(summaryReportFlagName), summaryReportConfigKey)

	flags.Float64Var(&minLineRateFlag, minLineRateFlagName, defaultMinLineRate, "minimum overall line rate in [0,1]")
	bindFlagToConfig(flags.Lookup(minLineRateFlagName), minLineRateConfigKey)

	flags.Float64Var(&minBranchRateFlag, minBranchRateFlagName, defaultMinBranchRate, "minimum overall branch rate in [0,1]")
	bindFlagToConfig(flags.Lookup(minBranchRateFlagName), minBranchRateConfigKey)

	flags.StringVar(&annotatorFlag, annotatorFlagName, defaultAnnotator, "gcov executable to invoke")
	bindFlagToConfig(flags.Lookup(annotatorFlagName), annotatorConfigKey)

	flags.IntVar(&annotatorTimeoutFlag, annotatorTimeoutFlagName, defaultAnnotatorTimeout, "per-invocation gcov timeout in seconds (0 disables)")
	bindFlagToConfig(flags.Lookup(annotatorTimeoutFlagName), annotatorTimeoutConfigKey)

	flags.BoolVar(&showFilesFlag, showFilesFlagName, defaultShowFiles, "print a per-file coverage table")
	bindFlagToConfig(flags.Lookup(showFilesFlagName), showFilesConfigKey)
}

func reportArgsFromConfig() domain.ReportArgs {
	return domain.ReportArgs{
		Root:             m.Path(viper.GetString(rootConfigKey)),
		ObjectDir:        m.Path(viper.GetString(objectDirConfigKey)),
		OutputDir:        m.Path(viper.GetString(outputDirConfigKey)),
		TextReport:       m.Path(viper.GetString(textReportConfigKey)),
		HTMLReport:       m.Path(viper.GetString(htmlReportConfigKey)),
		SummaryReport:    m.Path(viper.GetString(summaryReportConfigKey)),
		MinLineRate:      viper.GetFloat64(minLineRateConfigKey),
		MinBranchRate:    viper.GetFloat64(minBranchRateConfigKey),
		Exclude:          viper.GetStringSlice(excludeConfigKey),
		Annotator:        viper.GetString(annotatorConfigKey),
		AnnotatorTimeout: time.Duration(viper.GetInt64(annotatorTimeoutConfigKey)) * time.Second,
		ShowFiles:        viper.GetBool(showFilesConfigKey),
	}
}
