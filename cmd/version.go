package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

// buildVersion is set at link time with -ldflags "-X covgate.dev/pkg/covgate/cmd.buildVersion=v1.2.3".
var buildVersion string

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the covgate version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			version, goVersion := resolveVersion(buildVersion, debug.ReadBuildInfo)
			cmd.Printf("covgate %s\n", version)

			if goVersion != "" {
				cmd.Printf("built with %s\n", goVersion)
			}
		},
	}
}

// resolveVersion prefers the link-time version and falls back to module build info.
func resolveVersion(linked string, readBuildInfo func() (*debug.BuildInfo, bool)) (string, string) {
	info, ok := readBuildInfo()

	goVersion := ""
	if ok {
		goVersion = info.GoVersion
	}

	switch {
	case linked != "":
		return linked, goVersion
	case ok && info.Main.Version != "" && info.Main.Version != "(devel)":
		return info.Main.Version, goVersion
	default:
		return "dev", goVersion
	}
}
