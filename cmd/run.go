package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/southpawriter02/shell-spec/internal/domain"
	m "github.com/southpawriter02/shell-spec/internal/model"
)

var runTapFlag bool
var runCoverageFlag bool
var runMinCoverageFlag int
var runTimeoutFlag int

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "run [paths...]",
		Short:        "Run shell tests",
		Long:         runLongDescription,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			refreshWorkflow()

			var tap io.Writer
			if runTapFlag {
				tap = cmd.OutOrStdout()
			}

			return workflow.Run(context.Background(), domain.RunArgs{
				Paths:       parsePaths(args),
				Pattern:     viper.GetString(patternConfigKey),
				Prefix:      viper.GetString(prefixConfigKey),
				Exclude:     viper.GetStringSlice(excludeConfigKey),
				Tap:         tap,
				Coverage:    runCoverageFlag,
				MinCoverage: viper.GetInt(minCoverageConfigKey),
				Reports:     m.Path(viper.GetString(outputFlagName)),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&runTapFlag, tapFlagName, false, "emit TAP protocol output")
	cmd.Flags().BoolVar(&runCoverageFlag, coverageFlagName, false, "collect line coverage (bash only)")

	cmd.Flags().IntVar(&runMinCoverageFlag, minCoverageFlagName, viper.GetInt(minCoverageConfigKey), "fail the run when aggregate coverage is below this percentage")
	bindFlagToConfig(cmd.Flags().Lookup(minCoverageFlagName), minCoverageConfigKey)

	cmd.Flags().IntVar(&runTimeoutFlag, timeoutFlagName, viper.GetInt(timeoutConfigKey), "per-test timeout in seconds")
	bindFlagToConfig(cmd.Flags().Lookup(timeoutFlagName), timeoutConfigKey)
}

// refreshWorkflow rebuilds the engine when the --shell or --timeout flags
// changed the runner after package init wired the defaults.
func refreshWorkflow() {
	shell := currentShellAdapter()
	if shell != shellAdapter {
		shellAdapter = shell
		workflow = domain.NewWorkflow(fsAdapter, shellAdapter, streamStore, ui)
	}
}
