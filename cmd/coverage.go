package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/southpawriter02/shell-spec/internal/domain"
	m "github.com/southpawriter02/shell-spec/internal/model"
)

var coverageMinFlag int

// coverageCmd represents the coverage command.
var coverageCmd = newCoverageCmd()

func newCoverageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coverage [file]",
		Short: "Query coverage from the last run",
		Long: `With a file argument, print its stats from the last saved run as three
space-separated tokens: executable-line-count covered-line-count percentage.
With --min, check the aggregate percentage against a minimum instead.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			reports := m.Path(viper.GetString(outputFlagName))

			if len(args) == 1 {
				stat, err := workflow.CoverageQuery(domain.CoverageArgs{
					Reports: reports,
					File:    m.Path(args[0]),
				})
				if err != nil {
					return err
				}

				cmd.Printf("%d %d %.1f\n", stat.Executable, stat.Covered, stat.Percent)

				return nil
			}

			if coverageMinFlag <= 0 {
				return fmt.Errorf("provide a file argument or --min")
			}

			actual, err := workflow.CoverageCheck(reports, coverageMinFlag)
			if err != nil {
				return err
			}

			cmd.Printf("coverage %d%% meets the minimum of %d%%\n", actual, coverageMinFlag)

			return nil
		},
	}

	cmd.Flags().IntVar(&coverageMinFlag, "min", 0, "minimum aggregate coverage percentage")

	return cmd
}

func init() {
	rootCmd.AddCommand(coverageCmd)
}
