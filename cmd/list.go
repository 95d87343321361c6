package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/southpawriter02/shell-spec/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List test files and the tests they declare",
		Long:  listLongDescription,
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.List(domain.ListArgs{
				Paths:   parsePaths(args),
				Pattern: viper.GetString(patternConfigKey),
				Prefix:  viper.GetString(prefixConfigKey),
				Exclude: viper.GetStringSlice(excludeConfigKey),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
