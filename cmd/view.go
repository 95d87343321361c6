package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "github.com/southpawriter02/shell-spec/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View the most recent run report",
		Long:  "Redisplay the results persisted by the last run from the reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.View(m.Path(viper.GetString(outputFlagName)))
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
