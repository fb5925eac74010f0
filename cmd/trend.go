package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
)

var trendCmd = &cobra.Command{
	Use:   "trend [inputs...]",
	Short: "Show month-over-month changes per center",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runReport(cmd.Context(), args, reportOptions{sections: pipeline.Sections{Trends: true}}); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(trendCmd)
}
