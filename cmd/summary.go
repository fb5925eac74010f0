package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [inputs...]",
	Short: "Show summary statistics across all centers",
	Long: `Aggregates the latest record of every center: average, spread, pass rate,
top and bottom centers, and the correlation between indicator scores and the total.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runReport(cmd.Context(), args, reportOptions{sections: pipeline.Sections{Summary: true}}); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
