package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
)

var riskCmd = &cobra.Command{
	Use:   "risk [inputs...]",
	Short: "Predict period-end scores and classify risk",
	Long: `Takes the latest month of each center, extrapolates its period-end total and
classifies the outlook from safe to critical. Most severe centers are listed first.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runReport(cmd.Context(), args, reportOptions{sections: pipeline.Sections{Risk: true}}); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(riskCmd)
}
