package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
)

var annualCmd = &cobra.Command{
	Use:   "annual [inputs...]",
	Short: "Show period finals and annual renewal eligibility",
	Long: `Lists the final record of every half-year period and the annual evaluation:
the average of the first- and second-half finals and whether it reaches 911.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runReport(cmd.Context(), args, reportOptions{sections: pipeline.Sections{Annual: true}}); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(annualCmd)
}
