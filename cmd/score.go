package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
)

var scoreCmd = &cobra.Command{
	Use:   "score [inputs...]",
	Short: "Score every record on the 1000-point rubric",
	Long: `Scores every center and month: the six indicator point scores, adjustments,
total, pass flag against 911, gap to target and usage-contract grade.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runReport(cmd.Context(), args, reportOptions{sections: pipeline.Sections{Scores: true}}); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
