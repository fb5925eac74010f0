package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
)

var (
	suggestCenter string
	weakThreshold float64
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [inputs...]",
	Short: "Suggest improvements for centers below target",
	Long: `For every center whose latest total is below 911, distributes the shortfall
across the indicators with the most headroom and lists the target rate for each.
Indicators achieving less than --weak-threshold percent are flagged as weak.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts := reportOptions{
			sections: pipeline.Sections{Suggestions: true},
			center:   suggestCenter,
		}
		if err := runReport(cmd.Context(), args, opts); err != nil {
			fail(err)
		}
	},
}

func init() {
	suggestCmd.Flags().StringVar(&suggestCenter, "center", "", "Only show this center")
	suggestCmd.Flags().Float64Var(&weakThreshold, "weak-threshold", 85, "Achievement percent below which an indicator is weak")
	bindTo("weakThreshold", suggestCmd.Flags().Lookup("weak-threshold"))
	rootCmd.AddCommand(suggestCmd)
}
