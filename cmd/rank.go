package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

var rankMonth string

var rankCmd = &cobra.Command{
	Use:   "rank [inputs...]",
	Short: "Rank centers for a month",
	Long: `Ranks every center by total for one month (the latest by default) and shows
the change against the previous month's rank.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRank(cmd, args); err != nil {
			fail(err)
		}
	},
}

func init() {
	rankCmd.Flags().StringVar(&rankMonth, "month", "", "Month to rank (YYYY-MM, default latest)")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	opts := reportOptions{sections: pipeline.Sections{Ranking: true}}
	if rankMonth != "" {
		m, err := types.ParseMonth(rankMonth)
		if err != nil {
			return fmt.Errorf("invalid --month: %w", err)
		}
		opts.rankMonth = m
	}
	return runReport(cmd.Context(), args, opts)
}
