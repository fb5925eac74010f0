package cmd

import (
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [inputs...]",
	Short: "Validate input records without scoring",
	Long: `Checks every record against the schema and the data-quality rules and reports
the issues. Exits with status 1 when any issue is an error.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runReport(cmd.Context(), args, reportOptions{validateOnly: true}); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
