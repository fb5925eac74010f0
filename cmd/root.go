package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
)

var (
	quiet           bool
	verbose         bool
	outputFormat    string
	outputFile      string
	logLevel        string
	sheetName       string
	expectedCenters int
	concurrency     int
	useBaseline     bool
	createBaseline  bool
	baselinePath    string
)

// exitFunc is replaced in tests.
var exitFunc = os.Exit

var rootCmd = &cobra.Command{
	Use:   "ccscore [inputs...]",
	Short: "Customer center scoring - evaluate centers against the 911-point target",
	Long: `ccscore scores regional customer-service centers on the 1000-point rubric,
predicts period-end totals, and classifies each center's risk of missing the
911-point target.

Inputs are CSV or XLSX files, directories, or ** glob patterns. When no inputs
are given, the patterns in .ccscorerc are used.

Without a subcommand every report section is produced.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runReport(cmd.Context(), args, reportOptions{sections: pipeline.AllSections()}); err != nil {
			fail(err)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitFunc(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.StringVarP(&outputFormat, "format", "f", "console", "Output format (console|json|markdown|yaml|xlsx)")
	flags.StringVarP(&outputFile, "output", "o", "", "Output file (required for xlsx)")
	flags.StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error|disabled)")
	flags.StringVar(&sheetName, "sheet", "", "Worksheet to read from xlsx inputs (default first sheet)")
	flags.IntVar(&expectedCenters, "expected-centers", 24, "Expected number of centers; 0 disables the roster check")
	flags.IntVar(&concurrency, "concurrency", 4, "Maximum parallel workers")
	flags.BoolVar(&useBaseline, "baseline", false, "Suppress warnings recorded in the baseline file")
	flags.BoolVar(&createBaseline, "create-baseline", false, "Record current warnings as the baseline")
	flags.StringVar(&baselinePath, "baseline-path", ".ccscorebaseline.json", "Path to baseline file")

	bindFlags()
}

// bindFlags maps persistent flags onto config keys.
func bindFlags() {
	bindFlag("quiet", "quiet")
	bindFlag("verbose", "verbose")
	bindFlag("format", "format")
	bindFlag("output", "output")
	bindFlag("logLevel", "log-level")
	bindFlag("sheet", "sheet")
	bindFlag("expectedCenters", "expected-centers")
	bindFlag("concurrency", "concurrency")
	bindFlag("baseline.enabled", "baseline")
	bindFlag("baseline.create", "create-baseline")
	bindFlag("baseline.path", "baseline-path")
}

func bindFlag(key, flag string) {
	bindTo(key, rootCmd.PersistentFlags().Lookup(flag))
}

func bindTo(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

// fail prints err and exits with status 1.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	exitFunc(1)
}
