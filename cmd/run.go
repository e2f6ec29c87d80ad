package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	runToolName string
	runOutput   string
	// Dataset loading flags shared by all dataset commands
	flagDelimiter string
	flagMaxRows   int
)

var runCmd = &cobra.Command{
	Use:   "run <csv> [question]",
	Short: "Dispatch a question to a named tool",
	Example: `  datasage run data.csv --tool "Dataset Overview"
  datasage run data.csv --tool "Analysis REPL" "What's the correlation between price and size?"
  datasage run data.csv --tool "Generate Chart" "bar chart of sales by region" -o chart.md`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if runToolName == "" {
			return fmt.Errorf("--tool is required (try 'datasage tools %s')", args[0])
		}
		question := ""
		if len(args) > 1 {
			question = args[1]
		}
		s, err := newSession(args[0])
		if err != nil {
			return err
		}
		res, err := s.Invoke(cmd.Context(), runToolName, question)
		if err != nil {
			return err
		}
		return emitResult(res.Text, runOutput)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runToolName, "tool", "t", "", "tool name to invoke")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "write the markdown report to a file")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ','|';'|'tab' (default: sniffed)")
	rootCmd.PersistentFlags().IntVar(&flagMaxRows, "max-rows", 0, "limit rows loaded from the CSV")
}

// emitResult prints the markdown report and optionally saves it to a file.
func emitResult(text, outPath string) error {
	fmt.Println(strings.TrimRight(text, "\n"))
	if outPath == "" {
		return nil
	}
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Report saved to %s\n", outPath)
	return nil
}
