package cmd

import (
	"github.com/spf13/cobra"

	"github.com/datasage-io/datasage-cli/internal/session"
)

var chartOutput string

var chartCmd = &cobra.Command{
	Use:   "chart <csv> <description>",
	Short: "Generate a chart from a plain-language description",
	Long: `chart asks the model for plotting code, executes it in a sandbox bound to
the dataset, and renders the captured chart as a mermaid block.`,
	Example: `  datasage chart sales.csv "bar chart of total sales by region"
  datasage chart sales.csv "monthly revenue as a line chart" -o revenue.md`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(args[0])
		if err != nil {
			return err
		}
		res, err := s.Invoke(cmd.Context(), session.ToolChart, args[1])
		if err != nil {
			return err
		}
		return emitResult(res.Text, chartOutput)
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "write the chart markdown to a file")
}
