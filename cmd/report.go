package cmd

import (
	"github.com/spf13/cobra"

	"github.com/datasage-io/datasage-cli/internal/session"
)

// The report commands are thin shims over the registry: each one dispatches
// a fixed tool name with a default question.

var (
	reportOutput   string
	reportQuestion string
)

var overviewCmd = &cobra.Command{
	Use:   "overview <csv>",
	Short: "Generate a narrative overview report of the dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  reportRunner(session.ToolOverview, "General report of the dataset"),
}

var statsCmd = &cobra.Command{
	Use:   "stats <csv>",
	Short: "Generate an interpreted statistical summary",
	Args:  cobra.ExactArgs(1),
	RunE:  reportRunner(session.ToolStats, "Statistical summary of the dataset"),
}

var insightsCmd = &cobra.Command{
	Use:   "insights <csv>",
	Short: "Generate a report with the dataset's main insights",
	Args:  cobra.ExactArgs(1),
	RunE:  reportRunner(session.ToolInsights, "Generate a report with the main insights"),
}

func reportRunner(toolName, defaultQuestion string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		question := defaultQuestion
		if reportQuestion != "" {
			question = reportQuestion
		}
		s, err := newSession(args[0])
		if err != nil {
			return err
		}
		res, err := s.Invoke(cmd.Context(), toolName, question)
		if err != nil {
			return err
		}
		return emitResult(res.Text, reportOutput)
	}
}

func init() {
	for _, c := range []*cobra.Command{overviewCmd, statsCmd, insightsCmd} {
		c.Flags().StringVarP(&reportOutput, "output", "o", "", "write the markdown report to a file")
		c.Flags().StringVarP(&reportQuestion, "question", "q", "", "steer the report with a custom question")
		rootCmd.AddCommand(c)
	}
}
