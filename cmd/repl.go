package cmd

import (
	"github.com/spf13/cobra"

	"github.com/datasage-io/datasage-cli/internal/session"
)

var replOutput string

var replCmd = &cobra.Command{
	Use:   "repl <csv> <text>",
	Short: "Correlation questions answered directly; anything else evaluated as code",
	Long: `repl classifies the text once: if it mentions correlation it computes the
numeric correlation matrix locally with no model call. Any other text is
evaluated as a Starlark expression against the bound dataset (df).`,
	Example: `  datasage repl data.csv "what is the correlation between price and size?"
  datasage repl data.csv "df.shape"
  datasage repl data.csv "len([v for v in df.col('price') if v > 100])"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(args[0])
		if err != nil {
			return err
		}
		res, err := s.Invoke(cmd.Context(), session.ToolREPL, args[1])
		if err != nil {
			return err
		}
		return emitResult(res.Text, replOutput)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().StringVarP(&replOutput, "output", "o", "", "write the result to a file")
}
