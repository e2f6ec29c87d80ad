package cmd

import (
	"github.com/spf13/cobra"
)

var askOutput string

var askCmd = &cobra.Command{
	Use:   "ask <csv> <question>",
	Short: "Ask the model a direct question about the dataset",
	Long: `ask sends the question straight to the model with the dataset's column
list for context. It does not run any code or compute statistics locally.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(args[0])
		if err != nil {
			return err
		}
		answer, err := s.Ask(cmd.Context(), args[1])
		if err != nil {
			return err
		}
		return emitResult(answer, askOutput)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askOutput, "output", "o", "", "write the answer to a file")
}
