package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools <csv>",
	Short: "List the analytical tools registered for a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(args[0])
		if err != nil {
			return err
		}
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Tool", "Kind", "Description"})
		for _, d := range s.Tools() {
			t.AppendRow(table.Row{d.Name, string(d.Kind), d.Description})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
