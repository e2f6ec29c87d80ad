package dataset

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// SchemaMarkdown renders column names, kinds and null counts as a markdown table.
func (d *Dataset) SchemaMarkdown() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Column", "Type", "Non-Null", "Missing %"})
	rows, _ := d.Shape()
	for _, c := range d.Columns {
		pct := 0.0
		if rows > 0 {
			pct = float64(c.Missing) * 100.0 / float64(rows)
		}
		t.AppendRow(table.Row{c.Name, string(c.Kind), c.NonNull, fmt.Sprintf("%.1f", pct)})
	}
	return t.RenderMarkdown()
}

// DescribeMarkdown renders count/mean/std/min/max for numeric columns as a
// markdown table, in the spirit of a pandas describe().
func (d *Dataset) DescribeMarkdown() string {
	nums := d.NumericColumns()
	if len(nums) == 0 {
		return "(no numeric columns)"
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Column", "Count", "Mean", "Std", "Min", "Max"})
	for _, c := range nums {
		t.AppendRow(table.Row{
			c.Name,
			c.NonNull,
			fmtNum(c.Mean),
			fmtNum(c.Std),
			fmtNum(c.Min),
			fmtNum(c.Max),
		})
	}
	return t.RenderMarkdown()
}

// HeadMarkdown renders up to n sample rows as a markdown table.
func (d *Dataset) HeadMarkdown(n int) string {
	rows := d.Head(n)
	if len(rows) == 0 {
		return "(no rows)"
	}
	t := table.NewWriter()
	hdr := make(table.Row, len(d.Columns))
	for i, c := range d.Columns {
		hdr[i] = c.Name
	}
	t.AppendHeader(hdr)
	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			if len(v) > 80 {
				v = v[:77] + "..."
			}
			row[i] = strings.ReplaceAll(v, "|", "/")
		}
		t.AppendRow(row)
	}
	return t.RenderMarkdown()
}

func fmtNum(f float64) string {
	return fmt.Sprintf("%.4g", f)
}
