package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/datasage-io/datasage-cli/internal/prompt"
	"github.com/datasage-io/datasage-cli/internal/tool"
)

// Canonical tool names. The registry also resolves them case-insensitively.
const (
	ToolOverview = "Dataset Overview"
	ToolStats    = "Statistical Summary"
	ToolChart    = "Generate Chart"
	ToolREPL     = "Analysis REPL"
	ToolInsights = "Insight Report"
)

func (s *Session) registerTools() error {
	entries := []struct {
		desc tool.Descriptor
		run  tool.Handler
	}{
		{
			tool.Descriptor{
				Name:        ToolOverview,
				Description: "Narrative report of the dataset: shape, types, missing values, duplicates.",
				Kind:        tool.KindText,
			},
			s.runOverview,
		},
		{
			tool.Descriptor{
				Name:        ToolStats,
				Description: "Descriptive statistics for numeric columns, interpreted by the model.",
				Kind:        tool.KindText,
			},
			s.runStats,
		},
		{
			tool.Descriptor{
				Name:        ToolChart,
				Description: "Generates chart code from a description and renders the result.",
				Kind:        tool.KindChart,
			},
			s.runChart,
		},
		{
			tool.Descriptor{
				Name:        ToolREPL,
				Description: "Answers correlation questions directly; evaluates anything else as code.",
				Kind:        tool.KindText,
			},
			s.runREPL,
		},
		{
			tool.Descriptor{
				Name:        ToolInsights,
				Description: "Narrative insight report: patterns, trends, outliers, recommendations.",
				Kind:        tool.KindText,
			},
			s.runInsights,
		},
	}
	for _, e := range entries {
		if err := s.registry.Register(e.desc, e.run); err != nil {
			return err
		}
	}
	return nil
}

// runOverview combines locally computed facts with a model narrative.
func (s *Session) runOverview(ctx context.Context, question string) (*tool.Result, error) {
	rows, cols := s.Dataset.Shape()
	rendered, err := prompt.Overview.Render(map[string]string{
		"question": question,
		"rows":     strconv.Itoa(rows),
		"cols":     strconv.Itoa(cols),
	})
	if err != nil {
		return nil, err
	}
	narrative, err := s.client.Complete(ctx, rendered)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("# Dataset Overview\n\n")
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n| Rows | %d |\n| Columns | %d |\n| Duplicate rows | %d |\n\n", rows, cols, s.Dataset.Duplicates)
	b.WriteString("## Schema\n\n")
	b.WriteString(s.Dataset.SchemaMarkdown())
	b.WriteString("\n\n## Sample rows\n\n")
	b.WriteString(s.Dataset.HeadMarkdown(5))
	b.WriteString("\n\n## Narrative\n\n")
	b.WriteString(narrative)
	b.WriteString("\n")
	return &tool.Result{Text: b.String()}, nil
}

// runStats sends the computed describe table to the model for interpretation.
func (s *Session) runStats(ctx context.Context, question string) (*tool.Result, error) {
	stats := s.Dataset.DescribeMarkdown()
	rendered, err := prompt.StatSummary.Render(map[string]string{
		"question": question,
		"stats":    stats,
	})
	if err != nil {
		return nil, err
	}
	text, err := s.client.Complete(ctx, rendered)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString("# Statistical Summary\n\n")
	b.WriteString(stats)
	b.WriteString("\n\n")
	b.WriteString(text)
	b.WriteString("\n")
	return &tool.Result{Text: b.String()}, nil
}

// runChart asks the model for plotting code and executes it in the sandbox.
// The captured chart is rendered as a mermaid block in the result text.
func (s *Session) runChart(ctx context.Context, question string) (*tool.Result, error) {
	rows, _ := s.Dataset.Shape()
	rendered, err := prompt.Chart.Render(map[string]string{
		"question": question,
		"rows":     strconv.Itoa(rows),
		"schema":   s.schemaForPrompt(),
	})
	if err != nil {
		return nil, err
	}
	code, err := s.client.Complete(ctx, rendered)
	if err != nil {
		return nil, err
	}
	capt, err := s.sandbox.Exec(code)
	if err != nil {
		return nil, err
	}
	if capt.Chart == nil {
		return nil, fmt.Errorf("generated code ran but produced no chart")
	}
	return &tool.Result{
		Text:  capt.Chart.MarkdownBlock(),
		Chart: capt.Chart,
	}, nil
}

// correlationTriggers route a question to the direct correlation computation.
// Substring match, case-insensitive, any position. "relation" also covers
// "relationship" and similar phrasings.
var correlationTriggers = []string{"correl", "relation"}

// runREPL is the two-way dispatch: correlation questions get the computed
// matrix with no model call; everything else is evaluated as code. A plain
// natural-language question without a trigger word will usually fail to
// evaluate, which comes back as a recoverable ExecError.
func (s *Session) runREPL(_ context.Context, question string) (*tool.Result, error) {
	lower := strings.ToLower(question)
	for _, kw := range correlationTriggers {
		if strings.Contains(lower, kw) {
			m := s.Dataset.Corr()
			if m == nil {
				return &tool.Result{Text: "Correlation needs at least two numeric columns."}, nil
			}
			var b strings.Builder
			b.WriteString("# Correlation Analysis\n\n")
			b.WriteString(m.Markdown())
			b.WriteString("\n\nStrongest pairs:\n")
			for _, p := range m.TopPairs(3) {
				fmt.Fprintf(&b, "- %s and %s: r = %.3f\n", p.A, p.B, p.R)
			}
			return &tool.Result{Text: b.String()}, nil
		}
	}
	out, err := s.sandbox.Eval(question)
	if err != nil {
		return nil, err
	}
	return &tool.Result{Text: out}, nil
}

// runInsights sends the schema to the model for a narrative insight report.
func (s *Session) runInsights(ctx context.Context, question string) (*tool.Result, error) {
	rendered, err := prompt.Insights.Render(map[string]string{
		"question": question,
		"schema":   s.schemaForPrompt(),
	})
	if err != nil {
		return nil, err
	}
	text, err := s.client.Complete(ctx, rendered)
	if err != nil {
		return nil, err
	}
	return &tool.Result{Text: text}, nil
}
