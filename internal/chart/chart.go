// Package chart captures chart specifications produced inside the sandbox
// and renders them as Mermaid blocks embeddable in markdown reports.
package chart

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind enumerates supported chart kinds.
type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
	KindPie  Kind = "pie"
)

// ParseKind validates a kind string from generated code.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindBar:
		return KindBar, nil
	case KindLine:
		return KindLine, nil
	case KindPie:
		return KindPie, nil
	default:
		return "", fmt.Errorf("unsupported chart kind %q (want bar, line or pie)", s)
	}
}

// Spec is one chart: category labels on the x axis with one numeric series.
type Spec struct {
	Kind   Kind
	Title  string
	XLabel string
	YLabel string
	Labels []string
	Values []float64
	Series string
}

// Mermaid renders the spec as a mermaid diagram. Bar and line charts use
// xychart-beta; pie charts use the pie diagram.
func (s *Spec) Mermaid() string {
	var b strings.Builder
	switch s.Kind {
	case KindPie:
		b.WriteString("pie")
		if s.Title != "" {
			fmt.Fprintf(&b, " title %s", escapeLabel(s.Title))
		}
		b.WriteString("\n")
		for i, l := range s.Labels {
			v := 0.0
			if i < len(s.Values) {
				v = s.Values[i]
			}
			fmt.Fprintf(&b, "  %q : %s\n", escapeLabel(l), formatValue(v))
		}
	default:
		b.WriteString("xychart-beta\n")
		if s.Title != "" {
			fmt.Fprintf(&b, "  title %q\n", escapeLabel(s.Title))
		}
		if len(s.Labels) > 0 {
			axis := make([]string, len(s.Labels))
			for i, l := range s.Labels {
				axis[i] = strconv.Quote(escapeLabel(l))
			}
			name := s.XLabel
			if name != "" {
				fmt.Fprintf(&b, "  x-axis %q [%s]\n", escapeLabel(name), strings.Join(axis, ", "))
			} else {
				fmt.Fprintf(&b, "  x-axis [%s]\n", strings.Join(axis, ", "))
			}
		}
		if s.YLabel != "" {
			fmt.Fprintf(&b, "  y-axis %q\n", escapeLabel(s.YLabel))
		}
		vals := make([]string, len(s.Values))
		for i, v := range s.Values {
			vals[i] = formatValue(v)
		}
		if s.Kind == KindLine {
			fmt.Fprintf(&b, "  line [%s]\n", strings.Join(vals, ", "))
		} else {
			fmt.Fprintf(&b, "  bar [%s]\n", strings.Join(vals, ", "))
		}
	}
	return b.String()
}

// MarkdownBlock wraps the mermaid source in a fenced code block.
func (s *Spec) MarkdownBlock() string {
	return "```mermaid\n" + s.Mermaid() + "```\n"
}

// escapeLabel keeps labels from breaking mermaid syntax.
func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.ReplaceAll(s, "\n", " ")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
