package sandbox

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/datasage-io/datasage-cli/internal/chart"
)

// plotBuiltin returns the plot() primitive bound to one capture. Generated
// code calls it once per chart:
//
//	plot(kind="bar", labels=["a", "b"], values=[1, 2], name="count")
//
// Title and axis labels come from the last theme() call unless overridden
// with keyword arguments.
func plotBuiltin(capt *Capture) *starlark.Builtin {
	return starlark.NewBuiltin("plot", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			kindStr string
			labels  *starlark.List
			values  *starlark.List
			name    string
			title   string
			xlabel  string
			ylabel  string
		)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs,
			"kind", &kindStr,
			"labels", &labels,
			"values", &values,
			"name?", &name,
			"title?", &title,
			"xlabel?", &xlabel,
			"ylabel?", &ylabel,
		); err != nil {
			return nil, err
		}
		kind, err := chart.ParseKind(kindStr)
		if err != nil {
			return nil, err
		}
		spec := &chart.Spec{
			Kind:   kind,
			Title:  firstNonEmpty(title, capt.title),
			XLabel: firstNonEmpty(xlabel, capt.xlabel),
			YLabel: firstNonEmpty(ylabel, capt.ylabel),
			Series: name,
		}
		if spec.Labels, err = stringItems(labels); err != nil {
			return nil, fmt.Errorf("plot: labels: %w", err)
		}
		if spec.Values, err = floatItems(values); err != nil {
			return nil, fmt.Errorf("plot: values: %w", err)
		}
		if len(spec.Labels) != len(spec.Values) {
			return nil, fmt.Errorf("plot: %d labels but %d values", len(spec.Labels), len(spec.Values))
		}
		capt.Chart = spec
		return starlark.None, nil
	})
}

// themeBuiltin returns the theme() styling primitive. It records title and
// axis defaults for subsequent plot calls in the same execution.
func themeBuiltin(capt *Capture) *starlark.Builtin {
	return starlark.NewBuiltin("theme", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var title, xlabel, ylabel string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs,
			"title?", &title,
			"xlabel?", &xlabel,
			"ylabel?", &ylabel,
		); err != nil {
			return nil, err
		}
		if title != "" {
			capt.title = title
		}
		if xlabel != "" {
			capt.xlabel = xlabel
		}
		if ylabel != "" {
			capt.ylabel = ylabel
		}
		return starlark.None, nil
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func stringItems(l *starlark.List) ([]string, error) {
	if l == nil {
		return nil, nil
	}
	out := make([]string, l.Len())
	for i := 0; i < l.Len(); i++ {
		switch v := l.Index(i).(type) {
		case starlark.String:
			out[i] = string(v)
		case starlark.NoneType:
			out[i] = ""
		default:
			out[i] = v.String()
		}
	}
	return out, nil
}

func floatItems(l *starlark.List) ([]float64, error) {
	if l == nil {
		return nil, nil
	}
	out := make([]float64, l.Len())
	for i := 0; i < l.Len(); i++ {
		f, ok := starlark.AsFloat(l.Index(i))
		if !ok {
			return nil, fmt.Errorf("item %d is %s, want a number", i, l.Index(i).Type())
		}
		out[i] = f
	}
	return out, nil
}
