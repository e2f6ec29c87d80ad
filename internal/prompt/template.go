// Package prompt renders static prompt templates with named placeholders.
package prompt

import (
	"fmt"
	"sort"
	"strings"
)

// Template is static prompt text with named {placeholder} slots. Every name
// in Required must be bound at render time.
type Template struct {
	Name     string
	Text     string
	Required []string
}

// MissingBindingError reports required placeholders with no supplied value.
type MissingBindingError struct {
	Template string
	Missing  []string
}

func (e *MissingBindingError) Error() string {
	return fmt.Sprintf("template %q: missing bindings: %s", e.Template, strings.Join(e.Missing, ", "))
}

// Render substitutes bindings into the template text. It fails with a
// *MissingBindingError when any required placeholder is unbound; extra
// bindings are ignored. Rendering has no side effects.
func (t Template) Render(bindings map[string]string) (string, error) {
	var missing []string
	for _, name := range t.Required {
		if _, ok := bindings[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", &MissingBindingError{Template: t.Name, Missing: missing}
	}
	out := t.Text
	for name, val := range bindings {
		out = strings.ReplaceAll(out, "{"+name+"}", val)
	}
	return out, nil
}
