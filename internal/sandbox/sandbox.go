// Package sandbox executes model-generated Starlark against a restricted
// namespace. The interpreter exposes exactly three names (df, plot, theme)
// and has no filesystem, network or import access, so untrusted generated
// code cannot touch the host process.
package sandbox

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/datasage-io/datasage-cli/internal/chart"
	"github.com/datasage-io/datasage-cli/internal/dataset"
)

// ExecError wraps any failure raised while running generated or user-typed
// code. It is always recoverable: the executor catches at this boundary and
// the host process keeps serving.
type ExecError struct {
	Source string // "exec" or "eval"
	Err    error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("code execution failed (%s): %v", e.Source, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Capture collects the side effects of one execution.
type Capture struct {
	Chart  *chart.Spec
	Prints []string

	// theme defaults applied to the next plot call
	title, xlabel, ylabel string
}

// Sandbox binds one dataset for the lifetime of a session. Each Exec or Eval
// call runs on a fresh thread and a fresh capture, so executions cannot
// observe each other's state.
type Sandbox struct {
	ds *dataset.Dataset
}

// New returns a sandbox bound to the given dataset.
func New(ds *dataset.Dataset) *Sandbox {
	return &Sandbox{ds: ds}
}

// Exec runs a generated program. Code-fence markers are stripped first; no
// other rewriting occurs. The returned capture holds the chart the code
// plotted, if any.
func (s *Sandbox) Exec(code string) (capt *Capture, err error) {
	defer func() {
		if r := recover(); r != nil {
			capt, err = nil, &ExecError{Source: "exec", Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	capt = &Capture{}
	thread := s.newThread("exec", capt)
	_, execErr := starlark.ExecFile(thread, "generated.star", StripFences(code), s.predeclared(capt))
	if execErr != nil {
		return nil, &ExecError{Source: "exec", Err: execErr}
	}
	return capt, nil
}

// Eval evaluates free text as an expression and returns its string form.
// Text that does not parse as a single expression is run as a program, and
// its printed output is returned instead. The choice is made by parsing
// alone, so code runs exactly once either way.
func (s *Sandbox) Eval(text string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", &ExecError{Source: "eval", Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	code := StripFences(text)
	capt := &Capture{}
	thread := s.newThread("eval", capt)
	env := s.predeclared(capt)
	if _, parseErr := syntax.ParseExpr("repl.star", code, 0); parseErr != nil {
		if _, execErr := starlark.ExecFile(thread, "repl.star", code, env); execErr != nil {
			return "", &ExecError{Source: "eval", Err: execErr}
		}
		return strings.Join(capt.Prints, "\n"), nil
	}
	v, evalErr := starlark.Eval(thread, "repl.star", code, env)
	if evalErr != nil {
		return "", &ExecError{Source: "eval", Err: evalErr}
	}
	return formatValue(v), nil
}

func (s *Sandbox) newThread(name string, capt *Capture) *starlark.Thread {
	return &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			capt.Prints = append(capt.Prints, msg)
		},
	}
}

// predeclared builds the three-name namespace for one execution. The dataset
// value is a read-only view; generated code may rebind names locally but the
// underlying dataset never changes.
func (s *Sandbox) predeclared(capt *Capture) starlark.StringDict {
	return starlark.StringDict{
		"df":    newDatasetValue(s.ds),
		"plot":  plotBuiltin(capt),
		"theme": themeBuiltin(capt),
	}
}

func formatValue(v starlark.Value) string {
	switch t := v.(type) {
	case starlark.String:
		return string(t)
	case starlark.NoneType:
		return ""
	default:
		return v.String()
	}
}

// StripFences removes markdown code-fence markers from generated text,
// leaving the inner code unchanged. Language tags on the opening fence are
// dropped with it.
func StripFences(code string) string {
	lines := strings.Split(code, "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
