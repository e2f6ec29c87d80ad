// Package tool maps human-readable tool names to analytical actions bound to
// the current dataset.
package tool

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/datasage-io/datasage-cli/internal/chart"
)

// Kind describes what a tool produces.
type Kind string

const (
	// KindText tools return markdown text.
	KindText Kind = "text"
	// KindChart tools produce a rendered chart alongside optional text.
	KindChart Kind = "chart"
)

// Descriptor identifies a tool within a session's registry.
type Descriptor struct {
	Name        string
	Description string
	Kind        Kind
}

// Result is what a tool invocation returns. Chart is set only by KindChart
// tools.
type Result struct {
	Text  string
	Chart *chart.Spec
}

// Handler executes a tool against a free-text question.
type Handler func(ctx context.Context, question string) (*Result, error)

// ErrToolNotFound is returned by Lookup for unknown names. Callers must
// handle it; lookups never silently no-op.
var ErrToolNotFound = errors.New("tool not found")

// Tool is a registered descriptor with its handler.
type Tool struct {
	Descriptor
	Run Handler
}

// Registry holds the tools of one session. Names are unique; it is built
// once per session from the loaded dataset and not modified afterwards.
type Registry struct {
	byName map[string]Tool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Tool)}
}

// Register adds a tool. Registering a duplicate or empty name is an error.
func (r *Registry) Register(d Descriptor, h Handler) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return errors.New("tool name cannot be empty")
	}
	if h == nil {
		return fmt.Errorf("tool %q: handler cannot be nil", name)
	}
	key := strings.ToLower(name)
	if _, exists := r.byName[key]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	d.Name = name
	r.byName[key] = Tool{Descriptor: d, Run: h}
	return nil
}

// Lookup finds a tool by name (case-insensitive). Unknown names return
// ErrToolNotFound wrapped with the requested name.
func (r *Registry) Lookup(name string) (Tool, error) {
	t, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Tool{}, fmt.Errorf("%q: %w", name, ErrToolNotFound)
	}
	return t, nil
}

// List returns all descriptors sorted by name.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.byName))
	for _, t := range r.byName {
		out = append(out, t.Descriptor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
