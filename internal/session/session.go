// Package session ties one loaded dataset to a completion client and a tool
// registry. All state is scoped to the session value; there are no package
// globals, so concurrent sessions cannot observe each other.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/datasage-io/datasage-cli/internal/dataset"
	"github.com/datasage-io/datasage-cli/internal/sandbox"
	"github.com/datasage-io/datasage-cli/internal/tool"
	"github.com/datasage-io/datasage-cli/internal/utils"
)

// Completer is the single operation the session needs from the model client.
// *ai.Client satisfies it; tests substitute a canned implementation.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Session is the per-invocation context: one dataset, one client, one
// registry built from that dataset.
type Session struct {
	ID        uuid.UUID
	Dataset   *dataset.Dataset
	CreatedAt time.Time

	client   Completer
	registry *tool.Registry
	sandbox  *sandbox.Sandbox

	// schemaTokenLimit caps how much schema text is embedded into prompts.
	schemaTokenLimit int
}

// New builds a session and registers the assistant's tools against the
// dataset. Registration happens exactly once per session.
func New(ds *dataset.Dataset, client Completer) (*Session, error) {
	s := &Session{
		ID:               uuid.New(),
		Dataset:          ds,
		CreatedAt:        time.Now(),
		client:           client,
		registry:         tool.NewRegistry(),
		sandbox:          sandbox.New(ds),
		schemaTokenLimit: 1500,
	}
	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("build tool registry: %w", err)
	}
	return s, nil
}

// Tools lists the registered tool descriptors.
func (s *Session) Tools() []tool.Descriptor {
	return s.registry.List()
}

// Invoke dispatches a question to the named tool. Unknown names surface
// tool.ErrToolNotFound together with the names that do exist.
func (s *Session) Invoke(ctx context.Context, name, question string) (*tool.Result, error) {
	t, err := s.registry.Lookup(name)
	if err != nil {
		known := make([]string, 0)
		for _, d := range s.registry.List() {
			known = append(known, d.Name)
		}
		return nil, fmt.Errorf("%w (known tools: %s)", err, strings.Join(known, ", "))
	}
	return t.Run(ctx, question)
}

// Ask is the direct-question path. It bypasses templating and builds the
// prompt inline from the column list, exactly one completion per call.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	var b strings.Builder
	b.WriteString("You are an expert data analyst.\n")
	b.WriteString("Answer the following question about this dataset:\n")
	fmt.Fprintf(&b, "Columns: %s\n", strings.Join(s.Dataset.ColumnNames(), ", "))
	fmt.Fprintf(&b, "Question: %s\n", question)
	return s.client.Complete(ctx, b.String())
}

// schemaForPrompt renders the schema line list, truncated to the session's
// token budget so wide datasets cannot blow up the prompt.
func (s *Session) schemaForPrompt() string {
	return utils.TruncateToTokenLimit(s.Dataset.SchemaText(), s.schemaTokenLimit)
}
