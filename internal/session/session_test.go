package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/datasage-io/datasage-cli/internal/dataset"
	"github.com/datasage-io/datasage-cli/internal/tool"
)

// fakeCompleter returns a canned reply and records every prompt it receives.
type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestSession(t *testing.T, fc *fakeCompleter) *Session {
	t.Helper()
	csv := "price,size,city\n100,50,Lyon\n200,100,Paris\n300,150,Lyon\n400,200,Nice\n"
	ds, err := dataset.Read(strings.NewReader(csv), "homes.csv", dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	s, err := New(ds, fc)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func TestToolsRegistered(t *testing.T) {
	s := newTestSession(t, &fakeCompleter{})
	names := make(map[string]bool)
	for _, d := range s.Tools() {
		names[d.Name] = true
	}
	for _, want := range []string{ToolOverview, ToolStats, ToolChart, ToolREPL, ToolInsights} {
		if !names[want] {
			t.Errorf("tool %q not registered", want)
		}
	}
}

func TestInvokeUnknownTool(t *testing.T) {
	s := newTestSession(t, &fakeCompleter{})
	_, err := s.Invoke(context.Background(), "Delete Everything", "q")
	if !errors.Is(err, tool.ErrToolNotFound) {
		t.Fatalf("want ErrToolNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), ToolOverview) {
		t.Errorf("error should list known tools, got: %v", err)
	}
}

func TestOverviewIncludesShapeAndNarrative(t *testing.T) {
	fc := &fakeCompleter{reply: "This looks like a housing dataset."}
	s := newTestSession(t, fc)
	res, err := s.Invoke(context.Background(), ToolOverview, "what is in this data?")
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	for _, want := range []string{"| Rows | 4 |", "| Columns | 3 |", "price", "## Sample rows", "Lyon", "This looks like a housing dataset."} {
		if !strings.Contains(res.Text, want) {
			t.Errorf("overview missing %q:\n%s", want, res.Text)
		}
	}
	if len(fc.prompts) != 1 {
		t.Fatalf("completions = %d, want 1", len(fc.prompts))
	}
	if !strings.Contains(fc.prompts[0], "4") || !strings.Contains(fc.prompts[0], "3") {
		t.Errorf("prompt missing shape: %q", fc.prompts[0])
	}
}

func TestStatsIncludesDescribeTable(t *testing.T) {
	fc := &fakeCompleter{reply: "Prices trend upward."}
	s := newTestSession(t, fc)
	res, err := s.Invoke(context.Background(), ToolStats, "summarize")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(res.Text, "price") || !strings.Contains(res.Text, "Prices trend upward.") {
		t.Errorf("unexpected stats result:\n%s", res.Text)
	}
	if !strings.Contains(fc.prompts[0], "price") {
		t.Errorf("describe table not embedded in prompt")
	}
}

func TestChartExecutesGeneratedCode(t *testing.T) {
	fc := &fakeCompleter{reply: "```python\n" +
		`plot(kind="bar", labels=df.col("city"), values=df.col("price"), title="Price by city")` +
		"\n```"}
	s := newTestSession(t, fc)
	res, err := s.Invoke(context.Background(), ToolChart, "price by city")
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	if res.Chart == nil {
		t.Fatal("result carries no chart spec")
	}
	if !strings.Contains(res.Text, "```mermaid") || !strings.Contains(res.Text, "Price by city") {
		t.Errorf("unexpected chart markdown:\n%s", res.Text)
	}
}

func TestChartCodeWithoutPlotFails(t *testing.T) {
	fc := &fakeCompleter{reply: "x = 1"}
	s := newTestSession(t, fc)
	_, err := s.Invoke(context.Background(), ToolChart, "anything")
	if err == nil || !strings.Contains(err.Error(), "no chart") {
		t.Fatalf("want no-chart error, got %v", err)
	}
}

func TestREPLCorrelationSkipsModel(t *testing.T) {
	fc := &fakeCompleter{}
	s := newTestSession(t, fc)
	for _, q := range []string{
		"what is the correlation between price and size?",
		"Is there any RELATIONSHIP here?",
	} {
		res, err := s.Invoke(context.Background(), ToolREPL, q)
		if err != nil {
			t.Fatalf("%q: %v", q, err)
		}
		if !strings.Contains(res.Text, "Correlation Analysis") {
			t.Errorf("%q: expected correlation matrix, got:\n%s", q, res.Text)
		}
		if !strings.Contains(res.Text, "Strongest pairs:") || !strings.Contains(res.Text, "price and size") {
			t.Errorf("%q: expected ranked pairs under the matrix, got:\n%s", q, res.Text)
		}
	}
	if len(fc.prompts) != 0 {
		t.Fatalf("correlation path must not call the model, saw %d prompts", len(fc.prompts))
	}
}

func TestREPLEvaluatesCode(t *testing.T) {
	s := newTestSession(t, &fakeCompleter{})
	res, err := s.Invoke(context.Background(), ToolREPL, "df.shape")
	if err != nil {
		t.Fatalf("repl: %v", err)
	}
	if res.Text != "(4, 3)" {
		t.Fatalf("df.shape = %q, want (4, 3)", res.Text)
	}
}

func TestREPLBadCodeIsRecoverable(t *testing.T) {
	s := newTestSession(t, &fakeCompleter{})
	_, err := s.Invoke(context.Background(), ToolREPL, "please summarize the data for me")
	if err == nil {
		t.Fatal("expected an evaluation error for free text")
	}
	// The session survives; the next invocation still works.
	if _, err := s.Invoke(context.Background(), ToolREPL, "1 + 1"); err != nil {
		t.Fatalf("session broken after bad code: %v", err)
	}
}

func TestAskBuildsInlinePrompt(t *testing.T) {
	fc := &fakeCompleter{reply: "Three cities appear."}
	s := newTestSession(t, fc)
	out, err := s.Ask(context.Background(), "how many cities?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if out != "Three cities appear." {
		t.Fatalf("unexpected answer %q", out)
	}
	p := fc.prompts[0]
	for _, want := range []string{"price, size, city", "how many cities?"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q: %q", want, p)
		}
	}
}

func TestCompleterErrorPropagates(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("model unavailable")}
	s := newTestSession(t, fc)
	_, err := s.Invoke(context.Background(), ToolInsights, "insights please")
	if err == nil || !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("want completer error, got %v", err)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	a := newTestSession(t, &fakeCompleter{})
	b := newTestSession(t, &fakeCompleter{})
	if a.ID == b.ID {
		t.Fatal("sessions share an ID")
	}
	if _, err := a.Invoke(context.Background(), ToolREPL, "x = 5"); err == nil {
		// statement sequence evaluates fine and must not leak into b
		if res, err := b.Invoke(context.Background(), ToolREPL, "x"); err == nil {
			t.Fatalf("binding leaked across sessions: %v", res.Text)
		}
	}
}
