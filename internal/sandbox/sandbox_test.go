package sandbox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	"github.com/datasage-io/datasage-cli/internal/chart"
	"github.com/datasage-io/datasage-cli/internal/dataset"
)

func testSandbox(t *testing.T) *Sandbox {
	t.Helper()
	csv := "price,size,city\n100,50,Lyon\n200,100,Paris\n300,150,Lyon\n"
	ds, err := dataset.Read(strings.NewReader(csv), "test.csv", dataset.DefaultOptions())
	require.NoError(t, err)
	return New(ds)
}

func TestEvalExpression(t *testing.T) {
	s := testSandbox(t)
	out, err := s.Eval("2 + 2")
	require.NoError(t, err)
	assert.Equal(t, "4", out)
}

func TestEvalDatasetShape(t *testing.T) {
	s := testSandbox(t)
	out, err := s.Eval("df.shape")
	require.NoError(t, err)
	assert.Equal(t, "(3, 3)", out)
}

func TestEvalDatasetColumns(t *testing.T) {
	s := testSandbox(t)
	out, err := s.Eval("df.columns")
	require.NoError(t, err)
	assert.Equal(t, `["price", "size", "city"]`, out)
}

func TestEvalColumnAccess(t *testing.T) {
	s := testSandbox(t)
	out, err := s.Eval(`len([v for v in df.col("price") if v > 100])`)
	require.NoError(t, err)
	assert.Equal(t, "2", out)

	_, err = s.Eval(`df.col("nope")`)
	require.Error(t, err)
	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Contains(t, execErr.Error(), "nope")
}

func TestEvalStatementsCapturePrints(t *testing.T) {
	s := testSandbox(t)
	out, err := s.Eval("total = sum(df.col('price'))\nprint(total)")
	require.NoError(t, err)
	assert.Equal(t, "600.0", out)
}

func TestEvalExpressionRuntimeError(t *testing.T) {
	s := testSandbox(t)
	_, err := s.Eval("1 // 0")
	require.Error(t, err)
	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "eval", execErr.Source)
	// The failure comes from evaluating the expression itself, not from a
	// second run as a statement sequence.
	var evalErr *starlark.EvalError
	assert.ErrorAs(t, err, &evalErr)
}

func TestEvalSyntaxErrorIsExecError(t *testing.T) {
	s := testSandbox(t)
	_, err := s.Eval("def broken(:")
	require.Error(t, err)
	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "eval", execErr.Source)
}

func TestExecStripsFences(t *testing.T) {
	s := testSandbox(t)
	code := "```python\nplot(kind=\"bar\", labels=df.col(\"city\"), values=df.col(\"price\"))\n```"
	capt, err := s.Exec(code)
	require.NoError(t, err)
	require.NotNil(t, capt.Chart)
	assert.Equal(t, chart.KindBar, capt.Chart.Kind)
	assert.Equal(t, []string{"Lyon", "Paris", "Lyon"}, capt.Chart.Labels)
	assert.Equal(t, []float64{100, 200, 300}, capt.Chart.Values)
}

func TestExecThemeAppliesToPlot(t *testing.T) {
	s := testSandbox(t)
	code := `
theme(title="Prices by city", xlabel="city", ylabel="price")
plot(kind="line", labels=["a", "b"], values=[1, 2])
`
	capt, err := s.Exec(code)
	require.NoError(t, err)
	require.NotNil(t, capt.Chart)
	assert.Equal(t, "Prices by city", capt.Chart.Title)
	assert.Equal(t, "city", capt.Chart.XLabel)
	assert.Equal(t, "price", capt.Chart.YLabel)
}

func TestExecPlotKeywordOverridesTheme(t *testing.T) {
	s := testSandbox(t)
	code := `
theme(title="default")
plot(kind="pie", labels=["x"], values=[1], title="override")
`
	capt, err := s.Exec(code)
	require.NoError(t, err)
	assert.Equal(t, "override", capt.Chart.Title)
}

func TestExecPlotValidation(t *testing.T) {
	s := testSandbox(t)
	_, err := s.Exec(`plot(kind="bar", labels=["a", "b"], values=[1])`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 labels but 1 values")

	_, err = s.Exec(`plot(kind="scatter3d", labels=["a"], values=[1])`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported chart kind")
}

func TestExecNoHostAccess(t *testing.T) {
	s := testSandbox(t)
	for _, code := range []string{
		`open("/etc/passwd")`,
		`import os`,
		`__import__("os")`,
	} {
		_, err := s.Exec(code)
		require.Error(t, err, "code %q must not run", code)
		var execErr *ExecError
		assert.ErrorAs(t, err, &execErr)
	}
}

func TestExecIsolationBetweenCalls(t *testing.T) {
	s := testSandbox(t)
	_, err := s.Exec(`x = 42`)
	require.NoError(t, err)
	_, err = s.Eval("x")
	require.Error(t, err, "bindings must not leak across executions")
}

func TestStripFences(t *testing.T) {
	in := "```python\nprint(1)\n```\n"
	assert.Equal(t, "print(1)", StripFences(in))
	assert.Equal(t, "print(1)", StripFences("print(1)"))
	assert.Equal(t, "a\nb", StripFences("```\na\nb\n```"))
}
