package prompt

// The assistant's prompt templates, defined once at startup. The direct
// question path builds its prompt inline and does not use a template.

// Overview asks for a narrative report about the dataset as a whole.
var Overview = Template{
	Name:     "overview",
	Required: []string{"question", "rows", "cols"},
	Text: `You are a senior data analyst writing a professional narrative.

Dataset facts:
- User request: {question}
- Rows: {rows}
- Columns: {cols}

Write a report covering:
1. A general explanation of what the dataset appears to contain
2. Which analyses are most relevant
3. Preprocessing recommendations
4. Likely insights worth pursuing

Do not repeat the tables or the dimensions verbatim.`,
}

// StatSummary asks for an interpretation of computed descriptive statistics.
var StatSummary = Template{
	Name:     "stat_summary",
	Required: []string{"question", "stats"},
	Text: `You are an expert analyst. Interpret these descriptive statistics.

Request: {question}

Statistics:
{stats}

Write a report covering:
- A column-by-column interpretation
- Signals of outliers
- Variability
- Suggested follow-up analyses`,
}

// Chart asks the model for plotting code to run in the sandbox. The code may
// use only the pre-bound names df, plot and theme.
var Chart = Template{
	Name:     "chart",
	Required: []string{"question", "rows", "schema"},
	Text: `You are a data visualization expert. Reply with ONLY Starlark code, no prose.

User request:
"{question}"

Dataset:
Rows: {rows}
Columns:
{schema}

Rules:
- Only the names df, plot and theme are available; imports are not allowed.
- Read values with df.col("name"); df.columns lists column names.
- Call theme(title="...", xlabel="...", ylabel="...") before plotting.
- Produce the chart with one call:
  plot(kind="bar"|"line"|"pie", labels=[...], values=[...], name="series")

Code:`,
}

// Insights asks for a narrative insight report from the schema alone.
var Insights = Template{
	Name:     "insights",
	Required: []string{"question", "schema"},
	Text: `You are a senior analyst. Answer the request: {question}

Columns and types:
{schema}

Produce a report covering:
1. Main patterns
2. Trends
3. Relevant outliers
4. The most important variables
5. Actionable recommendations`,
}
