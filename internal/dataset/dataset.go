package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind is the inferred scalar type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindDatetime    Kind = "datetime"
	KindCategorical Kind = "categorical"
	KindText        Kind = "text"
	KindUnknown     Kind = "unknown"
)

// Options controls CSV loading behavior.
type Options struct {
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, auto-detects from the file extension (.tsv -> tab).
	Delimiter rune
	// TopValues caps how many category counts are kept per column.
	TopValues int
}

// DefaultOptions returns reasonable defaults for interactive analysis.
func DefaultOptions() Options {
	return Options{
		MaxRows:   200000,
		TopValues: 8,
	}
}

// CategoryCount is one categorical value with its occurrence count.
type CategoryCount struct {
	Value string
	Count int
}

// Column holds raw cells plus inferred type and statistics for one column.
type Column struct {
	Name    string
	Kind    Kind
	Raw     []string  // original cell text, one entry per row
	Nums    []float64 // parsed values aligned with Raw; NaN where not numeric
	NonNull int
	Missing int
	Unique  int
	// Numeric stats (valid when Kind == KindNumeric)
	Min, Max, Mean, Std float64
	Top                 []CategoryCount
}

// Dataset is an in-memory table loaded once from a CSV file. The shape is
// fixed after Load; analytical tools read it but never mutate it.
type Dataset struct {
	Name       string
	Columns    []*Column
	Duplicates int

	rows   int
	byName map[string]int
}

// Load reads a CSV file with a header row into a Dataset.
func Load(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return Read(f, filepath.Base(path), opt)
}

// Read parses CSV content from r. The name is used in reports only.
func Read(r io.Reader, name string, opt Options) (*Dataset, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name)
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file: no header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	ncol := len(header)
	if ncol == 0 {
		return nil, errors.New("header row has no columns")
	}

	ds := &Dataset{Name: name, byName: make(map[string]int, ncol)}
	for i, h := range header {
		cn := uniqueName(strings.TrimSpace(h), ds.byName)
		ds.byName[strings.ToLower(cn)] = i
		ds.Columns = append(ds.Columns, &Column{Name: cn, Min: math.Inf(1), Max: math.Inf(-1)})
	}

	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}

	// numeric accumulators per column (Welford)
	type acc struct {
		n        int
		mean, m2 float64
		numCnt   int
		dtCnt    int
		txtCnt   int
		cats     map[string]int
	}
	accs := make([]*acc, ncol)
	for i := range accs {
		accs[i] = &acc{cats: make(map[string]int)}
	}
	seen := make(map[string]int)

	for ds.rows < maxRows {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", ds.rows+1, err)
		}
		if len(rec) < ncol {
			tmp := make([]string, ncol)
			copy(tmp, rec)
			rec = tmp
		}
		ds.rows++
		key := strings.Join(rec[:ncol], "\x1f")
		seen[key]++
		if seen[key] > 1 {
			ds.Duplicates++
		}
		for j := 0; j < ncol; j++ {
			c := ds.Columns[j]
			a := accs[j]
			v := strings.TrimSpace(rec[j])
			c.Raw = append(c.Raw, v)
			if v == "" {
				c.Missing++
				c.Nums = append(c.Nums, math.NaN())
				continue
			}
			c.NonNull++
			if x, ok := parseNumeric(v); ok {
				a.numCnt++
				a.n++
				if x < c.Min {
					c.Min = x
				}
				if x > c.Max {
					c.Max = x
				}
				delta := x - a.mean
				a.mean += delta / float64(a.n)
				a.m2 += delta * (x - a.mean)
				c.Nums = append(c.Nums, x)
				continue
			}
			c.Nums = append(c.Nums, math.NaN())
			if parseTimeMaybe(v) {
				a.dtCnt++
				continue
			}
			a.txtCnt++
			if len(v) <= 64 && len(a.cats) <= 10000 {
				a.cats[v]++
			}
		}
	}

	topN := opt.TopValues
	if topN <= 0 {
		topN = 8
	}
	for j, c := range ds.Columns {
		a := accs[j]
		switch {
		case a.numCnt > 0 && a.numCnt >= a.dtCnt && a.numCnt >= a.txtCnt:
			c.Kind = KindNumeric
			c.Mean = a.mean
			if a.n > 1 {
				c.Std = math.Sqrt(a.m2 / float64(a.n-1))
			}
		case a.dtCnt > 0 && a.dtCnt >= a.txtCnt:
			c.Kind = KindDatetime
		case len(a.cats) > 0:
			c.Kind = KindCategorical
			c.Unique = len(a.cats)
			tops := make([]CategoryCount, 0, len(a.cats))
			for k, v := range a.cats {
				tops = append(tops, CategoryCount{Value: k, Count: v})
			}
			sort.Slice(tops, func(i, j int) bool {
				if tops[i].Count == tops[j].Count {
					return tops[i].Value < tops[j].Value
				}
				return tops[i].Count > tops[j].Count
			})
			if len(tops) > topN {
				tops = tops[:topN]
			}
			c.Top = tops
		case a.txtCnt > 0:
			c.Kind = KindText
		default:
			c.Kind = KindUnknown
		}
		if c.NonNull == 0 {
			c.Min, c.Max = 0, 0
		}
	}
	return ds, nil
}

// Shape returns (row count, column count). Fixed for the dataset's lifetime.
func (d *Dataset) Shape() (rows, cols int) {
	return d.rows, len(d.Columns)
}

// Col returns the column with the given name (case-insensitive), or nil.
func (d *Dataset) Col(name string) *Column {
	idx, ok := d.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil
	}
	return d.Columns[idx]
}

// ColumnNames returns the column names in table order.
func (d *Dataset) ColumnNames() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}

// NumericColumns returns the columns inferred as numeric, in table order.
func (d *Dataset) NumericColumns() []*Column {
	var out []*Column
	for _, c := range d.Columns {
		if c.Kind == KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// Head returns up to n sample rows as raw strings.
func (d *Dataset) Head(n int) [][]string {
	if n > d.rows {
		n = d.rows
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(d.Columns))
		for j, c := range d.Columns {
			row[j] = c.Raw[i]
		}
		out[i] = row
	}
	return out
}

// SchemaText is a compact one-line-per-column schema used in prompts.
func (d *Dataset) SchemaText() string {
	var b strings.Builder
	for _, c := range d.Columns {
		fmt.Fprintf(&b, "- %s (%s)\n", c.Name, c.Kind)
	}
	return b.String()
}

func uniqueName(name string, taken map[string]int) string {
	if name == "" {
		name = "column"
	}
	if _, ok := taken[strings.ToLower(name)]; !ok {
		return name
	}
	for i := 2; ; i++ {
		cand := fmt.Sprintf("%s_%d", name, i)
		if _, ok := taken[strings.ToLower(cand)]; !ok {
			return cand
		}
	}
}

func sniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}

func parseNumeric(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if strings.HasSuffix(raw, "%") {
		raw = strings.TrimSpace(strings.TrimSuffix(raw, "%"))
	}
	raw = strings.ReplaceAll(raw, " ", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseTimeMaybe(s string) bool {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05",
	}
	for _, l := range layouts {
		if _, err := time.Parse(l, s); err == nil {
			return true
		}
	}
	return false
}
