package sandbox

import (
	"fmt"
	"math"
	"sort"

	"go.starlark.net/starlark"

	"github.com/datasage-io/datasage-cli/internal/dataset"
)

// datasetValue exposes a Dataset to Starlark as the predeclared name "df".
// Attributes:
//
//	df.shape       tuple of (rows, cols)
//	df.columns     list of column name strings
//	df.col(name)   list of cell values for one column
//	df.head(n=5)   list of row lists
type datasetValue struct {
	ds *dataset.Dataset
}

func newDatasetValue(ds *dataset.Dataset) *datasetValue {
	return &datasetValue{ds: ds}
}

var _ starlark.HasAttrs = (*datasetValue)(nil)

func (d *datasetValue) String() string {
	rows, cols := d.ds.Shape()
	return fmt.Sprintf("<dataset %s %dx%d>", d.ds.Name, rows, cols)
}

func (d *datasetValue) Type() string          { return "dataset" }
func (d *datasetValue) Freeze()               {}
func (d *datasetValue) Truth() starlark.Bool  { return starlark.True }
func (d *datasetValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: dataset") }

func (d *datasetValue) AttrNames() []string {
	names := []string{"col", "columns", "head", "shape"}
	sort.Strings(names)
	return names
}

func (d *datasetValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "shape":
		rows, cols := d.ds.Shape()
		return starlark.Tuple{starlark.MakeInt(rows), starlark.MakeInt(cols)}, nil
	case "columns":
		names := d.ds.ColumnNames()
		items := make([]starlark.Value, len(names))
		for i, n := range names {
			items[i] = starlark.String(n)
		}
		return starlark.NewList(items), nil
	case "col":
		return starlark.NewBuiltin("col", d.col), nil
	case "head":
		return starlark.NewBuiltin("head", d.head), nil
	}
	return nil, nil // no such attr; starlark reports the error
}

func (d *datasetValue) col(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	c := d.ds.Col(name)
	if c == nil {
		return nil, fmt.Errorf("col: no column named %q", name)
	}
	items := make([]starlark.Value, len(c.Raw))
	for i := range c.Raw {
		items[i] = cellValue(c, i)
	}
	return starlark.NewList(items), nil
}

func (d *datasetValue) head(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	n := 5
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "n?", &n); err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	rows := d.ds.Head(n)
	items := make([]starlark.Value, len(rows))
	for i, row := range rows {
		cells := make([]starlark.Value, len(row))
		for j, c := range d.ds.Columns {
			cells[j] = cellValue(c, i)
		}
		items[i] = starlark.NewList(cells)
	}
	return starlark.NewList(items), nil
}

// cellValue converts one cell: numeric cells become floats, empty cells
// become None, everything else stays a string.
func cellValue(c *dataset.Column, i int) starlark.Value {
	if c.Raw[i] == "" {
		return starlark.None
	}
	if c.Kind == dataset.KindNumeric && !math.IsNaN(c.Nums[i]) {
		return starlark.Float(c.Nums[i])
	}
	return starlark.String(c.Raw[i])
}
