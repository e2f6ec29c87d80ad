package dataset

import (
	"math"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Corr computes pairwise Pearson correlations over the numeric columns,
// using rows where both values are present. Returns nil when fewer than two
// numeric columns exist.
func (d *Dataset) Corr() *CorrMatrix {
	nums := d.NumericColumns()
	if len(nums) < 2 {
		return nil
	}
	n := len(nums)
	m := &CorrMatrix{
		Columns: make([]string, n),
		Values:  make([][]float64, n),
	}
	for i, c := range nums {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pearson(nums[i].Nums, nums[j].Nums)
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// pearson computes the correlation over pairwise complete observations.
// NaN entries mark missing or non-numeric cells and are skipped.
func pearson(xs, ys []float64) float64 {
	var cnt, sumX, sumY, sumXX, sumYY, sumXY float64
	for i := range xs {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		cnt++
		sumX += x
		sumY += y
		sumXX += x * x
		sumYY += y * y
		sumXY += x * y
	}
	if cnt < 2 {
		return 0
	}
	denom := math.Sqrt((cnt*sumXX - sumX*sumX) * (cnt*sumYY - sumY*sumY))
	if denom == 0 {
		return 0
	}
	r := (cnt*sumXY - sumX*sumY) / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Markdown renders the matrix as a markdown table with row labels.
func (m *CorrMatrix) Markdown() string {
	t := table.NewWriter()
	hdr := make(table.Row, len(m.Columns)+1)
	hdr[0] = ""
	for i, c := range m.Columns {
		hdr[i+1] = c
	}
	t.AppendHeader(hdr)
	for i, name := range m.Columns {
		row := make(table.Row, len(m.Columns)+1)
		row[0] = name
		for j := range m.Columns {
			row[j+1] = fmtNum(m.Values[i][j])
		}
		t.AppendRow(row)
	}
	return t.RenderMarkdown()
}

// TopPairs returns up to limit column pairs ordered by absolute correlation.
func (m *CorrMatrix) TopPairs(limit int) []PairCorr {
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sortPairs(pairs)
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

func sortPairs(pairs []PairCorr) {
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
}
