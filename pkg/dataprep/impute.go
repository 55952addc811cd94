package dataprep

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"tabprep/pkg/frame"
	"tabprep/pkg/stats"
)

// ---------- Simple Imputation Methods ----------

// statImputer fills NA cells of numeric columns with a per-column statistic.
// Columns without a single observed value are left as they are.
type statImputer struct {
	name string
	stat func(obs []float64) float64

	// Statistics holds the fitted fill value per column, by name.
	Statistics map[string]float64
}

func (m *statImputer) FitTransform(t *frame.Table) (*frame.Table, error) {
	cols, err := numericColumns(t)
	if err != nil {
		return nil, fmt.Errorf("%s imputer: %w", m.name, err)
	}
	names := t.Names()
	m.Statistics = make(map[string]float64, len(cols))
	for j, col := range cols {
		obs := stats.Observed(col)
		if len(obs) == 0 {
			continue
		}
		fill := m.stat(obs)
		m.Statistics[names[j]] = fill
		for i, v := range col {
			if math.IsNaN(v) {
				col[i] = fill
			}
		}
	}
	return fromNumericColumns(t, cols)
}

// MeanImputer replaces missing numeric values with the column mean.
type MeanImputer struct{ statImputer }

func NewMeanImputer() *MeanImputer {
	return &MeanImputer{statImputer{name: "mean", stat: stats.Mean}}
}

// MedianImputer replaces missing numeric values with the column median.
type MedianImputer struct{ statImputer }

func NewMedianImputer() *MedianImputer {
	return &MedianImputer{statImputer{name: "median", stat: stats.Median}}
}

// ModeImputer replaces missing values with the most frequent value of the
// column. Unlike the mean and median imputers it accepts string columns.
type ModeImputer struct {
	// Statistics holds the fitted fill value per column, by name.
	Statistics map[string]frame.Value
}

func NewModeImputer() *ModeImputer { return &ModeImputer{} }

func (m *ModeImputer) FitTransform(t *frame.Table) (*frame.Table, error) {
	m.Statistics = make(map[string]frame.Value, t.NumCols())
	out := make([]*frame.Column, 0, t.NumCols())
	for _, c := range t.Columns() {
		counts := make(map[frame.Value]int)
		for _, v := range c.Values {
			if !v.IsMissing() {
				counts[v]++
			}
		}
		if len(counts) == 0 {
			out = append(out, c.Clone())
			continue
		}
		var fill frame.Value
		if xs, err := c.Floats(); err == nil {
			fill = frame.Number(stats.Mode(stats.Observed(xs)))
		} else {
			fill, _ = topShare(counts, c.Len())
		}
		m.Statistics[c.Name] = fill
		out = append(out, fillMissing(c, fill))
	}
	return frame.New(out...)
}

// ConstantImputer replaces missing values with a fixed value.
type ConstantImputer struct {
	Fill frame.Value
}

func NewConstantImputer(fill frame.Value) *ConstantImputer {
	return &ConstantImputer{Fill: fill}
}

func (m *ConstantImputer) FitTransform(t *frame.Table) (*frame.Table, error) {
	out := make([]*frame.Column, 0, t.NumCols())
	for _, c := range t.Columns() {
		out = append(out, fillMissing(c, m.Fill))
	}
	return frame.New(out...)
}

// ---------- KNN Imputation ----------

// KNNImputer fills a missing numeric cell with the mean of its column over
// the K nearest rows that observe that column. Distances are Euclidean over
// the other columns both rows observe, scaled up by the share of columns
// left out. A cell with no usable neighbour gets the column mean.
type KNNImputer struct {
	K int
}

func NewKNNImputer(k int) *KNNImputer { return &KNNImputer{K: k} }

type neighbour struct {
	dist, value float64
}

func (m *KNNImputer) FitTransform(t *frame.Table) (*frame.Table, error) {
	if m.K < 1 {
		return nil, fmt.Errorf("knn imputer: k must be positive, got %d", m.K)
	}
	if t.NumRows() == 0 || t.NumCols() == 0 {
		return t.Clone(), nil
	}
	x, err := numericMatrix(t)
	if err != nil {
		return nil, fmt.Errorf("knn imputer: %w", err)
	}

	rows, ncols := x.Dims()
	out := mat.DenseCopyOf(x)
	for i := range rows {
		row := x.RawRowView(i)
		for j := range ncols {
			if !math.IsNaN(row[j]) {
				continue
			}
			var near []neighbour
			for r := range rows {
				other := x.RawRowView(r)
				if r == i || math.IsNaN(other[j]) {
					continue
				}
				if d, ok := nanEuclidean(row, other, j); ok {
					near = append(near, neighbour{dist: d, value: other[j]})
				}
			}
			if len(near) == 0 {
				if obs := stats.Observed(mat.Col(nil, j, x)); len(obs) > 0 {
					out.Set(i, j, stats.Mean(obs))
				}
				continue
			}
			slices.SortStableFunc(near, func(a, b neighbour) int { return cmp.Compare(a.dist, b.dist) })
			near = near[:min(m.K, len(near))]
			var sum float64
			for _, n := range near {
				sum += n.value
			}
			out.Set(i, j, sum/float64(len(near)))
		}
	}

	cols := make([][]float64, ncols)
	for j := range cols {
		cols[j] = mat.Col(nil, j, out)
	}
	return fromNumericColumns(t, cols)
}

// nanEuclidean ignores column skip and every coordinate missing in a or b.
// It reports false when no coordinate is left.
func nanEuclidean(a, b []float64, skip int) (float64, bool) {
	var sum float64
	present := 0
	for k := range a {
		if k == skip || math.IsNaN(a[k]) || math.IsNaN(b[k]) {
			continue
		}
		d := a[k] - b[k]
		sum += d * d
		present++
	}
	if present == 0 {
		return 0, false
	}
	return math.Sqrt(sum * float64(len(a)-1) / float64(present)), true
}

func fillMissing(c *frame.Column, fill frame.Value) *frame.Column {
	vals := slices.Clone(c.Values)
	for i, v := range vals {
		if v.IsMissing() {
			vals[i] = fill
		}
	}
	return frame.NewColumn(c.Name, vals...)
}
