package dataprep

import (
	"fmt"

	"tabprep/pkg/frame"
)

// LabelEncoder encodes each column's values as integers 0..k-1 following
// the sorted order of its distinct values. A two-valued column becomes 0/1.
type LabelEncoder struct {
	// Classes holds the fitted distinct values per column, by name.
	Classes map[string][]frame.Value
}

func NewLabelEncoder() *LabelEncoder { return &LabelEncoder{} }

func (e *LabelEncoder) FitTransform(t *frame.Table) (*frame.Table, error) {
	e.Classes = make(map[string][]frame.Value, t.NumCols())
	out := make([]*frame.Column, 0, t.NumCols())
	for _, c := range t.Columns() {
		if c.HasMissing() {
			return nil, fmt.Errorf("label encoder: %w in column %q", ErrMissing, c.Name)
		}
		classes := c.Distinct()
		codes := make(map[frame.Value]int, len(classes))
		for i, v := range classes {
			codes[v] = i
		}
		vals := make([]frame.Value, c.Len())
		for i, v := range c.Values {
			vals[i] = frame.Number(float64(codes[v]))
		}
		e.Classes[c.Name] = classes
		out = append(out, frame.NewColumn(c.Name, vals...))
	}
	return frame.New(out...)
}

// OneHotEncoder expands every column into one 0/1 indicator column per
// distinct value, named "<column>_<value>", in sorted value order.
// Rows holding NA get 0 in every indicator.
type OneHotEncoder struct {
	// Categories holds the fitted distinct values per column, by name.
	Categories map[string][]frame.Value
}

func NewOneHotEncoder() *OneHotEncoder { return &OneHotEncoder{} }

func (e *OneHotEncoder) FitTransform(t *frame.Table) (*frame.Table, error) {
	e.Categories = make(map[string][]frame.Value, t.NumCols())
	var out []*frame.Column
	for _, c := range t.Columns() {
		cats := c.Distinct()
		e.Categories[c.Name] = cats
		for _, cat := range cats {
			vals := make([]frame.Value, c.Len())
			for i, v := range c.Values {
				if v == cat {
					vals[i] = frame.Number(1)
				} else {
					vals[i] = frame.Number(0)
				}
			}
			out = append(out, frame.NewColumn(c.Name+"_"+cat.String(), vals...))
		}
	}
	return frame.New(out...)
}

// FrequencyEncoder replaces each value with the share of rows holding it.
// Columns keep their names; NA rows get 0.
type FrequencyEncoder struct {
	// Frequencies holds the fitted share of every value per column, by name.
	Frequencies map[string]map[frame.Value]float64
}

func NewFrequencyEncoder() *FrequencyEncoder { return &FrequencyEncoder{} }

func (e *FrequencyEncoder) FitTransform(t *frame.Table) (*frame.Table, error) {
	e.Frequencies = make(map[string]map[frame.Value]float64, t.NumCols())
	out := make([]*frame.Column, 0, t.NumCols())
	for _, c := range t.Columns() {
		freq := make(map[frame.Value]float64)
		for _, v := range c.Values {
			if !v.IsMissing() {
				freq[v]++
			}
		}
		for v := range freq {
			freq[v] /= float64(c.Len())
		}
		vals := make([]frame.Value, c.Len())
		for i, v := range c.Values {
			vals[i] = frame.Number(freq[v])
		}
		e.Frequencies[c.Name] = freq
		out = append(out, frame.NewColumn(c.Name, vals...))
	}
	return frame.New(out...)
}
