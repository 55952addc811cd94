package dataprep

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"tabprep/pkg/frame"
)

var (
	// ErrNonNumeric is returned when a numeric transformer meets a string value.
	ErrNonNumeric = errors.New("dataprep: non-numeric value")
	// ErrMissing is returned when a transformer that cannot handle NA meets one.
	ErrMissing = errors.New("dataprep: missing value")
	// ErrOutOfDomain is returned when a value lies outside a transform's domain.
	ErrOutOfDomain = errors.New("dataprep: value outside the transform domain")
)

// Transformer fits on a table and returns the transformed table.
// Implementations must return the same number of rows they were given.
type Transformer interface {
	FitTransform(t *frame.Table) (*frame.Table, error)
}

// TransformerFunc adapts a plain function to Transformer.
type TransformerFunc func(t *frame.Table) (*frame.Table, error)

func (f TransformerFunc) FitTransform(t *frame.Table) (*frame.Table, error) { return f(t) }

// Chain runs transformers in order, feeding each one's output into the next.
type Chain struct {
	steps []Transformer
}

func NewChain(steps ...Transformer) *Chain {
	return &Chain{steps: steps}
}

func (c *Chain) FitTransform(t *frame.Table) (*frame.Table, error) {
	var err error
	for i, step := range c.steps {
		t, err = step.FitTransform(t)
		if err != nil {
			return nil, fmt.Errorf("chain step %d: %w", i, err)
		}
	}
	return t, nil
}

// numericColumns returns the table column-major as floats, NA mapped to NaN.
func numericColumns(t *frame.Table) ([][]float64, error) {
	if t.NumRows() == 0 || t.NumCols() == 0 {
		return make([][]float64, t.NumCols()), nil
	}
	m, err := numericMatrix(t)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, t.NumCols())
	for j := range out {
		out[j] = mat.Col(nil, j, m)
	}
	return out, nil
}

func numericMatrix(t *frame.Table) (*mat.Dense, error) {
	m, err := t.Matrix()
	if errors.Is(err, frame.ErrNotNumeric) {
		return nil, fmt.Errorf("%w: %v", ErrNonNumeric, err)
	}
	return m, err
}

// fromNumericColumns rebuilds a table with t's column names and the given values.
func fromNumericColumns(t *frame.Table, cols [][]float64) (*frame.Table, error) {
	names := t.Names()
	out := make([]*frame.Column, len(names))
	for j, name := range names {
		out[j] = frame.Numbers(name, cols[j]...)
	}
	return frame.New(out...)
}
