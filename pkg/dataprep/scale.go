package dataprep

import (
	"fmt"
	"math"

	"tabprep/pkg/frame"
	"tabprep/pkg/stats"
)

type columnScaler interface {
	Fit(cols [][]float64)
	Transform(cols [][]float64) ([][]float64, error)
}

func fitTransform(name string, s columnScaler, t *frame.Table) (*frame.Table, error) {
	cols, err := numericColumns(t)
	if err != nil {
		return nil, fmt.Errorf("%s scaler: %w", name, err)
	}
	s.Fit(cols)
	scaled, err := s.Transform(cols)
	if err != nil {
		return nil, fmt.Errorf("%s scaler: %w", name, err)
	}
	return fromNumericColumns(t, scaled)
}

// StandardScaler standardizes each column to zero mean and unit variance.
type StandardScaler struct{ *stats.StandardScaler }

func NewStandardScaler() *StandardScaler {
	return &StandardScaler{stats.NewStandardScaler()}
}

func (s *StandardScaler) FitTransform(t *frame.Table) (*frame.Table, error) {
	return fitTransform("standard", s.StandardScaler, t)
}

// MinMaxScaler scales each column to [0, 1].
type MinMaxScaler struct{ *stats.MinMaxScaler }

func NewMinMaxScaler() *MinMaxScaler {
	return &MinMaxScaler{stats.NewMinMaxScaler()}
}

func (s *MinMaxScaler) FitTransform(t *frame.Table) (*frame.Table, error) {
	return fitTransform("min-max", s.MinMaxScaler, t)
}

// RobustScaler scales each column using median and IQR.
type RobustScaler struct{ *stats.RobustScaler }

func NewRobustScaler() *RobustScaler {
	return &RobustScaler{stats.NewRobustScaler()}
}

func (s *RobustScaler) FitTransform(t *frame.Table) (*frame.Table, error) {
	return fitTransform("robust", s.RobustScaler, t)
}

// OutlierClipper clips each numeric column to its [Lower, Upper] percentiles.
// It is meant to be chained in front of a scaler.
type OutlierClipper struct {
	Lower, Upper float64
}

func NewOutlierClipper(lower, upper float64) *OutlierClipper {
	return &OutlierClipper{Lower: lower, Upper: upper}
}

func (c *OutlierClipper) FitTransform(t *frame.Table) (*frame.Table, error) {
	if c.Lower < 0 || c.Upper > 100 || c.Lower >= c.Upper {
		return nil, fmt.Errorf("outlier clipper: invalid percentiles [%g, %g]", c.Lower, c.Upper)
	}
	cols, err := numericColumns(t)
	if err != nil {
		return nil, fmt.Errorf("outlier clipper: %w", err)
	}
	return fromNumericColumns(t, stats.ClipOutliers(cols, c.Lower, c.Upper))
}

// LogTransformer applies log(1+x) to every numeric value.
type LogTransformer struct{}

func NewLogTransformer() *LogTransformer { return &LogTransformer{} }

func (LogTransformer) FitTransform(t *frame.Table) (*frame.Table, error) {
	cols, err := numericColumns(t)
	if err != nil {
		return nil, fmt.Errorf("log transform: %w", err)
	}
	names := t.Names()
	for j, col := range cols {
		for i, v := range col {
			if math.IsNaN(v) {
				continue
			}
			if v <= -1 {
				return nil, fmt.Errorf("log transform: %w: %q row %d holds %g", ErrOutOfDomain, names[j], i, v)
			}
			col[i] = math.Log1p(v)
		}
	}
	return fromNumericColumns(t, cols)
}
