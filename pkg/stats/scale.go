package stats

import (
	"errors"
	"math"
)

// ErrNotFitted is returned when Transform is called before Fit.
var ErrNotFitted = errors.New("stats: scaler is not fitted")

// The scalers in this file work column-major: cols[j] holds every row of
// feature j. NaN entries are ignored while fitting and pass through Transform.

// StandardScaler standardizes each column to zero mean and unit variance.
type StandardScaler struct {
	Mean []float64
	Std  []float64
	fit  bool
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

func (s *StandardScaler) Fit(cols [][]float64) {
	s.Mean = make([]float64, len(cols))
	s.Std = make([]float64, len(cols))
	for j, col := range cols {
		obs := Observed(col)
		s.Mean[j] = Mean(obs)
		s.Std[j] = Std(obs)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	s.fit = true
}

func (s *StandardScaler) Transform(cols [][]float64) ([][]float64, error) {
	if !s.fit {
		return nil, ErrNotFitted
	}
	return apply(cols, func(j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Std[j]
	}), nil
}

// MinMaxScaler scales each column to [0, 1]. Constant columns map to 0.
type MinMaxScaler struct {
	Min []float64
	Max []float64
	fit bool
}

func NewMinMaxScaler() *MinMaxScaler { return &MinMaxScaler{} }

func (s *MinMaxScaler) Fit(cols [][]float64) {
	s.Min = make([]float64, len(cols))
	s.Max = make([]float64, len(cols))
	for j, col := range cols {
		s.Min[j], s.Max[j] = MinMax(Observed(col))
	}
	s.fit = true
}

func (s *MinMaxScaler) Transform(cols [][]float64) ([][]float64, error) {
	if !s.fit {
		return nil, ErrNotFitted
	}
	return apply(cols, func(j int, v float64) float64 {
		if s.Max[j] == s.Min[j] {
			return 0
		}
		return (v - s.Min[j]) / (s.Max[j] - s.Min[j])
	}), nil
}

// RobustScaler centres each column on its median and divides by the IQR.
// Columns with zero IQR map to 0.
type RobustScaler struct {
	Median []float64
	IQR    []float64
	fit    bool
}

func NewRobustScaler() *RobustScaler { return &RobustScaler{} }

func (s *RobustScaler) Fit(cols [][]float64) {
	s.Median = make([]float64, len(cols))
	s.IQR = make([]float64, len(cols))
	for j, col := range cols {
		obs := Observed(col)
		s.Median[j] = Median(obs)
		s.IQR[j] = Percentile(obs, 75) - Percentile(obs, 25)
	}
	s.fit = true
}

func (s *RobustScaler) Transform(cols [][]float64) ([][]float64, error) {
	if !s.fit {
		return nil, ErrNotFitted
	}
	return apply(cols, func(j int, v float64) float64 {
		if s.IQR[j] == 0 {
			return 0
		}
		return (v - s.Median[j]) / s.IQR[j]
	}), nil
}

func apply(cols [][]float64, f func(j int, v float64) float64) [][]float64 {
	out := make([][]float64, len(cols))
	for j, col := range cols {
		out[j] = make([]float64, len(col))
		for i, v := range col {
			if math.IsNaN(v) {
				out[j][i] = v
				continue
			}
			out[j][i] = f(j, v)
		}
	}
	return out
}
