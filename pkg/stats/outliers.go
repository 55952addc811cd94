package stats

import "math"

// ClipOutliers clips values in each column to the given lower and upper
// percentiles of that column. Columns are column-major; NaN passes through.
func ClipOutliers(cols [][]float64, lower, upper float64) [][]float64 {
	lows := make([]float64, len(cols))
	highs := make([]float64, len(cols))
	for j, col := range cols {
		obs := Observed(col)
		lows[j] = Percentile(obs, lower)
		highs[j] = Percentile(obs, upper)
	}
	out := make([][]float64, len(cols))
	for j, col := range cols {
		out[j] = make([]float64, len(col))
		for i, v := range col {
			switch {
			case math.IsNaN(v):
				out[j][i] = v
			case v < lows[j]:
				out[j][i] = lows[j]
			case v > highs[j]:
				out[j][i] = highs[j]
			default:
				out[j][i] = v
			}
		}
	}
	return out
}
