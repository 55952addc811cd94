package dataprep_test

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"tabprep/pkg/dataprep"
	"tabprep/pkg/frame"
)

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func nums(xs ...float64) []frame.Value { return frame.Numbers("", xs...).Values }

func TestDetectColumnType(t *testing.T) {
	cases := []struct {
		name   string
		values []frame.Value
		want   dataprep.ColumnType
	}{
		{"two values", nums(0, 1, 1, 0), dataprep.TypeBinary},
		{"two strings", frame.Strings("", "yes", "no", "yes").Values, dataprep.TypeBinary},
		{"all distinct", nums(0, 1, 2, 3), dataprep.TypeID},
		{"all distinct strings", frame.Strings("", "a", "b", "c").Values, dataprep.TypeID},
		{"continuous", nums(0.5, 1.2, 3.4, 4.4, 5.1, 5.1, 1.1), dataprep.TypeNumber},
		{"strings", frame.Strings("", "married", "divorced", "single", "divorced").Values, dataprep.TypeCategory},
		{
			"mostly zero, rest spread thin",
			nums(slices.Concat(repeat(0, 1000), []float64{1, 2, 3, 4, 5, 6, 7})...),
			dataprep.TypeNumber,
		},
		{
			"no value above a fifth",
			nums(slices.Concat(repeat(0, 1000), repeat(1, 999), repeat(2, 999), repeat(3, 999),
				repeat(4, 999), repeat(5, 999), []float64{6, 7})...),
			dataprep.TypeNumber,
		},
		{
			"mostly zero, rest concentrated",
			nums(slices.Concat(repeat(0, 1000), []float64{1, 2})...),
			dataprep.TypeCategory,
		},
		{
			"dominant non-zero",
			nums(slices.Concat(repeat(1, 1000), []float64{0, 2})...),
			dataprep.TypeCategory,
		},
		{
			"high cardinality beats dominant value",
			nums(slices.Concat(repeat(7, 60), []float64{1, 2, 3, 4, 5})...),
			dataprep.TypeNumber,
		},
		{
			"mixed numbers and strings",
			append(nums(1, 1, 2), frame.String("x")),
			dataprep.TypeCategory,
		},
		{"empty", nil, dataprep.TypeID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, dataprep.DetectColumnType(tc.values))
		})
	}
}

func TestDetectColumnType_BinaryWinsOverID(t *testing.T) {
	// Two rows, two distinct values: both the binary and the id rule apply.
	require.Equal(t, dataprep.TypeBinary, dataprep.DetectColumnType(nums(3, 4)))
}

func TestDetectColumnType_MissingValues(t *testing.T) {
	// NaN is not a distinct value, but counts towards the length.
	require.Equal(t, dataprep.TypeBinary, dataprep.DetectColumnType(nums(1, 2, math.NaN(), 1)))
	require.Equal(t, dataprep.TypeNumber, dataprep.DetectColumnType(nums(math.NaN(), math.NaN())))
	require.Equal(t, dataprep.TypeNumber, dataprep.DetectColumnType(nums(1, 2, 3, math.NaN())))
}

func TestDetectColumnType_ZeroShareBoundary(t *testing.T) {
	// 500 zeros, then 100 values: 20 each of 1..5. Without zeros every value
	// holds exactly 20%, which is not above the threshold.
	var xs []float64
	xs = append(xs, repeat(0, 500)...)
	for v := 1.0; v <= 5; v++ {
		xs = append(xs, repeat(v, 20)...)
	}
	require.Equal(t, dataprep.TypeNumber, dataprep.DetectColumnType(nums(xs...)))

	// One more 1 tips it over.
	xs = append(xs, 1)
	require.Equal(t, dataprep.TypeCategory, dataprep.DetectColumnType(nums(xs...)))
}

func TestColumnTypeRole(t *testing.T) {
	role, ok := dataprep.TypeNumber.Role()
	require.True(t, ok)
	require.Equal(t, dataprep.RoleNumeric, role)

	role, ok = dataprep.TypeCategory.Role()
	require.True(t, ok)
	require.Equal(t, dataprep.RoleCategoric, role)

	role, ok = dataprep.TypeBinary.Role()
	require.True(t, ok)
	require.Equal(t, dataprep.RoleBinary, role)

	_, ok = dataprep.TypeID.Role()
	require.False(t, ok)
	require.Equal(t, "id", dataprep.TypeID.String())
}
