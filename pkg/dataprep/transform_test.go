package dataprep_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"tabprep/pkg/dataprep"
	"tabprep/pkg/frame"
)

func column(t *testing.T, tbl *frame.Table, name string) []frame.Value {
	t.Helper()
	c, ok := tbl.Column(name)
	require.True(t, ok, "column %q", name)
	return c.Values
}

func TestMeanImputer(t *testing.T) {
	in := frame.MustNew(
		frame.Numbers("age", 0.5, math.NaN()),
		frame.Numbers("empty", math.NaN(), math.NaN()),
	)
	imp := dataprep.NewMeanImputer()
	out, err := imp.FitTransform(in)
	require.NoError(t, err)
	require.Equal(t, nums(0.5, 0.5), column(t, out, "age"))
	require.Equal(t, nums(math.NaN(), math.NaN()), column(t, out, "empty"))
	require.Equal(t, map[string]float64{"age": 0.5}, imp.Statistics)

	// input untouched
	require.True(t, column(t, in, "age")[1].IsMissing())
}

func TestMedianImputer(t *testing.T) {
	in := frame.MustNew(frame.Numbers("x", 1, 2, 10, math.NaN()))
	out, err := dataprep.NewMedianImputer().FitTransform(in)
	require.NoError(t, err)
	require.Equal(t, nums(1, 2, 10, 2), column(t, out, "x"))
}

func TestMeanImputer_RejectsStrings(t *testing.T) {
	in := frame.MustNew(frame.Strings("x", "a", ""))
	_, err := dataprep.NewMeanImputer().FitTransform(in)
	require.ErrorIs(t, err, dataprep.ErrNonNumeric)
}

func TestModeAndConstantImputer(t *testing.T) {
	in := frame.MustNew(frame.Strings("c", "b", "a", "b", "", "a"))
	out, err := dataprep.NewModeImputer().FitTransform(in)
	require.NoError(t, err)
	// tie between a and b goes to the smaller
	require.Equal(t, frame.String("a"), column(t, out, "c")[3])

	out, err = dataprep.NewConstantImputer(frame.String("unknown")).FitTransform(in)
	require.NoError(t, err)
	require.Equal(t, frame.String("unknown"), column(t, out, "c")[3])
}

func TestModeImputer_NumericColumn(t *testing.T) {
	in := frame.MustNew(frame.Numbers("n", 3, 1, math.NaN(), 3, 1, 7))
	imp := dataprep.NewModeImputer()
	out, err := imp.FitTransform(in)
	require.NoError(t, err)
	require.Equal(t, nums(3, 1, 1, 3, 1, 7), column(t, out, "n"))
	require.Equal(t, frame.Number(1), imp.Statistics["n"])
}

func TestKNNImputer(t *testing.T) {
	in := frame.MustNew(
		frame.Numbers("a", 1, 2, math.NaN(), 10),
		frame.Numbers("b", 1, 2, 2.1, 10),
	)
	out, err := dataprep.NewKNNImputer(2).FitTransform(in)
	require.NoError(t, err)
	// rows 1 and 0 are the nearest on b
	require.Equal(t, nums(1, 2, 1.5, 10), column(t, out, "a"))
	require.Equal(t, nums(1, 2, 2.1, 10), column(t, out, "b"))

	out, err = dataprep.NewKNNImputer(1).FitTransform(in)
	require.NoError(t, err)
	require.Equal(t, frame.Number(2), column(t, out, "a")[2])

	// input untouched
	require.True(t, column(t, in, "a")[2].IsMissing())
}

func TestKNNImputer_MissingCoordinates(t *testing.T) {
	in := frame.MustNew(
		frame.Numbers("a", math.NaN(), 4, 8, 100),
		frame.Numbers("b", 0, math.NaN(), 1, 50),
		frame.Numbers("c", 0, 0, math.NaN(), math.NaN()),
	)
	out, err := dataprep.NewKNNImputer(1).FitTransform(in)
	require.NoError(t, err)
	a := column(t, out, "a")
	// row 1 shares only c with row 0, row 2 only b: distances 0 and sqrt(2)
	require.Equal(t, frame.Number(4), a[0])
	require.Equal(t, nums(4, 8, 100), a[1:])
	// rows 2 and 3 are nearest to row 0 through b
	require.Equal(t, nums(0, 0, 0, 0), column(t, out, "c"))
}

func TestKNNImputer_FallsBackToMean(t *testing.T) {
	in := frame.MustNew(frame.Numbers("only", 1, math.NaN(), 5))
	out, err := dataprep.NewKNNImputer(3).FitTransform(in)
	require.NoError(t, err)
	require.Equal(t, nums(1, 3, 5), column(t, out, "only"))

	_, err = dataprep.NewKNNImputer(0).FitTransform(in)
	require.Error(t, err)

	_, err = dataprep.NewKNNImputer(1).FitTransform(frame.MustNew(frame.Strings("s", "a", "")))
	require.ErrorIs(t, err, dataprep.ErrNonNumeric)
}

func TestLabelEncoder(t *testing.T) {
	in := frame.MustNew(frame.Strings("sex", "male", "female", "female", "male"))
	enc := dataprep.NewLabelEncoder()
	out, err := enc.FitTransform(in)
	require.NoError(t, err)
	require.Equal(t, nums(1, 0, 0, 1), column(t, out, "sex"))
	require.Equal(t, []frame.Value{frame.String("female"), frame.String("male")}, enc.Classes["sex"])

	_, err = enc.FitTransform(frame.MustNew(frame.Strings("sex", "male", "")))
	require.ErrorIs(t, err, dataprep.ErrMissing)
}

func TestOneHotEncoder(t *testing.T) {
	in := frame.MustNew(frame.Strings("col", "b", "a", "c", "a", ""))
	out, err := dataprep.NewOneHotEncoder().FitTransform(in)
	require.NoError(t, err)
	require.Equal(t, []string{"col_a", "col_b", "col_c"}, out.Names())
	require.Equal(t, nums(0, 1, 0, 1, 0), column(t, out, "col_a"))
	require.Equal(t, nums(1, 0, 0, 0, 0), column(t, out, "col_b"))
	require.Equal(t, nums(0, 0, 1, 0, 0), column(t, out, "col_c"))
}

func TestOneHotEncoder_NumericCategories(t *testing.T) {
	in := frame.MustNew(frame.Numbers("grade", 2, 1, 2.5))
	out, err := dataprep.NewOneHotEncoder().FitTransform(in)
	require.NoError(t, err)
	require.Equal(t, []string{"grade_1", "grade_2", "grade_2.5"}, out.Names())
}

func TestFrequencyEncoder(t *testing.T) {
	in := frame.MustNew(frame.Strings("col", "b", "a", "c", "a", ""))
	enc := dataprep.NewFrequencyEncoder()
	out, err := enc.FitTransform(in)
	require.NoError(t, err)
	require.Equal(t, []string{"col"}, out.Names())
	require.Equal(t, nums(0.2, 0.4, 0.2, 0.4, 0), column(t, out, "col"))
	require.Equal(t, 0.4, enc.Frequencies["col"][frame.String("a")])
}

func TestStandardScaler(t *testing.T) {
	in := frame.MustNew(frame.Numbers("x", 1, 2, 3), frame.Numbers("const", 5, 5, 5))
	s := dataprep.NewStandardScaler()
	out, err := s.FitTransform(in)
	require.NoError(t, err)

	x := column(t, out, "x")
	std := math.Sqrt(2.0 / 3.0)
	for i, want := range []float64{-1 / std, 0, 1 / std} {
		got, _ := x[i].Float()
		require.InDelta(t, want, got, 1e-12)
	}
	require.Equal(t, nums(0, 0, 0), column(t, out, "const"))
	require.Equal(t, []float64{2, 5}, s.Mean)
}

func TestMinMaxAndRobustScaler(t *testing.T) {
	in := frame.MustNew(frame.Numbers("x", 0, 5, 10))
	out, err := dataprep.NewMinMaxScaler().FitTransform(in)
	require.NoError(t, err)
	require.Equal(t, nums(0, 0.5, 1), column(t, out, "x"))

	out, err = dataprep.NewRobustScaler().FitTransform(in)
	require.NoError(t, err)
	// median 5, IQR 7.5 - 2.5
	require.Equal(t, nums(-1, 0, 1), column(t, out, "x"))
}

func TestScaler_EmptyTable(t *testing.T) {
	out, err := dataprep.NewStandardScaler().FitTransform(frame.MustNew(frame.Numbers("x")))
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, out.Names())
	require.Zero(t, out.NumRows())
}

func TestScaler_RejectsStrings(t *testing.T) {
	_, err := dataprep.NewStandardScaler().FitTransform(frame.MustNew(frame.Strings("s", "a", "b")))
	require.ErrorIs(t, err, dataprep.ErrNonNumeric)
}

func TestOutlierClipperInChain(t *testing.T) {
	in := frame.MustNew(frame.Numbers("x", 1, 2, 3, 4, 100))
	clip, err := dataprep.NewOutlierClipper(0, 75).FitTransform(in)
	require.NoError(t, err)
	require.Equal(t, nums(1, 2, 3, 4, 4), column(t, clip, "x"))

	chain := dataprep.NewChain(dataprep.NewOutlierClipper(0, 75), dataprep.NewMinMaxScaler())
	out, err := chain.FitTransform(in)
	require.NoError(t, err)
	require.Equal(t, nums(0, 1.0/3, 2.0/3, 1, 1), column(t, out, "x"))

	_, err = dataprep.NewOutlierClipper(90, 10).FitTransform(in)
	require.Error(t, err)
}

func TestLogTransformer(t *testing.T) {
	in := frame.MustNew(frame.Numbers("x", 0, math.E-1, math.NaN()))
	out, err := dataprep.NewLogTransformer().FitTransform(in)
	require.NoError(t, err)
	x := column(t, out, "x")
	require.Equal(t, frame.Number(0), x[0])
	got, _ := x[1].Float()
	require.InDelta(t, 1, got, 1e-12)
	require.True(t, x[2].IsMissing())

	_, err = dataprep.NewLogTransformer().FitTransform(frame.MustNew(frame.Numbers("x", 3, -1)))
	require.ErrorIs(t, err, dataprep.ErrOutOfDomain)
}

func TestChain_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	called := false
	chain := dataprep.NewChain(
		dataprep.TransformerFunc(func(*frame.Table) (*frame.Table, error) { return nil, boom }),
		dataprep.TransformerFunc(func(t *frame.Table) (*frame.Table, error) { called = true; return t, nil }),
	)
	_, err := chain.FitTransform(frame.MustNew(frame.Numbers("x", 1)))
	require.ErrorIs(t, err, boom)
	require.False(t, called)
}
