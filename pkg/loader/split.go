package loader

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"tabprep/pkg/frame"
)

// ErrSplit reports a split that cannot be carried out on the given data.
var ErrSplit = errors.New("loader: invalid split")

// SplitterFunc adapts a plain function to the splitter contract
// Split(X, y, testSize, seed) -> partitions.
type SplitterFunc func(X, y *frame.Table, testSize float64, seed *int64) ([]*frame.Table, error)

func (f SplitterFunc) Split(X, y *frame.Table, testSize float64, seed *int64) ([]*frame.Table, error) {
	return f(X, y, testSize, seed)
}

// TrainTestSplitter splits X, y into train and test sets by ratio and returns
// [X_train, X_test, y_train, y_test].
type TrainTestSplitter struct {
	// Shuffle permutes rows before cutting. Without it the last rows form the test set.
	Shuffle bool
}

func NewTrainTestSplitter() *TrainTestSplitter {
	return &TrainTestSplitter{Shuffle: true}
}

func (s *TrainTestSplitter) Split(X, y *frame.Table, testSize float64, seed *int64) ([]*frame.Table, error) {
	n, err := checkXY(X, y)
	if err != nil {
		return nil, err
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, fmt.Errorf("%w: test size %g outside (0, 1)", ErrSplit, testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest < 1 || nTrain < 1 {
		return nil, fmt.Errorf("%w: %d rows with test size %g leaves an empty partition", ErrSplit, n, testSize)
	}

	indices := permutation(n, s.Shuffle, seed)
	trainIdx, testIdx := indices[:nTrain], indices[nTrain:]
	return []*frame.Table{X.Take(trainIdx), X.Take(testIdx), y.Take(trainIdx), y.Take(testIdx)}, nil
}

// KFold yields K folds. Each fold contributes [X_train, X_test, y_train, y_test]
// to the result, so the result has 4*K tables. The test size is ignored.
type KFold struct {
	K       int
	Shuffle bool
}

func NewKFold(k int) *KFold {
	return &KFold{K: k, Shuffle: true}
}

func (s *KFold) Split(X, y *frame.Table, _ float64, seed *int64) ([]*frame.Table, error) {
	n, err := checkXY(X, y)
	if err != nil {
		return nil, err
	}
	if s.K < 2 || s.K > n {
		return nil, fmt.Errorf("%w: %d folds over %d rows", ErrSplit, s.K, n)
	}

	indices := permutation(n, s.Shuffle, seed)
	folds := make([][]int, s.K)
	for i := range n {
		folds[i%s.K] = append(folds[i%s.K], indices[i])
	}

	out := make([]*frame.Table, 0, 4*s.K)
	for k, testIdx := range folds {
		var trainIdx []int
		for j, fold := range folds {
			if j != k {
				trainIdx = append(trainIdx, fold...)
			}
		}
		out = append(out, X.Take(trainIdx), X.Take(testIdx), y.Take(trainIdx), y.Take(testIdx))
	}
	return out, nil
}

func checkXY(X, y *frame.Table) (int, error) {
	if X == nil || y == nil {
		return 0, fmt.Errorf("%w: nil table", ErrSplit)
	}
	if X.NumRows() != y.NumRows() {
		return 0, fmt.Errorf("%w: X has %d rows, y has %d", ErrSplit, X.NumRows(), y.NumRows())
	}
	return X.NumRows(), nil
}

// permutation returns 0..n-1, shuffled when asked. A nil seed draws from
// the global source.
func permutation(n int, shuffle bool, seed *int64) []int {
	if !shuffle {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	if seed == nil {
		return rand.Perm(n)
	}
	s := uint64(*seed)
	return rand.New(rand.NewPCG(s, s)).Perm(n)
}
