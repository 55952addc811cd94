package pipeline

import (
	"log/slog"

	"tabprep/pkg/dataprep"
	"tabprep/pkg/frame"
	"tabprep/pkg/loader"
)

// Transformer fits on a sub-table and returns the transformed sub-table
// with the same number of rows.
type Transformer = dataprep.Transformer

// Splitter partitions the processed X and y. The number and shape of the
// partitions is up to the implementation.
type Splitter interface {
	Split(X, y *frame.Table, testSize float64, seed *int64) ([]*frame.Table, error)
}

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithLogger sets the logger used to report stage progress.
func WithLogger(l *slog.Logger) Option {
	return func(p *Preprocessor) {
		if l != nil {
			p.log = l
		}
	}
}

// ProcessOption configures a single Process call.
type ProcessOption func(*processConfig)

type processConfig struct {
	splitter     Splitter
	testSize     float64
	imputer      Transformer
	scaler       Transformer
	binaryEnc    Transformer
	categoricEnc Transformer
	removeNaNs   bool
	scaleTarget  bool
	randomState  *int64
}

// defaultProcessConfig builds fresh default strategies on every call so that
// fitted state never carries over from one Process call to the next.
func defaultProcessConfig() *processConfig {
	return &processConfig{
		splitter:     loader.NewTrainTestSplitter(),
		testSize:     0.25,
		imputer:      dataprep.NewMeanImputer(),
		scaler:       dataprep.NewStandardScaler(),
		binaryEnc:    dataprep.NewLabelEncoder(),
		categoricEnc: dataprep.NewOneHotEncoder(),
		scaleTarget:  true,
	}
}

// WithSplitter sets the splitter. nil returns [X, y] unsplit.
func WithSplitter(s Splitter) ProcessOption {
	return func(c *processConfig) { c.splitter = s }
}

// WithTestSize sets the fraction of rows handed to the test partition.
// The splitter validates it.
func WithTestSize(f float64) ProcessOption {
	return func(c *processConfig) { c.testSize = f }
}

// WithImputer sets the imputer applied to numeric features. nil skips imputation.
func WithImputer(t Transformer) ProcessOption {
	return func(c *processConfig) { c.imputer = t }
}

// WithScaler sets the scaler applied to numeric features. nil skips scaling.
func WithScaler(t Transformer) ProcessOption {
	return func(c *processConfig) { c.scaler = t }
}

// WithBinaryEncoder sets the encoder applied to each binary feature. nil skips it.
func WithBinaryEncoder(t Transformer) ProcessOption {
	return func(c *processConfig) { c.binaryEnc = t }
}

// WithCategoricalEncoder sets the encoder applied to each categoric feature. nil skips it.
func WithCategoricalEncoder(t Transformer) ProcessOption {
	return func(c *processConfig) { c.categoricEnc = t }
}

// WithoutEstimators disables imputation, encoding, scaling and splitting.
func WithoutEstimators() ProcessOption {
	return func(c *processConfig) {
		c.splitter = nil
		c.imputer = nil
		c.scaler = nil
		c.binaryEnc = nil
		c.categoricEnc = nil
	}
}

// WithRemoveNaNs drops rows with missing feature values instead of failing.
func WithRemoveNaNs(b bool) ProcessOption {
	return func(c *processConfig) { c.removeNaNs = b }
}

// WithScaleTarget controls whether a numeric target is scaled with the features.
func WithScaleTarget(b bool) ProcessOption {
	return func(c *processConfig) { c.scaleTarget = b }
}

// WithRandomState seeds the splitter.
func WithRandomState(seed int64) ProcessOption {
	return func(c *processConfig) { c.randomState = &seed }
}
