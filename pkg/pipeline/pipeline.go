package pipeline

import (
	"log/slog"

	"github.com/pkg/errors"

	"tabprep/pkg/frame"
)

// Preprocessor imputes, encodes, scales and splits a table for downstream
// modeling. The feature roles are fixed at construction; every Process call
// works on a fresh copy of the data and leaves the caller's table untouched.
type Preprocessor struct {
	data      *frame.Table
	features  FeatureSpec
	processed *frame.Table
	log       *slog.Logger
}

// New validates the table and the feature lists and returns a Preprocessor.
//
// It fails with ErrType if data is nil or malformed, and with ErrValue if no
// feature is declared (without auto detection) or a declared feature is not a
// column of data. With cfg.AutoDetect the feature lists are ignored and the
// roles are detected from the data.
func New(data *frame.Table, cfg Config, opts ...Option) (*Preprocessor, error) {
	if data == nil {
		return nil, errors.Wrap(ErrType, "data must be a table, got nil")
	}
	if err := data.Validate(); err != nil {
		return nil, errors.Wrapf(ErrType, "data is not a valid table: %v", err)
	}

	p := &Preprocessor{data: data, log: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}

	if cfg.AutoDetect {
		p.features = DetectFeatures(data)
		p.log.Debug("detected feature roles",
			"numeric", p.features.Numeric,
			"categoric", p.features.Categoric,
			"binary", p.features.Binary)
		return p, nil
	}

	spec := FeatureSpec{Numeric: cfg.Numeric, Categoric: cfg.Categoric, Binary: cfg.Binary}
	if spec.Empty() {
		return nil, errors.Wrap(ErrValue, "all feature lists empty, supply at least one feature")
	}
	for _, list := range []struct {
		arg   string
		names []string
	}{
		{"numeric", spec.Numeric},
		{"categoric", spec.Categoric},
		{"binary", spec.Binary},
	} {
		var absent []string
		for _, name := range list.names {
			if !data.Has(name) {
				absent = append(absent, name)
			}
		}
		if len(absent) > 0 {
			return nil, errors.Wrapf(ErrValue, "data must contain all %s features, missing columns %q", list.arg, absent)
		}
	}
	p.features = spec
	return p, nil
}

// Data returns the table the Preprocessor was built with.
func (p *Preprocessor) Data() *frame.Table { return p.data }

// Features returns the resolved feature roles.
func (p *Preprocessor) Features() FeatureSpec { return p.features }

// FeaturesToCheck returns numeric, categoric and binary features, in that order.
func (p *Preprocessor) FeaturesToCheck() []string { return p.features.All() }

// Processed returns the working table of the last Process call, or nil.
func (p *Preprocessor) Processed() *frame.Table { return p.processed }

// Process runs the stages in fixed order on a copy of the data:
// impute, missing value check, binary encoding, one-hot encoding, scaling
// and splitting. Without a splitter it returns [X, y]; otherwise whatever
// the splitter returns, [X_train, X_test, y_train, y_test] for the default.
// y is a single-column table holding target.
func (p *Preprocessor) Process(target string, opts ...ProcessOption) ([]*frame.Table, error) {
	cfg := defaultProcessConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if !p.features.Contains(target) {
		return nil, errors.Wrapf(ErrValue, "target %q must be a numeric, categoric or binary feature", target)
	}

	p.processed = p.data.Clone()

	if cfg.imputer != nil {
		if err := p.impute(cfg.imputer, target); err != nil {
			return nil, err
		}
	}
	if err := p.checkMissing(cfg.removeNaNs); err != nil {
		return nil, err
	}
	if cfg.binaryEnc != nil {
		if err := p.labelEncode(cfg.binaryEnc); err != nil {
			return nil, err
		}
	}
	if cfg.categoricEnc != nil {
		if err := p.oneHotEncode(cfg.categoricEnc, target); err != nil {
			return nil, err
		}
	}
	if cfg.scaler != nil {
		if err := p.scale(cfg.scaler, target, cfg.scaleTarget); err != nil {
			return nil, err
		}
	}
	return p.split(cfg.splitter, cfg.testSize, target, cfg.randomState)
}

// impute fills numeric features other than the target.
func (p *Preprocessor) impute(imputer Transformer, target string) error {
	names := columnsExcept(p.features.Numeric, target)
	if len(names) == 0 {
		return nil
	}
	p.log.Debug("imputing", "columns", names)
	return p.fitInPlace("impute", imputer, names)
}

// checkMissing fails on missing feature values, or drops their rows when asked.
func (p *Preprocessor) checkMissing(remove bool) error {
	var names []string
	var cols []*frame.Column
	for _, name := range distinct(p.FeaturesToCheck()) {
		c, ok := p.processed.Column(name)
		if !ok {
			return errors.Wrapf(ErrValue, "feature %q is no longer a column of data", name)
		}
		if c.HasMissing() {
			names = append(names, name)
			cols = append(cols, c)
		}
	}
	if len(names) == 0 {
		return nil
	}
	if !remove {
		return &MissingValuesError{Columns: names}
	}
	dropped := p.processed.Filter(func(row int) bool {
		for _, c := range cols {
			if c.Values[row].IsMissing() {
				return false
			}
		}
		return true
	})
	p.log.Info("dropped rows with missing values", "rows", dropped, "columns", names)
	return nil
}

// labelEncode encodes each binary feature on its own.
func (p *Preprocessor) labelEncode(encoder Transformer) error {
	for _, name := range distinct(p.features.Binary) {
		p.log.Debug("binary encoding", "column", name)
		if err := p.fitInPlace("binary encode", encoder, []string{name}); err != nil {
			return err
		}
	}
	return nil
}

// oneHotEncode replaces each categoric feature other than the target with
// the columns returned by the encoder, appended at the end of the table.
func (p *Preprocessor) oneHotEncode(encoder Transformer, target string) error {
	for _, name := range columnsExcept(p.features.Categoric, target) {
		sub, err := p.processed.Select(name)
		if err != nil {
			return errors.Wrap(err, "one-hot encode")
		}
		out, err := encoder.FitTransform(sub)
		if err != nil {
			return errors.Wrapf(err, "one-hot encode %q", name)
		}
		if err := checkShape("one-hot encode", out, sub.NumRows(), -1); err != nil {
			return err
		}
		if err := p.processed.Drop(name); err != nil {
			return errors.Wrap(err, "one-hot encode")
		}
		if err := p.processed.Append(out.Clone().Columns()...); err != nil {
			return errors.Wrapf(ErrValue, "one-hot encode %q: %v", name, err)
		}
		p.log.Debug("one-hot encoded", "column", name, "indicators", out.Names())
	}
	return nil
}

// scale scales numeric features, the target only when scaleTarget is set.
func (p *Preprocessor) scale(scaler Transformer, target string, scaleTarget bool) error {
	names := distinct(p.features.Numeric)
	if !scaleTarget {
		names = columnsExcept(names, target)
	}
	if len(names) == 0 {
		return nil
	}
	p.log.Debug("scaling", "columns", names)
	return p.fitInPlace("scale", scaler, names)
}

// split separates the target from the rest and hands both to the splitter.
func (p *Preprocessor) split(splitter Splitter, testSize float64, target string, seed *int64) ([]*frame.Table, error) {
	x := p.processed.Without(target)
	y, err := p.processed.Select(target)
	if err != nil {
		return nil, errors.Wrap(err, "split")
	}
	if splitter == nil {
		return []*frame.Table{x, y}, nil
	}
	parts, err := splitter.Split(x, y, testSize, seed)
	if err != nil {
		return nil, errors.Wrap(err, "split")
	}
	return parts, nil
}

// fitInPlace runs t over a copy of the named columns and writes the result
// back positionally.
func (p *Preprocessor) fitInPlace(stage string, t Transformer, names []string) error {
	sub, err := p.processed.Select(names...)
	if err != nil {
		return errors.Wrap(err, stage)
	}
	out, err := t.FitTransform(sub)
	if err != nil {
		return errors.Wrap(err, stage)
	}
	if err := checkShape(stage, out, sub.NumRows(), len(names)); err != nil {
		return err
	}
	for j, c := range out.Columns() {
		if err := p.processed.Replace(names[j], c.Clone().Values); err != nil {
			return errors.Wrap(err, stage)
		}
	}
	return nil
}

// checkShape verifies a transformer kept the row count, and the column count
// when cols is not negative.
func checkShape(stage string, out *frame.Table, rows, cols int) error {
	if out == nil {
		return errors.Wrapf(ErrValue, "%s: transformer returned no table", stage)
	}
	if out.NumRows() != rows {
		return errors.Wrapf(ErrValue, "%s: transformer returned %d rows, want %d", stage, out.NumRows(), rows)
	}
	if cols >= 0 && out.NumCols() != cols {
		return errors.Wrapf(ErrValue, "%s: transformer returned %d columns, want %d", stage, out.NumCols(), cols)
	}
	return nil
}
