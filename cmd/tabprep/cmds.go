package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tabprep/pkg/data"
	"tabprep/pkg/dataprep"
	"tabprep/pkg/frame"
	"tabprep/pkg/loader"
	"tabprep/pkg/pipeline"
	"tabprep/pkg/report"
)

func fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	os.Exit(1)
}

// Represents the state used when processing a command. Settings come from
// the command's flags layered over the optional config file.
type Action struct {
	cmd *cobra.Command
	cfg *viper.Viper
	log *slog.Logger
}

func newAction(cmd *cobra.Command) *Action {
	a, err := loadAction(cmd)
	if err != nil {
		fatal("%s", err)
	}
	return a
}

func loadAction(cmd *cobra.Command) (*Action, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, errors.Wrap(err, "binding flags")
	}
	if err := v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return nil, errors.Wrap(err, "binding inherited flags")
	}
	if fname := v.GetString("config"); fname != "" {
		v.SetConfigFile(fname)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", fname)
		}
	}
	level := slog.LevelInfo
	if v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return &Action{cmd: cmd, cfg: v, log: log}, nil
}

func (a *Action) getBool(name string) bool { return a.cfg.GetBool(name) }
func (a *Action) getInt(name string) int { return a.cfg.GetInt(name) }
func (a *Action) getFloat(name string) float64 { return a.cfg.GetFloat64(name) }
func (a *Action) getString(name string) string { return a.cfg.GetString(name) }

func (a *Action) getRune(name string) rune {
	s := a.getString(name)
	if s == "" {
		return rune(0)
	}
	return []rune(s)[0]
}

func (a *Action) loadTable(fname string) *frame.Table {
	opts := data.DefaultCSVOptions()
	opts.Delimiter = a.getRune("delimiter")
	t, err := data.LoadCSV(fname, opts)
	if err != nil {
		fatal("loading %s: %s", fname, err)
	}
	a.log.Debug("loaded table", "file", fname, "rows", t.NumRows(), "columns", t.NumCols())
	return t
}

func detect(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	t := action.loadTable(args[0])
	for _, c := range t.Columns() {
		fmt.Printf("%-30s %s\n", c.Name, dataprep.DetectColumnType(c.Values))
	}
}

func process(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	target := action.getString("target")
	if target == "" {
		fatal("--target is required")
	}

	cfg, err := action.pipelineConfig()
	if err != nil {
		fatal("%s", err)
	}
	opts, err := action.processOptions()
	if err != nil {
		fatal("%s", err)
	}

	t := action.loadTable(args[0])
	p, err := pipeline.New(t, cfg, pipeline.WithLogger(action.log))
	if err != nil {
		fatal("%s", err)
	}
	parts, err := p.Process(target, opts...)
	if err != nil {
		fatal("%s", err)
	}

	out := action.getString("out")
	if err := os.MkdirAll(out, 0o755); err != nil {
		fatal("%s", err)
	}
	for i, part := range parts {
		fname := filepath.Join(out, partitionName(i, len(parts))+".csv")
		if err := data.SaveCSV(fname, part); err != nil {
			fatal("writing %s: %s", fname, err)
		}
		fmt.Printf("%-30s %d rows, %d columns\n", fname, part.NumRows(), part.NumCols())
	}

	if dir := action.getString("plot-dir"); dir != "" {
		var numeric []string
		for _, name := range p.Features().Numeric {
			if p.Processed().Has(name) {
				numeric = append(numeric, name)
			}
		}
		files, err := report.Histograms(p.Processed(), numeric, dir, report.Options{Logger: action.log})
		if err != nil {
			fatal("%s", err)
		}
		for _, f := range files {
			fmt.Println("Histogram saved to:", f)
		}
	}
}

// pipelineConfig decodes the feature lists from the flags and config file.
func (a *Action) pipelineConfig() (pipeline.Config, error) {
	var cfg pipeline.Config
	if err := a.cfg.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "decoding feature configuration")
	}
	return cfg, nil
}

func (a *Action) processOptions() ([]pipeline.ProcessOption, error) {
	opts := []pipeline.ProcessOption{
		pipeline.WithTestSize(a.getFloat("test-size")),
		pipeline.WithRemoveNaNs(a.getBool("remove-nans")),
		pipeline.WithScaleTarget(a.getBool("scale-target")),
	}
	if a.cfg.IsSet("seed") {
		opts = append(opts, pipeline.WithRandomState(a.cfg.GetInt64("seed")))
	}

	switch name := strings.ToLower(a.getString("imputer")); name {
	case "mean":
		opts = append(opts, pipeline.WithImputer(dataprep.NewMeanImputer()))
	case "median":
		opts = append(opts, pipeline.WithImputer(dataprep.NewMedianImputer()))
	case "mode":
		opts = append(opts, pipeline.WithImputer(dataprep.NewModeImputer()))
	case "knn":
		opts = append(opts, pipeline.WithImputer(dataprep.NewKNNImputer(a.getInt("knn-neighbors"))))
	case "none":
		opts = append(opts, pipeline.WithImputer(nil))
	default:
		return nil, errors.Errorf("unknown imputer %q", name)
	}

	var scaler pipeline.Transformer
	switch name := strings.ToLower(a.getString("scaler")); name {
	case "standard":
		scaler = dataprep.NewStandardScaler()
	case "minmax":
		scaler = dataprep.NewMinMaxScaler()
	case "robust":
		scaler = dataprep.NewRobustScaler()
	case "log":
		scaler = dataprep.NewLogTransformer()
	case "none":
	default:
		return nil, errors.Errorf("unknown scaler %q", name)
	}
	if a.getBool("clip-outliers") {
		if scaler == nil {
			scaler = dataprep.NewOutlierClipper(1, 99)
		} else {
			scaler = dataprep.NewChain(dataprep.NewOutlierClipper(1, 99), scaler)
		}
	}
	opts = append(opts, pipeline.WithScaler(scaler))

	switch name := strings.ToLower(a.getString("encoder")); name {
	case "onehot":
		opts = append(opts, pipeline.WithCategoricalEncoder(dataprep.NewOneHotEncoder()))
	case "frequency":
		opts = append(opts, pipeline.WithCategoricalEncoder(dataprep.NewFrequencyEncoder()))
	default:
		return nil, errors.Errorf("unknown encoder %q", name)
	}
	if a.getBool("no-encode") {
		opts = append(opts, pipeline.WithBinaryEncoder(nil), pipeline.WithCategoricalEncoder(nil))
	}

	switch name := strings.ToLower(a.getString("split")); name {
	case "train-test":
		opts = append(opts, pipeline.WithSplitter(loader.NewTrainTestSplitter()))
	case "kfold":
		opts = append(opts, pipeline.WithSplitter(loader.NewKFold(a.getInt("folds"))))
	case "none":
		opts = append(opts, pipeline.WithSplitter(nil))
	default:
		return nil, errors.Errorf("unknown splitter %q", name)
	}
	return opts, nil
}

// partitionName names the i-th of n partitions: X/y when unsplit, the
// train/test quartet otherwise, prefixed by the fold for k-fold output.
func partitionName(i, n int) string {
	if n == 2 {
		return [...]string{"X", "y"}[i]
	}
	name := [...]string{"X_train", "X_test", "y_train", "y_test"}[i%4]
	if n > 4 {
		return fmt.Sprintf("fold%d_%s", i/4, name)
	}
	return name
}
