package main

import (
	"os"

	"github.com/spf13/cobra"
)

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "detect file.csv",
		Short: "Print the detected type of every column",
		Args:  cobra.ExactArgs(1),
		Run:   detect}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "process file.csv",
		Short: "Impute, encode, scale and split a CSV file",
		Args:  cobra.ExactArgs(1),
		Run:   process}
	cmd.Flags().String("target", "", "target column (required)")
	cmd.Flags().StringSlice("numeric", nil, "numeric feature columns")
	cmd.Flags().StringSlice("categoric", nil, "categoric feature columns")
	cmd.Flags().StringSlice("binary", nil, "binary feature columns")
	cmd.Flags().Bool("auto-detect", false, "detect feature roles, ignoring the feature lists")
	cmd.Flags().String("imputer", "mean", "imputer: mean, median, mode, knn or none")
	cmd.Flags().Int("knn-neighbors", 5, "neighbours averaged by --imputer knn")
	cmd.Flags().String("scaler", "standard", "scaler: standard, minmax, robust, log or none")
	cmd.Flags().Bool("clip-outliers", false, "clip numeric features to the 1st-99th percentiles before scaling")
	cmd.Flags().String("encoder", "onehot", "categorical encoder: onehot or frequency")
	cmd.Flags().Bool("no-encode", false, "skip binary and one-hot encoding")
	cmd.Flags().String("split", "train-test", "splitter: train-test, kfold or none")
	cmd.Flags().Int("folds", 5, "number of folds for --split kfold")
	cmd.Flags().Float64("test-size", 0.25, "fraction of rows in the test set")
	cmd.Flags().Int64("seed", 0, "random seed for splitting (unset: random)")
	cmd.Flags().Bool("remove-nans", false, "drop rows with missing feature values")
	cmd.Flags().Bool("scale-target", true, "scale a numeric target with the features")
	cmd.Flags().String("out", ".", "output directory for the partitions")
	cmd.Flags().String("plot-dir", "", "write histograms of the processed numeric columns here")
	root.AddCommand(cmd)
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "tabprep",
		Short: "Tabular data preprocessing",
	}
	root.PersistentFlags().String("config", "", "YAML config file; flags override its values")
	root.PersistentFlags().Bool("verbose", false, "log every pipeline stage")
	root.PersistentFlags().String("delimiter", ",", "CSV field delimiter")
	addCommands(root)
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
