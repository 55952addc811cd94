package pipeline

import (
	"slices"

	"tabprep/pkg/dataprep"
	"tabprep/pkg/frame"
)

// Config describes the columns to preprocess. When AutoDetect is set the
// feature lists are ignored and the roles are guessed from the data.
type Config struct {
	Numeric    []string `mapstructure:"numeric"`
	Categoric  []string `mapstructure:"categoric"`
	Binary     []string `mapstructure:"binary"`
	AutoDetect bool     `mapstructure:"auto-detect"`
}

// FeatureSpec holds the column names per preprocessing role.
type FeatureSpec struct {
	Numeric   []string
	Categoric []string
	Binary    []string
}

// All returns numeric, categoric and binary names concatenated in that order.
func (f FeatureSpec) All() []string {
	return slices.Concat(f.Numeric, f.Categoric, f.Binary)
}

// Empty reports whether no feature is declared.
func (f FeatureSpec) Empty() bool {
	return len(f.Numeric)+len(f.Categoric)+len(f.Binary) == 0
}

// Contains reports whether name is declared under any role.
func (f FeatureSpec) Contains(name string) bool {
	return slices.Contains(f.All(), name)
}

// DetectFeatures runs the column type heuristic on every column of t, in
// table order, and buckets the names by role. ID columns are left out.
func DetectFeatures(t *frame.Table) FeatureSpec {
	var spec FeatureSpec
	for _, c := range t.Columns() {
		role, ok := dataprep.DetectColumnType(c.Values).Role()
		if !ok {
			continue
		}
		switch role {
		case dataprep.RoleNumeric:
			spec.Numeric = append(spec.Numeric, c.Name)
		case dataprep.RoleCategoric:
			spec.Categoric = append(spec.Categoric, c.Name)
		case dataprep.RoleBinary:
			spec.Binary = append(spec.Binary, c.Name)
		}
	}
	return spec
}

// distinct drops repeated names, first-seen order preserved.
func distinct(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// columnsExcept returns the distinct names minus drop.
func columnsExcept(names []string, drop string) []string {
	return slices.DeleteFunc(distinct(names), func(n string) bool { return n == drop })
}
