package dataprep

import (
	"slices"

	"tabprep/pkg/frame"
)

// ColumnType is the semantic type guessed for a column.
type ColumnType int

const (
	TypeNumber ColumnType = iota
	TypeCategory
	TypeBinary
	TypeID
)

func (t ColumnType) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeCategory:
		return "category"
	case TypeBinary:
		return "binary"
	case TypeID:
		return "id"
	default:
		return "unknown"
	}
}

// Role is the preprocessing role a column plays.
type Role int

const (
	RoleNumeric Role = iota
	RoleCategoric
	RoleBinary
)

func (r Role) String() string {
	switch r {
	case RoleNumeric:
		return "numeric"
	case RoleCategoric:
		return "categoric"
	case RoleBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Role maps the detected type to a preprocessing role. ID columns have none.
func (t ColumnType) Role() (Role, bool) {
	switch t {
	case TypeNumber:
		return RoleNumeric, true
	case TypeCategory:
		return RoleCategoric, true
	case TypeBinary:
		return RoleBinary, true
	default:
		return 0, false
	}
}

const (
	// Numeric columns with more distinct values per row than this are numbers.
	cardinalityRatio = 0.01
	// A value holding more than this share of observations marks a category.
	modeShare = 0.20
)

// DetectColumnType guesses whether a column is binary, an id, a category
// or a number. It is a heuristic and the rule order matters:
//
//   - exactly two distinct values: binary
//   - every value distinct: id
//   - any non-numeric value: category
//   - more than 1% distinct values: number
//   - a single value above 20% of observations: category, unless that
//     value is zero and no other value exceeds 20% once zeros are removed
//   - otherwise: number
//
// Missing values are not counted as distinct but do count towards the length.
func DetectColumnType(values []frame.Value) ColumnType {
	counts := make(map[frame.Value]int)
	observed := 0
	numeric := true
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		counts[v]++
		observed++
		if !v.IsNumber() {
			numeric = false
		}
	}
	unique, n := len(counts), len(values)

	if unique == 2 {
		return TypeBinary
	}
	if unique == n {
		return TypeID
	}
	if !numeric {
		return TypeCategory
	}
	if float64(unique)/float64(n) > cardinalityRatio {
		return TypeNumber
	}

	mode, share := topShare(counts, observed)
	if share > modeShare {
		zero := frame.Number(0)
		if mode != zero {
			return TypeCategory
		}
		zeros := counts[zero]
		delete(counts, zero)
		if _, rest := topShare(counts, observed-zeros); rest > modeShare {
			return TypeCategory
		}
	}
	return TypeNumber
}

// topShare returns the most frequent value and its share of total.
// Ties go to the smallest value.
func topShare(counts map[frame.Value]int, total int) (frame.Value, float64) {
	if total <= 0 || len(counts) == 0 {
		return frame.NA, 0
	}
	keys := make([]frame.Value, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, frame.Compare)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best, float64(counts[best]) / float64(total)
}
