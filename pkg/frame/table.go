package frame

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrRagged          = errors.New("frame: columns have different lengths")
	ErrDuplicateColumn = errors.New("frame: duplicate column name")
	ErrNoColumn        = errors.New("frame: no such column")
	ErrNotNumeric      = errors.New("frame: column is not numeric")
)

// Column is a named sequence of values.
type Column struct {
	Name   string
	Values []Value
}

// NewColumn builds a column from values.
func NewColumn(name string, values ...Value) *Column {
	return &Column{Name: name, Values: values}
}

// Numbers builds a numeric column. NaN entries become NA.
func Numbers(name string, xs ...float64) *Column {
	vals := make([]Value, len(xs))
	for i, x := range xs {
		vals[i] = Number(x)
	}
	return &Column{Name: name, Values: vals}
}

// Strings builds a column by parsing each entry with Parse.
func Strings(name string, xs ...string) *Column {
	vals := make([]Value, len(xs))
	for i, x := range xs {
		vals[i] = Parse(x)
	}
	return &Column{Name: name, Values: vals}
}

func (c *Column) Len() int { return len(c.Values) }

// Clone deep copies the column.
func (c *Column) Clone() *Column {
	return &Column{Name: c.Name, Values: slices.Clone(c.Values)}
}

// HasMissing reports whether any value is NA.
func (c *Column) HasMissing() bool {
	return slices.ContainsFunc(c.Values, Value.IsMissing)
}

// Floats returns the column as float64s, NA mapped to NaN.
// It fails with ErrNotNumeric if a String value is present.
func (c *Column) Floats() ([]float64, error) {
	out := make([]float64, len(c.Values))
	for i, v := range c.Values {
		if v.IsString() {
			return nil, fmt.Errorf("%w: %q row %d holds %q", ErrNotNumeric, c.Name, i, v.str)
		}
		out[i], _ = v.Float()
	}
	return out, nil
}

// Distinct returns the distinct non-missing values in sorted order.
func (c *Column) Distinct() []Value {
	seen := make(map[Value]struct{})
	var out []Value
	for _, v := range c.Values {
		if v.IsMissing() {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	slices.SortFunc(out, Compare)
	return out
}

// Table is an ordered collection of equally long, uniquely named columns.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New assembles a table from columns. The columns are used as given, not copied.
func New(cols ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c == nil {
			return nil, fmt.Errorf("frame: nil column at position %d", i)
		}
		if err := t.add(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustNew is like New but panics on error. Intended for literals in tests and examples.
func MustNew(cols ...*Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) add(c *Column) error {
	if _, ok := t.index[c.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
	}
	if len(t.cols) > 0 && c.Len() != t.rows {
		return fmt.Errorf("%w: %q has %d rows, want %d", ErrRagged, c.Name, c.Len(), t.rows)
	}
	if len(t.cols) == 0 {
		t.rows = c.Len()
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// Validate checks the table invariants. A zero or nil Table is invalid.
func (t *Table) Validate() error {
	if t == nil || t.index == nil {
		return errors.New("frame: table is not initialised")
	}
	seen := make(map[string]struct{}, len(t.cols))
	for _, c := range t.cols {
		if _, ok := seen[c.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		seen[c.Name] = struct{}{}
		if c.Len() != t.rows {
			return fmt.Errorf("%w: %q has %d rows, want %d", ErrRagged, c.Name, c.Len(), t.rows)
		}
	}
	return nil
}

func (t *Table) NumRows() int { return t.rows }
func (t *Table) NumCols() int { return len(t.cols) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Columns returns the columns in order. The slice is a copy; the columns are not.
func (t *Table) Columns() []*Column { return slices.Clone(t.cols) }

// Has reports whether a column named name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Clone deep copies the table.
func (t *Table) Clone() *Table {
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.Clone()
	}
	out := &Table{cols: cols, index: make(map[string]int, len(cols)), rows: t.rows}
	for i, c := range cols {
		out.index[c.Name] = i
	}
	return out
}

// Select returns a new table holding copies of the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	out := &Table{index: make(map[string]int, len(names)), rows: t.rows}
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoColumn, name)
		}
		if err := out.add(c.Clone()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Without returns a copy of the table minus the named columns. Unknown names are ignored.
func (t *Table) Without(names ...string) *Table {
	out := &Table{index: make(map[string]int, len(t.cols)), rows: t.rows}
	for _, c := range t.cols {
		if slices.Contains(names, c.Name) {
			continue
		}
		_ = out.add(c.Clone())
	}
	return out
}

// Drop removes the named columns in place.
func (t *Table) Drop(names ...string) error {
	for _, name := range names {
		if !t.Has(name) {
			return fmt.Errorf("%w: %q", ErrNoColumn, name)
		}
	}
	t.cols = slices.DeleteFunc(t.cols, func(c *Column) bool {
		return slices.Contains(names, c.Name)
	})
	t.reindex()
	return nil
}

// Append adds columns at the end, in place.
func (t *Table) Append(cols ...*Column) error {
	for _, c := range cols {
		if err := t.add(c); err != nil {
			return err
		}
	}
	return nil
}

// Replace swaps the values of the named column in place.
func (t *Table) Replace(name string, values []Value) error {
	i, ok := t.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoColumn, name)
	}
	if len(values) != t.rows {
		return fmt.Errorf("%w: %q has %d rows, want %d", ErrRagged, name, len(values), t.rows)
	}
	t.cols[i] = &Column{Name: name, Values: values}
	return nil
}

// Filter keeps the rows for which keep returns true, in place.
// It returns the number of dropped rows.
func (t *Table) Filter(keep func(row int) bool) int {
	mask := make([]bool, t.rows)
	kept := 0
	for r := range t.rows {
		mask[r] = keep(r)
		if mask[r] {
			kept++
		}
	}
	for _, c := range t.cols {
		vals := make([]Value, 0, kept)
		for r, v := range c.Values {
			if mask[r] {
				vals = append(vals, v)
			}
		}
		c.Values = vals
	}
	dropped := t.rows - kept
	t.rows = kept
	return dropped
}

// Take returns a new table holding copies of the given rows, in order.
func (t *Table) Take(rows []int) *Table {
	out := &Table{index: make(map[string]int, len(t.cols)), rows: len(rows)}
	for _, c := range t.cols {
		vals := make([]Value, len(rows))
		for i, r := range rows {
			vals[i] = c.Values[r]
		}
		_ = out.add(&Column{Name: c.Name, Values: vals})
	}
	return out
}

// Row returns the values of row r in column order.
func (t *Table) Row(r int) []Value {
	out := make([]Value, len(t.cols))
	for j, c := range t.cols {
		out[j] = c.Values[r]
	}
	return out
}

// Matrix returns the table as a rows x cols dense matrix, NA mapped to NaN.
func (t *Table) Matrix() (*mat.Dense, error) {
	if t.rows == 0 || len(t.cols) == 0 {
		return nil, errors.New("frame: cannot build a matrix from an empty table")
	}
	m := mat.NewDense(t.rows, len(t.cols), nil)
	for j, c := range t.cols {
		xs, err := c.Floats()
		if err != nil {
			return nil, err
		}
		m.SetCol(j, xs)
	}
	return m, nil
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.cols))
	for i, c := range t.cols {
		t.index[c.Name] = i
	}
}
