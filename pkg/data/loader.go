package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"tabprep/pkg/frame"
)

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("data: csv has no header row")

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	Delimiter     rune     // Field delimiter (default: ',')
	MissingTokens []string // Extra spellings of a missing cell, on top of "", NA, N/A, NaN, nan, null
	SkipRows      int      // Number of rows to skip before the header
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{Delimiter: ','}
}

// LoadCSV loads a table from a CSV file.
func LoadCSV(path string, opts *CSVOptions) (*frame.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(bufio.NewReader(file), opts)
}

// ReadCSV reads a table from r. The first row names the columns. A column
// whose non-missing cells all parse as numbers holds numbers; any other
// column keeps its cells as strings.
func ReadCSV(r io.Reader, opts *CSVOptions) (*frame.Table, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for range opts.SkipRows {
		if _, err := reader.Read(); err != nil {
			if err == io.EOF {
				return nil, ErrNoHeader
			}
			return nil, err
		}
	}

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	raw := make([][]string, len(headers))
	for line := 2 + opts.SkipRows; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}
		if len(rec) != len(headers) {
			return nil, fmt.Errorf("reading line %d: %w", line, csv.ErrFieldCount)
		}
		for j := range headers {
			raw[j] = append(raw[j], rec[j])
		}
	}

	missing := func(s string) bool {
		if frame.IsMissingToken(s) {
			return true
		}
		for _, tok := range opts.MissingTokens {
			if strings.TrimSpace(s) == tok {
				return true
			}
		}
		return false
	}

	cols := make([]*frame.Column, len(headers))
	for j, name := range headers {
		cols[j] = inferColumn(strings.TrimSpace(name), raw[j], missing)
	}
	return frame.New(cols...)
}

// inferColumn keeps numbers only when every present cell is numeric.
func inferColumn(name string, cells []string, missing func(string) bool) *frame.Column {
	vals := make([]frame.Value, len(cells))
	numeric := true
	for i, s := range cells {
		if missing(s) {
			vals[i] = frame.NA
			continue
		}
		v := frame.Parse(s)
		if !v.IsNumber() {
			numeric = false
		}
		vals[i] = v
	}
	if !numeric {
		for i, s := range cells {
			if !vals[i].IsMissing() {
				vals[i] = frame.String(s)
			}
		}
	}
	return frame.NewColumn(name, vals...)
}

// SaveCSV writes t to a CSV file at path.
func SaveCSV(path string, t *frame.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(file, t); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteCSV writes t with a header row. Missing cells are written empty.
func WriteCSV(w io.Writer, t *frame.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Names()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	row := make([]string, t.NumCols())
	for r := range t.NumRows() {
		for j, v := range t.Row(r) {
			row[j] = v.String()
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", r, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
