// Package store reads the local World Bank indicator snapshot.
//
// The snapshot is a plain CSV file with a header row. Columns are whatever
// the dataset defines; the only columns the server relies on by name are
// countryiso3code and country. The file is read fresh on every access: the
// dataset is small, and reloading keeps the contract that a changed file is
// never served stale, without any cache to protect.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Column names the projections depend on.
const (
	CodeColumn = "countryiso3code"
	NameColumn = "country"
)

// ErrDataFileMissing indicates the configured snapshot file does not exist.
var ErrDataFileMissing = errors.New("data file not found")

// Table is an in-memory tabular snapshot: a header plus string cells.
// The shape is deliberately untyped; Schema infers type tags per column.
type Table struct {
	Columns []string
	Rows    [][]string
}

// CountryRow is one unique {countryiso3code, country} tuple.
type CountryRow struct {
	CountryISO3Code string `json:"countryiso3code"`
	Country         string `json:"country"`
}

// Load reads the CSV file at path into a Table. A missing file yields an
// error wrapping ErrDataFileMissing; any other read or parse failure
// propagates as-is.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDataFileMissing, path)
		}
		return nil, fmt.Errorf("opening data file: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing data file: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	return &Table{Columns: records[0], Rows: records[1:]}, nil
}

// Schema returns a mapping from column name to an inferred, human-readable
// type tag: "integer", "float", or "string". A column is tagged by the
// narrowest type every non-empty cell in it parses as; an all-empty column
// is a string column.
func (t *Table) Schema() map[string]string {
	schema := make(map[string]string, len(t.Columns))
	for i, col := range t.Columns {
		schema[col] = t.columnType(i)
	}
	return schema
}

func (t *Table) columnType(idx int) string {
	isInt, isFloat, seen := true, true, false
	for _, row := range t.Rows {
		if idx >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		seen = true
		if isInt {
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				isFloat = false
			}
		}
		if !isInt && !isFloat {
			break
		}
	}
	switch {
	case !seen:
		return "string"
	case isInt:
		return "integer"
	case isFloat:
		return "float"
	default:
		return "string"
	}
}

// Countries returns the unique {countryiso3code, country} tuples in
// first-occurrence order. Uniqueness is over the full tuple: a code that
// appears with two name spellings yields two entries.
func (t *Table) Countries() []CountryRow {
	codeIdx := t.columnIndex(CodeColumn)
	nameIdx := t.columnIndex(NameColumn)

	seen := make(map[CountryRow]struct{})
	out := make([]CountryRow, 0)
	for _, row := range t.Rows {
		cr := CountryRow{
			CountryISO3Code: cell(row, codeIdx),
			Country:         cell(row, nameIdx),
		}
		if _, dup := seen[cr]; dup {
			continue
		}
		seen[cr] = struct{}{}
		out = append(out, cr)
	}
	return out
}

// ByCountry returns every row whose code column equals the upper-cased
// code, each projected to a column-keyed map. Exact equality only: no
// fuzzy matching and no alpha-2 conversion. An empty result means the code
// is not in the snapshot.
func (t *Table) ByCountry(code string) []map[string]string {
	codeIdx := t.columnIndex(CodeColumn)
	want := strings.ToUpper(code)

	var out []map[string]string
	for _, row := range t.Rows {
		if cell(row, codeIdx) != want {
			continue
		}
		m := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			m[col] = cell(row, i)
		}
		out = append(out, m)
	}
	return out
}

func (t *Table) columnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
