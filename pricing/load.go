/*
load.go - Dataset readers and row cleaning

PURPOSE:
  Reads the historical price table from CSV or XLSX and turns it into
  cleaned Observations.

REQUIRED COLUMNS (located by header name, any order, extras ignored):
  district, locality, area_sqft, price_num

CLEANING:
  A row is dropped, silently, when:
  - district, locality, area_sqft or price_num is blank or an NA marker
  - area_sqft or price_num does not parse as a number
  - area_sqft is zero or negative
  District and locality names are trimmed of surrounding space.
  Dropping rows is data cleaning, not an error. A missing file, an
  unreadable table or a missing required column is a *DataLoadError.
*/
package pricing

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// Column names of the source table.
const (
	ColDistrict = "district"
	ColLocality = "locality"
	ColAreaSqft = "area_sqft"
	ColPrice    = "price_num"
)

var requiredColumns = []string{ColDistrict, ColLocality, ColAreaSqft, ColPrice}

// naMarkers are cell values treated as missing, as spreadsheet exports write them.
var naMarkers = map[string]bool{
	"na": true, "n/a": true, "nan": true, "null": true, "none": true, "-": true, "#n/a": true,
}

// RawRow is one uncleaned row of the source table.
type RawRow struct {
	District string
	Locality string
	AreaSqft string
	Price    string
}

// Source supplies the observations an Index is built from.
type Source interface {
	Observations(ctx context.Context) ([]Observation, error)
}

// FileSource reads observations from a CSV or XLSX dataset on disk.
type FileSource struct {
	Path string
}

// Observations implements Source.
func (s FileSource) Observations(ctx context.Context) ([]Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "file source")
	}
	return LoadFile(s.Path)
}

// LoadFile reads a dataset, choosing the reader by file extension.
func LoadFile(path string) ([]Observation, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, &DataLoadError{Path: path, Err: eris.Wrap(err, "open")}
		}
		defer f.Close()

		obs, err := ReadCSV(f)
		if err != nil {
			return nil, withPath(err, path)
		}
		return obs, nil
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, &DataLoadError{Path: path, Err: ErrUnsupportedFormat}
	}
}

// ReadCSV reads a comma-separated table with a header row.
func ReadCSV(r io.Reader) ([]Observation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &DataLoadError{Err: eris.New("csv: empty dataset")}
	}
	if err != nil {
		return nil, &DataLoadError{Err: eris.Wrap(err, "csv: read header")}
	}

	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DataLoadError{Err: eris.Wrap(err, "csv: read row")}
		}
		rows = append(rows, cols.row(record))
	}

	return Clean(rows), nil
}

// ReadXLSX reads the first sheet of a workbook. The first row is the header.
func ReadXLSX(path string) ([]Observation, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: eris.Wrap(err, "xlsx: open file")}
	}
	if len(f.Sheets) == 0 || len(f.Sheets[0].Rows) == 0 {
		return nil, &DataLoadError{Path: path, Err: eris.New("xlsx: empty workbook")}
	}

	sheet := f.Sheets[0]
	cols, err := locateColumns(cellStrings(sheet.Rows[0]))
	if err != nil {
		return nil, withPath(err, path)
	}

	rows := make([]RawRow, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		if row == nil {
			continue
		}
		rows = append(rows, cols.row(cellStrings(row)))
	}

	return Clean(rows), nil
}

// Clean converts raw rows to observations, dropping rows that violate the
// load-time invariants.
func Clean(rows []RawRow) []Observation {
	obs := make([]Observation, 0, len(rows))
	for _, r := range rows {
		if missing(r.District) || missing(r.Locality) {
			continue
		}
		area, ok := parseNumber(r.AreaSqft)
		if !ok || !area.IsPositive() {
			continue
		}
		price, ok := parseNumber(r.Price)
		if !ok {
			continue
		}
		obs = append(obs, NewObservation(strings.TrimSpace(r.District), strings.TrimSpace(r.Locality), area, price))
	}

	if dropped := len(rows) - len(obs); dropped > 0 {
		zap.L().Debug("dropped invalid dataset rows",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(obs)),
		)
	}
	return obs
}

// =============================================================================
// HELPERS
// =============================================================================

type columns map[string]int

func locateColumns(header []string) (columns, error) {
	cols := make(columns, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var absent []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			absent = append(absent, c)
		}
	}
	if len(absent) > 0 {
		return nil, &DataLoadError{MissingColumns: absent}
	}
	return cols, nil
}

func (c columns) row(record []string) RawRow {
	get := func(name string) string {
		i := c[name]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}
	return RawRow{
		District: get(ColDistrict),
		Locality: get(ColLocality),
		AreaSqft: get(ColAreaSqft),
		Price:    get(ColPrice),
	}
}

// cellStrings returns the stored value of numeric cells, not the displayed
// one: a number format such as #,##0 would otherwise round prices per row.
func cellStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		if cell.Type() == xlsx.CellTypeNumeric {
			cells[j] = cell.Value
			continue
		}
		cells[j] = cell.String()
	}
	return cells
}

func missing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || naMarkers[strings.ToLower(s)]
}

func parseNumber(s string) (decimal.Decimal, bool) {
	if missing(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// withPath records the dataset path on a DataLoadError produced by a reader.
func withPath(err error, path string) error {
	if dle, ok := err.(*DataLoadError); ok && dle.Path == "" {
		dle.Path = path
		return dle
	}
	return err
}
