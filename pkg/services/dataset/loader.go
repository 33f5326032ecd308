// Package dataset reads the source spreadsheet and ingests it into the
// embedded store. The file loads once at startup; the rest of the system
// treats the result as read-only.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/models/store"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

const dateLayout = "2006-01-02"

// requiredColumns are the headers a source file must carry. The country
// column accepts either name; public datasets use "location".
var requiredColumns = []string{
	"date", "new_cases", "total_cases", "new_deaths", "total_deaths", "new_vaccinations",
}

type Loader struct {
	path   string
	format Format
}

// NewLoader infers the file format from the extension unless format is set.
func NewLoader(path string, format Format) (*Loader, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xlsx":
			format = FormatXLSX
		case ".csv":
			format = FormatCSV
		default:
			return nil, fmt.Errorf("%w: cannot infer format of %q", domain.ErrDataLoad, path)
		}
	}
	if format != FormatXLSX && format != FormatCSV {
		return nil, fmt.Errorf("%w: unsupported format %q", domain.ErrDataLoad, format)
	}
	return &Loader{path: path, format: format}, nil
}

// Load reads the whole file into memory. Any structural problem (missing
// file, missing columns, unparsable date) fails the load outright so
// nothing partial is served.
func (l *Loader) Load() ([]store.DailyRecord, error) {
	var rows [][]string
	var err error

	switch l.format {
	case FormatXLSX:
		rows, err = l.readXLSX()
	case FormatCSV:
		rows, err = l.readCSV()
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrDataLoad, l.path)
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]store.DailyRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		record, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrDataLoad, i+2, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (l *Loader) readXLSX() ([][]string, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataLoad, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", domain.ErrDataLoad, sheet, err)
	}
	return rows, nil
}

func (l *Loader) readCSV() ([][]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataLoad, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse csv: %v", domain.ErrDataLoad, err)
	}
	return rows, nil
}

type columnIndex map[string]int

func mapColumns(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	if _, ok := idx["country"]; !ok {
		if loc, ok := idx["location"]; ok {
			idx["country"] = loc
		} else {
			return nil, fmt.Errorf("%w: missing column country/location", domain.ErrDataLoad)
		}
	}
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %s", domain.ErrDataLoad, name)
		}
	}
	return idx, nil
}

func parseRow(row []string, columns columnIndex) (store.DailyRecord, error) {
	var record store.DailyRecord
	var err error

	record.Country = strings.TrimSpace(cell(row, columns["country"]))
	if record.Country == "" {
		return record, fmt.Errorf("empty country")
	}

	record.Date, err = parseDate(cell(row, columns["date"]))
	if err != nil {
		return record, err
	}

	fields := []struct {
		name string
		dst  *float64
	}{
		{"new_cases", &record.NewCases},
		{"total_cases", &record.TotalCases},
		{"new_deaths", &record.NewDeaths},
		{"total_deaths", &record.TotalDeaths},
		{"new_vaccinations", &record.NewVaccinations},
	}
	for _, f := range fields {
		*f.dst, err = parseNumber(cell(row, columns[f.name]))
		if err != nil {
			return record, fmt.Errorf("column %s: %v", f.name, err)
		}
	}
	return record, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	// Excel sheets exported elsewhere sometimes carry full timestamps.
	if t, err := time.Parse("2006-01-02 15:04:05", raw); err == nil {
		return t.Truncate(24 * time.Hour), nil
	}
	if t, err := time.Parse("01-02-06", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", raw)
}

// parseNumber treats blank cells as zero; the source files leave early
// vaccination cells empty rather than writing zeros.
func parseNumber(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("unparsable number %q", raw)
	}
	return v, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
