// Package batch converts the coordinate columns of CSV survey exports from
// DMS text to decimal degrees, appending the converted values as new columns
// so the original data is preserved.
package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/couchcryptid/survey-data-etl/internal/domain"
)

// FailedValue is written in place of a number when a row's coordinate cannot
// be converted.
const FailedValue = "conversion failed"

// Default coordinate column headers, matching the upstream survey sheets.
const (
	DefaultLonColumn = "经度"
	DefaultLatColumn = "纬度"
)

// ColumnRef addresses a CSV column by header name or 0-based index.
type ColumnRef struct {
	Name    string
	Index   int
	ByIndex bool
}

// ParseColumnRef interprets an all-digits string as a 0-based column index
// and anything else as a header name.
func ParseColumnRef(s string) ColumnRef {
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return ColumnRef{Index: n, ByIndex: true}
	}
	return ColumnRef{Name: s}
}

// resolve locates the referenced column in the header row.
func (c ColumnRef) resolve(header []string) (int, error) {
	if c.ByIndex {
		if c.Index >= len(header) {
			return 0, fmt.Errorf("column index %d out of range: header has %d columns", c.Index, len(header))
		}
		return c.Index, nil
	}
	for i, h := range header {
		if h == c.Name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found: available columns %v", c.Name, header)
}

// outputName derives the appended column's header: "<name>_dd" for named
// columns, or the axis fallback for index-addressed ones.
func (c ColumnRef) outputName(fallback string) string {
	if c.ByIndex {
		return fallback + "_dd"
	}
	return c.Name + "_dd"
}

// Options configures a CSV conversion run.
type Options struct {
	LonColumn ColumnRef // zero value resolves to DefaultLonColumn
	LatColumn ColumnRef // zero value resolves to DefaultLatColumn
	Comma     rune      // field delimiter, ',' when zero
	Logger    *slog.Logger
}

// RowFailure records a row whose coordinates could not be converted.
// Row numbers start at 2; the header is row 1.
type RowFailure struct {
	Row int
	Lon string
	Lat string
}

// Summary aggregates the result of a conversion run.
type Summary struct {
	TotalRows   int
	SuccessRows int
	Failures    []RowFailure
}

// FailedRows returns the number of rows with at least one failed conversion.
func (s Summary) FailedRows() int { return len(s.Failures) }

// ConvertCSV reads CSV rows from in, converts the configured coordinate
// columns from DMS to decimal degrees, and writes every row to out with two
// converted columns appended. Rows that fail conversion get the FailedValue
// sentinel and are tallied in the summary; only input-level errors (missing
// header, unreadable CSV) abort the run.
func ConvertCSV(in io.Reader, out io.Writer, opts Options) (Summary, error) {
	opts = opts.withDefaults()

	reader := csv.NewReader(in)
	reader.Comma = opts.Comma
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	writer := csv.NewWriter(out)
	writer.Comma = opts.Comma

	header, err := reader.Read()
	if err != nil {
		return Summary{}, fmt.Errorf("read header: %w", err)
	}

	lonIdx, err := opts.LonColumn.resolve(header)
	if err != nil {
		return Summary{}, err
	}
	latIdx, err := opts.LatColumn.resolve(header)
	if err != nil {
		return Summary{}, err
	}

	newHeader := append(append([]string{}, header...),
		opts.LonColumn.outputName("lon"), opts.LatColumn.outputName("lat"))
	if err := writer.Write(newHeader); err != nil {
		return Summary{}, fmt.Errorf("write header: %w", err)
	}

	var summary Summary
	for rowNum := 2; ; rowNum++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("read row %d: %w", rowNum, err)
		}

		summary.TotalRows++

		// Rows shorter than the coordinate index supply an empty string,
		// which converts as a missing value rather than failing the row
		// outright.
		lonRaw := cell(row, lonIdx)
		latRaw := cell(row, latIdx)

		lon, lonErr := domain.ConvertDMS(lonRaw, domain.Longitude)
		if lonErr != nil {
			opts.Logger.Warn("longitude conversion failed", "row", rowNum, "error", lonErr)
		}
		lat, latErr := domain.ConvertDMS(latRaw, domain.Latitude)
		if latErr != nil {
			opts.Logger.Warn("latitude conversion failed", "row", rowNum, "error", latErr)
		}

		newRow := append(append([]string{}, row...),
			formatResult(lon, lonErr), formatResult(lat, latErr))
		if err := writer.Write(newRow); err != nil {
			return summary, fmt.Errorf("write row %d: %w", rowNum, err)
		}

		if lonErr == nil && latErr == nil {
			summary.SuccessRows++
		} else {
			summary.Failures = append(summary.Failures, RowFailure{Row: rowNum, Lon: lonRaw, Lat: latRaw})
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return summary, fmt.Errorf("flush output: %w", err)
	}
	return summary, nil
}

func (o Options) withDefaults() Options {
	if o.LonColumn == (ColumnRef{}) {
		o.LonColumn = ColumnRef{Name: DefaultLonColumn}
	}
	if o.LatColumn == (ColumnRef{}) {
		o.LatColumn = ColumnRef{Name: DefaultLatColumn}
	}
	if o.Comma == 0 {
		o.Comma = ','
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func formatResult(v float64, err error) string {
	if err != nil {
		return FailedValue
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
