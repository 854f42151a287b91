package batch

import (
	"encoding/csv"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readAllCSV(t *testing.T, s string) [][]string {
	t.Helper()
	r := csv.NewReader(strings.NewReader(s))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestConvertCSV_NamedColumns(t *testing.T) {
	input := "点名,经度,纬度,备注\n" +
		"P1,110°33'44.164\",30°15'22.3\"N,ok\n" +
		"P2,西经110°33'44.164\",南纬30°15'22.3\",west and south\n"

	var out strings.Builder
	summary, err := ConvertCSV(strings.NewReader(input), &out, Options{Logger: discardLogger()})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalRows)
	assert.Equal(t, 2, summary.SuccessRows)
	assert.Equal(t, 0, summary.FailedRows())

	rows := readAllCSV(t, out.String())
	want := [][]string{
		{"点名", "经度", "纬度", "备注", "经度_dd", "纬度_dd"},
		{"P1", `110°33'44.164"`, `30°15'22.3"N`, "ok", "110.562268", "30.256194"},
		{"P2", `西经110°33'44.164"`, `南纬30°15'22.3"`, "west and south", "-110.562268", "-30.256194"},
	}
	assert.Empty(t, cmp.Diff(want, rows))
}

func TestConvertCSV_IndexColumns(t *testing.T) {
	input := "0.9144,110-33-44.164,30-15-22.3\n" + // header row by position
		"x,120-0-0,45-30-0\n"

	var out strings.Builder
	summary, err := ConvertCSV(strings.NewReader(input), &out, Options{
		LonColumn: ParseColumnRef("1"),
		LatColumn: ParseColumnRef("2"),
		Logger:    discardLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SuccessRows)

	rows := readAllCSV(t, out.String())
	assert.Equal(t, []string{"0.9144", "110-33-44.164", "30-15-22.3", "lon_dd", "lat_dd"}, rows[0])
	assert.Equal(t, []string{"x", "120-0-0", "45-30-0", "120", "45.5"}, rows[1])
}

func TestConvertCSV_FailedRowsGetSentinel(t *testing.T) {
	input := "点名,经度,纬度\n" +
		"P1,garbage,30°15'22.3\"\n" +
		"P2,110°33'44.164\",100°61'10\"\n" +
		"P3,110°33'44.164\",30°15'22.3\"\n"

	var out strings.Builder
	summary, err := ConvertCSV(strings.NewReader(input), &out, Options{Logger: discardLogger()})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 1, summary.SuccessRows)
	require.Equal(t, 2, summary.FailedRows())
	assert.Equal(t, RowFailure{Row: 2, Lon: "garbage", Lat: `30°15'22.3"`}, summary.Failures[0])
	assert.Equal(t, 3, summary.Failures[1].Row)

	rows := readAllCSV(t, out.String())
	assert.Equal(t, FailedValue, rows[1][3])
	assert.Equal(t, "30.256194", rows[1][4])
	assert.Equal(t, "110.562268", rows[2][3])
	assert.Equal(t, FailedValue, rows[2][4])
}

func TestConvertCSV_ShortRowsConvertAsMissing(t *testing.T) {
	input := "点名,经度,纬度\n" +
		"P1,110°33'44.164\"\n" // latitude column absent

	var out strings.Builder
	summary, err := ConvertCSV(strings.NewReader(input), &out, Options{Logger: discardLogger()})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalRows)
	assert.Equal(t, 0, summary.SuccessRows)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "", summary.Failures[0].Lat)

	rows := readAllCSV(t, out.String())
	assert.Equal(t, "110.562268", rows[1][2])
	assert.Equal(t, FailedValue, rows[1][3])
}

func TestConvertCSV_TabDelimiter(t *testing.T) {
	input := "点名\t经度\t纬度\n" +
		"P1\t110°33'44.164\"\t30°15'22.3\"\n"

	var out strings.Builder
	summary, err := ConvertCSV(strings.NewReader(input), &out, Options{
		Comma:  '\t',
		Logger: discardLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SuccessRows)
	assert.Contains(t, out.String(), "110.562268\t30.256194")
}

func TestConvertCSV_MissingColumn(t *testing.T) {
	input := "点名,lon,lat\nP1,1,2\n"

	var out strings.Builder
	_, err := ConvertCSV(strings.NewReader(input), &out, Options{Logger: discardLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "经度")
	assert.Contains(t, err.Error(), "lon")
}

func TestConvertCSV_IndexOutOfRange(t *testing.T) {
	input := "a,b\n1,2\n"

	var out strings.Builder
	_, err := ConvertCSV(strings.NewReader(input), &out, Options{
		LonColumn: ColumnRef{Index: 5, ByIndex: true},
		LatColumn: ColumnRef{Index: 1, ByIndex: true},
		Logger:    discardLogger(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestConvertCSV_EmptyInput(t *testing.T) {
	var out strings.Builder
	_, err := ConvertCSV(strings.NewReader(""), &out, Options{Logger: discardLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read header")
}

func TestParseColumnRef(t *testing.T) {
	assert.Equal(t, ColumnRef{Index: 3, ByIndex: true}, ParseColumnRef("3"))
	assert.Equal(t, ColumnRef{Name: "经度"}, ParseColumnRef("经度"))
	assert.Equal(t, ColumnRef{Name: "-1"}, ParseColumnRef("-1"))
}
