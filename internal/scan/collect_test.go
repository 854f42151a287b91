package scan

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestCollectColumn(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt",
		"P1 110.5 30.2 1450 landslide\n"+
			"P2 111.0 30.9 1200 subsidence\n"+
			"\n"+ // blank line skipped
			"P3 109.8 29.7 990 landslide\n")
	writeFile(t, root, "sub/b.TXT",
		"P4 110.1 30.0 800 collapse\n"+
			"P5 too few columns\n")
	writeFile(t, root, "ignored.csv", "x,y,z,w,notme\n")

	res, err := CollectColumn(Options{Root: root, Logger: discardLogger()})
	require.NoError(t, err)

	assert.Equal(t, []string{"collapse", "landslide", "subsidence"}, res.Values)
	assert.Equal(t, 2, res.FilesScanned)
	assert.Equal(t, 5, res.LinesRead)
	assert.Equal(t, 1, res.ShortLines)
}

func TestCollectColumn_SkipHeader(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt",
		"name lon lat elev category\n"+
			"P1 110.5 30.2 1450 landslide\n")

	res, err := CollectColumn(Options{Root: root, SkipHeader: true, Logger: discardLogger()})
	require.NoError(t, err)
	assert.Equal(t, []string{"landslide"}, res.Values)
	assert.Equal(t, 1, res.LinesRead)
}

func TestCollectColumn_CustomDelimiterAndColumn(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt",
		"P1,110.5,30.2\n"+
			"P2,111.0,30.9\n"+
			"P3,110.5,30.2\n")

	res, err := CollectColumn(Options{
		Root:      root,
		Column:    2,
		Delimiter: ",",
		Logger:    discardLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"110.5", "111.0"}, res.Values)
}

func TestCollectColumn_GBKFiles(t *testing.T) {
	encoded, err := simplifiedchinese.GBK.NewEncoder().String("P1 110.5 30.2 1450 滑坡\n")
	require.NoError(t, err)

	root := t.TempDir()
	writeFile(t, root, "a.txt", encoded)

	res, err := CollectColumn(Options{Root: root, Encoding: "gbk", Logger: discardLogger()})
	require.NoError(t, err)
	assert.Equal(t, []string{"滑坡"}, res.Values)
}

func TestCollectColumn_MissingRoot(t *testing.T) {
	_, err := CollectColumn(Options{Root: filepath.Join(t.TempDir(), "nope"), Logger: discardLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root directory")
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Root: "data", SkipHeader: true}
	res := Result{Values: []string{"collapse", "landslide"}}

	require.NoError(t, WriteReport(&buf, opts, res))

	out := buf.String()
	assert.Contains(t, out, "root: data\n")
	assert.Contains(t, out, "column: 5\n")
	assert.Contains(t, out, "delimiter: whitespace\n")
	assert.Contains(t, out, "skip header: true\n")
	assert.Contains(t, out, "unique values: 2\n")
	assert.Contains(t, out, "collapse\nlandslide\n")
}
