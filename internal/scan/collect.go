// Package scan recursively walks a directory of plain-text survey drops and
// collects the distinct values of one column, for auditing what a column
// actually contains before ingestion.
package scan

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/couchcryptid/survey-data-etl/internal/textenc"
)

// DefaultColumn is the 1-based column scanned when none is configured; the
// fifth column of the standard drop format holds the point category.
const DefaultColumn = 5

// Options configures a collection run.
type Options struct {
	Root       string
	Column     int    // 1-based; DefaultColumn when zero
	Delimiter  string // empty means runs of whitespace
	SkipHeader bool
	Encoding   string // "utf-8" (default) or "gbk"
	Logger     *slog.Logger
}

// Result aggregates a collection run.
type Result struct {
	Values       []string // sorted unique column values
	FilesScanned int
	LinesRead    int
	ShortLines   int // lines with too few columns, skipped
}

// CollectColumn walks opts.Root for .txt files and collects the distinct
// trimmed values of the configured column. Lines with too few columns are
// logged and counted but do not stop the run; unreadable files are logged and
// skipped. A missing root directory is the only fatal error.
func CollectColumn(opts Options) (Result, error) {
	opts = opts.withDefaults()

	if _, err := os.Stat(opts.Root); err != nil {
		return Result{}, fmt.Errorf("root directory %s: %w", opts.Root, err)
	}

	var res Result
	seen := make(map[string]struct{})

	err := filepath.WalkDir(opts.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			opts.Logger.Error("walk failed, skipping", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}

		opts.Logger.Info("scanning file", "path", path)
		if err := scanFile(path, opts, seen, &res); err != nil {
			opts.Logger.Error("cannot read file, skipping", "path", path, "error", err)
			return nil
		}
		res.FilesScanned++
		return nil
	})
	if err != nil {
		return res, err
	}

	res.Values = make([]string, 0, len(seen))
	for v := range seen {
		res.Values = append(res.Values, v)
	}
	sort.Strings(res.Values)
	return res, nil
}

func scanFile(path string, opts Options, seen map[string]struct{}, res *Result) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	decoded, err := textenc.NewReader(f, opts.Encoding)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(decoded)
	lineNum := 0
	skippedHeader := false
	for scanner.Scan() {
		if opts.SkipHeader && !skippedHeader {
			skippedHeader = true
			continue
		}
		lineNum++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		res.LinesRead++

		columns := splitColumns(line, opts.Delimiter)
		if len(columns) < opts.Column {
			opts.Logger.Warn("line has too few columns, skipping",
				"path", path, "line", lineNum, "columns", len(columns), "want", opts.Column)
			res.ShortLines++
			continue
		}

		if v := strings.TrimSpace(columns[opts.Column-1]); v != "" {
			seen[v] = struct{}{}
		}
	}
	return scanner.Err()
}

func splitColumns(line, delimiter string) []string {
	if delimiter == "" {
		return strings.Fields(line)
	}
	return strings.Split(line, delimiter)
}

func (o Options) withDefaults() Options {
	if o.Column <= 0 {
		o.Column = DefaultColumn
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// WriteReport writes the run's settings and sorted values in the report
// format consumed by the downstream audit sheet.
func WriteReport(w io.Writer, opts Options, res Result) error {
	delim := opts.Delimiter
	if delim == "" {
		delim = "whitespace"
	}
	column := opts.Column
	if column <= 0 {
		column = DefaultColumn
	}

	var b strings.Builder
	fmt.Fprintf(&b, "root: %s\n", opts.Root)
	fmt.Fprintf(&b, "column: %d\n", column)
	fmt.Fprintf(&b, "delimiter: %s\n", delim)
	fmt.Fprintf(&b, "skip header: %t\n", opts.SkipHeader)
	fmt.Fprintf(&b, "unique values: %d\n", len(res.Values))
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, v := range res.Values {
		b.WriteString(v + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
