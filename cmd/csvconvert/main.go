// Command csvconvert batch-converts the DMS coordinate columns of a CSV
// survey export to decimal degrees, appending the converted values as two new
// columns. Rows that fail conversion are kept with a sentinel value and
// reported in the end-of-run summary.
//
// Usage:
//
//	go run ./cmd/csvconvert -in data/raw_points.csv -out data/converted.csv
//	go run ./cmd/csvconvert -in data/raw.csv -out data/out.csv -lon-col 3 -lat-col 4 -encoding gbk
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/couchcryptid/survey-data-etl/internal/batch"
	"github.com/couchcryptid/survey-data-etl/internal/textenc"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "", "input CSV path")
	out := flag.String("out", "", "output CSV path")
	lonCol := flag.String("lon-col", batch.DefaultLonColumn, "longitude column: header name or 0-based index")
	latCol := flag.String("lat-col", batch.DefaultLatColumn, "latitude column: header name or 0-based index")
	delimiter := flag.String("delimiter", ",", `field delimiter (use \t for tab)`)
	encoding := flag.String("encoding", "utf-8", "file encoding: utf-8 or gbk")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -in, -out")
	}

	comma, err := parseDelimiter(*delimiter)
	if err != nil {
		return err
	}

	inFile, err := os.Open(*in)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer inFile.Close()

	outFile, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer outFile.Close()

	reader, err := textenc.NewReader(inFile, *encoding)
	if err != nil {
		return err
	}
	writer, err := textenc.NewWriter(outFile, *encoding)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	summary, err := batch.ConvertCSV(reader, writer, batch.Options{
		LonColumn: batch.ParseColumnRef(*lonCol),
		LatColumn: batch.ParseColumnRef(*latCol),
		Comma:     comma,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	if err := outFile.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	printSummary(*in, *out, summary)
	return nil
}

func parseDelimiter(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return r, nil
}

func printSummary(in, out string, s batch.Summary) {
	fmt.Println("conversion complete")
	fmt.Printf("  input:     %s\n", in)
	fmt.Printf("  output:    %s\n", out)
	fmt.Printf("  rows:      %d\n", s.TotalRows)
	fmt.Printf("  converted: %d\n", s.SuccessRows)
	fmt.Printf("  failed:    %d\n", s.FailedRows())

	if len(s.Failures) == 0 {
		return
	}
	fmt.Println("failed rows (row, longitude, latitude):")
	shown := s.Failures
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, f := range shown {
		fmt.Printf("  row %d: lon=%q lat=%q\n", f.Row, f.Lon, f.Lat)
	}
	if extra := len(s.Failures) - len(shown); extra > 0 {
		fmt.Printf("  ... and %d more\n", extra)
	}
}
