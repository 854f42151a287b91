// Command colscan recursively scans a directory tree of plain-text survey
// drops and collects the distinct values of one column, writing a sorted
// report file for audit.
//
// Usage:
//
//	go run ./cmd/colscan -root data/drops -out data/categories.txt
//	go run ./cmd/colscan -root data/drops -column 3 -delimiter , -skip-header -encoding gbk -out report.txt
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/couchcryptid/survey-data-etl/internal/scan"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	root := flag.String("root", "", "root directory to scan for .txt files")
	column := flag.Int("column", scan.DefaultColumn, "1-based column to collect")
	delimiter := flag.String("delimiter", "", "column delimiter (empty = runs of whitespace)")
	skipHeader := flag.Bool("skip-header", false, "skip the first line of each file")
	encoding := flag.String("encoding", "utf-8", "file encoding: utf-8 or gbk")
	out := flag.String("out", "", "report output path")
	flag.Parse()

	if *root == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -root, -out")
	}

	opts := scan.Options{
		Root:       *root,
		Column:     *column,
		Delimiter:  *delimiter,
		SkipHeader: *skipHeader,
		Encoding:   *encoding,
		Logger:     slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}

	res, err := scan.CollectColumn(opts)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if err := scan.WriteReport(f, opts, res); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}

	fmt.Println("scan complete")
	fmt.Printf("  files scanned: %d\n", res.FilesScanned)
	fmt.Printf("  lines read:    %d\n", res.LinesRead)
	fmt.Printf("  short lines:   %d\n", res.ShortLines)
	fmt.Printf("  unique values: %d\n", len(res.Values))
	fmt.Printf("  report:        %s\n", *out)
	return nil
}
