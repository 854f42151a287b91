// Package textenc wraps readers and writers with the character decoding
// needed for survey files exported from Chinese-locale tooling, which are
// frequently GBK rather than UTF-8.
package textenc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// NewReader returns r decoding from the named encoding to UTF-8.
// Supported encodings: "utf-8" (or empty, a passthrough), "gbk".
func NewReader(r io.Reader, encoding string) (io.Reader, error) {
	switch normalize(encoding) {
	case "", "utf-8", "utf8":
		return r, nil
	case "gbk", "gb2312":
		return transform.NewReader(r, simplifiedchinese.GBK.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q (supported: utf-8, gbk)", encoding)
	}
}

// NewWriter returns w encoding UTF-8 output into the named encoding.
// The returned writer must be closed to flush any partial sequence.
func NewWriter(w io.Writer, encoding string) (io.WriteCloser, error) {
	switch normalize(encoding) {
	case "", "utf-8", "utf8":
		return nopWriteCloser{w}, nil
	case "gbk", "gb2312":
		return transform.NewWriter(w, simplifiedchinese.GBK.NewEncoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q (supported: utf-8, gbk)", encoding)
	}
}

func normalize(encoding string) string {
	return strings.ToLower(strings.TrimSpace(encoding))
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
