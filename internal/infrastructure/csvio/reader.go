// Package csvio reads and writes the transaction CSV format used for
// import and export.
package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Reader reads a headed CSV file. Header names are matched case-insensitively.
type Reader struct {
	csv       *csv.Reader
	headers   []string
	headerMap map[string]int
	line      int
}

// ReaderOption configures a Reader
type ReaderOption func(*csv.Reader)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ReaderOption {
	return func(r *csv.Reader) {
		r.Comma = d
	}
}

// NewReader strips a UTF-8 BOM, rejects non UTF-8 input and reads the header row
func NewReader(r io.Reader, opts ...ReaderOption) (*Reader, error) {
	buf := bufio.NewReader(r)

	// UTF-8 BOM: 0xEF, 0xBB, 0xBF
	if bom, err := buf.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	head, err := buf.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	if err == nil {
		head = trimPartialRune(head)
	}
	if !utf8.Valid(head) {
		return nil, ErrInvalidEncoding
	}

	cr := csv.NewReader(buf)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	for _, opt := range opts {
		opt(cr)
	}

	record, err := cr.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	rd := &Reader{csv: cr, headerMap: make(map[string]int, len(record)), line: 1}
	for i, h := range record {
		name := strings.ToLower(strings.TrimSpace(h))
		rd.headers = append(rd.headers, name)
		if _, dup := rd.headerMap[name]; !dup && name != "" {
			rd.headerMap[name] = i
		}
	}
	if len(rd.headerMap) == 0 {
		return nil, ErrMissingHeader
	}
	return rd, nil
}

// trimPartialRune drops a multi-byte rune cut off by the peek window
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			break
		}
	}
	return b
}

// Headers returns the lower-cased header names in file order
func (r *Reader) Headers() []string {
	return r.headers
}

// Missing returns the required headers absent from the file
func (r *Reader) Missing(required ...string) []string {
	var missing []string
	for _, h := range required {
		if _, ok := r.headerMap[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one data row keyed by lower-cased header
type Row struct {
	Line int
	data map[string]string
}

// Get returns the trimmed value of a column, or "" if the column is absent
func (r *Row) Get(column string) string {
	return r.data[column]
}

// IsEmpty is true when every field is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.data {
		if v != "" {
			return false
		}
	}
	return true
}

// Next returns the next row. It returns io.EOF after the last row. A
// malformed row is returned as a RowError and reading may continue.
func (r *Reader) Next() (*Row, error) {
	record, err := r.csv.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	r.line++
	if err != nil {
		return nil, NewRowError(r.line, "", ErrCodeMalformedRow, err.Error())
	}

	row := &Row{Line: r.line, data: make(map[string]string, len(r.headerMap))}
	for name, idx := range r.headerMap {
		if idx < len(record) {
			row.data[name] = strings.TrimSpace(record[idx])
		}
	}
	return row, nil
}
