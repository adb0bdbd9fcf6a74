// Package parser decodes transaction CSV input into ledger records.
//
// Input rows have the shape
//
//	type,client,tx,amount
//	deposit,1,1,1.0
//	withdrawal,1,4,1.5
//
// The first row is skipped as a header when its first field is "type"
// (case-insensitive, after any UTF-8 byte order mark); any other first row is
// decoded as data, so headerless exports lose nothing. WithHeaderDetection(false)
// treats every row as data.
//
// The Reader is a lazy, single-pass ledger.Source: it keeps one row in memory
// at a time and reports rows that cannot be decoded as *ledger.ParseError so
// the caller can skip them and continue.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/robinvdvleuten/clientledger/ledger"
)

// NumFields is the number of columns of an input row.
const NumFields = 4

const byteOrderMark = "\ufeff"

// Reader reads records from CSV input.
type Reader struct {
	csv          *csv.Reader
	detectHeader bool
	started      bool
	rows         int
}

// Option configures a Reader.
type Option func(*Reader)

// WithHeaderDetection controls whether a leading header row is recognised and
// skipped. A first row is a header when its first field is "type". Enabled by
// default.
func WithHeaderDetection(enabled bool) Option {
	return func(r *Reader) {
		r.detectHeader = enabled
	}
}

// WithComment makes the Reader ignore lines starting with c.
func WithComment(c rune) Option {
	return func(r *Reader) {
		r.csv.Comment = c
	}
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader, opts ...Option) *Reader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	reader := &Reader{
		csv:          cr,
		detectHeader: true,
	}
	for _, opt := range opts {
		opt(reader)
	}
	return reader
}

// Next returns the next record.
//
// It returns io.EOF at the end of input and a *ledger.ParseError for a row
// that cannot be decoded; reading may continue after either kind of row
// error. Any other error comes from the underlying reader and is fatal.
func (r *Reader) Next() (ledger.Record, error) {
	for {
		fields, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return ledger.Record{}, io.EOF
		}
		if err != nil {
			var cerr *csv.ParseError
			if errors.As(err, &cerr) {
				r.started = true
				r.rows++
				return ledger.Record{}, &ledger.ParseError{Line: cerr.StartLine, Err: cerr.Err}
			}
			return ledger.Record{}, fmt.Errorf("read csv: %w", err)
		}

		line, _ := r.csv.FieldPos(0)
		first := !r.started
		r.started = true

		if first && len(fields) > 0 {
			fields[0] = strings.TrimPrefix(fields[0], byteOrderMark)
		}

		if first && r.detectHeader && IsHeader(fields) {
			continue
		}

		r.rows++
		return DecodeRecord(fields, line)
	}
}

// Rows returns the number of data rows read so far, including rows that
// failed to decode. The header row is not counted.
func (r *Reader) Rows() int {
	return r.rows
}

// IsHeader reports whether fields look like the header row.
func IsHeader(fields []string) bool {
	return len(fields) > 0 && strings.EqualFold(strings.TrimSpace(fields[0]), "type")
}

var _ ledger.Source = (*Reader)(nil)
