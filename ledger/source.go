package ledger

import (
	"context"
	"io"
)

// Source yields decoded records in input order.
//
// Next returns io.EOF once the input is exhausted, a *ParseError for a row
// that could not be decoded (the caller skips it and keeps reading), or any
// other error when the underlying input failed.
type Source interface {
	Next() (Record, error)
}

// Processor is implemented by both the sequential Ledger and Sharded.
type Processor interface {
	Process(ctx context.Context, src Source) (Stats, error)
	Snapshot() []Account
	Stats() Stats
	Errors() []error
	Len() int
}

var (
	_ Processor = (*Ledger)(nil)
	_ Processor = (*Sharded)(nil)
)

// sliceSource is a Source over an in-memory list of records.
type sliceSource struct {
	recs []Record
	pos  int
}

// Records returns a Source that yields recs in order.
func Records(recs ...Record) Source {
	return &sliceSource{recs: recs}
}

func (s *sliceSource) Next() (Record, error) {
	if s.pos >= len(s.recs) {
		return Record{}, io.EOF
	}
	rec := s.recs[s.pos]
	s.pos++
	return rec, nil
}
