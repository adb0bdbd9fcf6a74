// Package errors locates and reports the row errors of a ledger run: rows
// that failed to decode and records the ledger rejected.
//
// PositionOf and ContextLines find the input lines an error refers to, for
// renderers that show source context. JSONFormatter produces the
// machine-readable run report.
//
// The error types themselves live in the ledger package.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/clientledger/ledger"
)

// Position is a location in the input. Line and Column are 1-based; a zero
// Column means the whole line.
type Position struct {
	Line   int
	Column int
}

// fieldIndex maps parse error field names to their column in a row.
var fieldIndex = map[string]int{
	"type":   0,
	"client": 1,
	"tx":     2,
	"amount": 3,
}

// PositionOf returns the input position an error refers to. When lines holds
// the raw input, the column of the offending field is filled in for parse
// errors. ok is false for errors without a position.
func PositionOf(err error, lines []string) (pos Position, ok bool) {
	var perr *ledger.ParseError
	if stderrors.As(err, &perr) {
		pos = Position{Line: perr.Line}
		if idx, known := fieldIndex[perr.Field]; known && perr.Line > 0 && perr.Line <= len(lines) {
			pos.Column = fieldColumn(lines[perr.Line-1], idx)
		}
		return pos, pos.Line > 0
	}

	var rej ledger.Rejection
	if stderrors.As(err, &rej) {
		line := rej.GetRecord().Line
		return Position{Line: line}, line > 0
	}

	return Position{}, false
}

// fieldColumn returns the 1-based column where field idx of a CSV line
// starts, skipping leading spaces. It returns 0 if the line has fewer fields.
func fieldColumn(line string, idx int) int {
	start := 0
	for i := 0; i < idx; i++ {
		next := strings.IndexByte(line[start:], ',')
		if next < 0 {
			return 0
		}
		start += next + 1
	}
	for start < len(line) && line[start] == ' ' {
		start++
	}
	return start + 1
}

// Line is a numbered input line.
type Line struct {
	Number int
	Text   string
}

// ContextLines returns the lines shown around pos: up to two before and one
// after.
func ContextLines(lines []string, pos Position) []Line {
	start := max(pos.Line-3, 0)
	end := min(pos.Line, len(lines)-1)
	if start > end {
		return nil
	}

	out := make([]Line, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, Line{Number: i + 1, Text: lines[i]})
	}
	return out
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type    string         `json:"type"`
	Reason  string         `json:"reason,omitempty"`
	Message string         `json:"message"`
	Line    int            `json:"line,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ReportJSON is the JSON document produced for a whole run.
type ReportJSON struct {
	Processed int            `json:"processed"`
	Applied   int            `json:"applied"`
	Skipped   int            `json:"skipped"`
	Rejected  map[string]int `json:"rejected"`
	Errors    []ErrorJSON    `json:"errors"`
}

// FormatReport formats run statistics together with the retained errors.
func (jf *JSONFormatter) FormatReport(stats ledger.Stats, errs []error) string {
	report := ReportJSON{
		Processed: stats.Processed,
		Applied:   stats.Applied,
		Skipped:   stats.Skipped,
		Rejected:  make(map[string]int, len(stats.Rejected)),
		Errors:    make([]ErrorJSON, 0, len(errs)),
	}
	for _, reason := range stats.Reasons() {
		report.Rejected[reason.String()] = stats.Rejected[reason]
	}
	for _, err := range errs {
		report.Errors = append(report.Errors, jf.toJSON(err))
	}

	data, _ := json.MarshalIndent(report, "", "  ")
	return string(data)
}

// toJSON converts an error to ErrorJSON.
func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    "error",
		Message: err.Error(),
		Details: make(map[string]any),
	}

	var perr *ledger.ParseError
	var rej ledger.Rejection
	switch {
	case stderrors.As(err, &perr):
		errJSON.Type = "parse_error"
		errJSON.Line = perr.Line
		if perr.Field != "" {
			errJSON.Details["field"] = perr.Field
			errJSON.Details["value"] = perr.Value
		}
		if perr.Err != nil {
			errJSON.Details["cause"] = perr.Err.Error()
		}

	case stderrors.As(err, &rej):
		rec := rej.GetRecord()
		errJSON.Type = "rejection"
		errJSON.Reason = rej.Reason().String()
		errJSON.Line = rec.Line
		errJSON.Details["kind"] = rec.Kind.String()
		errJSON.Details["client"] = rec.Client
		errJSON.Details["tx"] = rec.Tx
		errJSON.Details["amount"] = rec.Amount.String()

		var insufficient *ledger.InsufficientFundsError
		if stderrors.As(err, &insufficient) {
			errJSON.Details["available"] = insufficient.Available.String()
		}
		var dup *ledger.DuplicateTransactionError
		if stderrors.As(err, &dup) && dup.FirstLine > 0 {
			errJSON.Details["first_line"] = dup.FirstLine
		}

	default:
		errJSON.Type = fmt.Sprintf("%T", err)
	}

	if len(errJSON.Details) == 0 {
		errJSON.Details = nil
	}

	return errJSON
}
