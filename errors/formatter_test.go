package errors

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/clientledger/amount"
	"github.com/robinvdvleuten/clientledger/ledger"
)

var source = []string{
	"type,client,tx,amount",
	"deposit,1,1,1.0",
	"deposit,1,2,abc",
	"withdrawal,1,3,5",
}

func parseErr() error {
	return ledger.NewParseError(3, "amount", "abc", amount.ErrMalformed)
}

func rejection() error {
	return &ledger.InsufficientFundsError{
		Record:    ledger.Record{Kind: ledger.KindWithdrawal, Client: 1, Tx: 3, Amount: amount.MustParse("5"), Line: 4},
		Available: amount.MustParse("1"),
	}
}

func TestPositionOf(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		lines []string
		want  Position
		ok    bool
	}{
		{"parse error with source", parseErr(), source, Position{Line: 3, Column: 13}, true},
		{"parse error without source", parseErr(), nil, Position{Line: 3}, true},
		{"row error without field", ledger.NewParseError(2, "", "", stderrors.New("bare quote")), source, Position{Line: 2}, true},
		{"rejection", rejection(), source, Position{Line: 4}, true},
		{"rejection without line", &ledger.AccountLockedError{}, source, Position{}, false},
		{"plain error", stderrors.New("boom"), source, Position{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, ok := PositionOf(tt.err, tt.lines)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, pos)
		})
	}
}

func TestFieldColumn(t *testing.T) {
	assert.Equal(t, 1, fieldColumn("deposit, 1, 2, 3", 0))
	assert.Equal(t, 10, fieldColumn("deposit, 1, 2, 3", 1))
	assert.Equal(t, 0, fieldColumn("deposit,1", 3))
}

func TestContextLines(t *testing.T) {
	assert.Equal(t, []Line{{1, "type,client,tx,amount"}, {2, "deposit,1,1,1.0"}}, ContextLines(source, Position{Line: 1}))
	assert.Equal(t, 0, len(ContextLines(source, Position{Line: 40})))
	assert.Equal(t, 0, len(ContextLines(nil, Position{Line: 1})))
}

// reportError formats err as the only error of a report and returns it.
func reportError(t *testing.T, err error) ErrorJSON {
	t.Helper()

	var report ReportJSON
	out := NewJSONFormatter().FormatReport(ledger.Stats{}, []error{err})
	assert.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, len(report.Errors))
	return report.Errors[0]
}

func TestJSONFormatter_Errors(t *testing.T) {
	t.Run("parse error", func(t *testing.T) {
		got := reportError(t, parseErr())

		assert.Equal(t, "parse_error", got.Type)
		assert.Equal(t, 3, got.Line)
		assert.Equal(t, "amount", got.Details["field"])
		assert.Equal(t, "abc", got.Details["value"])
		assert.Equal(t, "malformed amount", got.Details["cause"])
	})

	t.Run("rejection", func(t *testing.T) {
		got := reportError(t, rejection())

		assert.Equal(t, "rejection", got.Type)
		assert.Equal(t, "insufficient_funds", got.Reason)
		assert.Equal(t, 4, got.Line)
		assert.Equal(t, "withdrawal", got.Details["kind"])
		assert.Equal(t, "5.0000", got.Details["amount"])
		assert.Equal(t, "1.0000", got.Details["available"])
	})

	t.Run("duplicate", func(t *testing.T) {
		got := reportError(t, &ledger.DuplicateTransactionError{
			Record:    ledger.Record{Kind: ledger.KindDeposit, Client: 2, Tx: 7, Line: 3},
			FirstLine: 2,
		})

		assert.Equal(t, "duplicate_transaction", got.Reason)
		assert.Equal(t, any(float64(2)), got.Details["first_line"])
	})

	t.Run("plain error", func(t *testing.T) {
		got := reportError(t, stderrors.New("boom"))
		assert.Equal(t, "boom", got.Message)
		assert.Equal(t, 0, len(got.Details))
	})
}

func TestJSONFormatter_FormatReport(t *testing.T) {
	stats := ledger.Stats{
		Processed: 3,
		Applied:   1,
		Skipped:   1,
		Rejected:  map[ledger.Reason]int{ledger.ReasonInsufficientFunds: 1},
	}

	var got ReportJSON
	out := NewJSONFormatter().FormatReport(stats, []error{parseErr(), rejection()})
	assert.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, 3, got.Processed)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, map[string]int{"insufficient_funds": 1}, got.Rejected)
	assert.Equal(t, 2, len(got.Errors))
	assert.Equal(t, "parse_error", got.Errors[0].Type)
	assert.Equal(t, "rejection", got.Errors[1].Type)
}
