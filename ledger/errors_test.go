package ledger

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/clientledger/amount"
)

func TestRejectionErrors(t *testing.T) {
	rec := Record{Kind: KindWithdrawal, Client: 2, Tx: 5, Amount: amount.MustParse("3"), Line: 6}

	tests := []struct {
		name     string
		err      Rejection
		sentinel error
		reason   Reason
		message  string
	}{
		{
			name:     "duplicate",
			err:      &DuplicateTransactionError{Record: rec},
			sentinel: ErrDuplicateTransaction,
			reason:   ReasonDuplicateTransaction,
			message:  "line 6: Duplicate transaction 5 for client 2",
		},
		{
			name:     "insufficient funds",
			err:      &InsufficientFundsError{Record: rec, Available: amount.MustParse("2")},
			sentinel: ErrInsufficientFunds,
			reason:   ReasonInsufficientFunds,
			message:  "line 6: Insufficient funds for client 2: withdrawal of 3.0000 but only 2.0000 available",
		},
		{
			name:     "locked",
			err:      &AccountLockedError{Record: rec},
			sentinel: ErrAccountLocked,
			reason:   ReasonAccountLocked,
			message:  "line 6: Account 2 is locked",
		},
		{
			name:     "overflow",
			err:      &AmountOverflowError{Record: rec, Balance: amount.MustParse("1"), Err: amount.ErrOverflow},
			sentinel: ErrAmountOverflow,
			reason:   ReasonAmountOverflow,
			message:  "line 6: Balance overflow for client 2: withdrawal 3.0000 on 1.0000",
		},
		{
			name:     "unsupported kind",
			err:      &UnsupportedKindError{Record: Record{Kind: Kind(9), Tx: 5}},
			sentinel: ErrUnsupportedKind,
			reason:   ReasonUnsupportedKind,
			message:  "tx 5: Unsupported transaction kind(9)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.reason, tt.err.Reason())

			for _, other := range []error{ErrDuplicateTransaction, ErrInsufficientFunds, ErrAccountLocked, ErrAmountOverflow, ErrUnsupportedKind} {
				if other != tt.sentinel {
					assert.False(t, errors.Is(tt.err, other), "%v should not match %v", tt.err, other)
				}
			}
		})
	}
}

func TestAmountOverflowErrorUnwrap(t *testing.T) {
	err := &AmountOverflowError{Err: amount.ErrOverflow}
	assert.IsError(t, err, amount.ErrOverflow)
}

func TestParseError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := NewParseError(4, "amount", "-1", amount.ErrNegative)
		assert.Equal(t, `line 4: invalid amount "-1": negative amount`, err.Error())
		assert.IsError(t, err, amount.ErrNegative)
		assert.Equal(t, 4, err.GetLine())
	})

	t.Run("without field", func(t *testing.T) {
		err := NewParseError(7, "", "", errors.New("expected 4 fields, got 3"))
		assert.Equal(t, "line 7: expected 4 fields, got 3", err.Error())
	})
}

func TestReasonString(t *testing.T) {
	names := make([]string, 0, len(Reasons))
	for _, r := range Reasons {
		names = append(names, r.String())
	}
	assert.Equal(t, []string{
		"duplicate_transaction",
		"insufficient_funds",
		"account_locked",
		"amount_overflow",
		"unsupported_kind",
	}, names)
	assert.Equal(t, "unknown", Reason(99).String())
}
