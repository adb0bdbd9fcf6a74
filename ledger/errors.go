package ledger

import (
	"errors"
	"fmt"

	"github.com/robinvdvleuten/clientledger/amount"
)

// Error types for record rejections and decoding failures.

// Reason classifies why a record was rejected.
type Reason int

const (
	ReasonDuplicateTransaction Reason = iota
	ReasonInsufficientFunds
	ReasonAccountLocked
	ReasonAmountOverflow
	ReasonUnsupportedKind
)

// Reasons lists every rejection reason in reporting order.
var Reasons = []Reason{
	ReasonDuplicateTransaction,
	ReasonInsufficientFunds,
	ReasonAccountLocked,
	ReasonAmountOverflow,
	ReasonUnsupportedKind,
}

// String returns the snake_case name of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonDuplicateTransaction:
		return "duplicate_transaction"
	case ReasonInsufficientFunds:
		return "insufficient_funds"
	case ReasonAccountLocked:
		return "account_locked"
	case ReasonAmountOverflow:
		return "amount_overflow"
	case ReasonUnsupportedKind:
		return "unsupported_kind"
	default:
		return "unknown"
	}
}

// Sentinel errors matched by the rejection types through errors.Is.
var (
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrAccountLocked        = errors.New("account locked")
	ErrAmountOverflow       = errors.New("amount overflow")
	ErrUnsupportedKind      = errors.New("unsupported transaction kind")
)

// Rejection is implemented by every error Apply returns. A rejected record
// leaves all balances untouched.
type Rejection interface {
	error
	Reason() Reason
	GetRecord() Record
}

func location(rec Record) string {
	if rec.Line > 0 {
		return fmt.Sprintf("line %d", rec.Line)
	}
	return fmt.Sprintf("tx %d", rec.Tx)
}

// DuplicateTransactionError is returned when a transaction id was already applied.
type DuplicateTransactionError struct {
	Record Record

	// FirstLine is the line of the record that first applied the id (0 if unknown).
	FirstLine int
}

func (e *DuplicateTransactionError) Error() string {
	msg := fmt.Sprintf("%s: Duplicate transaction %d for client %d", location(e.Record), e.Record.Tx, e.Record.Client)
	if e.FirstLine > 0 {
		msg += fmt.Sprintf(" (first applied on line %d)", e.FirstLine)
	}
	return msg
}

func (e *DuplicateTransactionError) Is(target error) bool { return target == ErrDuplicateTransaction }
func (e *DuplicateTransactionError) Reason() Reason       { return ReasonDuplicateTransaction }
func (e *DuplicateTransactionError) GetRecord() Record    { return e.Record }

// InsufficientFundsError is returned when a withdrawal exceeds the available balance.
type InsufficientFundsError struct {
	Record    Record
	Available amount.Amount
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: Insufficient funds for client %d: withdrawal of %s but only %s available",
		location(e.Record), e.Record.Client, e.Record.Amount, e.Available)
}

func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficientFunds }
func (e *InsufficientFundsError) Reason() Reason       { return ReasonInsufficientFunds }
func (e *InsufficientFundsError) GetRecord() Record    { return e.Record }

// AccountLockedError is returned for any record targeting a locked account.
type AccountLockedError struct {
	Record Record
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("%s: Account %d is locked", location(e.Record), e.Record.Client)
}

func (e *AccountLockedError) Is(target error) bool { return target == ErrAccountLocked }
func (e *AccountLockedError) Reason() Reason       { return ReasonAccountLocked }
func (e *AccountLockedError) GetRecord() Record    { return e.Record }

// AmountOverflowError is returned when applying a record would overflow a balance.
type AmountOverflowError struct {
	Record  Record
	Balance amount.Amount
	Err     error
}

func (e *AmountOverflowError) Error() string {
	return fmt.Sprintf("%s: Balance overflow for client %d: %s %s on %s",
		location(e.Record), e.Record.Client, e.Record.Kind, e.Record.Amount, e.Balance)
}

func (e *AmountOverflowError) Unwrap() error        { return e.Err }
func (e *AmountOverflowError) Is(target error) bool { return target == ErrAmountOverflow }
func (e *AmountOverflowError) Reason() Reason       { return ReasonAmountOverflow }
func (e *AmountOverflowError) GetRecord() Record    { return e.Record }

// UnsupportedKindError is returned for a record whose Kind is outside the
// known set. The CSV decoder never produces one.
type UnsupportedKindError struct {
	Record Record
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("%s: Unsupported transaction %s", location(e.Record), e.Record.Kind)
}

func (e *UnsupportedKindError) Is(target error) bool { return target == ErrUnsupportedKind }
func (e *UnsupportedKindError) Reason() Reason       { return ReasonUnsupportedKind }
func (e *UnsupportedKindError) GetRecord() Record    { return e.Record }

// ParseError describes an input row that could not be decoded into a Record.
// Rows failing to parse are skipped and never reach Apply.
type ParseError struct {
	Line  int
	Field string
	Value string
	Err   error
}

// NewParseError creates a ParseError for the given field.
func NewParseError(line int, field, value string, err error) *ParseError {
	return &ParseError{Line: line, Field: field, Value: value, Err: err}
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: invalid %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// GetLine returns the input line of the row.
func (e *ParseError) GetLine() int { return e.Line }

var (
	_ Rejection = (*DuplicateTransactionError)(nil)
	_ Rejection = (*InsufficientFundsError)(nil)
	_ Rejection = (*AccountLockedError)(nil)
	_ Rejection = (*AmountOverflowError)(nil)
	_ Rejection = (*UnsupportedKindError)(nil)
)
