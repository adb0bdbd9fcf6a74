package ledger

import (
	"fmt"
	"strings"

	"github.com/robinvdvleuten/clientledger/amount"
)

// ClientID identifies a client account.
type ClientID uint16

// TxID identifies a transaction. Ids are unique across the whole input and act
// as the idempotency key of a record.
type TxID uint32

// Kind is the type of a transaction record.
type Kind int

const (
	// KindDeposit credits the available balance.
	KindDeposit Kind = iota + 1
	// KindWithdrawal debits the available balance.
	KindWithdrawal
)

// String returns the input spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// GoString returns the constant name of the kind.
func (k Kind) GoString() string {
	switch k {
	case KindDeposit:
		return "ledger.KindDeposit"
	case KindWithdrawal:
		return "ledger.KindWithdrawal"
	default:
		return fmt.Sprintf("ledger.Kind(%d)", int(k))
	}
}

// ParseKind parses the type column of an input row.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit":
		return KindDeposit, nil
	case "withdrawal":
		return KindWithdrawal, nil
	default:
		return 0, fmt.Errorf("unknown transaction type %q", s)
	}
}

// Record is a single decoded transaction.
type Record struct {
	Kind   Kind
	Client ClientID
	Tx     TxID
	Amount amount.Amount

	// Line is the 1-based input line the record was decoded from, or 0 when
	// the record did not come from a file.
	Line int
}

// String returns the record in input order: type,client,tx,amount.
func (r Record) String() string {
	return fmt.Sprintf("%s,%d,%d,%s", r.Kind, r.Client, r.Tx, r.Amount)
}
