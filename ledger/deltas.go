package ledger

import (
	"fmt"

	"github.com/robinvdvleuten/clientledger/amount"
)

// Delta Architecture
//
// Validators never touch account state. They return a BalanceDelta that
// describes the post-state of the one account a record touches, and the
// ledger applies it only when validation succeeded.

// BalanceDelta describes the balance change a single record causes.
type BalanceDelta struct {
	Record Record

	// Before is a copy of the account as seen by the validator.
	Before Account

	// After is the account state to store once the delta is applied.
	After Account
}

// Change returns the signed change to the available balance.
func (d *BalanceDelta) Change() amount.Amount {
	return d.After.Available - d.Before.Available
}

// String returns a human-readable representation of the delta.
func (d *BalanceDelta) String() string {
	return fmt.Sprintf("client %d: available %s -> %s (tx %d)",
		d.Record.Client, d.Before.Available, d.After.Available, d.Record.Tx)
}
