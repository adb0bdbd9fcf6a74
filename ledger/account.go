package ledger

import "github.com/robinvdvleuten/clientledger/amount"

// Account is the balance state of one client.
//
// Held and Locked are never changed by deposits or withdrawals; they are part
// of the snapshot so that the output shape stays stable.
type Account struct {
	Client    ClientID
	Available amount.Amount
	Held      amount.Amount
	Locked    bool
}

// Total returns Available + Held. The engine rejects any change after which
// this sum would not fit, so Total never overflows.
func (a Account) Total() amount.Amount {
	return a.Available + a.Held
}
