package ledger

import (
	"context"

	"github.com/robinvdvleuten/clientledger/amount"
)

// Validation Architecture
//
// Records go through two phases:
//
// 1. Validation (pure)
//   - Runs against a copy of the target account
//   - Returns the first rejection found, or a BalanceDelta
//
// 2. Mutation
//   - Only executes if validation passes
//   - Stores delta.After and records the transaction id
//
// Flow:
//
//	Ledger.Apply(rec)
//	  ├─ seen tx id?                  → DuplicateTransactionError
//	  ├─ account lookup / creation
//	  └─ validator.validateRecord
//	       ├─ account locked?         → AccountLockedError
//	       └─ handlerFor(rec.Kind)    → UnsupportedKindError when nil
//	            ├─ validateDeposit    → AmountOverflowError
//	            └─ validateWithdrawal → InsufficientFundsError
//	  ↓
//	Handler.Apply(delta)

// validator checks a record against a read-only account view.
type validator struct {
	account Account
}

func newValidator(acc Account) *validator {
	return &validator{account: acc}
}

// validateRecord runs the checks shared by every kind and dispatches to the
// kind's handler.
func (v *validator) validateRecord(ctx context.Context, rec Record) (Handler, *BalanceDelta, Rejection) {
	if v.account.Locked {
		return nil, nil, &AccountLockedError{Record: rec}
	}

	h := handlerFor(rec.Kind)
	if h == nil {
		return nil, nil, &UnsupportedKindError{Record: rec}
	}

	delta, rej := h.Validate(ctx, v.account, rec)
	return h, delta, rej
}

func (v *validator) validateDeposit(ctx context.Context, rec Record) (*BalanceDelta, Rejection) {
	after := v.account

	available, err := after.Available.Add(rec.Amount)
	if err != nil {
		return nil, &AmountOverflowError{Record: rec, Balance: v.account.Available, Err: err}
	}
	// Total must stay representable too.
	if _, err := available.Add(after.Held); err != nil {
		return nil, &AmountOverflowError{Record: rec, Balance: v.account.Total(), Err: err}
	}
	after.Available = available

	return &BalanceDelta{Record: rec, Before: v.account, After: after}, nil
}

func (v *validator) validateWithdrawal(ctx context.Context, rec Record) (*BalanceDelta, Rejection) {
	if rec.Amount.Cmp(v.account.Available) > 0 {
		return nil, &InsufficientFundsError{Record: rec, Available: v.account.Available}
	}

	after := v.account

	available, err := after.Available.Sub(rec.Amount)
	if err != nil || available.IsNegative() {
		// available never drops below zero.
		return nil, &InsufficientFundsError{Record: rec, Available: v.account.Available}
	}
	after.Available = available

	return &BalanceDelta{Record: rec, Before: v.account, After: after}, nil
}

// zeroAccount returns the state of a freshly created account.
func zeroAccount(client ClientID) Account {
	return Account{Client: client, Available: amount.Zero, Held: amount.Zero}
}
