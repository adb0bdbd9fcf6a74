package ledger

import (
	"context"
)

// Handler defines the interface for processing one transaction kind.
//
// Validate checks the record against a read-only copy of the account and
// returns either a rejection or the delta to apply. Apply is only called when
// Validate returned no rejection.
type Handler interface {
	// Validate checks if a record can be applied without mutating state.
	Validate(ctx context.Context, acc Account, rec Record) (*BalanceDelta, Rejection)

	// Apply mutates ledger state after successful validation.
	Apply(ctx context.Context, l *Ledger, delta *BalanceDelta)
}

// DepositHandler processes deposit records.
type DepositHandler struct{}

func (h *DepositHandler) Validate(ctx context.Context, acc Account, rec Record) (*BalanceDelta, Rejection) {
	return newValidator(acc).validateDeposit(ctx, rec)
}

func (h *DepositHandler) Apply(ctx context.Context, l *Ledger, delta *BalanceDelta) {
	l.applyDelta(delta)
}

// WithdrawalHandler processes withdrawal records.
type WithdrawalHandler struct{}

func (h *WithdrawalHandler) Validate(ctx context.Context, acc Account, rec Record) (*BalanceDelta, Rejection) {
	return newValidator(acc).validateWithdrawal(ctx, rec)
}

func (h *WithdrawalHandler) Apply(ctx context.Context, l *Ledger, delta *BalanceDelta) {
	l.applyDelta(delta)
}

var (
	depositHandler    Handler = &DepositHandler{}
	withdrawalHandler Handler = &WithdrawalHandler{}
)

// handlerFor returns the handler for a transaction kind, or nil when the
// kind is unknown.
func handlerFor(kind Kind) Handler {
	switch kind {
	case KindDeposit:
		return depositHandler
	case KindWithdrawal:
		return withdrawalHandler
	default:
		return nil
	}
}
