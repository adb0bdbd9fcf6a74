package ledger

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/clientledger/amount"
)

func TestValidator_DoesNotMutate(t *testing.T) {
	ctx := context.Background()
	acc := Account{Client: 1, Available: amount.MustParse("10")}

	v := newValidator(acc)
	_, delta, rej := v.validateRecord(ctx, Record{Kind: KindWithdrawal, Client: 1, Tx: 1, Amount: amount.MustParse("4")})
	assert.Zero(t, rej)

	assert.Equal(t, amount.MustParse("10"), acc.Available)
	assert.Equal(t, amount.MustParse("10"), delta.Before.Available)
	assert.Equal(t, amount.MustParse("6"), delta.After.Available)
	assert.Equal(t, -amount.MustParse("4"), delta.Change())
}

func TestValidator_LockedAccount(t *testing.T) {
	ctx := context.Background()
	v := newValidator(Account{Client: 1, Available: amount.MustParse("10"), Locked: true})

	for _, kind := range []Kind{KindDeposit, KindWithdrawal, Kind(42)} {
		t.Run(kind.String(), func(t *testing.T) {
			_, delta, rej := v.validateRecord(ctx, Record{Kind: kind, Client: 1, Tx: 1, Amount: amount.MustParse("1")})
			assert.Zero(t, delta)
			assert.IsError(t, rej, ErrAccountLocked)
			assert.Equal(t, ReasonAccountLocked, rej.Reason())
		})
	}
}

func TestLedger_LockedAccountRejectsEverything(t *testing.T) {
	ctx := context.Background()
	l := New()
	l.account(5).Locked = true

	err := l.Apply(ctx, Record{Kind: KindDeposit, Client: 5, Tx: 1, Amount: amount.MustParse("1")})
	assert.IsError(t, err, ErrAccountLocked)

	acc, ok := l.GetAccount(5)
	assert.True(t, ok)
	assert.True(t, acc.Available.IsZero())

	// The id of a rejected record stays free.
	_, seen := l.seen[1]
	assert.False(t, seen)
}

func TestValidator_TotalOverflow(t *testing.T) {
	ctx := context.Background()
	v := newValidator(Account{Client: 1, Available: amount.FromUnits(10), Held: amount.FromUnits(1<<62 + 1<<61)})

	_, _, rej := v.validateRecord(ctx, Record{Kind: KindDeposit, Client: 1, Tx: 1, Amount: amount.FromUnits(1 << 62)})
	assert.IsError(t, rej, ErrAmountOverflow)
	assert.IsError(t, rej, amount.ErrOverflow)
}

func TestHandlerFor(t *testing.T) {
	assert.True(t, handlerFor(KindDeposit) == depositHandler)
	assert.True(t, handlerFor(KindWithdrawal) == withdrawalHandler)
	assert.Zero(t, handlerFor(Kind(0)))
}

func TestBalanceDelta_String(t *testing.T) {
	d := &BalanceDelta{
		Record: Record{Kind: KindDeposit, Client: 3, Tx: 17, Amount: amount.MustParse("2.5")},
		Before: Account{Client: 3, Available: amount.MustParse("1")},
		After:  Account{Client: 3, Available: amount.MustParse("3.5")},
	}
	assert.Equal(t, "client 3: available 1.0000 -> 3.5000 (tx 17)", d.String())
	assert.Equal(t, amount.MustParse("2.5"), d.Change())
}
