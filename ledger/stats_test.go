package ledger

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestStats(t *testing.T) {
	a := Stats{
		Processed: 4,
		Applied:   3,
		Skipped:   1,
		Rejected:  map[Reason]int{ReasonInsufficientFunds: 1},
	}
	b := Stats{
		Processed: 2,
		Applied:   0,
		Rejected: map[Reason]int{
			ReasonDuplicateTransaction: 1,
			ReasonInsufficientFunds:    1,
			ReasonAccountLocked:        0,
		},
	}

	t.Run("RejectedTotal", func(t *testing.T) {
		assert.Equal(t, 1, a.RejectedTotal())
		assert.Equal(t, 2, b.RejectedTotal())
	})

	t.Run("Reasons skips zero counts", func(t *testing.T) {
		assert.Equal(t, []Reason{ReasonDuplicateTransaction, ReasonInsufficientFunds}, b.Reasons())
	})

	t.Run("Merge", func(t *testing.T) {
		var merged Stats
		merged.Merge(a)
		merged.Merge(b)

		assert.Equal(t, 6, merged.Processed)
		assert.Equal(t, 3, merged.Applied)
		assert.Equal(t, 1, merged.Skipped)
		assert.Equal(t, 2, merged.Rejected[ReasonInsufficientFunds])
		assert.Equal(t, 3, merged.RejectedTotal())
	})

	t.Run("Clone is independent", func(t *testing.T) {
		c := a.Clone()
		c.Rejected[ReasonInsufficientFunds] = 10
		assert.Equal(t, 1, a.Rejected[ReasonInsufficientFunds])
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "4 processed, 3 applied, 1 skipped, 1 rejected (insufficient_funds=1)", a.String())
		assert.Equal(t, "0 processed, 0 applied, 0 skipped, 0 rejected", newStats().String())
	})
}
