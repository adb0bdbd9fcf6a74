package ledger

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/repr"
	"github.com/robinvdvleuten/clientledger/amount"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"deposit", KindDeposit, false},
		{"withdrawal", KindWithdrawal, false},
		{" Deposit ", KindDeposit, false},
		{"WITHDRAWAL", KindWithdrawal, false},
		{"dispute", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordString(t *testing.T) {
	rec := Record{Kind: KindWithdrawal, Client: 2, Tx: 5, Amount: amount.MustParse("3")}
	assert.Equal(t, "withdrawal,2,5,3.0000", rec.String())
}

func TestAccountTotal(t *testing.T) {
	acc := Account{Client: 1, Available: amount.MustParse("1.5"), Held: amount.MustParse("0.25")}
	assert.Equal(t, amount.MustParse("1.75"), acc.Total())
}

func TestRecordDump(t *testing.T) {
	rec := Record{Kind: KindDeposit, Client: 1, Tx: 2, Amount: amount.MustParse("1.5"), Line: 3}
	got := repr.String(rec)
	assert.Contains(t, got, "Kind: ledger.KindDeposit")
	assert.Contains(t, got, `Amount: amount.MustParse("1.5000")`)
	assert.Equal(t, "ledger.Kind(9)", Kind(9).GoString())
}
