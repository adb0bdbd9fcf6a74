package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/robinvdvleuten/clientledger/amount"
	"github.com/robinvdvleuten/clientledger/ledger"
)

// Field names used in parse errors.
const (
	FieldType   = "type"
	FieldClient = "client"
	FieldTx     = "tx"
	FieldAmount = "amount"
)

// ErrFieldCount is wrapped by parse errors for rows with the wrong number of columns.
var ErrFieldCount = errors.New("wrong number of fields")

// DecodeRecord converts the fields of one row into a record. Fields are
// trimmed before decoding. line is the 1-based input line of the row.
func DecodeRecord(fields []string, line int) (ledger.Record, error) {
	if len(fields) != NumFields {
		return ledger.Record{}, &ledger.ParseError{
			Line: line,
			Err:  fmt.Errorf("%w: expected %d, got %d", ErrFieldCount, NumFields, len(fields)),
		}
	}

	typ := strings.TrimSpace(fields[0])
	kind, err := ledger.ParseKind(typ)
	if err != nil {
		return ledger.Record{}, ledger.NewParseError(line, FieldType, typ, err)
	}

	client, err := parseUint(fields[1], 16)
	if err != nil {
		return ledger.Record{}, ledger.NewParseError(line, FieldClient, strings.TrimSpace(fields[1]), err)
	}

	tx, err := parseUint(fields[2], 32)
	if err != nil {
		return ledger.Record{}, ledger.NewParseError(line, FieldTx, strings.TrimSpace(fields[2]), err)
	}

	amt, err := amount.Parse(fields[3])
	if err != nil {
		return ledger.Record{}, ledger.NewParseError(line, FieldAmount, strings.TrimSpace(fields[3]), err)
	}

	return ledger.Record{
		Kind:   kind,
		Client: ledger.ClientID(client),
		Tx:     ledger.TxID(tx),
		Amount: amt,
		Line:   line,
	}, nil
}

func parseUint(s string, bits int) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, bits)
	if err != nil {
		var nerr *strconv.NumError
		if errors.As(err, &nerr) {
			return 0, nerr.Err
		}
		return 0, err
	}
	return n, nil
}
