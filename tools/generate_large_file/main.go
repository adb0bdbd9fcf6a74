// Large Transactions File Generator
//
// This tool generates a large transactions CSV file for performance testing
// and profiling. Besides plain deposits and withdrawals it mixes in the rows
// the ledger must reject or skip: overdrafts, reused transaction ids and
// malformed rows.
//
// Usage:
//
//	go run main.go > large.csv
//	go run main.go 20000000 > large.csv        # Specify target size in bytes
//	go run main.go 20000000 5000 > large.csv   # ... and the number of clients
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/robinvdvleuten/clientledger/amount"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB
	defaultClients    = 1000
	maxClients        = 65535
)

var malformed = []string{
	"deposit,,%d,1.0",
	"deposit,%d,abc,1.0",
	"refund,%d,1,1.0",
	"withdrawal,%d,1",
	"deposit,%d,1,-3.0",
	"deposit,%d,1,1.00001",
	"deposit,%d,1,1e3",
}

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	clients := defaultClients
	if len(os.Args) > 2 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil && n > 0 && n <= maxClients {
			clients = n
		}
	}

	w := bufio.NewWriterSize(os.Stdout, 64*1024)
	defer func() { _ = w.Flush() }()

	header := "type,client,tx,amount\n"
	_, _ = w.WriteString(header)
	bytesWritten := len(header)

	// Deposits are tracked per client so that most withdrawals are funded.
	balances := make([]amount.Amount, clients+1)

	var tx uint32
	rows, deposits, withdrawals, duplicates, broken := 0, 0, 0, 0, 0

	for bytesWritten < targetSize {
		client := rand.Intn(clients) + 1
		var row string

		switch rand.Intn(20) {
		case 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10: // 55% - Deposit
			tx++
			a := randAmount(1, 5000)
			balances[client] += a
			row = fmt.Sprintf("deposit,%d,%d,%s", client, tx, formatAmount(a))
			deposits++

		case 11, 12, 13, 14, 15: // 25% - Funded withdrawal
			if balances[client].IsZero() {
				continue
			}
			tx++
			a := min(randAmount(1, 500), balances[client])
			balances[client] -= a
			row = fmt.Sprintf("withdrawal,%d,%d,%s", client, tx, formatAmount(a))
			withdrawals++

		case 16: // 5% - Overdraft
			tx++
			a := balances[client] + randAmount(1, 100)
			row = fmt.Sprintf("withdrawal,%d,%d,%s", client, tx, formatAmount(a))
			withdrawals++

		case 17: // 5% - Reused transaction id
			if tx == 0 {
				continue
			}
			reused := uint32(rand.Int63n(int64(tx))) + 1
			row = fmt.Sprintf("deposit,%d,%d,%s", client, reused, formatAmount(randAmount(1, 100)))
			duplicates++

		case 18: // 5% - Padded fields
			tx++
			a := randAmount(1, 1000)
			balances[client] += a
			row = fmt.Sprintf(" deposit, %d, %d, %s", client, tx, formatAmount(a))
			deposits++

		case 19: // 5% - Malformed row
			row = fmt.Sprintf(malformed[rand.Intn(len(malformed))], client)
			broken++
		}

		n, _ := w.WriteString(row + "\n")
		bytesWritten += n
		rows++
	}

	_ = w.Flush()
	fmt.Fprintf(os.Stderr, "\nGenerated %d bytes with %d rows (%d deposits, %d withdrawals, %d reused ids, %d malformed) for %d clients\n",
		bytesWritten, rows, deposits, withdrawals, duplicates, broken, clients)
}

// randAmount returns a random amount between lo and hi whole units with up to
// four fractional digits.
func randAmount(lo, hi int) amount.Amount {
	whole := int64(rand.Intn(hi-lo+1) + lo)
	return amount.FromUnits(whole*10000 + int64(rand.Intn(10000)))
}

func formatAmount(a amount.Amount) string {
	s := a.String()
	// Vary the precision the way hand-written input does.
	if rand.Intn(3) == 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
