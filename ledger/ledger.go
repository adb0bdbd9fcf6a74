// Package ledger applies deposit and withdrawal records to per-client
// accounts. It owns every account and the registry of applied transaction
// ids, and it is the only code that mutates balances.
//
// The ledger guarantees that:
//   - A transaction id has at most one effect on balances
//   - Available balances never drop below zero
//   - Total always equals Available + Held
//   - A rejected record leaves every account untouched
//
// Records are validated against a copy of the target account first; only a
// successful validation produces a BalanceDelta that is then applied.
//
// Example usage:
//
//	l := ledger.New()
//	stats, err := l.Process(ctx, parser.NewReader(f))
//	if err != nil {
//	    // input could not be read
//	}
//	for _, acc := range l.Snapshot() {
//	    fmt.Println(acc.Client, acc.Available)
//	}
package ledger

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/robinvdvleuten/clientledger/telemetry"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// DefaultRejectionLimit is the number of errors a ledger keeps for reporting.
const DefaultRejectionLimit = 1000

// Ledger holds the account state of a single run.
type Ledger struct {
	accounts map[ClientID]*Account
	seen     map[TxID]int // tx id -> line of the record that applied it
	errors   []error
	limit    int
	stats    Stats
	logger   *zap.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for rejections and skipped rows.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithRejectionLimit sets how many parse errors and rejections are retained
// by Errors. Counts in Stats are always exact. A negative limit keeps all.
func WithRejectionLimit(n int) Option {
	return func(l *Ledger) {
		l.limit = n
	}
}

// New creates a new empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		accounts: make(map[ClientID]*Account),
		seen:     make(map[TxID]int),
		errors:   make([]error, 0),
		limit:    DefaultRejectionLimit,
		stats:    newStats(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Apply applies one record to the ledger. It returns nil when the record took
// effect, or a Rejection describing why the ledger state was left unchanged.
func (l *Ledger) Apply(ctx context.Context, rec Record) error {
	l.stats.Processed++

	if first, ok := l.seen[rec.Tx]; ok {
		return l.reject(&DuplicateTransactionError{Record: rec, FirstLine: first})
	}

	acc := l.account(rec.Client)

	v := newValidator(*acc)
	h, delta, rej := v.validateRecord(ctx, rec)
	if rej != nil {
		return l.reject(rej)
	}

	h.Apply(ctx, l, delta)
	l.stats.Applied++
	return nil
}

// Process pulls records from src until it is exhausted and applies each one.
// Rows that fail to decode are skipped and rejected records are counted;
// neither stops processing. Any other source error is returned, as is a
// context cancellation.
func (l *Ledger) Process(ctx context.Context, src Source) (Stats, error) {
	timer := telemetry.StartTimer(ctx, "ledger.process")
	defer timer.End()

	for {
		if err := ctx.Err(); err != nil {
			return l.Stats(), err
		}

		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				l.Skip(perr)
				continue
			}
			return l.Stats(), fmt.Errorf("read record: %w", err)
		}

		_ = l.Apply(ctx, rec)
	}

	timer.Count(l.stats.Processed+l.stats.Skipped, "records")

	l.logger.Info("ledger processed",
		zap.Int("processed", l.stats.Processed),
		zap.Int("applied", l.stats.Applied),
		zap.Int("skipped", l.stats.Skipped),
		zap.Int("rejected", l.stats.RejectedTotal()),
		zap.Int("accounts", len(l.accounts)),
	)

	return l.Stats(), nil
}

// Skip records an input row that could not be decoded.
func (l *Ledger) Skip(perr *ParseError) {
	l.stats.Skipped++
	l.logger.Warn("skipping malformed row",
		zap.Int("line", perr.Line),
		zap.String("field", perr.Field),
		zap.Error(perr.Err),
	)
	l.keep(perr)
}

// Snapshot returns a copy of every account in ascending client order.
func (l *Ledger) Snapshot() []Account {
	out := make([]Account, 0, len(l.accounts))
	for _, acc := range l.accounts {
		out = append(out, *acc)
	}
	slices.SortFunc(out, func(a, b Account) int {
		return cmp.Compare(a.Client, b.Client)
	})
	return out
}

// GetAccount returns a copy of the account for client.
func (l *Ledger) GetAccount(client ClientID) (Account, bool) {
	acc, ok := l.accounts[client]
	if !ok {
		return Account{}, false
	}
	return *acc, true
}

// Len returns the number of accounts.
func (l *Ledger) Len() int {
	return len(l.accounts)
}

// Stats returns a copy of the outcome counters.
func (l *Ledger) Stats() Stats {
	return l.stats.Clone()
}

// Errors returns the retained parse errors and rejections in input order.
func (l *Ledger) Errors() []error {
	return l.errors
}

// Rejections returns the retained rejections.
func (l *Ledger) Rejections() []Rejection {
	out := make([]Rejection, 0, len(l.errors))
	for _, err := range l.errors {
		if rej, ok := err.(Rejection); ok {
			out = append(out, rej)
		}
	}
	return out
}

// account returns the account for client, creating it if needed.
func (l *Ledger) account(client ClientID) *Account {
	acc, ok := l.accounts[client]
	if !ok {
		a := zeroAccount(client)
		acc = &a
		l.accounts[client] = acc
	}
	return acc
}

// applyDelta mutates ledger state by storing the delta's post-state and
// marking the transaction id as applied.
func (l *Ledger) applyDelta(delta *BalanceDelta) {
	*l.accounts[delta.Record.Client] = delta.After
	l.seen[delta.Record.Tx] = delta.Record.Line

	if ce := l.logger.Check(zap.DebugLevel, "record applied"); ce != nil {
		ce.Write(
			zap.Int("line", delta.Record.Line),
			zap.Uint16("client", uint16(delta.Record.Client)),
			zap.Uint32("tx", uint32(delta.Record.Tx)),
			zap.Stringer("change", delta.Change()),
			zap.Stringer("available", delta.After.Available),
		)
	}
}

// refuse counts a record that was rejected before reaching Apply.
func (l *Ledger) refuse(rej Rejection) {
	l.stats.Processed++
	_ = l.reject(rej)
}

func (l *Ledger) reject(rej Rejection) error {
	l.stats.Rejected[rej.Reason()]++
	if ce := l.logger.Check(zap.DebugLevel, "record rejected"); ce != nil {
		rec := rej.GetRecord()
		ce.Write(
			zap.Stringer("reason", rej.Reason()),
			zap.Int("line", rec.Line),
			zap.Uint16("client", uint16(rec.Client)),
			zap.Uint32("tx", uint32(rec.Tx)),
			zap.Error(rej),
		)
	}
	l.keep(rej)
	return rej
}

func (l *Ledger) keep(err error) {
	if l.limit >= 0 && len(l.errors) >= l.limit {
		return
	}
	l.errors = append(l.errors, err)
}
