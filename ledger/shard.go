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
	"golang.org/x/sync/errgroup"
)

// shardQueueSize is the buffer of each worker's record channel.
const shardQueueSize = 256

// Sharded processes records on several workers. Records are routed by
// client id modulo the number of workers, so all records of one client are
// applied by the same worker in input order.
//
// Each worker owns a Ledger with its own accounts and seen transaction ids.
// The dispatcher remembers which worker every transaction id was first routed
// to and rejects a reuse bound for another worker as a duplicate, so a
// transaction id never takes effect on two workers.
type Sharded struct {
	shards []*Ledger

	// skipped counts the rows the dispatcher could not decode.
	skipped *Ledger

	limit int
}

// route is where the dispatcher first sent a transaction id.
type route struct {
	shard int
	line  int
}

// NewSharded creates a sharded engine with the given number of workers.
// Fewer than one worker is treated as one.
func NewSharded(workers int, opts ...Option) *Sharded {
	if workers < 1 {
		workers = 1
	}
	s := &Sharded{
		shards:  make([]*Ledger, workers),
		skipped: New(opts...),
	}
	s.limit = s.skipped.limit
	for i := range s.shards {
		s.shards[i] = New(opts...)
	}
	return s
}

// Workers returns the number of workers.
func (s *Sharded) Workers() int {
	return len(s.shards)
}

// Len returns the number of accounts across all workers.
func (s *Sharded) Len() int {
	n := 0
	for _, shard := range s.shards {
		n += shard.Len()
	}
	return n
}

func (s *Sharded) shardFor(client ClientID) int {
	return int(client) % len(s.shards)
}

// Process reads src on a single dispatcher goroutine and applies the records
// on the workers. It returns once every worker has drained its queue.
func (s *Sharded) Process(ctx context.Context, src Source) (Stats, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.sharded (%d workers)", len(s.shards)))
	defer timer.End()

	g, gctx := errgroup.WithContext(ctx)

	queues := make([]chan Record, len(s.shards))
	for i, shard := range s.shards {
		queue := make(chan Record, shardQueueSize)
		queues[i] = queue
		g.Go(func() error {
			wt := timer.Child(fmt.Sprintf("ledger.worker %d", i))
			defer wt.End()

			n := 0
			for rec := range queue {
				_ = shard.Apply(gctx, rec)
				n++
			}
			wt.Count(n, "records")
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, q := range queues {
				close(q)
			}
		}()

		routes := make(map[TxID]route)

		for {
			if err := gctx.Err(); err != nil {
				return err
			}

			rec, err := src.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				var perr *ParseError
				if errors.As(err, &perr) {
					s.skipped.Skip(perr)
					continue
				}
				return fmt.Errorf("read record: %w", err)
			}

			shard := s.shardFor(rec.Client)
			if first, ok := routes[rec.Tx]; !ok {
				routes[rec.Tx] = route{shard: shard, line: rec.Line}
			} else if first.shard != shard {
				s.skipped.refuse(&DuplicateTransactionError{Record: rec, FirstLine: first.line})
				continue
			}

			select {
			case queues[shard] <- rec:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	err := g.Wait()
	stats := s.Stats()
	timer.Count(stats.Processed+stats.Skipped, "records")

	if err == nil {
		s.skipped.logger.Info("ledger processed",
			zap.Int("workers", len(s.shards)),
			zap.Int("processed", stats.Processed),
			zap.Int("applied", stats.Applied),
			zap.Int("skipped", stats.Skipped),
			zap.Int("rejected", stats.RejectedTotal()),
		)
	}

	return stats, err
}

// Snapshot returns the merged accounts of all workers in ascending client order.
func (s *Sharded) Snapshot() []Account {
	var out []Account
	for _, shard := range s.shards {
		out = append(out, shard.Snapshot()...)
	}
	slices.SortFunc(out, func(a, b Account) int {
		return cmp.Compare(a.Client, b.Client)
	})
	return out
}

// Stats returns the merged counters of the dispatcher and all workers.
func (s *Sharded) Stats() Stats {
	stats := s.skipped.Stats()
	for _, shard := range s.shards {
		stats.Merge(shard.Stats())
	}
	return stats
}

// Errors returns the retained errors of all workers ordered by input line,
// capped at the rejection limit. Every worker keeps its earliest errors, so
// the result holds the earliest errors of the whole input.
func (s *Sharded) Errors() []error {
	var out []error
	out = append(out, s.skipped.Errors()...)
	for _, shard := range s.shards {
		out = append(out, shard.Errors()...)
	}
	slices.SortStableFunc(out, func(a, b error) int {
		return cmp.Compare(errorLine(a), errorLine(b))
	})
	if s.limit >= 0 && len(out) > s.limit {
		out = out[:s.limit]
	}
	return out
}

// errorLine returns the input line an error refers to, or 0.
func errorLine(err error) int {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr.Line
	}
	var rej Rejection
	if errors.As(err, &rej) {
		return rej.GetRecord().Line
	}
	return 0
}
