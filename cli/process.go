package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/clientledger/formatter"
	"github.com/robinvdvleuten/clientledger/ledger"
	"github.com/robinvdvleuten/clientledger/output"
	"github.com/robinvdvleuten/clientledger/telemetry"
)

type ProcessCmd struct {
	File    string `help:"Transactions CSV file (use '-' for stdin, or omit for stdin)." arg:"" optional:"" default:"-"`
	Workers int    `help:"Number of ledger workers; overrides the configuration." short:"w" placeholder:"N"`
	Format  string `help:"Snapshot format (csv, table); overrides the configuration." short:"f" placeholder:"FORMAT"`
	Output  string `help:"Write the snapshot to a file instead of stdout." short:"o" type:"path" placeholder:"FILE"`
	Force   bool   `help:"Overwrite the output file without a confirmation prompt."`
	Stats   bool   `help:"Print outcome counts to stderr."`
}

func (cmd *ProcessCmd) Run(ctx context.Context, kctx *kong.Context, globals *Globals) error {
	s, err := newSession(ctx, kctx, globals, fmt.Sprintf("process %s", displayName(cmd.File)))
	if err != nil {
		return err
	}
	defer s.finish()

	snapshotFormatter, err := cmd.snapshotFormatter(s)
	if err != nil {
		return err
	}

	if cmd.Output != "" {
		if err := cmd.confirmOverwrite(); err != nil {
			return err
		}
	}

	r, err := s.process(cmd.File, s.workers(cmd.Workers), nil)
	if err != nil {
		return s.fail(err)
	}

	if cmd.Output == "" {
		if err := emitSnapshot(s.ctx, kctx.Stdout, snapshotFormatter, r.processor); err != nil {
			return err
		}
	} else {
		if err := cmd.writeOutput(s.ctx, snapshotFormatter, r.processor); err != nil {
			return err
		}
		printSuccess(kctx.Stdout, fmt.Sprintf("Wrote %d accounts to %s", len(r.processor.Snapshot()), pathStyle.Render(cmd.Output)))
	}

	if cmd.Stats {
		printStats(kctx.Stderr, r.stats)
	}

	return nil
}

func (cmd *ProcessCmd) snapshotFormatter(s *session) (*formatter.Formatter, error) {
	name := s.cfg.Format
	if cmd.Format != "" {
		name = cmd.Format
	}
	format, err := formatter.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return formatter.New(formatter.WithFormat(format)), nil
}

// confirmOverwrite asks before replacing an existing output file. Without a
// terminal the answer is no, so --force is required in scripts.
func (cmd *ProcessCmd) confirmOverwrite() error {
	info, err := os.Stat(cmd.Output)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to access output file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("output %s is a directory", cmd.Output)
	}
	if cmd.Force {
		return nil
	}

	confirmed, err := confirm(fmt.Sprintf("File %q already exists. Overwrite it?", cmd.Output))
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !confirmed {
		return fmt.Errorf("refusing to overwrite %s (use --force)", cmd.Output)
	}
	return nil
}

func (cmd *ProcessCmd) writeOutput(ctx context.Context, f *formatter.Formatter, p ledger.Processor) error {
	if err := os.MkdirAll(filepath.Dir(cmd.Output), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(cmd.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := emitSnapshot(ctx, file, f, p); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func emitSnapshot(ctx context.Context, w io.Writer, f *formatter.Formatter, p ledger.Processor) error {
	timer := telemetry.StartTimer(ctx, "formatter.snapshot")
	defer timer.End()

	accounts := p.Snapshot()
	timer.Count(len(accounts), "accounts")

	if err := f.Format(w, accounts); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// printStats writes the outcome counts of a run, one line per rejection
// reason.
func printStats(w io.Writer, stats ledger.Stats) {
	styles := output.NewStyles(w)
	count := func(n int) string { return styles.Amount(strconv.Itoa(n)) }

	printInfof(w, "%s processed, %s applied, %s skipped, %s rejected",
		count(stats.Processed),
		count(stats.Applied),
		count(stats.Skipped),
		count(stats.RejectedTotal()),
	)
	for _, reason := range stats.Reasons() {
		_, _ = fmt.Fprintf(w, "  %s %s\n", styles.Reason(reason.String()), count(stats.Rejected[reason]))
	}
}
