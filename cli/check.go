package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/clientledger/errors"
	"github.com/robinvdvleuten/clientledger/ledger"
)

type CheckCmd struct {
	File    string `help:"Transactions CSV file (use '-' for stdin, or omit for stdin)." arg:"" optional:"" default:"-"`
	Workers int    `help:"Number of ledger workers; overrides the configuration." short:"w" placeholder:"N"`
	Report  string `help:"Report format (text, json)." enum:"text,json" default:"text"`
	Dump    bool   `help:"Print every decoded record to stdout."`
}

// Run applies the input and reports every malformed row and rejected
// transaction. Rejections do not change the exit status; only an unreadable
// input does.
func (cmd *CheckCmd) Run(ctx context.Context, kctx *kong.Context, globals *Globals) error {
	s, err := newSession(ctx, kctx, globals, fmt.Sprintf("check %s", displayName(cmd.File)))
	if err != nil {
		return err
	}
	defer s.finish()

	var wrap func(ledger.Source) ledger.Source
	if cmd.Dump {
		printer := repr.New(kctx.Stdout, repr.Indent("  "))
		wrap = func(src ledger.Source) ledger.Source {
			return &dumpSource{src: src, printer: printer}
		}
	}

	r, err := s.process(cmd.File, s.workers(cmd.Workers), wrap)
	if err != nil {
		return s.fail(err)
	}

	errs := r.processor.Errors()

	if cmd.Report == "json" {
		_, err := fmt.Fprintln(kctx.Stdout, errors.NewJSONFormatter().FormatReport(r.stats, errs))
		return err
	}

	if len(errs) > 0 {
		renderer := NewErrorRenderer(r.lines)
		_, _ = fmt.Fprintln(kctx.Stderr, renderer.RenderAll(errs))
		_, _ = fmt.Fprintln(kctx.Stderr)
	}

	printCheckSummary(kctx.Stdout, kctx.Stderr, r.stats, len(errs))

	return nil
}

func printCheckSummary(stdout, stderr io.Writer, stats ledger.Stats, shown int) {
	problems := stats.Skipped + stats.RejectedTotal()
	if problems == 0 {
		printSuccess(stdout, fmt.Sprintf("Check passed: %d transaction(s) applied", stats.Applied))
		return
	}

	printError(stderr, fmt.Sprintf("%d malformed row(s), %d rejected transaction(s)", stats.Skipped, stats.RejectedTotal()))
	if shown < problems {
		printInfof(stderr, "showing the first %d; raise rejections.limit to see more", shown)
	}
	printStats(stderr, stats)
}

// dumpSource prints every record it passes on.
type dumpSource struct {
	src     ledger.Source
	printer *repr.Printer
}

func (d *dumpSource) Next() (ledger.Record, error) {
	rec, err := d.src.Next()
	if err == nil {
		d.printer.Println(rec)
	}
	return rec, err
}
