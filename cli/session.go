package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/robinvdvleuten/clientledger/config"
	"github.com/robinvdvleuten/clientledger/ledger"
	"github.com/robinvdvleuten/clientledger/loader"
	"github.com/robinvdvleuten/clientledger/logging"
	"github.com/robinvdvleuten/clientledger/output"
	"github.com/robinvdvleuten/clientledger/parser"
	"github.com/robinvdvleuten/clientledger/telemetry"
)

// session holds what every command needs for one run: the resolved
// configuration, the diagnostics logger and the optional timing collector.
type session struct {
	ctx    context.Context
	cfg    config.Config
	logger *zap.Logger
	stderr io.Writer
	stdin  io.Reader

	collector telemetry.Collector
	root      telemetry.Timer
	once      sync.Once
}

func newSession(ctx context.Context, kctx *kong.Context, globals *Globals, name string) (*session, error) {
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return nil, err
	}
	if globals.LogLevel != "" {
		cfg.Log.Level = globals.LogLevel
	}

	logger, _, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: kctx.Stderr,
	})
	if err != nil {
		return nil, err
	}

	s := &session{
		ctx:    logging.WithLogger(ctx, logger),
		cfg:    cfg,
		logger: logger,
		stderr: kctx.Stderr,
		stdin:  os.Stdin,
	}

	if globals.Telemetry {
		collector := telemetry.NewTimingCollector()
		s.collector = collector
		s.ctx = telemetry.WithCollector(s.ctx, collector)

		s.root = collector.Start(name)
		s.ctx = telemetry.WithRootTimer(s.ctx, s.root)
	}

	logger.Debug("configuration loaded",
		zap.String("version", version()),
		zap.String("config", globals.Config),
		zap.Int("workers", cfg.Workers),
		zap.String("format", cfg.Format),
		zap.Int("rejection_limit", cfg.Rejections.Limit),
	)

	return s, nil
}

// finish reports telemetry and flushes the logger. It is safe to call more
// than once.
func (s *session) finish() {
	s.once.Do(func() {
		if s.collector != nil {
			s.root.End()
			_, _ = fmt.Fprintln(s.stderr)
			s.collector.Report(s.stderr, output.NewStyles(s.stderr))
		}
		_ = s.logger.Sync()
	})
}

// workers resolves the worker count; a positive flag value wins over the
// configuration.
func (s *session) workers(flag int) int {
	if flag > 0 {
		return flag
	}
	return s.cfg.Workers
}

// newProcessor returns a sequential ledger for a single worker and a sharded
// one otherwise.
func (s *session) newProcessor(workers int) ledger.Processor {
	opts := []ledger.Option{
		ledger.WithLogger(s.logger),
		ledger.WithRejectionLimit(s.cfg.Rejections.Limit),
	}
	if workers > 1 {
		sharded := ledger.NewSharded(workers, opts...)
		s.logger.Debug("sharded processing", zap.Int("workers", sharded.Workers()))
		return sharded
	}
	return ledger.New(opts...)
}

func (s *session) loader() *loader.Loader {
	popts := []parser.Option{parser.WithHeaderDetection(s.cfg.Header)}
	if c, ok := s.cfg.CommentRune(); ok {
		popts = append(popts, parser.WithComment(c))
	}
	return loader.New(
		loader.WithParserOptions(popts...),
		loader.WithStdin(s.stdin),
	)
}

// run is a completed pass over one input.
type run struct {
	processor ledger.Processor
	stats     ledger.Stats
	lines     []string
}

// process opens path and applies every record of it to a fresh processor.
// wrap, when not nil, decorates the record source.
func (s *session) process(path string, workers int, wrap func(ledger.Source) ledger.Source) (*run, error) {
	in, err := s.loader().Open(s.ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = in.Close() }()

	var src ledger.Source = in.Source()
	if wrap != nil {
		src = wrap(src)
	}

	p := s.newProcessor(workers)
	stats, err := p.Process(s.ctx, src)
	if rerr := in.Err(); rerr != nil {
		return nil, rerr
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug("input processed",
		zap.String("input", displayName(path)),
		zap.Int("rows", in.Rows()),
		zap.Int("accounts", p.Len()),
	)

	lines, err := in.Lines()
	if err != nil {
		s.logger.Warn("cannot read input for error context", zap.Error(err))
	}

	return &run{processor: p, stats: stats, lines: lines}, nil
}

// fail prints err when the input could not be read and turns it into an exit
// status. Other errors are returned unchanged for kong to report.
func (s *session) fail(err error) error {
	var inputErr *loader.InputError
	if errors.As(err, &inputErr) {
		printError(s.stderr, inputErr.Error())
		return NewCommandError(1)
	}
	return err
}

func version() string {
	if Version == "" {
		return "dev"
	}
	if CommitSHA == "" {
		return Version
	}
	return Version + " (" + CommitSHA + ")"
}
