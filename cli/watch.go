package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceDelay coalesces the several events editors emit for one save.
const debounceDelay = 100 * time.Millisecond

type WatchCmd struct {
	File    string `help:"Transactions CSV file to watch." arg:"" type:"existingfile"`
	Workers int    `help:"Number of ledger workers; overrides the configuration." short:"w" placeholder:"N"`
	Format  string `help:"Snapshot format (csv, table); overrides the configuration." short:"f" placeholder:"FORMAT"`
	Stats   bool   `help:"Print outcome counts to stderr after every run."`

	// ready is called once the watcher is running.
	ready func()
}

// Run processes the file, prints the snapshot and repeats whenever the file
// changes, until the context is cancelled.
func (cmd *WatchCmd) Run(ctx context.Context, kctx *kong.Context, globals *Globals) error {
	path, err := filepath.Abs(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	s, err := newSession(ctx, kctx, globals, fmt.Sprintf("watch %s", displayName(path)))
	if err != nil {
		return err
	}
	defer s.finish()

	pc := &ProcessCmd{File: path, Workers: cmd.Workers, Format: cmd.Format}
	snapshotFormatter, err := pc.snapshotFormatter(s)
	if err != nil {
		return err
	}

	emit := func() {
		r, err := s.process(path, s.workers(cmd.Workers), nil)
		if err != nil {
			printError(kctx.Stderr, err.Error())
			return
		}
		if err := emitSnapshot(s.ctx, kctx.Stdout, snapshotFormatter, r.processor); err != nil {
			printError(kctx.Stderr, err.Error())
			return
		}
		if cmd.Stats {
			printStats(kctx.Stderr, r.stats)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors often replace the file with a rename,
	// which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	emit()
	printInfof(kctx.Stderr, "Watching %s for changes", pathStyle.Render(path))
	if cmd.ready != nil {
		cmd.ready()
	}

	debounce := time.NewTimer(debounceDelay)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			s.logger.Debug("input changed", zap.String("path", path), zap.Stringer("op", event.Op))
			debounce.Reset(debounceDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("file watcher error", zap.Error(err))

		case <-debounce.C:
			printInfof(kctx.Stderr, "Reprocessing %s", pathStyle.Render(displayName(path)))
			emit()
		}
	}
}
