// Package loader opens transaction input for a ledger run.
//
// A path of "-" reads standard input. Any failure to open or stat the input
// is reported as an *InputError, which callers treat as fatal: no snapshot
// is produced for input that cannot be read.
//
// Example usage:
//
//	in, err := loader.New().Open(ctx, "transactions.csv")
//	if err != nil {
//	    return err
//	}
//	defer in.Close()
//
//	stats, err := ledger.New().Process(ctx, in.Source())
package loader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/robinvdvleuten/clientledger/logging"
	"github.com/robinvdvleuten/clientledger/parser"
	"github.com/robinvdvleuten/clientledger/telemetry"
)

// StdinPath is the path that selects standard input.
const StdinPath = "-"

// InputError reports input that could not be opened or read.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	name := e.Path
	if name == StdinPath {
		name = "stdin"
	}
	return fmt.Sprintf("cannot read %s: %v", name, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// GetPath returns the path of the input.
func (e *InputError) GetPath() string { return e.Path }

// ErrIsDirectory is wrapped by an InputError when the path names a directory.
var ErrIsDirectory = errors.New("is a directory")

// Loader opens transaction input.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(WithParserOptions(parser.WithHeaderDetection(false)))
type Loader struct {
	// ParserOptions are passed to every parser.Reader the loader creates.
	ParserOptions []parser.Option

	// Stdin is read when the path is StdinPath. Defaults to os.Stdin.
	Stdin io.Reader
}

// Option configures how input is opened.
type Option func(*Loader)

// WithParserOptions configures the record reader.
func WithParserOptions(opts ...parser.Option) Option {
	return func(l *Loader) {
		l.ParserOptions = append(l.ParserOptions, opts...)
	}
}

// WithStdin sets the reader used for StdinPath.
func WithStdin(r io.Reader) Option {
	return func(l *Loader) {
		l.Stdin = r
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{
		Stdin: os.Stdin,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Open opens the input at path.
func (l *Loader) Open(ctx context.Context, path string) (*Input, error) {
	timer := telemetry.StartTimer(ctx, "loader.open")
	defer timer.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)

	if path == StdinPath {
		logger.Debug("reading transactions from stdin")
		return l.newInput(path, io.NopCloser(l.Stdin), 0), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, &InputError{Path: path, Err: err}
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, &InputError{Path: path, Err: ErrIsDirectory}
	}

	logger.Debug("input opened", zap.String("path", path), zap.Int64("size", info.Size()))
	return l.newInput(path, f, info.Size()), nil
}

func (l *Loader) newInput(path string, rc io.ReadCloser, size int64) *Input {
	in := &Input{
		Path:   path,
		Size:   size,
		closer: rc,
	}
	in.reader = parser.NewReader(&inputReader{in: in, r: bufio.NewReaderSize(rc, 64*1024)}, l.ParserOptions...)
	return in
}

// Open opens the input at path with a default Loader.
func Open(ctx context.Context, path string) (*Input, error) {
	return New().Open(ctx, path)
}

// Input is an opened transaction input.
type Input struct {
	// Path is the path the input was opened from.
	Path string

	// Size is the file size in bytes, or 0 for standard input.
	Size int64

	reader  *parser.Reader
	closer  io.Closer
	readErr error
}

// Source returns the record source of the input. The source is single-pass.
func (in *Input) Source() *parser.Reader {
	return in.reader
}

// Rows returns the number of data rows read so far.
func (in *Input) Rows() int {
	return in.reader.Rows()
}

// Err returns the first I/O error hit while reading, wrapped as *InputError.
func (in *Input) Err() error {
	if in.readErr == nil {
		return nil
	}
	return &InputError{Path: in.Path, Err: in.readErr}
}

// Close releases the underlying file.
func (in *Input) Close() error {
	return in.closer.Close()
}

// Lines reads the raw lines of a file input, for rendering error context.
// Standard input cannot be read twice and yields no lines.
func (in *Input) Lines() ([]string, error) {
	if in.Path == StdinPath {
		return nil, nil
	}
	return ReadLines(in.Path)
}

// ReadLines returns the lines of the file at path without line terminators.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	return lines, nil
}

// inputReader records the first non-EOF read error of an input.
type inputReader struct {
	in *Input
	r  io.Reader
}

func (r *inputReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && r.in.readErr == nil {
		r.in.readErr = err
	}
	return n, err
}
