// Package formatter writes account snapshots.
//
// The default CSV format is the machine-readable output of a run:
//
//	client,available,held,total,locked
//	1,1.5000,0.0000,1.5000,false
//	2,2.0000,0.0000,2.0000,false
//
// The table format renders the same rows with aligned columns for people.
package formatter

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/robinvdvleuten/clientledger/ledger"
	"golang.org/x/exp/slices"
)

// Format selects the snapshot output format.
type Format string

const (
	// FormatCSV writes comma separated rows.
	FormatCSV Format = "csv"
	// FormatTable writes aligned columns.
	FormatTable Format = "table"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatTable}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("unknown output format %q (want csv or table)", s)
	}
	return f, nil
}

// Header holds the column names of a snapshot row.
var Header = []string{"client", "available", "held", "total", "locked"}

const (
	// DefaultColumnGap is the number of spaces between table columns.
	DefaultColumnGap = 2
)

// Formatter writes account snapshots.
type Formatter struct {
	// Output is the output format. Default: FormatCSV
	Output Format

	// OmitHeader suppresses the header row.
	OmitHeader bool

	// ColumnGap is the spacing between table columns.
	ColumnGap int
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return func(f *Formatter) {
		f.Output = format
	}
}

// WithoutHeader suppresses the header row.
func WithoutHeader() Option {
	return func(f *Formatter) {
		f.OmitHeader = true
	}
}

// WithColumnGap sets the spacing between table columns.
func WithColumnGap(n int) Option {
	return func(f *Formatter) {
		f.ColumnGap = n
	}
}

// New creates a new Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		Output:    FormatCSV,
		ColumnGap: DefaultColumnGap,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format writes accounts to w in ascending client order. The input slice is
// not modified.
func (f *Formatter) Format(w io.Writer, accounts []ledger.Account) error {
	sorted := slices.Clone(accounts)
	slices.SortFunc(sorted, func(a, b ledger.Account) int {
		return cmp.Compare(a.Client, b.Client)
	})

	bw := bufio.NewWriter(w)

	var err error
	switch f.Output {
	case FormatCSV, "":
		err = f.formatCSV(bw, sorted)
	case FormatTable:
		err = f.formatTable(bw, sorted)
	default:
		return fmt.Errorf("unknown output format %q", f.Output)
	}
	if err != nil {
		return err
	}

	return bw.Flush()
}

// Row returns the columns of a snapshot row for acc.
func Row(acc ledger.Account) []string {
	return []string{
		strconv.FormatUint(uint64(acc.Client), 10),
		acc.Available.String(),
		acc.Held.String(),
		acc.Total().String(),
		strconv.FormatBool(acc.Locked),
	}
}

func (f *Formatter) formatCSV(w *bufio.Writer, accounts []ledger.Account) error {
	if !f.OmitHeader {
		if _, err := w.WriteString(strings.Join(Header, ",") + "\n"); err != nil {
			return err
		}
	}
	for _, acc := range accounts {
		// Fields never contain commas or quotes, so no escaping is needed.
		if _, err := w.WriteString(strings.Join(Row(acc), ",") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) formatTable(w *bufio.Writer, accounts []ledger.Account) error {
	rows := make([][]string, 0, len(accounts)+1)
	if !f.OmitHeader {
		rows = append(rows, Header)
	}
	for _, acc := range accounts {
		rows = append(rows, Row(acc))
	}

	widths := make([]int, len(Header))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	gap := strings.Repeat(" ", max(f.ColumnGap, 1))
	for _, row := range rows {
		var sb strings.Builder
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(gap)
			}
			// Client id and balances are right aligned, the locked flag is left aligned.
			if i == len(row)-1 {
				sb.WriteString(runewidth.FillRight(cell, widths[i]))
			} else {
				sb.WriteString(runewidth.FillLeft(cell, widths[i]))
			}
		}
		if _, err := w.WriteString(strings.TrimRight(sb.String(), " ") + "\n"); err != nil {
			return err
		}
	}
	return nil
}
