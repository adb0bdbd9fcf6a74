package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/clientledger/output"
)

// slowThreshold marks operations highlighted in styled reports.
const slowThreshold = 100 * time.Millisecond

// formatTimingTree writes root and its descendants:
//
//	process transactions.csv: 125ms
//	├─ loader.open: 1ms
//	├─ ledger.sharded (2 workers): 118ms (100000 records, 847458/s)
//	│  ├─ ledger.worker 0: 117ms (50127 records, 428435/s)
//	│  └─ ledger.worker 1: 117ms (49873 records, 426264/s)
//	└─ formatter.snapshot: 6ms (812 accounts)
func formatTimingTree(w io.Writer, root *timerNode, stylesInterface interface{}) {
	styles, _ := stylesInterface.(*output.Styles)

	name := root.name
	if styles != nil {
		name = styles.Keyword(name)
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", name, formatTiming(root, styles))

	for i, child := range root.children {
		formatNode(w, child, "", i == len(root.children)-1, styles)
	}
}

func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool, styles *output.Styles) {
	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}

	tree := prefix + branch
	if styles != nil {
		tree = styles.Dim(tree)
	}
	_, _ = fmt.Fprintf(w, "%s%s: %s\n", tree, node.name, formatTiming(node, styles))

	for i, child := range node.children {
		formatNode(w, child, prefix+extension, i == len(node.children)-1, styles)
	}
}

// formatTiming renders the duration of node followed by its count and rate.
func formatTiming(node *timerNode, styles *output.Styles) string {
	d := node.duration()

	timing := formatDuration(d)
	if styles != nil {
		timing = styles.Timing(timing, d >= slowThreshold)
	}

	if node.count == 0 {
		return timing
	}

	if d < time.Millisecond {
		return fmt.Sprintf("%s (%d %s)", timing, node.count, node.unit)
	}
	rate := float64(node.count) / d.Seconds()
	return fmt.Sprintf("%s (%d %s, %.0f/s)", timing, node.count, node.unit, rate)
}

// formatDuration shows milliseconds below one second and seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		ms := float64(d) / float64(time.Millisecond)
		return fmt.Sprintf("%.0fms", ms)
	}
	s := float64(d) / float64(time.Second)
	return fmt.Sprintf("%.2fs", s)
}
