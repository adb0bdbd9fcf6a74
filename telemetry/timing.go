package telemetry

import (
	"io"
	"sync"
	"time"
)

// TimingCollector collects a forest of timers. Timers started on the
// collector are roots; nesting is explicit through Timer.Child, so timers may
// be started from several goroutines at once.
type TimingCollector struct {
	mu    sync.Mutex
	roots []*timerNode
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	count    int
	unit     string
	children []*timerNode
}

func (n *timerNode) duration() time.Duration {
	if n.end.IsZero() {
		return 0
	}
	return n.end.Sub(n.start)
}

// NewTimingCollector creates an empty collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins a top-level timer.
func (c *TimingCollector) Start(name string) Timer {
	node := &timerNode{name: name, start: time.Now()}

	c.mu.Lock()
	c.roots = append(c.roots, node)
	c.mu.Unlock()

	return &timingTimer{collector: c, node: node}
}

// Report writes every root timer and its children to w. Timers that were
// never ended are reported with a zero duration.
func (c *TimingCollector) Report(w io.Writer, styles interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, root := range c.roots {
		formatTimingTree(w, root, styles)
	}
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	if t.node.end.IsZero() {
		t.node.end = time.Now()
	}
}

func (t *timingTimer) Count(n int, unit string) {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.node.count = n
	t.node.unit = unit
}

func (t *timingTimer) Child(name string) Timer {
	node := &timerNode{name: name, start: time.Now()}

	t.collector.mu.Lock()
	t.node.children = append(t.node.children, node)
	t.collector.mu.Unlock()

	return &timingTimer{collector: t.collector, node: node}
}
