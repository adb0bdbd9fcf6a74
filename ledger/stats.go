package ledger

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
)

// Stats counts the outcome of every input row of a run.
type Stats struct {
	// Processed is the number of records handed to Apply.
	Processed int
	// Applied is the number of records that changed a balance.
	Applied int
	// Skipped is the number of rows that failed to decode.
	Skipped int
	// Rejected counts rejected records per reason.
	Rejected map[Reason]int
}

func newStats() Stats {
	return Stats{Rejected: make(map[Reason]int)}
}

// RejectedTotal returns the number of rejected records.
func (s Stats) RejectedTotal() int {
	total := 0
	for _, n := range s.Rejected {
		total += n
	}
	return total
}

// Merge adds the counters of o to s.
func (s *Stats) Merge(o Stats) {
	if s.Rejected == nil {
		s.Rejected = make(map[Reason]int)
	}
	s.Processed += o.Processed
	s.Applied += o.Applied
	s.Skipped += o.Skipped
	for reason, n := range o.Rejected {
		s.Rejected[reason] += n
	}
}

// Clone returns a deep copy of s.
func (s Stats) Clone() Stats {
	c := s
	c.Rejected = maps.Clone(s.Rejected)
	if c.Rejected == nil {
		c.Rejected = make(map[Reason]int)
	}
	return c
}

// Reasons returns the reasons with a non-zero count in reporting order.
func (s Stats) Reasons() []Reason {
	var reasons []Reason
	for _, r := range Reasons {
		if s.Rejected[r] > 0 {
			reasons = append(reasons, r)
		}
	}
	return reasons
}

// String returns a one-line summary such as
// "4 processed, 3 applied, 1 skipped, 1 rejected (insufficient_funds=1)".
func (s Stats) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d processed, %d applied, %d skipped, %d rejected",
		s.Processed, s.Applied, s.Skipped, s.RejectedTotal())

	reasons := s.Reasons()
	if len(reasons) > 0 {
		parts := make([]string, 0, len(reasons))
		for _, r := range reasons {
			parts = append(parts, fmt.Sprintf("%s=%d", r, s.Rejected[r]))
		}
		fmt.Fprintf(&sb, " (%s)", strings.Join(parts, ", "))
	}
	return sb.String()
}
