package pool

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats holds allocator counters for instrumentation and tests.
type Stats struct {
	AllocCalls    int64 // Total Alloc() calls
	FreeCalls     int64 // Total successful Free() calls
	AllocFastPath int64 // Allocations served by an existing block
	AllocSlowPath int64 // Allocations that appended a block first
	GrowCalls     int64 // Blocks appended (including the constructor's)

	Blocks   int // Blocks currently owned
	Capacity int // Total slots across all blocks
	InUse    int // Slots currently handed out
	MaxInUse int // High-water mark of InUse
}

// Report formats the counters as a human-readable multi-line summary.
// Large counts are printed with locale separators.
func (s Stats) Report() string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	p.Fprintf(&b, "blocks:    %d (%d slots, %d in use, peak %d)\n",
		s.Blocks, s.Capacity, s.InUse, s.MaxInUse)
	p.Fprintf(&b, "allocs:    %d (%d fast path, %d grew first)\n",
		s.AllocCalls, s.AllocFastPath, s.AllocSlowPath)
	p.Fprintf(&b, "frees:     %d\n", s.FreeCalls)
	p.Fprintf(&b, "grows:     %d\n", s.GrowCalls)
	return b.String()
}
