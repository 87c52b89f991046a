// Package flowtable implements the flow table: a priority-ordered set
// of flow entries, their per-entry counters, and the add/modify/delete
// command semantics a control-plane surface drives.
package flowtable

import (
	"sync/atomic"
	"time"

	"github.com/netrack/ofswitch/ofp"
)

// Counters holds an entry's packet/byte accounting. Fields are
// accessed only through atomic operations so a reader walking the
// table concurrently with a write never observes a torn value.
type Counters struct {
	packets     uint64
	bytes       uint64
	installTime int64
}

// Packets returns the number of packets this entry has matched.
func (c *Counters) Packets() uint64 { return atomic.LoadUint64(&c.packets) }

// Bytes returns the cumulative byte count of matched packets.
func (c *Counters) Bytes() uint64 { return atomic.LoadUint64(&c.bytes) }

// InstallTime returns the unix time, in nanoseconds, this entry was
// installed.
func (c *Counters) InstallTime() int64 { return atomic.LoadInt64(&c.installTime) }

// hit records a packet of size bytes having matched this entry.
func (c *Counters) hit(size uint64) {
	atomic.AddUint64(&c.packets, 1)
	atomic.AddUint64(&c.bytes, size)
}

// Entry is a single flow table row: a match, a priority, its
// instruction list and identity, and its counters.
type Entry struct {
	Priority     uint16
	Match        ofp.Match
	Instructions ofp.Instructions
	Cookie       uint64
	Flags        ofp.FlowModFlag

	Counters *Counters
}

// newEntry builds an entry from a flow-mod, stamping install time at
// the caller-supplied instant so tests can control it.
func newEntry(priority uint16, match ofp.Match, instrs ofp.Instructions, cookie uint64, flags ofp.FlowModFlag, installTime int64) *Entry {
	return &Entry{
		Priority:     priority,
		Match:        match,
		Instructions: instrs,
		Cookie:       cookie,
		Flags:        flags,
		Counters:     &Counters{installTime: installTime},
	}
}

// samePriority reports whether two entries share a priority; this
// core's conformance-minimum overlap predicate (see DESIGN.md).
func samePriority(a, b *Entry) bool {
	return a.Priority == b.Priority
}

// nowNano is overridable in tests; production code always takes the
// wall clock.
var nowNano = func() int64 { return time.Now().UnixNano() }
