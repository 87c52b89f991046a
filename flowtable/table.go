package flowtable

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/oxmmatch"
)

// MissConfig selects how a table handles packets none of its entries
// match.
type MissConfig int

const (
	// MissDrop drops the packet.
	MissDrop MissConfig = iota

	// MissController sends the packet to the controller collaborator.
	MissController

	// MissContinue recurses at the next-numbered table.
	MissContinue
)

// TableCounters is a table's lookup/match accounting.
type TableCounters struct {
	lookups uint64
	matches uint64
}

// Lookups returns the number of times this table was probed.
func (c *TableCounters) Lookups() uint64 { return atomic.LoadUint64(&c.lookups) }

// Matches returns the number of probes that found a match.
func (c *TableCounters) Matches() uint64 { return atomic.LoadUint64(&c.matches) }

// Table is a flow table: an atomically-swapped, priority-sorted
// snapshot of entries, guarded against concurrent writers by a single
// mutex. Readers never block on the mutex; they load the current
// snapshot and walk it.
//
// This is the copy-on-write snapshot design from the concurrency
// model: writers serialize and publish a new immutable slice, readers
// load a pointer and never block.
type Table struct {
	Miss MissConfig

	entries  atomic.Value // []*Entry, priority descending
	writerMu sync.Mutex

	Counters TableCounters
}

// New returns an empty table with the given miss policy.
func New(miss MissConfig) *Table {
	t := &Table{Miss: miss}
	t.entries.Store([]*Entry{})
	return t
}

// snapshot returns the table's current entry slice. Safe for
// concurrent use without locking: the stored slice is never mutated
// in place, only replaced.
func (t *Table) snapshot() []*Entry {
	return t.entries.Load().([]*Entry)
}

// Entries returns the table's entries in their stored (priority
// descending) order. The returned slice must not be mutated.
func (t *Table) Entries() []*Entry {
	return t.snapshot()
}

// Lookup walks the table's entries in priority order and returns the
// first whose match is satisfied by fields. The lookup counter is
// incremented on every probe; the match counter and the winning
// entry's packet/byte counters are incremented only on a hit, for a
// packet of size bytes.
func (t *Table) Lookup(fields []ofp.XM, size uint64) *Entry {
	atomic.AddUint64(&t.Counters.lookups, 1)

	for _, e := range t.snapshot() {
		if oxmmatch.Match(e.Match, fields) {
			atomic.AddUint64(&t.Counters.matches, 1)
			e.Counters.hit(size)
			return e
		}
	}

	return nil
}

// sortEntries sorts es by non-increasing priority, stable so relative
// order among equal-priority entries (insertion order) is preserved.
func sortEntries(es []*Entry) {
	sort.SliceStable(es, func(i, j int) bool {
		return es[i].Priority > es[j].Priority
	})
}
