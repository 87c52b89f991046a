package flowtable

import (
	"errors"

	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/oxmmatch"
)

// ErrOverlap is returned by Add when check_overlap is set and an
// existing entry shares the new entry's priority.
var ErrOverlap = errors.New("flowtable: overlapping entry at this priority")

// Add inserts a new entry built from a flow-mod's fields. When check
// is true (FlowFlagCheckOverlap), the table rejects the add if any
// existing entry shares the new entry's priority — this core's
// conformance-minimum overlap predicate.
//
// On success, the new entry is placed so the table remains sorted by
// non-increasing priority, after any existing equal-priority entries.
func (t *Table) Add(priority uint16, match ofp.Match, instrs ofp.Instructions, cookie uint64, flags ofp.FlowModFlag, check bool) (*Entry, error) {
	t.writerMu.Lock()
	defer t.writerMu.Unlock()

	entry := newEntry(priority, match, instrs, cookie, flags, nowNano())

	old := t.snapshot()
	if check {
		for _, e := range old {
			if samePriority(e, entry) {
				return nil, ErrOverlap
			}
		}
	}

	next := make([]*Entry, len(old), len(old)+1)
	copy(next, old)
	next = append(next, entry)
	sortEntries(next)

	t.entries.Store(next)
	return entry, nil
}

// matchPredicate reports whether e is selected by a modify/delete
// command's match criteria: cookie (respecting cookieMask), and
// either a strict exact-priority-and-match test, or a loose
// subset-compatible test (every field named in match is present with
// the same value in e's own match).
func matchPredicate(e *Entry, cookie, cookieMask uint64, strict bool, priority uint16, match ofp.Match) bool {
	if (e.Cookie&cookieMask) != (cookie & cookieMask) {
		return false
	}

	if strict {
		return e.Priority == priority && sameFields(e.Match.Fields, match.Fields)
	}

	return oxmmatch.Match(match, e.Match.Fields)
}

func sameFields(a, b []ofp.XM) bool {
	if len(a) != len(b) {
		return false
	}

	for _, fa := range a {
		found := false
		for _, fb := range b {
			if fa.Type == fb.Type && fa.Class == fb.Class && bytesEqual(fa.Value, fb.Value) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func bytesEqual(a, b ofp.XMValue) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Modify updates the instruction list of every entry selected by
// cookie/cookieMask (and, when strict, by exact priority and match).
// Counters and identity are preserved. It returns the number of
// entries updated.
func (t *Table) Modify(cookie, cookieMask uint64, strict bool, priority uint16, match ofp.Match, instrs ofp.Instructions) int {
	t.writerMu.Lock()
	defer t.writerMu.Unlock()

	old := t.snapshot()
	next := make([]*Entry, len(old))
	copy(next, old)

	var n int
	for i, e := range next {
		if matchPredicate(e, cookie, cookieMask, strict, priority, match) {
			updated := *e
			updated.Instructions = instrs
			next[i] = &updated
			n++
		}
	}

	t.entries.Store(next)
	return n
}

// Delete removes every entry selected by cookie/cookieMask (and, when
// strict, by exact priority and match), along with their counter
// records. It returns the number of entries removed.
func (t *Table) Delete(cookie, cookieMask uint64, strict bool, priority uint16, match ofp.Match) int {
	t.writerMu.Lock()
	defer t.writerMu.Unlock()

	old := t.snapshot()
	next := make([]*Entry, 0, len(old))

	var n int
	for _, e := range old {
		if matchPredicate(e, cookie, cookieMask, strict, priority, match) {
			n++
			continue
		}
		next = append(next, e)
	}

	t.entries.Store(next)
	return n
}
