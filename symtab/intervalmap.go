package symtab

import "sort"

type intervalEnt struct {
	iv     Interval
	symbol string
}

// IntervalMap is an ordered collection of (Interval -> symbol) entries.
// Entries are appended during a build phase with Add, then Finalize sorts
// them by start address; after that the map is read-only and Lookup does
// a binary search.
//
// Add appends unsorted; Finalize sorts once and enables Lookup, so
// callers can't query a half-built map.
type IntervalMap struct {
	entries   []intervalEnt
	finalized bool
}

// Add appends an entry for [start, start+length) during the build phase.
// Overlapping intervals are accepted; Lookup resolves an address in an
// overlap to whichever entry its binary search lands on.
//
// Add panics if called after Finalize.
func (m *IntervalMap) Add(start, length uint64, symbol string) {
	if m.finalized {
		panic("symtab: Add called on a finalized IntervalMap")
	}
	m.entries = append(m.entries, intervalEnt{Interval{start, length}, symbol})
}

// Finalize sorts the accumulated entries by start address. After
// Finalize, the map must not be mutated.
func (m *IntervalMap) Finalize() {
	sort.Slice(m.entries, func(i, j int) bool {
		return m.entries[i].iv.Start < m.entries[j].iv.Start
	})
	m.finalized = true
}

// Lookup returns the symbol and start address of the entry containing
// addr, if any. Lookup panics if called before Finalize.
func (m *IntervalMap) Lookup(addr uint64) (symbol string, start uint64, ok bool) {
	if !m.finalized {
		panic("symtab: Lookup called before Finalize")
	}
	// i is the index of the first entry with Start > addr; the only
	// candidate containing addr is the one just before it. When addr
	// falls exactly on a shared boundary between two adjacent,
	// non-overlapping intervals, this picks the entry that starts at
	// addr, matching Interval.Contains's half-open-at-start rule.
	i := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].iv.Start > addr
	})
	if i == 0 {
		return "", 0, false
	}
	e := m.entries[i-1]
	if !e.iv.Contains(addr) {
		return "", 0, false
	}
	return e.symbol, e.iv.Start, true
}

// Len returns the number of entries currently in the map.
func (m *IntervalMap) Len() int { return len(m.entries) }
