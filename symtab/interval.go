// Package symtab holds the address-interval symbol tables consulted when
// a stack frame's module or symbol comes back from perf script as
// "unknown". It is built once, up front, from a set of named byte
// streams packaged alongside a trace and is read-only for the rest of
// its lifetime.
package symtab

// Interval is a half-open range [Start, Start+Length).
type Interval struct {
	Start  uint64
	Length uint64
}

// End returns Start+Length.
func (iv Interval) End() uint64 {
	return iv.Start + iv.Length
}

// Contains reports whether x falls in [Start, Start+Length). The
// subtraction is unsigned and deliberately allowed to wrap: x-Start
// wraps to a huge value whenever x < Start, so the single comparison
// against Length handles Start==0 and End overflow without a second
// branch.
func (iv Interval) Contains(x uint64) bool {
	return x-iv.Start < iv.Length
}
