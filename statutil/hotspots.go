// Package statutil aggregates parsed events into hotspot and dispersion
// reports, the way a consumer of perf-script output routinely wants once
// the samples themselves have been read.
package statutil

import (
	"fmt"
	"sort"

	"github.com/aclements/perfscript"
)

// Hotspot is one function's aggregate contribution across a set of
// events: how many samples landed in it, and what share of the total
// sample count that represents.
type Hotspot struct {
	Module      string
	Symbol      string
	SampleCount int
	Percentage  float64
}

func funcSig(module, symbol string) string {
	return module + "!" + symbol
}

// FindHotspots counts, for every StackFrame appearing anywhere in
// events' stacks, how many events touch it at least once, and returns
// the topN by that count (all of them if topN <= 0).
//
// A function is counted at most once per event, regardless of how many
// times it recurs within that event's stack.
func FindHotspots(events []perfscript.Event, topN int) []Hotspot {
	counts := make(map[string]int)
	first := make(map[string]perfscript.StackFrame)

	for _, ev := range events {
		seen := make(map[string]bool)
		for _, frame := range ev.Header().Frames {
			sf, ok := frame.(perfscript.StackFrame)
			if !ok {
				continue
			}
			sig := funcSig(sf.Module, sf.Symbol)
			if seen[sig] {
				continue
			}
			seen[sig] = true
			counts[sig]++
			if _, ok := first[sig]; !ok {
				first[sig] = sf
			}
		}
	}

	total := len(events)
	hotspots := make([]Hotspot, 0, len(counts))
	for sig, n := range counts {
		sf := first[sig]
		h := Hotspot{Module: sf.Module, Symbol: sf.Symbol, SampleCount: n}
		if total > 0 {
			h.Percentage = float64(n) / float64(total) * 100
		}
		hotspots = append(hotspots, h)
	}

	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].SampleCount != hotspots[j].SampleCount {
			return hotspots[i].SampleCount > hotspots[j].SampleCount
		}
		return funcSig(hotspots[i].Module, hotspots[i].Symbol) < funcSig(hotspots[j].Module, hotspots[j].Symbol)
	})

	if topN > 0 && topN < len(hotspots) {
		hotspots = hotspots[:topN]
	}
	return hotspots
}

// FindLeafHotspots is like FindHotspots but counts only each event's
// innermost (deepest-callee) StackFrame, the way a CPU-bound profile's
// "self time" view does.
func FindLeafHotspots(events []perfscript.Event, topN int) []Hotspot {
	counts := make(map[string]int)
	first := make(map[string]perfscript.StackFrame)

	for _, ev := range events {
		var leaf perfscript.StackFrame
		found := false
		for _, frame := range ev.Header().Frames {
			if sf, ok := frame.(perfscript.StackFrame); ok {
				leaf = sf
				found = true
				break
			}
		}
		if !found {
			continue
		}
		sig := funcSig(leaf.Module, leaf.Symbol)
		counts[sig]++
		if _, ok := first[sig]; !ok {
			first[sig] = leaf
		}
	}

	total := len(events)
	hotspots := make([]Hotspot, 0, len(counts))
	for sig, n := range counts {
		sf := first[sig]
		h := Hotspot{Module: sf.Module, Symbol: sf.Symbol, SampleCount: n}
		if total > 0 {
			h.Percentage = float64(n) / float64(total) * 100
		}
		hotspots = append(hotspots, h)
	}

	sort.Slice(hotspots, func(i, j int) bool {
		return hotspots[i].SampleCount > hotspots[j].SampleCount
	})

	if topN > 0 && topN < len(hotspots) {
		hotspots = hotspots[:topN]
	}
	return hotspots
}

// FormatHotspot renders a hotspot the way a text report line would.
func FormatHotspot(h Hotspot, rank int) string {
	return fmt.Sprintf("#%d: %s (%d samples, %.2f%%)", rank, funcSig(h.Module, h.Symbol), h.SampleCount, h.Percentage)
}
