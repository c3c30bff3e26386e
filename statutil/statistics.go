package statutil

import (
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/perfscript"
)

// ProfileStatistics summarizes a batch of parsed events: how many there
// are, how deep their stacks run, and how much of the address space they
// touch.
type ProfileStatistics struct {
	TotalEvents       int
	AverageStackDepth float64
	MinStackDepth     int
	MaxStackDepth     int
	UniqueModules     int
	UniqueFunctions   int

	// TimeMsecDispersion summarizes the spread of sample timestamps
	// across the batch.
	TimeMsecDispersion Dispersion
}

// Dispersion reports a sample's mean, standard deviation, and a few
// percentiles, computed with github.com/aclements/go-moremath/stats.
type Dispersion struct {
	Mean, StdDev  float64
	P50, P90, P99 float64
}

// ComputeStatistics computes a ProfileStatistics summary over events.
func ComputeStatistics(events []perfscript.Event) ProfileStatistics {
	var st ProfileStatistics
	st.TotalEvents = len(events)
	if st.TotalEvents == 0 {
		return st
	}

	moduleSet := make(map[string]bool)
	funcSet := make(map[string]bool)
	totalDepth := 0
	st.MinStackDepth = -1

	times := make([]float64, 0, len(events))
	for _, ev := range events {
		h := ev.Header()
		times = append(times, h.TimeMsec)

		depth := 0
		for _, frame := range h.Frames {
			if sf, ok := frame.(perfscript.StackFrame); ok {
				depth++
				if sf.Module != "" && sf.Module != "unknown" {
					moduleSet[sf.Module] = true
				}
				funcSet[funcSig(sf.Module, sf.Symbol)] = true
			}
		}
		totalDepth += depth
		if st.MinStackDepth == -1 || depth < st.MinStackDepth {
			st.MinStackDepth = depth
		}
		if depth > st.MaxStackDepth {
			st.MaxStackDepth = depth
		}
	}

	st.AverageStackDepth = float64(totalDepth) / float64(st.TotalEvents)
	st.UniqueModules = len(moduleSet)
	st.UniqueFunctions = len(funcSet)
	st.TimeMsecDispersion = computeDispersion(times)
	return st
}

func computeDispersion(xs []float64) Dispersion {
	sample := stats.Sample{Xs: xs}
	return Dispersion{
		Mean:   sample.Mean(),
		StdDev: sample.StdDev(),
		P50:    sample.Quantile(0.50),
		P90:    sample.Quantile(0.90),
		P99:    sample.Quantile(0.99),
	}
}
