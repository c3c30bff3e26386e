package statutil

import (
	"testing"

	"github.com/aclements/perfscript"
)

func headerEvent(timeMsec float64, frames ...perfscript.Frame) perfscript.Event {
	return &perfscript.CPUEvent{EventHeader: perfscript.EventHeader{TimeMsec: timeMsec, Frames: frames}}
}

func TestComputeStatistics(t *testing.T) {
	events := []perfscript.Event{
		headerEvent(1.0,
			perfscript.StackFrame{Module: "a.so", Symbol: "f"},
			perfscript.StackFrame{Module: "b.so", Symbol: "g"},
			perfscript.ThreadFrame{ID: 1, Name: "Thread"},
			perfscript.ProcessFrame{Name: "p"},
		),
		headerEvent(2.0,
			perfscript.StackFrame{Module: "a.so", Symbol: "f"},
			perfscript.ThreadFrame{ID: 1, Name: "Thread"},
			perfscript.ProcessFrame{Name: "p"},
		),
	}

	st := ComputeStatistics(events)
	if st.TotalEvents != 2 {
		t.Errorf("TotalEvents = %d, want 2", st.TotalEvents)
	}
	if st.MaxStackDepth != 2 || st.MinStackDepth != 1 {
		t.Errorf("stack depth = [%d, %d], want [1, 2]", st.MinStackDepth, st.MaxStackDepth)
	}
	if st.UniqueModules != 2 {
		t.Errorf("UniqueModules = %d, want 2", st.UniqueModules)
	}
	if st.UniqueFunctions != 2 {
		t.Errorf("UniqueFunctions = %d, want 2", st.UniqueFunctions)
	}
	if st.TimeMsecDispersion.Mean != 1.5 {
		t.Errorf("Mean = %v, want 1.5", st.TimeMsecDispersion.Mean)
	}
}

func TestComputeStatisticsEmpty(t *testing.T) {
	st := ComputeStatistics(nil)
	if st.TotalEvents != 0 {
		t.Errorf("TotalEvents = %d, want 0", st.TotalEvents)
	}
}
