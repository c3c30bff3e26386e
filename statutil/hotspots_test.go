package statutil

import (
	"testing"

	"github.com/aclements/perfscript"
)

func frameEvent(frames ...perfscript.Frame) perfscript.Event {
	return &perfscript.CPUEvent{EventHeader: perfscript.EventHeader{Frames: frames}}
}

func TestFindHotspots(t *testing.T) {
	events := []perfscript.Event{
		frameEvent(
			perfscript.StackFrame{Address: "1", Module: "a.so", Symbol: "f"},
			perfscript.StackFrame{Address: "2", Module: "b.so", Symbol: "g"},
		),
		frameEvent(
			perfscript.StackFrame{Address: "3", Module: "a.so", Symbol: "f"},
		),
		frameEvent(
			perfscript.StackFrame{Address: "4", Module: "b.so", Symbol: "g"},
		),
	}

	hs := FindHotspots(events, 0)
	if len(hs) != 2 {
		t.Fatalf("len(hs) = %d, want 2", len(hs))
	}
	// Both a.so!f and b.so!g appear in 2 of 3 events.
	for _, h := range hs {
		if h.SampleCount != 2 {
			t.Errorf("%s!%s SampleCount = %d, want 2", h.Module, h.Symbol, h.SampleCount)
		}
	}
}

func TestFindHotspotsTopN(t *testing.T) {
	events := []perfscript.Event{
		frameEvent(perfscript.StackFrame{Module: "a", Symbol: "f"}),
		frameEvent(perfscript.StackFrame{Module: "a", Symbol: "f"}),
		frameEvent(perfscript.StackFrame{Module: "b", Symbol: "g"}),
	}
	hs := FindHotspots(events, 1)
	if len(hs) != 1 {
		t.Fatalf("len(hs) = %d, want 1", len(hs))
	}
	if hs[0].Module != "a" || hs[0].Symbol != "f" {
		t.Errorf("top hotspot = %+v, want a!f", hs[0])
	}
}

func TestFindLeafHotspots(t *testing.T) {
	events := []perfscript.Event{
		frameEvent(
			perfscript.StackFrame{Module: "leaf.so", Symbol: "inner"},
			perfscript.StackFrame{Module: "outer.so", Symbol: "outer"},
		),
	}
	hs := FindLeafHotspots(events, 0)
	if len(hs) != 1 {
		t.Fatalf("len(hs) = %d, want 1", len(hs))
	}
	if hs[0].Module != "leaf.so" || hs[0].Symbol != "inner" {
		t.Errorf("leaf hotspot = %+v, want leaf.so!inner", hs[0])
	}
}

func TestFindHotspotsEmpty(t *testing.T) {
	if hs := FindHotspots(nil, 0); len(hs) != 0 {
		t.Errorf("FindHotspots(nil) = %v, want empty", hs)
	}
}
