package perfscript

import "fmt"

// Frame is one entry in a sample's call stack. The concrete types are
// StackFrame, ThreadFrame, ProcessFrame, and BlockedCPUFrame; this set is
// closed, so switching on the concrete type is exhaustive.
type Frame interface {
	// DisplayName renders the frame the way a flame graph or text
	// report would show it.
	DisplayName() string

	isFrame()
}

// StackFrame is an ordinary call-stack entry: an address resolved (or not)
// to a module and symbol.
type StackFrame struct {
	Address string // hex, no leading "0x"
	Module  string // basename of the owning module, or "unknown"
	Symbol  string // function/symbol name, or "unknown"
}

func (f StackFrame) DisplayName() string {
	return fmt.Sprintf("%s!%s", f.Module, f.Symbol)
}

func (StackFrame) isFrame() {}

// ThreadFrame is a synthetic frame appended to every sample's stack
// identifying the sampled thread.
type ThreadFrame struct {
	ID   int32
	Name string
}

func (f ThreadFrame) DisplayName() string {
	return fmt.Sprintf("%s (%d)", f.Name, f.ID)
}

func (ThreadFrame) isFrame() {}

// ProcessFrame is a synthetic frame appended to every sample's stack,
// below the ThreadFrame, identifying the sampled process.
type ProcessFrame struct {
	Name string
}

func (f ProcessFrame) DisplayName() string {
	return f.Name
}

func (ProcessFrame) isFrame() {}

// BlockedCPUFrame represents a span of CPU idle/blocked time. The core
// parser never produces this frame kind; it is reserved for downstream
// passes that synthesize CPU-idle intervals from scheduler events.
type BlockedCPUFrame struct {
	ID      int32
	Subkind string
}

func (f BlockedCPUFrame) DisplayName() string {
	return f.Subkind
}

func (BlockedCPUFrame) isFrame() {}
