// Package replaydbg drives a guest.Program through a scripted sequence of
// frame advances, capturing named debug values before and after each tick,
// evaluating assertions against them, and producing a JSON-serializable
// report. It is the devkit's headless equivalent of stepping a ROM by hand
// in a debugger: a Script plays back recorded inputs and checks the guest's
// internal state matches expectations at each frame.
package replaydbg

import "nethercore/internal/guest"

// CompareOp is an assertion's comparison operator.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
)

func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// AssertValueKind distinguishes what an Assertion compares its variable
// against.
type AssertValueKind int

const (
	// AssertNumber compares against a fixed literal.
	AssertNumber AssertValueKind = iota
	// AssertVariable compares against another named debug value captured
	// this frame.
	AssertVariable
	// AssertPrevValue compares against the named variable's value as
	// captured on the previous frame.
	AssertPrevValue
)

// AssertValue is the right-hand side of an assertion.
type AssertValue struct {
	Kind   AssertValueKind
	Number float64
	Name   string
}

// Assertion checks one named debug value against AssertValue using
// Operator, on a specific frame.
type Assertion struct {
	Frame     uint64
	Variable  string
	Operator  CompareOp
	Value     AssertValue
	Condition string // human-readable form, echoed into AssertionResult
}

// ActionKind is the effect a scripted Action has when its frame is reached.
type ActionKind int

const (
	// ActionBreakpoint stops execution immediately, before input is applied.
	ActionBreakpoint ActionKind = iota
	// ActionLog carries Message and does not stop execution; the executor
	// takes no other action on it and Message does not appear in the report.
	ActionLog
)

// Action is a scripted debug action, invoked before input is applied on its
// frame. Multiple actions may target the same frame.
type Action struct {
	Frame   uint64
	Kind    ActionKind
	Message string
}

// Script is a compiled, ready-to-run replay: one guest.RawInput per player
// per frame, plus the frames to snapshot and the assertions/actions to
// evaluate along the way.
type Script struct {
	Console     string
	ConsoleID   uint32
	Seed        uint64
	PlayerCount int
	FrameCount  uint64

	// Inputs[frame][player] is the input applied on that frame. A frame
	// past the end of Inputs (e.g. a script with fewer recorded frames
	// than FrameCount) applies a zero-value RawInput to every player.
	Inputs [][]guest.RawInput

	SnapFrames []uint64
	Assertions []Assertion
	Actions    []Action
}

// InputsForFrame returns the per-player input for frame, or zero-value
// inputs if the script has no recorded input for it.
func (s *Script) InputsForFrame(frame uint64) []guest.RawInput {
	if frame < uint64(len(s.Inputs)) {
		return s.Inputs[frame]
	}
	return make([]guest.RawInput, s.PlayerCount)
}

func (s *Script) needsSnapshot(frame uint64) bool {
	for _, f := range s.SnapFrames {
		if f == frame {
			return true
		}
	}
	return false
}

func (s *Script) assertionsForFrame(frame uint64) []Assertion {
	var out []Assertion
	for _, a := range s.Assertions {
		if a.Frame == frame {
			out = append(out, a)
		}
	}
	return out
}

func (s *Script) actionsForFrame(frame uint64) []Action {
	var out []Action
	for _, a := range s.Actions {
		if a.Frame == frame {
			out = append(out, a)
		}
	}
	return out
}
