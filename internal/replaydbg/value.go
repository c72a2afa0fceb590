package replaydbg

import (
	"fmt"
	"math"
)

// ValueKind tags which field of DebugValue holds the value.
type ValueKind int

const (
	ValueI32 ValueKind = iota
	ValueU32
	ValueF32
	ValueF64
	ValueBool
)

// DebugValue is a named guest-internal value captured by a DebugValueSource
// for inspection by a Script's assertions and snapshots.
type DebugValue struct {
	Kind ValueKind
	I32  int32
	U32  uint32
	F32  float32
	F64  float64
	Bool bool
}

func I32Value(v int32) DebugValue   { return DebugValue{Kind: ValueI32, I32: v} }
func U32Value(v uint32) DebugValue  { return DebugValue{Kind: ValueU32, U32: v} }
func F32Value(v float32) DebugValue { return DebugValue{Kind: ValueF32, F32: v} }
func F64Value(v float64) DebugValue { return DebugValue{Kind: ValueF64, F64: v} }
func BoolValue(v bool) DebugValue   { return DebugValue{Kind: ValueBool, Bool: v} }

// AsF64 widens the value to float64 for assertion comparisons; a Bool
// becomes 1 or 0.
func (v DebugValue) AsF64() float64 {
	switch v.Kind {
	case ValueI32:
		return float64(v.I32)
	case ValueU32:
		return float64(v.U32)
	case ValueF32:
		return float64(v.F32)
	case ValueF64:
		return v.F64
	case ValueBool:
		if v.Bool {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// DebugValueSource is implemented by a guest.Program that exposes named
// internal state for replaydbg to capture. A guest that doesn't implement
// it simply yields no snapshot/assertion data (capture degrades to an
// empty map rather than an error).
type DebugValueSource interface {
	DebugValues() map[string]DebugValue
}

// debugValuesOf returns program's debug values if it implements
// DebugValueSource, or an empty map otherwise.
func debugValuesOf(program interface{}) map[string]DebugValue {
	if src, ok := program.(DebugValueSource); ok {
		return src.DebugValues()
	}
	return map[string]DebugValue{}
}

// formatDelta renders the change from pre to post for one variable's value,
// or "" if the two aren't the same kind or haven't meaningfully changed.
func formatDelta(pre, post DebugValue) (string, bool) {
	if pre.Kind != post.Kind {
		return "", false
	}
	switch post.Kind {
	case ValueI32:
		if pre.I32 == post.I32 {
			return "", false
		}
		return formatSignedDelta(int64(post.I32) - int64(pre.I32)), true
	case ValueU32:
		if pre.U32 == post.U32 {
			return "", false
		}
		return formatSignedDelta(int64(post.U32) - int64(pre.U32)), true
	case ValueF32:
		diff := float64(post.F32) - float64(pre.F32)
		if math.Abs(diff) <= math.SmallestNonzeroFloat32 {
			return "", false
		}
		return formatFloatDelta(diff), true
	case ValueF64:
		diff := post.F64 - pre.F64
		if math.Abs(diff) <= math.SmallestNonzeroFloat64 {
			return "", false
		}
		return formatFloatDelta(diff), true
	case ValueBool:
		if pre.Bool == post.Bool {
			return "", false
		}
		if post.Bool {
			return "false -> true", true
		}
		return "true -> false", true
	default:
		return "", false
	}
}

func formatSignedDelta(diff int64) string {
	return fmt.Sprintf("%+d", diff)
}

func formatFloatDelta(diff float64) string {
	return fmt.Sprintf("%+.2f", diff)
}
