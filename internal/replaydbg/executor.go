package replaydbg

import (
	"encoding/json"
	"fmt"

	"nethercore/internal/guest"
)

// StopReasonKind classifies why an Executor stopped running.
type StopReasonKind int

const (
	StopComplete StopReasonKind = iota
	StopBreakpoint
	StopAssertionFailed
	StopError
)

// StopReason records why Run returned early (or completed normally).
type StopReason struct {
	Kind    StopReasonKind
	Frame   uint64
	Message string
}

// Snapshot captures one frame's named debug values before and after
// Update, plus the formatted per-variable delta between them.
type Snapshot struct {
	Frame uint64                `json:"frame"`
	Input string                `json:"input"`
	Pre   map[string]DebugValue `json:"pre"`
	Post  map[string]DebugValue `json:"post"`
	Delta map[string]string     `json:"delta,omitempty"`
}

// AssertionResult is one evaluated Assertion's outcome.
type AssertionResult struct {
	Frame     uint64   `json:"frame"`
	Condition string   `json:"condition"`
	Passed    bool     `json:"passed"`
	Actual    *float64 `json:"actual,omitempty"`
	Expected  string   `json:"expected,omitempty"`
}

// ReportSummary totals an ExecutionReport's assertion outcomes.
type ReportSummary struct {
	FramesWithSnapshot int    `json:"frames_with_snapshot"`
	AssertionsPassed   int    `json:"assertions_passed"`
	AssertionsFailed   int    `json:"assertions_failed"`
	Status             string `json:"status"`
}

// ExecutionReport is the JSON-serializable result of running a Script to
// completion or to its first stopping point.
type ExecutionReport struct {
	Console        string            `json:"console"`
	Seed           uint64            `json:"seed"`
	FramesExecuted uint64            `json:"frames_executed"`
	TotalFrames    uint64            `json:"total_frames"`
	Snapshots      []Snapshot        `json:"snapshots"`
	Assertions     []AssertionResult `json:"assertions"`
	Summary        ReportSummary     `json:"summary"`
}

// ToJSON renders the report as indented JSON, matching the devkit's
// MarshalIndent convention for on-disk reports.
func (r *ExecutionReport) ToJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("replaydbg: encode report: %w", err)
	}
	return string(data), nil
}

// Executor steps a guest.Program through a Script one frame at a time,
// capturing snapshots and evaluating assertions as it goes. FailFast
// controls whether a failed assertion stops the run immediately.
type Executor struct {
	program  guest.Program
	script   *Script
	failFast bool

	currentFrame uint64
	prevValues   map[string]DebugValue

	snapshots        []Snapshot
	assertionResults []AssertionResult

	stopped    bool
	stopReason *StopReason
}

// NewExecutor returns an executor for script driving program. failFast
// determines whether the first failed assertion halts the run.
func NewExecutor(program guest.Program, script *Script, failFast bool) *Executor {
	return &Executor{
		program:    program,
		script:     script,
		failFast:   failFast,
		prevValues: make(map[string]DebugValue),
	}
}

// CurrentFrame returns the frame about to be (or currently being) executed.
func (e *Executor) CurrentFrame() uint64 {
	return e.currentFrame
}

// IsComplete reports whether the script has run out of frames or Run has
// already stopped it.
func (e *Executor) IsComplete() bool {
	return e.currentFrame >= e.script.FrameCount || e.stopped
}

// StopReason returns why execution stopped, or nil if it hasn't stopped.
func (e *Executor) StopReason() *StopReason {
	return e.stopReason
}

// Run drives the script to completion or to its first stopping point and
// returns the resulting report.
func (e *Executor) Run() *ExecutionReport {
	for !e.IsComplete() {
		e.step()
	}
	return e.generateReport()
}

// step executes exactly one frame: runs this frame's actions, captures the
// pre-update snapshot, applies input and advances the guest, captures the
// post-update snapshot, evaluates this frame's assertions, then advances
// the frame counter.
func (e *Executor) step() {
	for _, action := range e.script.actionsForFrame(e.currentFrame) {
		if action.Kind == ActionBreakpoint {
			e.stopped = true
			e.stopReason = &StopReason{Kind: StopBreakpoint, Frame: e.currentFrame, Message: action.Message}
			return
		}
	}

	preValues := debugValuesOf(e.program)

	inputs := e.script.InputsForFrame(e.currentFrame)
	for player, input := range inputs {
		e.program.SetInput(player, input)
	}
	if err := e.program.Update(1.0 / 60.0); err != nil {
		e.stopped = true
		e.stopReason = &StopReason{Kind: StopError, Frame: e.currentFrame, Message: err.Error()}
		return
	}

	postValues := debugValuesOf(e.program)

	if e.script.needsSnapshot(e.currentFrame) {
		e.captureSnapshot(preValues, postValues, inputs)
	}

	// Assertions compare against this frame's postValues and the PREVIOUS
	// frame's values (e.prevValues, not yet overwritten); prevValues only
	// advances to postValues once every assertion for this frame has seen
	// the old one.
	for _, assertion := range e.script.assertionsForFrame(e.currentFrame) {
		e.evaluateAssertion(assertion, postValues)
	}
	e.prevValues = postValues

	if e.stopped {
		return
	}

	e.currentFrame++
	if e.currentFrame >= e.script.FrameCount {
		e.stopped = true
		e.stopReason = &StopReason{Kind: StopComplete, Frame: e.currentFrame}
	}
}

func (e *Executor) captureSnapshot(pre, post map[string]DebugValue, inputs []guest.RawInput) {
	delta := make(map[string]string)
	for name, postValue := range post {
		preValue, ok := pre[name]
		if !ok {
			continue
		}
		if diff, changed := formatDelta(preValue, postValue); changed {
			delta[name] = diff
		}
	}
	if len(delta) == 0 {
		delta = nil
	}
	e.snapshots = append(e.snapshots, Snapshot{
		Frame: e.currentFrame,
		Input: fmt.Sprintf("%+v", inputs),
		Pre:   pre,
		Post:  post,
		Delta: delta,
	})
}

func (e *Executor) evaluateAssertion(assertion Assertion, values map[string]DebugValue) bool {
	actualValue, hasActual := values[assertion.Variable]

	var expected float64
	hasExpected := true
	switch assertion.Value.Kind {
	case AssertNumber:
		expected = assertion.Value.Number
	case AssertVariable:
		v, ok := values[assertion.Value.Name]
		hasExpected = ok
		expected = v.AsF64()
	case AssertPrevValue:
		v, ok := e.prevValues[assertion.Value.Name]
		hasExpected = ok
		expected = v.AsF64()
	}

	passed := false
	if hasActual && hasExpected {
		actual := actualValue.AsF64()
		switch assertion.Operator {
		case OpEq:
			passed = actual == expected
		case OpNe:
			passed = actual != expected
		case OpLt:
			passed = actual < expected
		case OpGt:
			passed = actual > expected
		case OpLe:
			passed = actual <= expected
		case OpGe:
			passed = actual >= expected
		}
	}

	result := AssertionResult{Frame: e.currentFrame, Condition: assertion.Condition, Passed: passed}
	if hasActual {
		a := actualValue.AsF64()
		result.Actual = &a
	}
	if !passed {
		result.Expected = fmt.Sprintf("%s %s", assertion.Operator, formatExpected(assertion.Value, expected, hasExpected))
	}
	e.assertionResults = append(e.assertionResults, result)

	if !passed && e.failFast {
		e.stopped = true
		e.stopReason = &StopReason{Kind: StopAssertionFailed, Frame: e.currentFrame, Message: assertion.Condition}
	}

	return passed
}

func formatExpected(value AssertValue, resolved float64, hasResolved bool) string {
	switch value.Kind {
	case AssertNumber:
		return fmt.Sprintf("%g", value.Number)
	case AssertVariable:
		if hasResolved {
			return fmt.Sprintf("%s (%g)", value.Name, resolved)
		}
		return fmt.Sprintf("%s (undefined)", value.Name)
	case AssertPrevValue:
		if hasResolved {
			return fmt.Sprintf("$prev_%s (%g)", value.Name, resolved)
		}
		return fmt.Sprintf("$prev_%s (undefined)", value.Name)
	default:
		return "?"
	}
}

func (e *Executor) generateReport() *ExecutionReport {
	passed, failed := 0, 0
	for _, r := range e.assertionResults {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}
	status := "PASSED"
	if failed > 0 {
		status = "FAILED"
	}
	return &ExecutionReport{
		Console:        e.script.Console,
		Seed:           e.script.Seed,
		FramesExecuted: e.currentFrame,
		TotalFrames:    e.script.FrameCount,
		Snapshots:      e.snapshots,
		Assertions:     e.assertionResults,
		Summary: ReportSummary{
			FramesWithSnapshot: len(e.snapshots),
			AssertionsPassed:   passed,
			AssertionsFailed:   failed,
			Status:             status,
		},
	}
}
