// External test package: testguest imports replaydbg, so an in-package
// test importing testguest would be an import cycle.
package replaydbg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nethercore/internal/guest"
	"nethercore/internal/guest/testguest"
	. "nethercore/internal/replaydbg"
)

func scriptWithInputs(frameCount uint64, stickLX float32) *Script {
	inputs := make([][]guest.RawInput, frameCount)
	for i := range inputs {
		inputs[i] = []guest.RawInput{{StickLX: stickLX}, {}, {}, {}}
	}
	return &Script{
		Console:     "test",
		Seed:        0,
		PlayerCount: guest.MaxPlayers,
		FrameCount:  frameCount,
		Inputs:      inputs,
		SnapFrames:  []uint64{0},
	}
}

func TestExecutorRunsToCompletion(t *testing.T) {
	g := testguest.New()
	assert.NoError(t, g.Init())
	script := scriptWithInputs(3, 1)
	exec := NewExecutor(g, script, false)

	report := exec.Run()
	assert.Equal(t, uint64(3), report.FramesExecuted)
	assert.Equal(t, uint64(3), report.TotalFrames)
	assert.Equal(t, "PASSED", report.Summary.Status)
	assert.Len(t, report.Snapshots, 1, "only frame 0 was in SnapFrames")
}

func TestExecutorCapturesDeltaBetweenPreAndPost(t *testing.T) {
	g := testguest.New()
	assert.NoError(t, g.Init())
	script := scriptWithInputs(1, 1)

	report := NewExecutor(g, script, false).Run()
	assert.Len(t, report.Snapshots, 1)
	snap := report.Snapshots[0]
	_, changed := snap.Delta["pos0"]
	assert.True(t, changed, "pos0 should have moved between pre and post")
}

func TestExecutorAssertionPassesAgainstLiteral(t *testing.T) {
	g := testguest.New()
	assert.NoError(t, g.Init())
	script := scriptWithInputs(1, 0)
	script.Assertions = []Assertion{
		{Frame: 0, Variable: "tick", Operator: OpEq, Value: AssertValue{Kind: AssertNumber, Number: 1}, Condition: "tick == 1"},
	}

	report := NewExecutor(g, script, false).Run()
	assert.Len(t, report.Assertions, 1)
	assert.True(t, report.Assertions[0].Passed)
	assert.Equal(t, "PASSED", report.Summary.Status)
}

func TestExecutorFailFastStopsOnFailedAssertion(t *testing.T) {
	g := testguest.New()
	assert.NoError(t, g.Init())
	script := scriptWithInputs(5, 0)
	script.Assertions = []Assertion{
		{Frame: 0, Variable: "tick", Operator: OpEq, Value: AssertValue{Kind: AssertNumber, Number: 999}, Condition: "tick == 999"},
	}

	exec := NewExecutor(g, script, true)
	report := exec.Run()

	assert.Equal(t, "FAILED", report.Summary.Status)
	assert.NotNil(t, exec.StopReason())
	assert.Equal(t, StopAssertionFailed, exec.StopReason().Kind)
	assert.Less(t, report.FramesExecuted, uint64(5), "fail-fast should stop before the script's full frame count")
}

func TestExecutorBreakpointActionStopsBeforeInput(t *testing.T) {
	g := testguest.New()
	assert.NoError(t, g.Init())
	script := scriptWithInputs(5, 1)
	script.Actions = []Action{
		{Frame: 2, Kind: ActionBreakpoint, Message: "stop here"},
	}

	exec := NewExecutor(g, script, false)
	report := exec.Run()

	assert.Equal(t, StopBreakpoint, exec.StopReason().Kind)
	assert.Equal(t, uint64(2), exec.StopReason().Frame)
	assert.Equal(t, uint64(2), report.FramesExecuted, "frames 0 and 1 ran before the breakpoint halted frame 2")
}

func TestExecutorPrevValueAssertion(t *testing.T) {
	g := testguest.New()
	assert.NoError(t, g.Init())
	script := scriptWithInputs(2, 0)
	script.Assertions = []Assertion{
		{Frame: 1, Variable: "tick", Operator: OpGt, Value: AssertValue{Kind: AssertPrevValue, Name: "tick"}, Condition: "tick > $prev_tick"},
	}

	report := NewExecutor(g, script, false).Run()
	assert.True(t, report.Assertions[0].Passed)
}

func TestExecutionReportToJSON(t *testing.T) {
	g := testguest.New()
	assert.NoError(t, g.Init())
	script := scriptWithInputs(1, 0)
	report := NewExecutor(g, script, false).Run()

	out, err := report.ToJSON()
	assert.NoError(t, err)
	assert.Contains(t, out, "\"status\": \"PASSED\"")
}
