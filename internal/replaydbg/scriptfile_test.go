package replaydbg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nethercore/internal/guest/testguest"
	. "nethercore/internal/replaydbg"
)

const sampleScriptJSON = `{
	"console": "nethercore",
	"seed": 42,
	"player_count": 4,
	"frame_count": 3,
	"inputs": [
		{"frame": 0, "player": 0, "stick_lx": 1},
		{"frame": 1, "player": 0, "stick_lx": 1},
		{"frame": 2, "player": 0, "stick_lx": 1}
	],
	"snapshot_frames": [0, 2],
	"assertions": [
		{"frame": 2, "variable": "tick", "operator": "eq", "value": {"kind": "number", "number": 3}},
		{"frame": 2, "variable": "pos0", "operator": "gt", "value": {"kind": "prev", "name": "pos0"}}
	],
	"actions": [
		{"frame": 1, "kind": "log", "message": "halfway"}
	]
}`

func TestLoadScriptCompilesFrameIndexedInputs(t *testing.T) {
	script, err := LoadScript([]byte(sampleScriptJSON))
	assert.NoError(t, err)
	assert.Equal(t, "nethercore", script.Console)
	assert.Equal(t, uint64(42), script.Seed)
	assert.Equal(t, 4, script.PlayerCount)
	assert.Equal(t, uint64(3), script.FrameCount)
	assert.Len(t, script.Inputs, 3, "frame-indexed input slice sized to highest input frame + 1")
	assert.Equal(t, float32(1), script.Inputs[0][0].StickLX)
	assert.Equal(t, float32(0), script.Inputs[0][1].StickLX, "players without an entry default to zero input")
}

func TestLoadScriptCompilesAssertionsAndActions(t *testing.T) {
	script, err := LoadScript([]byte(sampleScriptJSON))
	assert.NoError(t, err)
	assert.Len(t, script.Assertions, 2)
	assert.Equal(t, OpEq, script.Assertions[0].Operator)
	assert.Equal(t, AssertNumber, script.Assertions[0].Value.Kind)
	assert.Equal(t, AssertPrevValue, script.Assertions[1].Value.Kind)
	assert.Equal(t, "pos0", script.Assertions[1].Value.Name)

	assert.Len(t, script.Actions, 1)
	assert.Equal(t, ActionLog, script.Actions[0].Kind)
	assert.Equal(t, "halfway", script.Actions[0].Message)
}

func TestLoadScriptRunsAgainstTestGuest(t *testing.T) {
	script, err := LoadScript([]byte(sampleScriptJSON))
	assert.NoError(t, err)

	g := testguest.New()
	assert.NoError(t, g.Init())

	report := NewExecutor(g, script, false).Run()
	assert.Equal(t, "PASSED", report.Summary.Status)
	assert.Equal(t, uint64(3), report.FramesExecuted)
	assert.Len(t, report.Snapshots, 2)
}

func TestLoadScriptRejectsUnknownOperator(t *testing.T) {
	_, err := LoadScript([]byte(`{"frame_count": 1, "assertions": [{"frame": 0, "variable": "tick", "operator": "nope", "value": {"kind": "number"}}]}`))
	assert.Error(t, err)
}

func TestLoadScriptRejectsOutOfRangePlayer(t *testing.T) {
	_, err := LoadScript([]byte(`{"player_count": 1, "frame_count": 1, "inputs": [{"frame": 0, "player": 2, "buttons": 1}]}`))
	assert.Error(t, err)
}
