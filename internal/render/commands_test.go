package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVirtualRenderPassStableSortByPassID(t *testing.T) {
	v := NewVirtualRenderPass()
	v.Record(Command{Kind: CommandMesh, PassID: 2, BufferIndex: 1})
	v.Record(Command{Kind: CommandMesh, PassID: 0, BufferIndex: 2})
	v.Record(Command{Kind: CommandMesh, PassID: 0, BufferIndex: 3})
	v.Record(Command{Kind: CommandMesh, PassID: 1, BufferIndex: 4})

	sorted := v.Sorted()
	assert.Equal(t, []uint32{0, 0, 1, 2}, []uint32{sorted[0].PassID, sorted[1].PassID, sorted[2].PassID, sorted[3].PassID})
	// Insertion order preserved within pass 0.
	assert.Equal(t, uint32(2), sorted[0].BufferIndex)
	assert.Equal(t, uint32(3), sorted[1].BufferIndex)
}

func TestVirtualRenderPassResetClears(t *testing.T) {
	v := NewVirtualRenderPass()
	v.Record(Command{Kind: CommandQuad})
	v.Reset()
	assert.Empty(t, v.Commands)
}

func TestExecutionStateTracksRebindOnChange(t *testing.T) {
	s := NewExecutionState()
	cfg := DefaultPassConfig()
	key := RegularPipelineKey(0, 0, true, 1, cfg)

	first := s.Apply(Command{Kind: CommandMesh, PassConfig: cfg, BufferIndex: 1}, key)
	assert.True(t, first.Pipeline)
	assert.True(t, first.VertexBuf)
	assert.True(t, first.NewSegment)

	second := s.Apply(Command{Kind: CommandMesh, PassConfig: cfg, BufferIndex: 1}, key)
	assert.False(t, second.Pipeline)
	assert.False(t, second.VertexBuf)
	assert.False(t, second.NewSegment)

	third := s.Apply(Command{Kind: CommandMesh, PassConfig: cfg, BufferIndex: 2}, key)
	assert.False(t, third.Pipeline)
	assert.True(t, third.VertexBuf)
}

func TestExecutionStateDepthClearForcesNewSegment(t *testing.T) {
	s := NewExecutionState()
	cfg := DefaultPassConfig()
	key := RegularPipelineKey(0, 0, true, 1, cfg)
	s.Apply(Command{Kind: CommandMesh, PassConfig: cfg}, key)

	clearCfg := cfg
	clearCfg.DepthClear = true
	change := s.Apply(Command{Kind: CommandMesh, PassConfig: clearCfg}, key)
	assert.True(t, change.NewSegment)
}
