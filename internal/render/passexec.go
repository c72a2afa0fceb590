package render

// BindChange records which parts of GPU-bound state had to change to issue
// a given command, so a backend can skip the corresponding bind calls when
// nothing changed since the previous command. The concrete GPU bind calls
// themselves are out of scope here; ExecutionState only tracks the diff.
type BindChange struct {
	Pipeline    bool
	FrameBinds  bool
	Textures    bool
	VertexBuf   bool
	Viewport    bool
	StencilRef  bool
	NewSegment  bool // a new GPU render pass segment had to begin (depth_clear)
}

// ExecutionState tracks the GPU binding state implied by a sequence of VRP
// commands, rebinding only on change. A command whose PassConfig requests
// DepthClear always forces a new segment — this is the one case that
// restarts a render pass mid-frame; color is preserved across the restart,
// only depth is cleared.
type ExecutionState struct {
	boundPipeline   *PipelineKey
	boundTextures   [4]uint32
	hasTextures     bool
	boundBuffer     uint32
	hasBuffer       bool
	boundViewport   Viewport
	hasViewport     bool
	boundStencilRef uint8
	hasStencilRef   bool
	segmentOpen     bool
}

// NewExecutionState returns a tracker with nothing bound yet, so the first
// command always reports every field changed.
func NewExecutionState() *ExecutionState {
	return &ExecutionState{}
}

// Apply computes the bind changes needed to execute cmd given everything
// bound so far, updates the tracked state to reflect cmd, and returns the
// diff.
func (s *ExecutionState) Apply(cmd Command, key PipelineKey) BindChange {
	var change BindChange

	if cmd.PassConfig.DepthClear || !s.segmentOpen {
		change.NewSegment = true
		s.segmentOpen = true
		// A new segment implicitly rebinds everything.
		s.boundPipeline = nil
		s.hasTextures = false
		s.hasBuffer = false
		s.hasViewport = false
		s.hasStencilRef = false
	}

	if s.boundPipeline == nil || *s.boundPipeline != key {
		change.Pipeline = true
		k := key
		s.boundPipeline = &k
		change.FrameBinds = true
	}

	if !s.hasTextures || s.boundTextures != cmd.TextureSlots {
		change.Textures = true
		s.boundTextures = cmd.TextureSlots
		s.hasTextures = true
	}

	if cmd.Kind == CommandMesh || cmd.Kind == CommandIndexedMesh {
		if !s.hasBuffer || s.boundBuffer != cmd.BufferIndex {
			change.VertexBuf = true
			s.boundBuffer = cmd.BufferIndex
			s.hasBuffer = true
		}
	}

	if !s.hasViewport || s.boundViewport != cmd.Viewport {
		change.Viewport = true
		s.boundViewport = cmd.Viewport
		s.hasViewport = true
	}

	if !s.hasStencilRef || s.boundStencilRef != cmd.PassConfig.StencilRef {
		change.StencilRef = true
		s.boundStencilRef = cmd.PassConfig.StencilRef
		s.hasStencilRef = true
	}

	return change
}

// Reset clears all tracked bindings for the start of a new frame.
func (s *ExecutionState) Reset() {
	*s = ExecutionState{}
}
