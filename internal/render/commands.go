package render

import "sort"

// CompareOp mirrors a GPU depth/stencil comparison function.
type CompareOp uint8

const (
	CompareAlways CompareOp = iota
	CompareLess
	CompareLessEqual
	CompareEqual
	CompareGreaterEqual
	CompareGreater
	CompareNever
)

// StencilOp mirrors a GPU stencil write operation.
type StencilOp uint8

const (
	StencilKeep StencilOp = iota
	StencilReplace
	StencilIncrementClamp
	StencilDecrementClamp
)

// PassConfig is the per-draw-call pass configuration: depth/stencil state,
// color write mask, and whether this pass must clear depth before drawing.
// It is the unit pipeline identity is keyed on (via its hash) and the unit
// execution state diffing is keyed on (via direct equality).
type PassConfig struct {
	DepthWrite   bool
	DepthCompare CompareOp
	StencilRef   uint8
	StencilOp    StencilOp
	ColorMask    uint8 // bit0=R bit1=G bit2=B bit3=A
	DepthClear   bool
}

// DefaultPassConfig is the baseline configuration: depth test+write on,
// full color write mask, no stencil, no forced clear.
func DefaultPassConfig() PassConfig {
	return PassConfig{
		DepthWrite:   true,
		DepthCompare: CompareLessEqual,
		ColorMask:    0b1111,
	}
}

// CommandKind tags which variant a Command holds.
type CommandKind uint8

const (
	CommandMesh CommandKind = iota
	CommandIndexedMesh
	CommandQuad
	CommandEpuEnvironment
)

// Viewport is a normalized sub-rectangle of the output target.
type Viewport struct {
	X, Y, W, H float32
}

// Command is one entry in the virtual render pass's ordered command list.
// Only the fields relevant to Kind are populated; this mirrors a tagged
// union without the overhead of separate slices per command type, since
// commands must preserve a single global insertion order within a pass.
type Command struct {
	Kind CommandKind
	PassID     uint32
	PassConfig PassConfig
	Viewport   Viewport
	CullMode   uint8

	// Mesh / IndexedMesh
	VertexFormat uint8
	TextureSlots [4]uint32
	BufferIndex  uint32
	VertexCount  uint32
	BaseVertex   uint32
	IndexCount   uint32
	FirstIndex   uint32

	// Quad
	IsScreenSpace bool
	InstanceCount uint32
	BaseInstance  uint32

	// EpuEnvironment
	MvpIndex uint32
}

// VirtualRenderPass is the ordered, per-frame draw command list. Commands
// are appended in FFI call order, then stable-sorted by PassID ascending
// immediately before execution — insertion order is preserved within a
// pass because sort.SliceStable never reorders equal keys.
type VirtualRenderPass struct {
	Commands []Command
}

// NewVirtualRenderPass returns an empty pass.
func NewVirtualRenderPass() *VirtualRenderPass {
	return &VirtualRenderPass{}
}

// Record appends a command in FFI call order.
func (v *VirtualRenderPass) Record(cmd Command) {
	v.Commands = append(v.Commands, cmd)
}

// Reset clears the command list for the next frame.
func (v *VirtualRenderPass) Reset() {
	v.Commands = v.Commands[:0]
}

// Sorted returns the commands ordered by PassID ascending, insertion order
// preserved within a pass.
func (v *VirtualRenderPass) Sorted() []Command {
	out := make([]Command, len(v.Commands))
	copy(out, v.Commands)
	sort.SliceStable(out, func(i, j int) bool { return out[i].PassID < out[j].PassID })
	return out
}
