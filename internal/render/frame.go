// Package render implements the virtual render pass: an ordered, deferred
// draw command list plus the pools (shading state, MVP, quad batch) that
// deduplicate per-draw GPU state within a frame, and the pipeline cache and
// execution-state tracker that turn the pass into backend bind calls.
//
// Everything here is part of the ephemeral "FFI staging" zone: populated by
// host calls during a guest's Update()/render() tick and discarded at the
// end of the frame it was recorded in. None of it is part of the rollback
// snapshot.
package render

// PendingTexture is a queued GPU texture upload, recorded by an FFI call
// and drained once by the backend after the frame's draws are recorded.
type PendingTexture struct {
	Handle uint32
	Width, Height uint16
	Format uint8
	Data   []byte
}

// PendingMesh is a queued GPU mesh upload.
type PendingMesh struct {
	Handle      uint32
	VertexData  []byte
	IndexData   []uint16
}

// FrameState is the full ephemeral zone for one frame: the render pass
// command list, its supporting dedup pools, pending resource uploads, and
// the render-state scratch (cull mode, depth test, bound textures) that FFI
// calls mutate directly.
type FrameState struct {
	Pass     *VirtualRenderPass
	Shading  *ShadingPool
	Matrices *MatrixPools
	Quads    *QuadBatcher

	DepthTest     bool
	CullMode      uint8
	BlendMode     uint8
	TextureFilter uint8
	BoundTextures [4]uint32

	PendingTextures []PendingTexture
	PendingMeshes   []PendingMesh
}

// NewFrameState returns a frame state with every pool freshly seeded, ready
// for the first draw of a session.
func NewFrameState() *FrameState {
	return &FrameState{
		Pass:      NewVirtualRenderPass(),
		Shading:   NewShadingPool(),
		Matrices:  NewMatrixPools(),
		Quads:     NewQuadBatcher(),
		DepthTest: true,
		CullMode:  1, // back-face culling
	}
}

// ClearFrame resets everything that accumulates per-frame (the render pass,
// matrix pools, shading pool, quad batches) while leaving persistent render
// state (depth test, cull/blend mode, bound textures) untouched — those
// carry over between frames until an FFI call changes them again. Pending
// uploads are drained separately by the caller and are not cleared here.
func (f *FrameState) ClearFrame() {
	f.Pass.Reset()
	f.Shading.Reset()
	f.Matrices.Reset()
	f.Quads.Reset()
}

// RecordDraw resolves the current shading and MVP state into pool indices,
// suitable for attaching to a Mesh/IndexedMesh/EpuEnvironment command.
func (f *FrameState) RecordDraw() (shadingIdx ShadingIndex, mvpShadingIdx uint32) {
	shadingIdx = f.Shading.Add()
	mvpShadingIdx = f.Matrices.AddMvpShadingState(shadingIdx)
	return
}
