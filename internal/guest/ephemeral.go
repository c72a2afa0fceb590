package guest

import (
	"nethercore/internal/audio"
	"nethercore/internal/handle"
	"nethercore/internal/render"
)

// EphemeralZone is the host-side FFI staging area: everything a guest's
// Update()/Render() calls write to during a tick that is rebuilt fresh next
// tick and never part of a rollback snapshot. It owns the render frame
// state, the resource handle tables host calls allocate into, and the
// queued audio commands a tick's FFI calls produce.
type EphemeralZone struct {
	Frame *render.FrameState

	Textures *handle.Table[TextureResource]
	Meshes   *handle.Table[MeshResource]
	Fonts    *handle.Table[FontResource]
	Sounds   *handle.Table[[]int16]

	AudioCommands []audio.AudioCommand
}

// TextureResource is the host-side record behind a texture handle: decoded
// dimensions plus whichever backend resource (out of scope here) it maps to.
type TextureResource struct {
	Width, Height uint16
	Format        uint8
}

// MeshResource is the host-side record behind a mesh handle.
type MeshResource struct {
	VertexCount, IndexCount uint32
}

// FontResource is the host-side record behind a font handle.
type FontResource struct {
	AtlasWidth, AtlasHeight uint16
}

// NewEphemeralZone returns a freshly seeded ephemeral zone, with handle 0
// reserved as invalid in every table (handle.New already reserves slot 0).
func NewEphemeralZone() *EphemeralZone {
	return &EphemeralZone{
		Frame:    render.NewFrameState(),
		Textures: handle.New[TextureResource](),
		Meshes:   handle.New[MeshResource](),
		Fonts:    handle.New[FontResource](),
		Sounds:   handle.New[[]int16](),
	}
}

// ClearFrame resets everything that accumulates per-tick: the render frame
// state and the audio command queue. Handle tables persist across frames —
// resources stay loaded once uploaded.
func (e *EphemeralZone) ClearFrame() {
	e.Frame.ClearFrame()
	e.AudioCommands = e.AudioCommands[:0]
}

// FrameContext is what a guest's Render method is given: the ephemeral
// zone's render frame state plus read access to the rollback-zone audio
// state it may want to reflect visually (e.g. a VU meter).
type FrameContext struct {
	Frame      *render.FrameState
	Rollback   *RollbackState
}
