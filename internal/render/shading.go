package render

// PackedLight is a quantized directional light: octahedral-encoded direction,
// unorm8 color channels, and an intensity byte, packed so the whole light is
// comparable (and therefore hashable as a map key) without a custom Hash impl.
type PackedLight struct {
	DirectionOct uint32
	ColorAndIntensity uint32 // 0xRRGGBBII
	Enabled bool
}

// PackedSky holds the quantized procedural sky parameters.
type PackedSky struct {
	HorizonColor        uint32
	ZenithColor          uint32
	SunDirectionOct      uint32
	SunColorAndSharpness uint32
}

const maxLights = 4

// ShadingState is the packed, hashable material/lighting uniform block that
// backs one VRP draw's fragment shader inputs. Every field is quantized to
// its storage width by the FFI setters before being written here, so two
// ShadingStates with the same bit pattern really do produce identical
// output — this is what makes byte-exact struct equality a valid dedup key.
type ShadingState struct {
	ColorRGBA8   uint32
	UniformSet0  uint32 // metallic, roughness, emissive, rim intensity (unorm8 each)
	UniformSet1  uint32 // rim power / matcap blend modes / specular color, mode-dependent
	Lights       [maxLights]PackedLight
	Sky          PackedSky
}

// ShadingIndex is a dense index into a frame's shading-state pool.
type ShadingIndex uint32

const maxShadingStates = 65536

// ShadingPool deduplicates ShadingState values within one frame via direct
// struct-equality hashing (ShadingState has no pointers or slices, so Go's
// native map equality is exactly the "exact byte pattern" comparison the
// format calls for).
type ShadingPool struct {
	states  []ShadingState
	index   map[ShadingState]ShadingIndex
	current ShadingState
	dirty   bool
}

// NewShadingPool returns an empty pool with the scratch state dirty, so the
// first draw of a frame always creates (or reuses) state 0.
func NewShadingPool() *ShadingPool {
	return &ShadingPool{
		index: make(map[ShadingState]ShadingIndex),
		dirty: true,
	}
}

// Current returns a pointer to the mutable scratch state FFI setters mutate.
func (p *ShadingPool) Current() *ShadingState {
	return &p.current
}

// MarkDirty flags that the scratch state changed since the last pool entry.
func (p *ShadingPool) MarkDirty() {
	p.dirty = true
}

// Add returns the pool index for the current scratch state, reusing the
// last-added entry if nothing changed since, deduplicating against every
// prior entry this frame otherwise, and appending a new entry as a last
// resort. Panics past the per-frame cap, matching the fixed 65,536-entry
// budget the format reserves for shading state indices.
func (p *ShadingPool) Add() ShadingIndex {
	if !p.dirty && len(p.states) > 0 {
		return ShadingIndex(len(p.states) - 1)
	}
	if idx, ok := p.index[p.current]; ok {
		p.dirty = false
		return idx
	}
	if len(p.states) >= maxShadingStates {
		panic("render: shading state pool overflow, maximum 65536 unique states per frame")
	}
	idx := ShadingIndex(len(p.states))
	p.states = append(p.states, p.current)
	p.index[p.current] = idx
	p.dirty = false
	return idx
}

// Len reports how many unique shading states have been recorded this frame.
func (p *ShadingPool) Len() int {
	return len(p.states)
}

// States returns the dense pool backing slice, for uploading to the GPU.
func (p *ShadingPool) States() []ShadingState {
	return p.states
}

// Reset clears the pool for the next frame, re-marking the scratch state as
// dirty so the first draw of the new frame creates or reuses state 0.
func (p *ShadingPool) Reset() {
	p.states = p.states[:0]
	for k := range p.index {
		delete(p.index, k)
	}
	p.dirty = true
}

func packUnorm8(v float32) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v*255.0 + 0.5)
}

// SetMetallic quantizes and writes the metallic uniform, marking dirty only
// on an actual change (storage-width quantization can make distinct float
// inputs collapse to the same byte, in which case no redundant state is
// created).
func (p *ShadingPool) SetMetallic(v float32) {
	q := uint32(packUnorm8(v))
	if p.current.UniformSet0&0xFF != q {
		p.current.UniformSet0 = (p.current.UniformSet0 &^ 0xFF) | q
		p.dirty = true
	}
}

// SetRoughness quantizes and writes the roughness uniform (byte 1).
func (p *ShadingPool) SetRoughness(v float32) {
	q := uint32(packUnorm8(v)) << 8
	if p.current.UniformSet0&0xFF00 != q {
		p.current.UniformSet0 = (p.current.UniformSet0 &^ 0xFF00) | q
		p.dirty = true
	}
}

// SetColor writes the already-packed RGBA8 draw color.
func (p *ShadingPool) SetColor(rgba8 uint32) {
	if p.current.ColorRGBA8 != rgba8 {
		p.current.ColorRGBA8 = rgba8
		p.dirty = true
	}
}

// SetLight writes one of the fixed light slots, marking dirty only if the
// quantized light actually changed.
func (p *ShadingPool) SetLight(index int, l PackedLight) {
	if index < 0 || index >= maxLights {
		return
	}
	if p.current.Lights[index] != l {
		p.current.Lights[index] = l
		p.dirty = true
	}
}

// SetSky writes the procedural sky parameters.
func (p *ShadingPool) SetSky(s PackedSky) {
	if p.current.Sky != s {
		p.current.Sky = s
		p.dirty = true
	}
}
