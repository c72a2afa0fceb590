package render

import "hash/fnv"

// PipelineVariant tags which draw family a PipelineKey was built for.
type PipelineVariant uint8

const (
	PipelineRegular PipelineVariant = iota
	PipelineQuad
	PipelineSky
)

// PipelineKey identifies one cached GPU pipeline. It is deliberately a flat,
// comparable struct (not an interface) so it works directly as a map key —
// the three variants share the struct shape and leave unused fields zero,
// mirroring the tagged-enum cache key the reference renderer uses.
type PipelineKey struct {
	Variant         PipelineVariant
	RenderMode      uint8
	VertexFormat    uint8
	DepthTest       bool
	CullMode        uint8
	IsScreenSpace   bool
	PassConfigHash  uint64
}

// passConfigHash fingerprints the PassConfig fields that affect pipeline
// state with FNV-1a over its binary encoding. PassConfig is a small, fixed
// POD struct, so a stdlib hash over its bytes is exactly as strong as a
// purpose-built struct hash would be for cache-key fingerprinting.
func passConfigHash(c PassConfig) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	if c.DepthWrite {
		buf[0] = 1
	}
	buf[1] = uint8(c.DepthCompare)
	buf[2] = c.StencilRef
	buf[3] = uint8(c.StencilOp)
	buf[4] = c.ColorMask
	if c.DepthClear {
		buf[5] = 1
	}
	h.Write(buf[:])
	return h.Sum64()
}

// RegularPipelineKey builds the key for a standard mesh draw.
func RegularPipelineKey(renderMode, vertexFormat uint8, depthTest bool, cullMode uint8, passConfig PassConfig) PipelineKey {
	return PipelineKey{
		Variant:        PipelineRegular,
		RenderMode:     resolveRenderMode(renderMode, vertexFormat),
		VertexFormat:   vertexFormat,
		DepthTest:      depthTest,
		CullMode:       cullMode,
		PassConfigHash: passConfigHash(passConfig),
	}
}

// QuadPipelineKey builds the key for a batched quad draw.
func QuadPipelineKey(depthTest bool, passConfig PassConfig, isScreenSpace bool) PipelineKey {
	return PipelineKey{
		Variant:        PipelineQuad,
		DepthTest:      depthTest,
		IsScreenSpace:  isScreenSpace,
		PassConfigHash: passConfigHash(passConfig),
	}
}

// SkyPipelineKey builds the key for the procedural sky draw.
func SkyPipelineKey(passConfig PassConfig) PipelineKey {
	return PipelineKey{
		Variant:        PipelineSky,
		PassConfigHash: passConfigHash(passConfig),
	}
}

// numRegularPermutations is 16 vertex formats for render mode 0, plus 8
// normal-bearing formats each for modes 1-3 (matcap/PBR/unlit-with-normals).
const numRegularPermutations = 40

// resolveRenderMode falls back invalid (render_mode, vertex_format)
// combinations to mode 0 with the same format, which is always valid.
func resolveRenderMode(renderMode, vertexFormat uint8) uint8 {
	if renderMode > 3 {
		return 0
	}
	if renderMode > 0 && vertexFormat&0x4 == 0 { // bit 2: has-normal flag
		return 0
	}
	return renderMode
}

// Pipeline is an opaque handle to a backend-created pipeline object. The
// concrete GPU resource it refers to is out of scope here; PipelineCache
// only owns the cache-key bookkeeping around it.
type Pipeline struct {
	Key PipelineKey
}

// PipelineCache lazily creates and reuses Pipeline entries keyed by
// PipelineKey, so repeated draws with identical state never re-create GPU
// pipeline objects within a session.
type PipelineCache struct {
	entries map[PipelineKey]*Pipeline
	create  func(PipelineKey) *Pipeline
}

// NewPipelineCache returns a cache that calls create to materialize a
// pipeline on first use for a given key.
func NewPipelineCache(create func(PipelineKey) *Pipeline) *PipelineCache {
	return &PipelineCache{
		entries: make(map[PipelineKey]*Pipeline),
		create:  create,
	}
}

// GetOrCreate returns the cached pipeline for key, creating it via the
// cache's factory function on first access.
func (c *PipelineCache) GetOrCreate(key PipelineKey) *Pipeline {
	if p, ok := c.entries[key]; ok {
		return p
	}
	p := c.create(key)
	c.entries[key] = p
	return p
}

// Len reports how many distinct pipelines have been created so far.
func (c *PipelineCache) Len() int {
	return len(c.entries)
}
