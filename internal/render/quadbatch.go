package render

// QuadInstance is one GPU-instanced quad's per-instance data: transform
// index plus the shading state it draws with.
type QuadInstance struct {
	MvpShadingIdx uint32
}

// QuadBatch groups consecutive quads sharing the same bound texture slots
// into a single GPU-instanced draw call.
type QuadBatch struct {
	TextureSlots [4]uint32
	Instances    []QuadInstance
}

// QuadBatcher accumulates quad instances, opening a new batch whenever the
// bound texture slots change from the previous instance.
type QuadBatcher struct {
	Batches []QuadBatch
}

// NewQuadBatcher returns an empty batcher.
func NewQuadBatcher() *QuadBatcher {
	return &QuadBatcher{}
}

// Add appends a quad instance, extending the current batch if its texture
// slots match, or opening a new batch otherwise.
func (b *QuadBatcher) Add(textureSlots [4]uint32, instance QuadInstance) {
	if n := len(b.Batches); n > 0 && b.Batches[n-1].TextureSlots == textureSlots {
		b.Batches[n-1].Instances = append(b.Batches[n-1].Instances, instance)
		return
	}
	b.Batches = append(b.Batches, QuadBatch{
		TextureSlots: textureSlots,
		Instances:    []QuadInstance{instance},
	})
}

// Reset clears all batches for the next frame.
func (b *QuadBatcher) Reset() {
	b.Batches = b.Batches[:0]
}
