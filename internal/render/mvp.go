package render

const maxMvpShadingStates = 65536

// MvpShadingIndices is the combined, deduplicated per-draw instance key: the
// model/view/projection matrix pool indices plus the shading-state index.
// Every unique combination gets exactly one instance-buffer row.
type MvpShadingIndices struct {
	ModelIdx   uint32
	ViewIdx    uint32
	ProjIdx    uint32
	ShadingIdx uint32
}

// MatrixPools holds the three per-frame matrix pools (model, view,
// projection) plus the pending "current" matrix for each, using the same
// lazy-allocate-or-reuse-last pattern as the shading pool: a pending matrix
// is Some until the next draw call consumes it (pushing it and clearing back
// to pending=false); otherwise draws reuse the last pool entry.
type MatrixPools struct {
	Model []Mat4
	View  []Mat4
	Proj  []Mat4

	pendingModel    Mat4
	hasPendingModel bool
	pendingView     Mat4
	hasPendingView  bool
	pendingProj     Mat4
	hasPendingProj  bool

	combined      []MvpShadingIndices
	combinedIndex map[MvpShadingIndices]uint32
}

// DefaultView is the seed view matrix: eye (0,0,5) looking at the origin.
func DefaultView() Mat4 {
	return LookAt([3]float32{0, 0, 5}, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})
}

// DefaultProj is the seed projection: 45 degree vertical FOV, 16:9 aspect.
func DefaultProj() Mat4 {
	return Perspective(45.0*3.14159265/180.0, 16.0/9.0, 0.1, 1000.0)
}

// NewMatrixPools returns pools seeded with the default identity/view/proj
// entries at index 0, matching what every frame must start from.
func NewMatrixPools() *MatrixPools {
	p := &MatrixPools{
		combinedIndex: make(map[MvpShadingIndices]uint32),
	}
	p.Reset()
	return p
}

// SetModel stages a pending model matrix to be pushed on the next
// AddMvpShadingState.
func (p *MatrixPools) SetModel(m Mat4) {
	p.pendingModel, p.hasPendingModel = m, true
}

// SetView stages a pending view matrix.
func (p *MatrixPools) SetView(m Mat4) {
	p.pendingView, p.hasPendingView = m, true
}

// SetProj stages a pending projection matrix.
func (p *MatrixPools) SetProj(m Mat4) {
	p.pendingProj, p.hasPendingProj = m, true
}

func resolveIndex(pool *[]Mat4, pending *Mat4, has *bool) uint32 {
	if *has {
		*pool = append(*pool, *pending)
		*has = false
		return uint32(len(*pool) - 1)
	}
	return uint32(len(*pool) - 1)
}

// AddMvpShadingState resolves the pending model/view/proj matrices (pushing
// any that are staged, or reusing the last pool entry otherwise), combines
// them with shadingIdx, and returns the deduplicated combined-state index
// the shader consumes as its per-instance draw ID.
func (p *MatrixPools) AddMvpShadingState(shadingIdx ShadingIndex) uint32 {
	indices := MvpShadingIndices{
		ModelIdx:   resolveIndex(&p.Model, &p.pendingModel, &p.hasPendingModel),
		ViewIdx:    resolveIndex(&p.View, &p.pendingView, &p.hasPendingView),
		ProjIdx:    resolveIndex(&p.Proj, &p.pendingProj, &p.hasPendingProj),
		ShadingIdx: uint32(shadingIdx),
	}

	if idx, ok := p.combinedIndex[indices]; ok {
		return idx
	}
	if len(p.combined) >= maxMvpShadingStates {
		panic("render: mvp+shading state pool overflow, maximum 65536 unique states per frame")
	}
	idx := uint32(len(p.combined))
	p.combined = append(p.combined, indices)
	p.combinedIndex[indices] = idx
	return idx
}

// CombinedStates returns the dense per-instance index buffer for upload.
func (p *MatrixPools) CombinedStates() []MvpShadingIndices {
	return p.combined
}

// Reset clears all pools back to their single default entry, for the start
// of a new frame.
func (p *MatrixPools) Reset() {
	p.Model = append(p.Model[:0], Identity())
	p.View = append(p.View[:0], DefaultView())
	p.Proj = append(p.Proj[:0], DefaultProj())
	p.hasPendingModel, p.hasPendingView, p.hasPendingProj = false, false, false
	p.combined = p.combined[:0]
	for k := range p.combinedIndex {
		delete(p.combinedIndex, k)
	}
}
