package rollback

// snapshotRing is a fixed-capacity ring buffer of rollback-zone snapshots,
// indexed by frame number modulo capacity. A session only ever needs to
// roll back as far as its consensus module's maximum prediction window, so
// a small fixed ring (rather than an unbounded history) is sufficient.
type snapshotRing struct {
	slots  [][]byte
	frames []int // frame number stored at each slot; -1 means empty
}

func newSnapshotRing(capacity int) *snapshotRing {
	frames := make([]int, capacity)
	for i := range frames {
		frames[i] = -1
	}
	return &snapshotRing{
		slots:  make([][]byte, capacity),
		frames: frames,
	}
}

// Save stores data as the snapshot for frame, overwriting whatever
// previously occupied that slot.
func (r *snapshotRing) Save(frame int, data []byte) {
	slot := frame % len(r.slots)
	r.slots[slot] = data
	r.frames[slot] = frame
}

// Load returns the snapshot for frame, or false if that frame's slot has
// since been overwritten by a later save (the caller asked to roll back
// further than the ring retains).
func (r *snapshotRing) Load(frame int) ([]byte, bool) {
	slot := frame % len(r.slots)
	if r.frames[slot] != frame {
		return nil, false
	}
	return r.slots[slot], true
}

// Capacity returns the maximum number of distinct frames the ring retains.
func (r *snapshotRing) Capacity() int {
	return len(r.slots)
}
