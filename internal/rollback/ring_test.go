package rollback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotRingSaveLoad(t *testing.T) {
	r := newSnapshotRing(4)
	r.Save(2, []byte{1, 2, 3})
	data, ok := r.Load(2)
	assert.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestSnapshotRingEvictsOldFrames(t *testing.T) {
	r := newSnapshotRing(2)
	r.Save(0, []byte{0})
	r.Save(1, []byte{1})
	r.Save(2, []byte{2}) // overwrites frame 0's slot

	_, ok := r.Load(0)
	assert.False(t, ok, "frame 0 should have been evicted by frame 2 reusing its slot")

	data, ok := r.Load(2)
	assert.True(t, ok)
	assert.Equal(t, []byte{2}, data)
}

func TestSnapshotRingMissOnNeverSaved(t *testing.T) {
	r := newSnapshotRing(4)
	_, ok := r.Load(3)
	assert.False(t, ok)
}
