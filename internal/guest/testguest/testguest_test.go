package testguest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nethercore/internal/guest"
)

func TestUpdateMovesPositionDeterministically(t *testing.T) {
	g := New()
	assert.NoError(t, g.Init())

	g.SetInput(0, guest.RawInput{StickLX: 1})
	assert.NoError(t, g.Update(1.0/60.0))

	assert.Greater(t, g.Position(0), float32(0))
	assert.Equal(t, uint32(1), g.Tick())
}

func TestSaveLoadReplaysIdentically(t *testing.T) {
	g1 := New()
	assert.NoError(t, g1.Init())
	g2 := New()
	assert.NoError(t, g2.Init())

	g1.SetInput(0, guest.RawInput{StickLX: 0.5})
	assert.NoError(t, g1.Update(1.0 / 60.0))

	snap, err := g1.SaveRollback()
	assert.NoError(t, err)

	g2.SetInput(0, guest.RawInput{StickLX: 0.5})
	assert.NoError(t, g2.Update(1.0 / 60.0))

	snap2, err := g2.SaveRollback()
	assert.NoError(t, err)
	assert.Equal(t, snap, snap2, "identical input sequences must produce byte-identical rollback snapshots")
}

func TestLoadRollbackRestoresPosition(t *testing.T) {
	g := New()
	assert.NoError(t, g.Init())
	g.SetInput(0, guest.RawInput{StickLX: 1})
	assert.NoError(t, g.Update(1.0 / 60.0))

	snap, _ := g.SaveRollback()
	posAfterOneTick := g.Position(0)

	assert.NoError(t, g.Update(1.0 / 60.0))
	assert.NotEqual(t, posAfterOneTick, g.Position(0))

	assert.NoError(t, g.LoadRollback(snap))
	assert.Equal(t, posAfterOneTick, g.Position(0))
}
