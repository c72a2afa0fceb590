package rollback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nethercore/internal/guest"
	"nethercore/internal/guest/testguest"
)

func TestLocalSessionAdvanceConfirmsEveryFrame(t *testing.T) {
	g := testguest.New()
	assert.NoError(t, g.Init())
	s := NewLocalSession(1, 8, g)

	assert.NoError(t, s.AddLocalInput(0, guest.RawInput{StickLX: 1}))
	inputs, err := s.Advance(1.0 / 60.0)
	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, inputs[0].Status)
	assert.Equal(t, 1, s.CurrentFrame())
}

func TestLocalSessionRejectsInvalidPlayerIndex(t *testing.T) {
	g := testguest.New()
	s := NewLocalSession(2, 8, g)
	err := s.AddLocalInput(5, guest.RawInput{})
	assert.Error(t, err)
}

func TestLoadAndReplayRestoresAndReexecutes(t *testing.T) {
	g := testguest.New()
	assert.NoError(t, g.Init())
	s := NewLocalSession(1, 16, g)

	// Advance three frames with the same input.
	for i := 0; i < 3; i++ {
		assert.NoError(t, s.AddLocalInput(0, guest.RawInput{StickLX: 0.5}))
		_, err := s.Advance(1.0 / 60.0)
		assert.NoError(t, err)
	}
	posAfterThree := g.Position(0)

	// Roll back to frame 1 and replay with different (corrected) input.
	err := s.LoadAndReplay(1, 1.0/60.0, [][]PlayerInput{
		{{Input: guest.RawInput{StickLX: -0.5}, Status: StatusConfirmed}},
		{{Input: guest.RawInput{StickLX: -0.5}, Status: StatusConfirmed}},
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, s.CurrentFrame())
	assert.NotEqual(t, posAfterThree, g.Position(0), "corrected replay must diverge from the original prediction")
}

func TestLoadAndReplayErrorsOnEvictedFrame(t *testing.T) {
	g := testguest.New()
	assert.NoError(t, g.Init())
	s2 := NewLocalSession(1, 2, g) // capacity smaller than the frame history below
	for i := 0; i < 5; i++ {
		assert.NoError(t, s2.AddLocalInput(0, guest.RawInput{}))
		_, err := s2.Advance(1.0 / 60.0)
		assert.NoError(t, err)
	}
	err := s2.LoadAndReplay(0, 1.0/60.0, nil)
	assert.Error(t, err)
}
