package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPanGainsCenterIsEqualPower(t *testing.T) {
	left, right := PanGains(0.0)
	assert.InDelta(t, 0.707, float64(left), 0.01)
	assert.InDelta(t, 0.707, float64(right), 0.01)
}

func TestPanGainsHardLeftAndRight(t *testing.T) {
	left, right := PanGains(-1.0)
	assert.InDelta(t, 1.0, float64(left), 0.01)
	assert.InDelta(t, 0.0, float64(right), 0.01)

	left, right = PanGains(1.0)
	assert.InDelta(t, 0.0, float64(left), 0.01)
	assert.InDelta(t, 1.0, float64(right), 0.01)
}

func TestPanLawEqualPower(t *testing.T) {
	for _, p := range []float32{-1.0, -0.5, -0.1, 0.0, 0.33, 0.75, 1.0} {
		l, r := PanGains(p)
		power := float64(l*l + r*r)
		assert.InDelta(t, 1.0, power, 0.02, "pan=%v left=%v right=%v", p, l, r)
	}
}

func TestSoftClipPassthroughWithinUnitRange(t *testing.T) {
	for _, x := range []float32{-1.0, -0.5, 0.0, 0.5, 1.0} {
		assert.Equal(t, x, SoftClip(x))
	}
}

func TestSoftClipBoundedAndMonotone(t *testing.T) {
	prev := float32(math.Inf(-1))
	for x := float32(-5.0); x <= 5.0; x += 0.1 {
		out := SoftClip(x)
		assert.Less(t, float64(out), 2.0)
		assert.Greater(t, float64(out), -2.0)
		assert.GreaterOrEqualf(t, out, prev, "SoftClip must be monotone non-decreasing at x=%v", x)
		prev = out
	}
}

func TestGenerateFrameSilenceIsZero(t *testing.T) {
	state := &PlaybackState{}
	var out []float32
	GenerateFrame(state, nil, nil, nil, OutputSampleRate, 60, &out)

	wantLen := (OutputSampleRate / 60) * 2
	assert.Equal(t, wantLen, len(out))
	for _, s := range out {
		assert.Equal(t, float32(0), s)
	}
}

func TestGenerateFrameMixesSFXChannel(t *testing.T) {
	sounds := Sounds{nil, {10000, 20000, -10000, 0}}
	state := &PlaybackState{}
	state.SFX[0] = ChannelState{Sound: 1, Volume: 1.0, Pan: 0.0, Looping: false}

	var out []float32
	GenerateFrame(state, nil, nil, sounds, OutputSampleRate, 60, &out)

	if out[0] == 0 && out[1] == 0 {
		t.Fatalf("expected non-silent output when an sfx channel is bound to sound data")
	}
}

func TestMixChannelSilencesOnUnknownHandle(t *testing.T) {
	sounds := Sounds{nil}
	c := ChannelState{Sound: 5, Volume: 1.0}
	s := mixChannel(&c, sounds, 0.5)
	assert.Equal(t, float32(0), s)
	assert.Equal(t, uint32(0), c.Sound)
}

func TestMixChannelLoopsAtEndOfData(t *testing.T) {
	sounds := Sounds{nil, {32767, 0}}
	c := ChannelState{Sound: 1, Looping: true, Playhead: 2 << fixedPointFracBits}
	s := mixChannel(&c, sounds, 1.0)
	assert.InDelta(t, 1.0, float64(s), 0.001)
}

func TestMixChannelSilencesAtEndWithoutLoop(t *testing.T) {
	sounds := Sounds{nil, {32767, 0}}
	c := ChannelState{Sound: 1, Looping: false, Playhead: 2 << fixedPointFracBits}
	s := mixChannel(&c, sounds, 1.0)
	assert.Equal(t, float32(0), s)
	assert.Equal(t, uint32(0), c.Sound)
}
