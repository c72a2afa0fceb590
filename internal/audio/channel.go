// Package audio implements the deterministic per-tick mixer: sfx channels,
// a pan-centered music channel, and a mutually-exclusive tracker engine, all
// mixed into interleaved stereo float samples via fixed LUT-based panning and
// soft clipping. Every function here is pure with respect to its inputs so
// that the same (AudioPlaybackState, TrackerState, sounds) triple always
// yields the same sample stream, confirmed-frame or replayed.
package audio

// OutputSampleRate is the device's native stereo output rate.
const OutputSampleRate = 44100

// SourceSampleRate is the fixed rate every packed sound asset is stored at.
const SourceSampleRate = 22050

// fixedPointFracBits is the number of fractional bits in a channel's 24.8
// fixed-point playhead.
const fixedPointFracBits = 8
const fixedPointOne = 1 << fixedPointFracBits

// ChannelState is one sfx (or music) channel's playback state. It is part of
// the rollback zone: snapshotted and restored byte-for-byte with everything
// else in RollbackState.
type ChannelState struct {
	Sound    uint32 // sound handle; 0 means the channel is silent
	Playhead uint32 // 24.8 fixed-point offset into the source sample data
	Volume   float32
	Pan      float32 // -1 (full left) .. +1 (full right); ignored by the music channel
	Looping  bool
}

// Reset silences the channel and rewinds its playhead.
func (c *ChannelState) Reset() {
	c.Sound = 0
	c.Playhead = 0
}

// position decomposes the 24.8 fixed-point playhead into an integer sample
// index and a fractional interpolation weight in [0,1).
func (c *ChannelState) position() (index int, frac float32) {
	index = int(c.Playhead >> fixedPointFracBits)
	frac = float32(c.Playhead&(fixedPointOne-1)) / float32(fixedPointOne)
	return
}

// advance moves the playhead forward by ratio output samples worth of source data.
func (c *ChannelState) advance(ratio float32) {
	c.Playhead += uint32(ratio * fixedPointOne)
}

// Sounds is the rollback-zone view of all loaded sound assets: mono i16 PCM
// at SourceSampleRate, indexed by sound handle (slot 0 unused, as with any
// handle table).
type Sounds [][]int16

// mixChannel computes one output sample for channel against sounds, advancing
// its playhead by resampleRatio. Returns 0 and leaves the channel silenced if
// the channel has no sound bound, the handle is stale, or playback reached
// the end of non-looping data.
func mixChannel(c *ChannelState, sounds Sounds, resampleRatio float32) float32 {
	if c.Sound == 0 {
		return 0
	}
	soundIdx := int(c.Sound)
	if soundIdx >= len(sounds) || sounds[soundIdx] == nil {
		c.Sound = 0
		return 0
	}
	data := sounds[soundIdx]
	if len(data) == 0 {
		return 0
	}

	idx, frac := c.position()
	if idx >= len(data) {
		if c.Looping {
			c.Playhead = 0
			idx, frac = 0, 0
		} else {
			c.Reset()
			return 0
		}
	}

	sample1 := float32(data[idx]) / 32768.0
	var sample2 float32
	switch {
	case idx+1 < len(data):
		sample2 = float32(data[idx+1]) / 32768.0
	case c.Looping:
		sample2 = float32(data[0]) / 32768.0
	default:
		sample2 = sample1
	}
	sample := sample1 + (sample2-sample1)*frac

	c.advance(resampleRatio)
	return sample
}
