package audio

// NumSFXChannels is the fixed number of simultaneous sound-effect voices.
const NumSFXChannels = 8

// TrackerState is the rollback-zone state of the optional module-tracker
// engine. It is mutually exclusive with the PCM music channel: when active,
// the tracker renders every output sample instead of music playback.
type TrackerState struct {
	Handle uint32
	Flags  TrackerFlags
	Row    uint16
	Order  uint16
	Tick   uint16
}

// TrackerFlags are bit flags on TrackerState.Flags.
type TrackerFlags uint8

const (
	TrackerPlaying TrackerFlags = 1 << 0
	TrackerPaused  TrackerFlags = 1 << 1
)

// Active reports whether the tracker should drive output this frame: a
// non-zero module handle, the playing flag set, and the paused flag clear.
func (t *TrackerState) Active() bool {
	return t.Handle != 0 && t.Flags&TrackerPlaying != 0 && t.Flags&TrackerPaused == 0
}

// TrackerEngine renders tracker audio sample-by-sample. A ROM without
// tracker music can use a no-op implementation; the mixer never calls it
// unless TrackerState.Active() is true.
type TrackerEngine interface {
	// SyncToState is called once per frame, before any samples are rendered,
	// so the engine can seek to the state's row/order/tick position.
	SyncToState(state *TrackerState, sounds Sounds)
	// RenderSampleAndAdvance produces one stereo sample pair and advances
	// internal playback position by one output sample.
	RenderSampleAndAdvance() (left, right float32)
}

// PlaybackState is the full rollback-zone audio state for one tick: the sfx
// channel bank plus the PCM music channel. TrackerState lives alongside it
// in guest.RollbackState but is threaded through separately since it also
// needs a TrackerEngine to render.
type PlaybackState struct {
	SFX   [NumSFXChannels]ChannelState
	Music ChannelState
}

// GenerateFrame renders samplesPerFrame stereo sample pairs (interleaved
// left/right into out, which is reset and grown as needed) by mixing every
// active sfx channel, then either the tracker engine or the PCM music
// channel (mutually exclusive), then soft-clipping.
//
// samplesPerFrame is sampleRate/tickRate (735 at 60Hz/44.1kHz). This is the
// synchronous code path; the threaded path in generator.go calls this same
// function from a dedicated goroutine against a cloned snapshot.
func GenerateFrame(state *PlaybackState, tracker *TrackerState, engine TrackerEngine, sounds Sounds, sampleRate, tickRate int, out *[]float32) {
	samplesPerFrame := sampleRate / tickRate
	*out = (*out)[:0]
	if cap(*out) < samplesPerFrame*2 {
		*out = make([]float32, 0, samplesPerFrame*2)
	}

	resampleRatio := float32(SourceSampleRate) / float32(sampleRate)

	trackerActive := tracker != nil && engine != nil && tracker.Active()
	if trackerActive {
		engine.SyncToState(tracker, sounds)
	}

	for i := 0; i < samplesPerFrame; i++ {
		var left, right float32

		for ch := range state.SFX {
			sample := mixChannel(&state.SFX[ch], sounds, resampleRatio)
			l, r := ApplyPan(sample, state.SFX[ch].Pan, state.SFX[ch].Volume)
			left += l
			right += r
		}

		if trackerActive {
			tl, tr := engine.RenderSampleAndAdvance()
			left += tl
			right += tr
		} else if state.Music.Sound != 0 {
			sample := mixChannel(&state.Music, sounds, resampleRatio)
			left += sample * state.Music.Volume
			right += sample * state.Music.Volume
		}

		*out = append(*out, SoftClip(left), SoftClip(right))
	}
}
