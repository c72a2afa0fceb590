package audio

// CommandKind identifies the action an AudioCommand applies to the rollback
// zone's PlaybackState at end-of-tick. Commands are queued by FFI calls
// during guest Update() and drained in issue order, so that later commands
// in the same tick override earlier ones targeting the same channel.
type CommandKind uint8

const (
	CommandPlaySFX CommandKind = iota
	CommandStopSFX
	CommandSetSFXVolume
	CommandSetSFXPan
	CommandPlayMusic
	CommandStopMusic
	CommandSetMusicVolume
)

// AudioCommand is one queued mutation of the audio rollback state, emitted
// by a guest FFI call and applied by ApplyCommands at the end of the tick in
// which it was issued. Keeping commands as data (rather than mutating
// PlaybackState directly from FFI) lets the ephemeral zone hold arbitrarily
// many audio calls per tick without touching rollback state mid-update.
type AudioCommand struct {
	Kind    CommandKind
	Channel int // sfx channel index; ignored for music/global commands
	Sound   uint32
	Value   float32 // volume or pan, meaning depends on Kind
	Loop    bool
}

// ApplyCommands drains a tick's queued audio commands into state, in order.
func ApplyCommands(state *PlaybackState, commands []AudioCommand) {
	for _, c := range commands {
		switch c.Kind {
		case CommandPlaySFX:
			if c.Channel < 0 || c.Channel >= NumSFXChannels {
				continue
			}
			state.SFX[c.Channel] = ChannelState{Sound: c.Sound, Volume: 1.0, Looping: c.Loop}
		case CommandStopSFX:
			if c.Channel < 0 || c.Channel >= NumSFXChannels {
				continue
			}
			state.SFX[c.Channel].Reset()
		case CommandSetSFXVolume:
			if c.Channel < 0 || c.Channel >= NumSFXChannels {
				continue
			}
			state.SFX[c.Channel].Volume = c.Value
		case CommandSetSFXPan:
			if c.Channel < 0 || c.Channel >= NumSFXChannels {
				continue
			}
			state.SFX[c.Channel].Pan = c.Value
		case CommandPlayMusic:
			state.Music = ChannelState{Sound: c.Sound, Volume: 1.0, Looping: c.Loop}
		case CommandStopMusic:
			state.Music.Reset()
		case CommandSetMusicVolume:
			state.Music.Volume = c.Value
		}
	}
}
