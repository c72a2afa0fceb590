// Package testguest provides a minimal, fully deterministic guest.Program
// used to exercise the runtime, rollback session, and FFI boundary without
// a real bytecode interpreter (the guest ISA itself is out of scope).
//
// It models two players each pushing a block along one axis: button A
// plays a fixed sfx, the stick moves the block's position, and position is
// stored directly in guest linear memory so rollback save/load round-trips
// through the exact same bytes a real bytecode guest's memory would.
package testguest

import (
	"encoding/binary"
	"fmt"
	"math"

	"nethercore/internal/audio"
	"nethercore/internal/guest"
	"nethercore/internal/render"
	"nethercore/internal/replaydbg"
)

const (
	memSize = 256

	// Byte offsets into guest linear memory.
	offsetPositionX = 0 // float32 per player, 4 players * 4 bytes
	offsetTick      = 16 // uint32 global tick counter
)

const buttonA uint16 = 1 << 0

// Game is a deterministic reference guest for testing.
type Game struct {
	zone   *guest.RollbackZone
	inputs [guest.MaxPlayers]guest.RawInput
}

// New returns a fresh Game with zeroed memory.
func New() *Game {
	return &Game{zone: guest.NewRollbackZone(memSize)}
}

// Init seeds the RNG; positions are already zero from New.
func (g *Game) Init() error {
	g.zone.State.RNGSeed = 0x9E3779B97F4A7C15
	return nil
}

// SetInput stores player idx's input for the next Update.
func (g *Game) SetInput(playerIdx int, input guest.RawInput) {
	if playerIdx < 0 || playerIdx >= guest.MaxPlayers {
		return
	}
	g.inputs[playerIdx] = input
}

// Update advances each player's position by their stick input and, on every
// tick a player holds button A, writes a playing state (sound 1, full
// volume) straight into that player's sfx channel. The RNG is advanced
// every tick via xorshift64 so replay-determinism tests have something to
// compare beyond positions.
func (g *Game) Update(tickSeconds float32) error {
	for i := 0; i < guest.MaxPlayers; i++ {
		in := g.inputs[i]
		off := offsetPositionX + i*4
		x := readF32(g.zone.Memory, off)
		x += in.StickLX * tickSeconds * 100.0
		writeF32(g.zone.Memory, off, x)

		if in.Buttons&buttonA != 0 {
			g.zone.State.Audio.SFX[i%audio.NumSFXChannels] = audio.ChannelState{
				Sound: 1, Volume: 1.0,
			}
		}
	}

	tick := binary.LittleEndian.Uint32(g.zone.Memory[offsetTick:])
	binary.LittleEndian.PutUint32(g.zone.Memory[offsetTick:], tick+1)

	g.zone.State.RNGSeed = xorshift64(g.zone.State.RNGSeed)
	g.zone.State.AudioSampleCounter += uint64(735) // samples/tick at 60Hz/44.1kHz

	return nil
}

// Render records one quad per player at its current position.
func (g *Game) Render(frame *guest.FrameContext) {
	for i := 0; i < guest.MaxPlayers; i++ {
		x := readF32(g.zone.Memory, offsetPositionX+i*4)
		frame.Frame.Matrices.SetModel(render.Translation(x, 0, 0))
		frame.Frame.Shading.SetColor(0xFFFFFFFF)
		shadingIdx, mvpIdx := frame.Frame.RecordDraw()
		frame.Frame.Pass.Record(render.Command{
			Kind:          render.CommandQuad,
			PassID:        0,
			PassConfig:    render.DefaultPassConfig(),
			InstanceCount: 1,
			MvpIndex:      mvpIdx,
		})
		_ = shadingIdx
	}
}

// SaveRollback returns the current rollback-zone snapshot.
func (g *Game) SaveRollback() ([]byte, error) {
	return g.zone.Save()
}

// LoadRollback restores a previously-saved rollback-zone snapshot.
func (g *Game) LoadRollback(snapshot []byte) error {
	return g.zone.Load(snapshot)
}

// Position returns player idx's current x position, for test assertions.
func (g *Game) Position(playerIdx int) float32 {
	return readF32(g.zone.Memory, offsetPositionX+playerIdx*4)
}

// Tick returns the global tick counter, for test assertions.
func (g *Game) Tick() uint32 {
	return binary.LittleEndian.Uint32(g.zone.Memory[offsetTick:])
}

// AudioState returns the current rollback-zone audio playback and tracker
// state, for a host driver that wants to mix samples for the frame just
// advanced. testguest never activates the tracker, so TrackerState is
// always inactive; GenerateFrame handles that by falling back to the PCM
// music channel path.
func (g *Game) AudioState() (audio.PlaybackState, audio.TrackerState) {
	return g.zone.State.Audio, g.zone.State.Tracker
}

// DebugValues implements replaydbg.DebugValueSource, exposing the tick
// counter and each player's position for scripted replay assertions.
func (g *Game) DebugValues() map[string]replaydbg.DebugValue {
	values := map[string]replaydbg.DebugValue{
		"tick": replaydbg.U32Value(g.Tick()),
	}
	for i := 0; i < guest.MaxPlayers; i++ {
		values[fmt.Sprintf("pos%d", i)] = replaydbg.F32Value(g.Position(i))
	}
	return values
}

func readF32(mem []byte, off int) float32 {
	bits := binary.LittleEndian.Uint32(mem[off:])
	return math.Float32frombits(bits)
}

func writeF32(mem []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(mem[off:], math.Float32bits(v))
}

func xorshift64(x uint64) uint64 {
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	return x
}
