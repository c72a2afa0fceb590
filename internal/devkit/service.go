// Package devkit is the UI-agnostic backend a devkit frontend drives: it
// owns a live rollback session against the bundled reference guest, loaded
// from a ROM container's metadata and sound assets (there is no bytecode
// interpreter in scope here, so every loaded ROM runs the same reference
// guest — see internal/guest/testguest).
package devkit

import (
	"fmt"
	"sync"
	"time"

	"nethercore/internal/audio"
	"nethercore/internal/guest"
	"nethercore/internal/guest/testguest"
	"nethercore/internal/replaydbg"
	"nethercore/internal/rollback"
	"nethercore/internal/rom"
	"nethercore/internal/runtime"
)

// RingCapacity is how many frames back a devkit session can roll back to
// reload, matching the local-session default used by cmd/ncrun.
const RingCapacity = 128

// Snapshot is the live session's lifecycle state, reported to a frontend
// once per Tick/RunFrame call.
type Snapshot struct {
	Loaded     bool
	Running    bool
	Paused     bool
	TickRate   uint32
	FrameCount uint64
}

// TickResult is what a variable-rate frontend render loop needs after one
// Tick call: the refreshed snapshot, how many ticks actually advanced, and
// one mixed audio buffer per tick (in confirmed-frame order).
type TickResult struct {
	Snapshot      Snapshot
	FramesStepped int
	AudioSamples  [][]float32
}

// Backend is the UI-agnostic devkit contract. Frontends may be rewritten
// freely as long as they target this contract and preserve the live
// session's input/output semantics.
type Backend interface {
	TempDir() string
	LoadROM(path string) (*rom.ROM, error)
	Shutdown()
	Snapshot() Snapshot
	ResetSession() error
	TogglePause() (bool, error)
	SetInputButtons(player int, buttons uint16) error
	RunFrame() error
	StepFrame(frames int) error
	Tick(delta time.Duration) (TickResult, error)
	DebugValues() map[string]replaydbg.DebugValue
}

// Service is the UI-agnostic devkit backend: a compile-free live session
// wrapper around the runtime/rollback/guest stack.
type Service struct {
	tempDir string

	mu              sync.RWMutex
	loadedPath      string
	sounds          audio.Sounds
	game            *testguest.Game
	session         *rollback.Session
	paused          bool
	tickAccumulator time.Duration
	lastAudio       [][]float32
}

var _ Backend = (*Service)(nil)

// NewService returns a service with no ROM loaded; TempDir is where a
// frontend may stage exported artifacts (savestates, replay scripts).
func NewService(tempDir string) *Service {
	return &Service{tempDir: tempDir}
}

func (s *Service) TempDir() string {
	return s.tempDir
}

// LoadROM decodes rom at path and starts a fresh local rollback session
// against the reference guest, seeded with the ROM's packed sound assets.
func (s *Service) LoadROM(path string) (*rom.ROM, error) {
	r, err := rom.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("devkit: load rom: %w", err)
	}

	sounds := make(audio.Sounds, len(r.Pack.Sounds)+1)
	for i := range r.Pack.Sounds {
		sounds[i+1] = r.Pack.Sounds[i].Data
	}

	game := testguest.New()
	if err := game.Init(); err != nil {
		return nil, fmt.Errorf("devkit: init guest: %w", err)
	}
	session := rollback.NewLocalSession(guest.MaxPlayers, RingCapacity, game)

	s.mu.Lock()
	s.loadedPath = path
	s.sounds = sounds
	s.game = game
	s.session = session
	s.paused = false
	s.tickAccumulator = 0
	s.lastAudio = nil
	s.mu.Unlock()

	return r, nil
}

// Shutdown tears down the live session; the service may LoadROM again
// afterward.
func (s *Service) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game = nil
	s.session = nil
	s.tickAccumulator = 0
	s.lastAudio = nil
}

func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotWithTickRateLocked()
}

func (s *Service) snapshotLocked() Snapshot {
	if s.session == nil {
		return Snapshot{}
	}
	return Snapshot{
		Loaded:     true,
		Running:    s.session.State() == rollback.StateRunning,
		Paused:     s.paused,
		FrameCount: uint64(s.session.CurrentFrame()),
	}
}

// ResetSession restarts the currently loaded ROM's session from scratch,
// discarding all simulation state but keeping the same sound assets.
func (s *Service) ResetSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return fmt.Errorf("devkit: no rom loaded")
	}

	game := testguest.New()
	if err := game.Init(); err != nil {
		return fmt.Errorf("devkit: reset guest: %w", err)
	}
	session := rollback.NewLocalSession(guest.MaxPlayers, RingCapacity, game)

	s.game = game
	s.session = session
	s.paused = false
	s.tickAccumulator = 0
	s.lastAudio = nil
	return nil
}

func (s *Service) TogglePause() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return false, fmt.Errorf("devkit: no rom loaded")
	}
	s.paused = !s.paused
	if s.paused {
		s.tickAccumulator = 0
	}
	return s.paused, nil
}

// SetInputButtons sets player's digital button bitmask for the next
// RunFrame/StepFrame/Tick call. Analog axes are left at zero; a devkit
// frontend driving sticks should use AddLocalInput on the session directly
// via a richer control surface, not in scope for this flag-level API.
func (s *Service) SetInputButtons(player int, buttons uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return fmt.Errorf("devkit: no rom loaded")
	}
	return s.session.AddLocalInput(player, guest.RawInput{Buttons: buttons})
}

func (s *Service) RunFrame() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	return s.advanceLocked()
}

func (s *Service) StepFrame(frames int) error {
	if frames <= 0 {
		return fmt.Errorf("devkit: frames must be > 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return fmt.Errorf("devkit: no rom loaded")
	}
	for i := 0; i < frames; i++ {
		if err := s.advanceLocked(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) advanceLocked() error {
	tickSeconds := float32(1) / float32(runtime.DefaultRuntimeConfig().TickRate)
	if _, err := s.session.Advance(tickSeconds); err != nil {
		return fmt.Errorf("devkit: advance: %w", err)
	}
	s.lastAudio = [][]float32{s.mixLocked()}
	return nil
}

func (s *Service) mixLocked() []float32 {
	playback, tracker := s.game.AudioState()
	var buf []float32
	audio.GenerateFrame(&playback, &tracker, silentTracker{}, s.sounds, audio.OutputSampleRate, int(runtime.DefaultRuntimeConfig().TickRate), &buf)
	out := make([]float32, len(buf))
	copy(out, buf)
	return out
}

// Tick is the variable-rate entry point a frontend render loop calls once
// per displayed frame, accumulating wall-clock delta into fixed ticks —
// the same catch-up-with-a-ceiling shape as the runtime's own accumulator,
// reimplemented here so devkit can report per-tick audio and a bounded
// FramesStepped count to the frontend.
func (s *Service) Tick(delta time.Duration) (TickResult, error) {
	const (
		maxCatchUpTicks = 4
		maxDelta        = 250 * time.Millisecond
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	var out TickResult
	if s.session == nil {
		return out, nil
	}

	if s.paused {
		out.Snapshot = s.snapshotWithTickRateLocked()
		return out, nil
	}

	if delta < 0 {
		delta = 0
	}
	if delta > maxDelta {
		delta = maxDelta
	}

	tickRate := runtime.DefaultRuntimeConfig().TickRate
	tickDuration := time.Second / time.Duration(tickRate)

	s.tickAccumulator += delta
	if max := tickDuration * maxCatchUpTicks; s.tickAccumulator > max {
		s.tickAccumulator = max
	}

	var audioFrames [][]float32
	for s.tickAccumulator >= tickDuration && out.FramesStepped < maxCatchUpTicks {
		if err := s.advanceLocked(); err != nil {
			return out, err
		}
		audioFrames = append(audioFrames, s.lastAudio[0])
		s.tickAccumulator -= tickDuration
		out.FramesStepped++
	}

	out.AudioSamples = audioFrames
	out.Snapshot = s.snapshotWithTickRateLocked()
	return out, nil
}

func (s *Service) snapshotWithTickRateLocked() Snapshot {
	snap := s.snapshotLocked()
	snap.TickRate = runtime.DefaultRuntimeConfig().TickRate
	return snap
}

// DebugValues exposes the live guest's named debug values — the
// frame-indexed analogue of the teacher's CPU register/PC-state views, now
// driven by the same DebugValueSource a replaydbg script asserts against.
func (s *Service) DebugValues() map[string]replaydbg.DebugValue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.game == nil {
		return map[string]replaydbg.DebugValue{}
	}
	return s.game.DebugValues()
}

type silentTracker struct{}

func (silentTracker) SyncToState(*audio.TrackerState, audio.Sounds) {}
func (silentTracker) RenderSampleAndAdvance() (float32, float32)    { return 0, 0 }
