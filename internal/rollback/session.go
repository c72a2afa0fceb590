// Package rollback implements the save/load/advance rollback-netcode
// protocol against a guest.Program: a session wraps a consensus module
// (conceptually a peer-to-peer or local input-delay rollback engine) and
// issues Save/Load/Advance requests the runtime must service in order.
//
// Only a local (non-networked) session is implemented here — every frame is
// immediately confirmed, since there are no remote peers to desync from.
// This is the mode the bundled reference guest runs under and the mode the
// test suite drives; a networked consensus module would plug into the same
// Session shape but is out of scope.
package rollback

import (
	"fmt"

	"nethercore/internal/guest"
)

// SessionState is the rollback session's connection lifecycle. Only
// Running permits ticks to advance.
type SessionState int

const (
	StateSynchronizing SessionState = iota
	StateRunning
	StateDisconnected
)

func (s SessionState) String() string {
	switch s {
	case StateSynchronizing:
		return "synchronizing"
	case StateRunning:
		return "running"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// InputStatus distinguishes an input the consensus module has finalized
// from one it predicted ahead of receiving the real value.
type InputStatus int

const (
	StatusConfirmed InputStatus = iota
	StatusPredicted
)

// PlayerInput pairs one player's input record with its confirmation status
// for a given frame.
type PlayerInput struct {
	Input  guest.RawInput
	Status InputStatus
}

// Session drives a guest.Program through the save/load/advance protocol.
// Audio rollback integration (predicted frames producing no samples) is the
// runtime's responsibility, not the session's: the session only reports
// which frames were confirmed via Advance's return value.
type Session struct {
	program    guest.Program
	numPlayers int
	ring       *snapshotRing
	state      SessionState

	currentFrame int
	localInputs  []guest.RawInput
}

// NewLocalSession returns a session with numPlayers slots and a snapshot
// ring sized to ringCapacity frames, already in the Running state (a local
// session has no synchronization handshake to perform).
func NewLocalSession(numPlayers, ringCapacity int, program guest.Program) *Session {
	inputs := make([]guest.RawInput, numPlayers)
	return &Session{
		program:     program,
		numPlayers:  numPlayers,
		ring:        newSnapshotRing(ringCapacity),
		state:       StateRunning,
		localInputs: inputs,
	}
}

// State returns the session's current lifecycle state.
func (s *Session) State() SessionState {
	return s.state
}

// CurrentFrame returns the frame number about to be advanced next.
func (s *Session) CurrentFrame() int {
	return s.currentFrame
}

// AddLocalInput buffers input for playerIdx, to be used on the next
// Advance call. Mirrors the single add_local_input call the runtime makes
// once per render frame before advancing.
func (s *Session) AddLocalInput(playerIdx int, input guest.RawInput) error {
	if playerIdx < 0 || playerIdx >= s.numPlayers {
		return fmt.Errorf("rollback: player index %d out of range [0,%d)", playerIdx, s.numPlayers)
	}
	s.localInputs[playerIdx] = input
	return nil
}

// Advance executes the full per-tick protocol: Save the current frame's
// rollback state, set every player's input (all Confirmed — a local
// session never predicts), invoke Update, and advance the frame counter.
// No Advance runs without its Save immediately preceding it, satisfying the
// "no Advance without a prior Save for the current frame" invariant.
func (s *Session) Advance(tickSeconds float32) ([]PlayerInput, error) {
	if s.state != StateRunning {
		return nil, nil
	}

	snap, err := s.program.SaveRollback()
	if err != nil {
		return nil, fmt.Errorf("rollback: save frame %d: %w", s.currentFrame, err)
	}
	s.ring.Save(s.currentFrame, snap)

	inputs := make([]PlayerInput, s.numPlayers)
	for i := 0; i < s.numPlayers; i++ {
		inputs[i] = PlayerInput{Input: s.localInputs[i], Status: StatusConfirmed}
		s.program.SetInput(i, s.localInputs[i])
	}

	if err := s.program.Update(tickSeconds); err != nil {
		return nil, fmt.Errorf("rollback: update frame %d: %w", s.currentFrame, err)
	}
	s.currentFrame++

	return inputs, nil
}

// LoadAndReplay restores the snapshot saved for frame, then replays one
// Update per entry in replayInputs starting at frame — the rollback
// corrective loop: Load(f) followed by Advance(f), Advance(f+1), … up to
// the current frame. Returns an error without mutating the frame counter if
// the requested frame has been overwritten (the ring is smaller than the
// requested rollback distance).
func (s *Session) LoadAndReplay(frame int, tickSeconds float32, replayInputs [][]PlayerInput) error {
	snap, ok := s.ring.Load(frame)
	if !ok {
		return fmt.Errorf("rollback: frame %d is no longer in the snapshot ring (capacity %d)", frame, s.ring.Capacity())
	}
	if err := s.program.LoadRollback(snap); err != nil {
		return fmt.Errorf("rollback: load frame %d: %w", frame, err)
	}

	for i, inputs := range replayInputs {
		replayFrame := frame + i
		replaySnap, err := s.program.SaveRollback()
		if err != nil {
			return fmt.Errorf("rollback: save frame %d during replay: %w", replayFrame, err)
		}
		s.ring.Save(replayFrame, replaySnap)

		for playerIdx, pi := range inputs {
			s.program.SetInput(playerIdx, pi.Input)
		}
		if err := s.program.Update(tickSeconds); err != nil {
			return fmt.Errorf("rollback: replay update frame %d: %w", replayFrame, err)
		}
	}

	s.currentFrame = frame + len(replayInputs)
	return nil
}

// Disconnect transitions the session to Disconnected; no further ticks will
// advance until a new session is created.
func (s *Session) Disconnect() {
	s.state = StateDisconnected
}
