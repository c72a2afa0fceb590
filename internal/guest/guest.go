// Package guest defines the two host-visible memory zones a guest program
// runs against, and the Program interface a guest implementation (normally
// a sandboxed bytecode interpreter; the ISA itself is out of scope here)
// satisfies so the runtime, rollback session, and FFI boundary can all be
// exercised against a small deterministic reference guest.
package guest

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"nethercore/internal/audio"
)

// RollbackState is the host-side rollback-zone state that sits alongside
// the guest's flat linear memory: audio playback/tracker state and a
// deterministic RNG seed plus sample counter. Every field here is a fixed-
// size value (no pointers, no slices), so the whole struct can be snapshot
// by a direct binary encoding.
type RollbackState struct {
	Audio              audio.PlaybackState
	Tracker            audio.TrackerState
	RNGSeed            uint64
	AudioSampleCounter uint64
}

// RollbackZone is everything a rollback snapshot covers: the guest's flat
// linear memory plus RollbackState. Saving and loading are plain byte
// copies — the zone is flat by construction, so no traversal is needed.
type RollbackZone struct {
	Memory []byte
	State  RollbackState
}

// NewRollbackZone allocates a zone with memSize bytes of zeroed guest
// memory.
func NewRollbackZone(memSize int) *RollbackZone {
	return &RollbackZone{Memory: make([]byte, memSize)}
}

// Save serializes the zone into a flat byte snapshot: guest memory followed
// by the binary-encoded RollbackState.
func (z *RollbackZone) Save() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(z.Memory) + binary.Size(z.State))
	buf.Write(z.Memory)
	if err := binary.Write(&buf, binary.LittleEndian, &z.State); err != nil {
		return nil, fmt.Errorf("guest: encode rollback state: %w", err)
	}
	return buf.Bytes(), nil
}

// Load restores the zone from a snapshot produced by Save. The memory
// region is copied in place (the zone's own Memory slice is reused, not
// reallocated) so repeated Load calls during rollback replay do not churn
// the allocator.
func (z *RollbackZone) Load(snapshot []byte) error {
	if len(snapshot) < len(z.Memory) {
		return fmt.Errorf("guest: snapshot too short: have %d bytes, need at least %d", len(snapshot), len(z.Memory))
	}
	copy(z.Memory, snapshot[:len(z.Memory)])
	r := bytes.NewReader(snapshot[len(z.Memory):])
	if err := binary.Read(r, binary.LittleEndian, &z.State); err != nil {
		return fmt.Errorf("guest: decode rollback state: %w", err)
	}
	return nil
}

// SnapshotSize reports the exact byte length Save produces, useful for
// pre-sizing a ring buffer of snapshots.
func (z *RollbackZone) SnapshotSize() int {
	return len(z.Memory) + binary.Size(z.State)
}

// RawInput is the fixed-layout digital/analog input record the host passes
// into a guest's memory-mapped input area once per tick, per player slot.
// Every analog axis is a deadzone-corrected float32 in its natural range
// (-1..1 for sticks, 0..1 for triggers). Deadzone correction happens once,
// on the host side, before the value ever reaches the rollback-visible
// record, so the guest and any replay script see the same precision the
// host computed it at.
type RawInput struct {
	Buttons            uint16  // bitmask of 14 digital buttons
	StickLX, StickLY   float32 // -1..1
	StickRX, StickRY   float32 // -1..1
	TriggerL, TriggerR float32 // 0..1
}

// MaxPlayers is the fixed number of input slots a guest can read from.
const MaxPlayers = 4

// Program is the interface a guest implementation satisfies. SetInput is
// called once per player before Update each tick; Update advances guest
// simulation state by one fixed tick; SaveRollback/LoadRollback delegate to
// the guest's RollbackZone for snapshot/restore.
type Program interface {
	Init() error
	SetInput(playerIdx int, input RawInput)
	Update(tickSeconds float32) error
	Render(frame *FrameContext)

	SaveRollback() ([]byte, error)
	LoadRollback(snapshot []byte) error
}
