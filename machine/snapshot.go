package machine

import (
	"fmt"
	"slices"

	"github.com/fxamacker/cbor/v2"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("machine: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Snapshot is the register and memory state of an Engine.
type Snapshot struct {
	Acc    int32   `cbor:"acc"`
	Ip     uint    `cbor:"ip"`
	Ticks  int     `cbor:"ticks"`
	State  State   `cbor:"state"`
	Memory []int32 `cbor:"memory"`
}

// Marshal serializes the snapshot to CBOR.
func (snap *Snapshot) Marshal() ([]byte, error) {
	return cborEncMode.Marshal(snap)
}

// UnmarshalSnapshot deserializes a snapshot from CBOR.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("machine: unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Snapshot captures the current engine state.
func (eng *Engine) Snapshot() *Snapshot {
	return &Snapshot{
		Acc:    eng.Acc,
		Ip:     eng.Ip,
		Ticks:  eng.Ticks,
		State:  eng.state,
		Memory: slices.Clone(eng.Memory),
	}
}

// Restore replaces the engine state with a snapshot. The snapshot must
// have the same memory size, an instruction pointer within the program,
// and may not be of a failed engine.
func (eng *Engine) Restore(snap *Snapshot) (err error) {
	if len(snap.Memory) != len(eng.Memory) {
		err = ErrSnapshotSize
		return
	}

	if snap.Ip > uint(len(eng.program)) {
		err = ErrSnapshotIp
		return
	}

	if snap.Ticks < 0 {
		err = ErrSnapshotState
		return
	}

	switch snap.State {
	case STATE_RUNNING, STATE_HALTED:
	default:
		err = ErrSnapshotState
		return
	}

	eng.Acc = snap.Acc
	eng.Ip = snap.Ip
	eng.Ticks = snap.Ticks
	eng.state = snap.State
	eng.err = nil
	copy(eng.Memory, snap.Memory)

	return
}
