// SPDX-License-Identifier: Apache-2.0

package state

import (
	"encoding/binary"
	"time"
)

// AttrName is the DM attribute name the attribute below is persisted under.
const AttrName = "hacksm"

// magic tags every attribute written by this implementation. An attribute
// read back with any other value is a protocol error.
const magic = "HSM1"

const attrSize = 4 + 8 + 8 + 8 + 8 + 4

// State is a file's position in the migrate/recall state machine.
// Zero value (StateResident) never appears on disk: RESIDENT is the
// absence of an attribute, not a persisted value.
type State uint32

const (
	StateResident State = iota
	StateStart
	StateMigrated
	StateRecall
)

func (s State) String() string {
	switch s {
	case StateResident:
		return "RESIDENT"
	case StateStart:
		return "START"
	case StateMigrated:
		return "MIGRATED"
	case StateRecall:
		return "RECALL"
	default:
		return "UNKNOWN"
	}
}

// WireCode reports the numeric state code external consumers see
// (0=START, 1=MIGRATED, 2=RECALL), the same codes hacksm-ls prints.
// It is deliberately not uint32(s):
// this type's zero value is StateResident, an in-memory sentinel for "no
// attribute" that is never itself persisted or displayed.
func (s State) WireCode() uint32 {
	switch s {
	case StateStart:
		return 0
	case StateMigrated:
		return 1
	case StateRecall:
		return 2
	default:
		return 0
	}
}

// Attribute is the persisted DM attribute: a fixed
// 40-byte little-endian record carrying the original file's identity, size,
// migration timestamp and current state.
type Attribute struct {
	MigrateTime time.Time
	Size        int64
	Device      uint64
	Inode       uint64
	State       State
}

// Marshal encodes the attribute into its on-disk byte layout.
func (a Attribute) Marshal() []byte {
	buf := make([]byte, attrSize)
	copy(buf[0:4], magic)
	binary.LittleEndian.PutUint64(buf[4:12], uint64(a.MigrateTime.Unix()))
	binary.LittleEndian.PutUint64(buf[12:20], uint64(a.Size))
	binary.LittleEndian.PutUint64(buf[20:28], a.Device)
	binary.LittleEndian.PutUint64(buf[28:36], a.Inode)
	binary.LittleEndian.PutUint32(buf[36:40], uint32(a.State))
	return buf
}

// Unmarshal decodes a byte layout previously produced by Marshal.
// A bad magic or a short buffer is a protocol error: an attribute with wrong
// magic is rejected, never repaired.
func Unmarshal(buf []byte) (Attribute, error) {
	if len(buf) != attrSize {
		return Attribute{}, ErrProtocol.New("attribute has wrong length: got %d want %d", len(buf), attrSize)
	}
	if string(buf[0:4]) != magic {
		return Attribute{}, ErrProtocol.New("attribute has bad magic: %q", buf[0:4])
	}

	a := Attribute{
		MigrateTime: time.Unix(int64(binary.LittleEndian.Uint64(buf[4:12])), 0),
		Size:        int64(binary.LittleEndian.Uint64(buf[12:20])),
		Device:      binary.LittleEndian.Uint64(buf[20:28]),
		Inode:       binary.LittleEndian.Uint64(buf[28:36]),
		State:       State(binary.LittleEndian.Uint32(buf[36:40])),
	}

	switch a.State {
	case StateStart, StateMigrated, StateRecall:
	default:
		return Attribute{}, ErrProtocol.New("attribute has unexpected state: %d", a.State)
	}

	return a, nil
}
