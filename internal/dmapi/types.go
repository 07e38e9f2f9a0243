// SPDX-License-Identifier: Apache-2.0

// Package dmapi defines the data-management primitives the rest of the
// module builds on: sessions, tokens, rights, managed regions, and data
// events. The real Data Management API is a deprecated, filesystem-specific
// kernel facility with no Go binding; Provider is the seam that lets every
// caller here be written against the real protocol while only a simulated
// implementation (simprovider) is shipped.
package dmapi

import "fmt"

// Right is a time-bounded access claim on a file handle.
type Right int

const (
	RightNone Right = iota
	RightShared
	RightExclusive
)

func (r Right) String() string {
	switch r {
	case RightShared:
		return "SHARED"
	case RightExclusive:
		return "EXCLUSIVE"
	default:
		return "NONE"
	}
}

// EventType is the kind of data event delivered to the daemon, or
// synthesized locally by the migrator for its own user-originated token.
type EventType int

const (
	EventMount EventType = iota
	EventRead
	EventWrite
	EventTruncate
	EventDestroy
)

func (t EventType) String() string {
	switch t {
	case EventMount:
		return "MOUNT"
	case EventRead:
		return "READ"
	case EventWrite:
		return "WRITE"
	case EventTruncate:
		return "TRUNCATE"
	case EventDestroy:
		return "DESTROY"
	default:
		return "UNKNOWN"
	}
}

// Handle identifies the managed file an operation targets. It stands in for
// the source's raw typed pointer-with-length DMAPI handle: an owned,
// self-contained value instead of a borrowed buffer.
type Handle struct {
	Path   string
	Device uint64
	Inode  uint64
}

func (h Handle) String() string {
	return fmt.Sprintf("0x%x:0x%x(%s)", h.Device, h.Inode, h.Path)
}

// ManagedRegion marks a file so matching accesses trap to the daemon as
// events. A zero Length means "whole file", the only shape this system uses.
type ManagedRegion struct {
	Offset uint64
	Length uint64
	Read   bool
	Write  bool
}

// ResponseCode is what a handler tells the kernel to do with the trapped
// syscall once the token is closed.
type ResponseCode int

const (
	// ResponseContinue lets the original syscall retry against now-current data.
	ResponseContinue ResponseCode = iota
	// ResponseAbort returns Errno to the caller instead of retrying.
	ResponseAbort
)

// Response is what Respond eventually delivers to anyone blocked in Trap.
type Response struct {
	Code  ResponseCode
	Errno int
}

// Token is the lifetime handle of one event interaction. It must be closed
// by exactly one Respond call on every exit path.
type Token struct {
	ID string
}

func (t Token) String() string { return t.ID }

// Message is one event delivered from a session's queue: the trapped (or
// synthesized) event type, the handle it concerns, and the token that must
// eventually be responded to.
type Message struct {
	Type   EventType
	Handle Handle
	Token  Token
}
