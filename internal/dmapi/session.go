// SPDX-License-Identifier: Apache-2.0

package dmapi

//go:generate mockgen -source=session.go -destination=mocks/session_mock.go -package=mocks

import "context"

// Session is a recovered-or-created, named interaction with the data
// management service. Exactly one Session exists per process; its name is
// process-wide state recovered across restarts so a crashed
// process's outstanding tokens can be drained rather than orphaned.
type Session interface {
	Name() string
	Close() error

	// SetDisposition registers which event types this session receives.
	// The daemon calls it once with {Mount} at startup, then again with the
	// full READ/WRITE/TRUNCATE/DESTROY set after observing a MOUNT event.
	SetDisposition(types []EventType) error

	// GetEvents fetches a batch of pending trapped events. blocking selects
	// between the two documented wait modes; a non-blocking call with no
	// pending events returns an empty, non-error slice.
	GetEvents(ctx context.Context, blocking bool) ([]Message, error)

	// Trap simulates a user I/O (or mount) trapping into the kernel: it
	// enqueues a message for GetEvents to return and blocks the caller until
	// a handler calls Respond on the resulting token. Used by callers that
	// stand in for real user I/O against a managed file.
	Trap(ctx context.Context, eventType EventType, handle Handle) (Response, error)

	// NewToken creates a token for a non-blocking, user-originated event;
	// the shape the migrator uses for its own operation. The caller must
	// eventually call Respond; nothing is waiting synchronously.
	NewToken(eventType EventType, handle Handle) (Token, error)

	// Respond closes a token, recording its resolution and, if the token
	// came from Trap, releasing the blocked caller.
	Respond(token Token, code ResponseCode, errno int) error

	// OutstandingTokens lists tokens created but not yet responded to. Used
	// both by `-c` cleanup mode and by daemon-restart recovery.
	OutstandingTokens() ([]Token, error)

	// FindEventMsg returns the original message a still-outstanding token
	// was created for, so daemon recovery can re-dispatch it.
	FindEventMsg(token Token) (Message, bool)

	// RequestRight acquires right on handle, waiting if wait is true and the
	// right is currently held incompatibly by someone else.
	RequestRight(ctx context.Context, handle Handle, right Right, wait bool) error
	// CurrentRight reports the right this session currently holds on handle.
	CurrentRight(handle Handle) Right
	// DowngradeRight lowers a held right (EXCLUSIVE -> SHARED or NONE).
	DowngradeRight(handle Handle, to Right) error
	// UpgradeRight raises a held right, waiting for contending holders to clear.
	UpgradeRight(ctx context.Context, handle Handle, to Right) error
	// ReleaseRight drops any right this session holds on handle.
	ReleaseRight(handle Handle) error

	// GetAttr returns the raw bytes of the hacksm attribute, if present.
	GetAttr(handle Handle) ([]byte, bool, error)
	// SetAttr writes the hacksm attribute.
	SetAttr(handle Handle, value []byte) error
	// RemoveAttr deletes the hacksm attribute.
	RemoveAttr(handle Handle) error

	// SetManagedRegion installs the single whole-file managed region.
	SetManagedRegion(handle Handle, region ManagedRegion) error
	// ClearManagedRegion removes any managed region, letting I/O through again.
	ClearManagedRegion(handle Handle) error
	// HasManagedRegion reports whether handle currently traps user I/O.
	HasManagedRegion(handle Handle) bool

	// InvisibleRead/InvisibleWrite perform I/O bypassing the managed-region
	// trap; only the data manager may call these.
	InvisibleRead(handle Handle, buf []byte, offset int64) (int, error)
	InvisibleWrite(handle Handle, buf []byte, offset int64) (int, error)
	// PunchHole deallocates [offset, offset+length) while keeping the file size.
	PunchHole(handle Handle, offset, length int64) error

	// Stat resolves path to a Handle, capturing its current device/inode/size.
	Stat(path string) (Handle, int64, error)
}

// Provider recovers or creates the single session a process uses for its
// lifetime. See internal/dmapi/simprovider for the one shipped implementation.
type Provider interface {
	RecoverOrCreateSession(ctx context.Context, name string) (Session, error)
}
