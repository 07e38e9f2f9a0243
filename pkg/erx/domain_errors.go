// SPDX-License-Identifier: Apache-2.0

package erx

import (
	"fmt"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/errbase"
)

// TransportError wraps a failure in the provider transport (the simulated kernel event channel, the
// xattr syscalls standing in for a DM attribute get/set, or the advisory lock standing in for a right).
// Callers retry-then-reinitialize the session on this error, matching a lost DMAPI connection.
type TransportError struct {
	cause error
	op    string
}

func NewTransportError(cause error, op string) error {
	return &TransportError{cause: cause, op: op}
}

func (e *TransportError) Op() string { return e.op }

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %q", e.op)
}

func (e *TransportError) SafeDetails() []string { return []string{e.op} }
func (e *TransportError) Unwrap() error         { return e.cause }
func (e *TransportError) Cause() error          { return e.cause }
func (e *TransportError) Is(target error) bool  { return reflect.TypeOf(target) == reflect.TypeOf(e) }
func (e *TransportError) Format(f fmt.State, verb rune) {
	errors.FormatError(e, f, verb)
}
func (e *TransportError) FormatError(p errbase.Printer) error {
	if p.Detail() {
		p.Print(e.Error())
	}
	return e.cause
}

// ProtocolError indicates the on-disk hacksm attribute failed to decode (bad magic, truncated length) or a
// component observed a state transition the state machine does not allow. This is always a
// fail-loud condition; nothing retries it.
type ProtocolError struct {
	reason string
}

func NewProtocolError(reason string) error {
	return &ProtocolError{reason: reason}
}

func (e *ProtocolError) Reason() string { return e.reason }
func (e *ProtocolError) Error() string  { return fmt.Sprintf("protocol error: %s", e.reason) }

func (e *ProtocolError) SafeDetails() []string { return []string{e.reason} }
func (e *ProtocolError) Unwrap() error         { return nil }
func (e *ProtocolError) Cause() error          { return nil }
func (e *ProtocolError) Is(target error) bool  { return reflect.TypeOf(target) == reflect.TypeOf(e) }
func (e *ProtocolError) Format(f fmt.State, verb rune) {
	errors.FormatError(e, f, verb)
}
func (e *ProtocolError) FormatError(p errbase.Printer) error {
	if p.Detail() {
		p.Print(e.Error())
	}
	return nil
}

// StoreIOError wraps a content-store read/write/link/unlink failure. The migrator unlinks and aborts on
// this error; the daemon's recall handler responds ABORT with EIO, which closes the token.
type StoreIOError struct {
	cause error
	path  string
}

func NewStoreIOError(cause error, path string) error {
	return &StoreIOError{cause: cause, path: path}
}

func (e *StoreIOError) Path() string { return e.path }
func (e *StoreIOError) Error() string {
	return fmt.Sprintf("store I/O error on %q", e.path)
}

func (e *StoreIOError) SafeDetails() []string { return []string{e.path} }
func (e *StoreIOError) Unwrap() error         { return e.cause }
func (e *StoreIOError) Cause() error          { return e.cause }
func (e *StoreIOError) Is(target error) bool  { return reflect.TypeOf(target) == reflect.TypeOf(e) }
func (e *StoreIOError) Format(f fmt.State, verb rune) {
	errors.FormatError(e, f, verb)
}
func (e *StoreIOError) FormatError(p errbase.Printer) error {
	if p.Detail() {
		p.Print(e.Error())
	}
	return e.cause
}

// RightsContentionError is raised when a right cannot be acquired immediately. It is documented as a
// non-error wait path: callers that see it are expected to back off and retry rather than abort.
type RightsContentionError struct {
	handle string
}

func NewRightsContentionError(handle string) error {
	return &RightsContentionError{handle: handle}
}

func (e *RightsContentionError) Handle() string { return e.handle }
func (e *RightsContentionError) Error() string {
	return fmt.Sprintf("right contended for handle %q", e.handle)
}

func (e *RightsContentionError) SafeDetails() []string { return []string{e.handle} }
func (e *RightsContentionError) Unwrap() error         { return nil }
func (e *RightsContentionError) Cause() error          { return nil }
func (e *RightsContentionError) Is(target error) bool {
	return reflect.TypeOf(target) == reflect.TypeOf(e)
}
func (e *RightsContentionError) Format(f fmt.State, verb rune) {
	errors.FormatError(e, f, verb)
}
func (e *RightsContentionError) FormatError(p errbase.Printer) error {
	if p.Detail() {
		p.Print(e.Error())
	}
	return nil
}
