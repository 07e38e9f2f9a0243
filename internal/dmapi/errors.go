// SPDX-License-Identifier: Apache-2.0

package dmapi

import "github.com/hacksm-project/hacksm/pkg/erx"

// ErrTransport wraps a failure of the provider transport itself: the
// simulated kernel event channel, the xattr syscalls standing in for DM
// attribute get/set, or the advisory lock standing in for a right. Callers
// retry-then-reinitialize the session on this error.
func ErrTransport(cause error, op string) error {
	return erx.NewTransportError(cause, op)
}

// ErrRightsContention is raised when a right cannot be acquired immediately
// and the caller asked not to wait. It is a documented non-error wait path:
// callers back off and retry rather than treat it as a failure.
func ErrRightsContention(handle Handle) error {
	return erx.NewRightsContentionError(handle.String())
}
