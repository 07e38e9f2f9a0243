// SPDX-License-Identifier: Apache-2.0

package state

import "github.com/joomcode/errorx"

var (
	ErrNamespace = errorx.NewNamespace("state")

	// ErrProtocol marks an attribute that failed to decode, or a transition
	// the state machine does not allow. Always fail-loud; nothing retries it.
	ErrProtocol = ErrNamespace.NewType("protocol_error")
)
