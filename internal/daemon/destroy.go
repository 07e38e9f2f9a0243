// SPDX-License-Identifier: Apache-2.0

package daemon

import (
	"context"

	"golang.org/x/sys/unix"

	"github.com/automa-saga/logx"
	"github.com/hacksm-project/hacksm/internal/dmapi"
	"github.com/hacksm-project/hacksm/internal/state"
)

// handleDestroy implements the destroy handler: a managed file is being
// removed, so its attribute and store object (if any) no longer mean
// anything and are dropped. A sentinel or invalid token means there is
// nothing to respond to.
func (d *Daemon) handleDestroy(msg dmapi.Message) {
	log := logx.As()
	handle := msg.Handle

	if msg.Token.ID == "" {
		return
	}

	respond := func(code dmapi.ResponseCode, errno int) {
		if err := d.session.Respond(msg.Token, code, errno); err != nil {
			log.Error().Err(err).Str("handle", handle.String()).Msg("failed to respond to destroy event")
		}
	}

	if d.session.CurrentRight(handle) != dmapi.RightExclusive {
		if err := d.session.RequestRight(context.Background(), handle, dmapi.RightExclusive, true); err != nil {
			log.Error().Err(err).Str("handle", handle.String()).Msg("failed to acquire right for destroy")
			respond(dmapi.ResponseAbort, int(unix.EIO))
			return
		}
	}

	raw, exists, err := d.session.GetAttr(handle)
	if err != nil {
		log.Error().Err(err).Str("handle", handle.String()).Msg("failed to read attribute for destroy")
		respond(dmapi.ResponseAbort, int(unix.EIO))
		return
	}
	if !exists {
		respond(dmapi.ResponseContinue, 0)
		return
	}

	attr, err := state.Unmarshal(raw)
	if err != nil {
		log.Warn().Err(err).Str("handle", handle.String()).Msg("corrupt attribute on destroy, removing anyway")
	} else {
		// DESTROY tears an attribute down from any state, so a
		// failed check is logged, not fatal: the file is gone either way.
		if err := state.CheckTransition(attr.State, state.StateResident, state.ActorDaemon); err != nil {
			log.Warn().Err(err).Str("handle", handle.String()).Msg("unexpected state on destroy, removing anyway")
		}
		if err := d.store.Remove(attr.Device, attr.Inode); err != nil {
			log.Warn().Err(err).Str("handle", handle.String()).Msg("failed to unlink store object on destroy")
		}
	}

	if err := d.session.RemoveAttr(handle); err != nil {
		log.Error().Err(err).Str("handle", handle.String()).Msg("failed to remove attribute on destroy")
	}

	if err := d.session.ClearManagedRegion(handle); err != nil {
		log.Error().Err(err).Str("handle", handle.String()).Msg("failed to clear managed region on destroy")
	}

	respond(dmapi.ResponseContinue, 0)
}
