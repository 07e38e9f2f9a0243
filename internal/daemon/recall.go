// SPDX-License-Identifier: Apache-2.0

package daemon

import (
	"context"
	"io"
	"math/rand"
	"time"

	"golang.org/x/sys/unix"

	"github.com/automa-saga/logx"
	"github.com/hacksm-project/hacksm/internal/dmapi"
	"github.com/hacksm-project/hacksm/internal/state"
)

const recallChunkSize = 64 * 1024

// handleRecall implements the recall handler: stream a migrated file's
// content back from the store and clear the managed region so the
// trapping I/O can be retried by the kernel against resident data.
// delayCeiling bounds an optional randomized delay used only for testing
// latency; recovery re-dispatch passes zero to suppress it.
func (d *Daemon) handleRecall(ctx context.Context, msg dmapi.Message, delayCeiling time.Duration) {
	log := logx.As()
	handle := msg.Handle

	respond := func(code dmapi.ResponseCode, errno int) {
		if err := d.session.Respond(msg.Token, code, errno); err != nil {
			log.Error().Err(err).Str("handle", handle.String()).Msg("failed to respond to recall event")
		}
	}

	// Step 1: ensure EXCLUSIVE.
	if d.session.CurrentRight(handle) != dmapi.RightExclusive {
		if err := d.session.RequestRight(ctx, handle, dmapi.RightExclusive, true); err != nil {
			log.Error().Err(err).Str("handle", handle.String()).Msg("failed to acquire right for recall")
			respond(dmapi.ResponseAbort, int(unix.EIO))
			return
		}
	}

	// Step 2: read the attribute.
	raw, exists, err := d.session.GetAttr(handle)
	if err != nil {
		log.Error().Err(err).Str("handle", handle.String()).Msg("failed to read attribute for recall")
		respond(dmapi.ResponseAbort, int(unix.EIO))
		return
	}
	if !exists {
		// Already recalled by a peer handler.
		respond(dmapi.ResponseContinue, 0)
		return
	}

	attr, err := state.Unmarshal(raw)
	if err != nil {
		log.Error().Err(err).Str("handle", handle.String()).Msg("corrupt attribute, aborting recall")
		respond(dmapi.ResponseAbort, int(unix.EIO))
		return
	}

	// Step 3: mark in progress. Gated by the transition table: a
	// trapped access only recalls a MIGRATED file, or re-enters an already
	// in-progress RECALL left by a daemon that died mid-recall.
	if err := state.CheckTransition(attr.State, state.StateRecall, state.ActorDaemon); err != nil {
		log.Error().Err(err).Str("handle", handle.String()).Msg("illegal state for recall")
		respond(dmapi.ResponseAbort, int(unix.EIO))
		return
	}
	attr.State = state.StateRecall
	if err := d.session.SetAttr(handle, attr.Marshal()); err != nil {
		log.Error().Err(err).Str("handle", handle.String()).Msg("failed to mark attribute RECALL")
		respond(dmapi.ResponseAbort, int(unix.EIO))
		return
	}

	// Step 4: open the store object.
	obj, err := d.store.Open(attr.Device, attr.Inode, true)
	if err != nil {
		log.Error().Err(err).Str("handle", handle.String()).Msg("store object missing, cannot recall")
		respond(dmapi.ResponseAbort, int(unix.EIO))
		return
	}

	// Step 5: optional randomized delay, for testing only.
	if delayCeiling > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(delayCeiling))))
	}

	// Step 6: stream store -> file via invisible writes.
	buf := make([]byte, recallChunkSize)
	var offset int64
	for {
		n, readErr := obj.Read(buf)
		if n > 0 {
			if _, writeErr := d.session.InvisibleWrite(handle, buf[:n], offset); writeErr != nil {
				_ = obj.Close()
				log.Error().Err(writeErr).Str("handle", handle.String()).Msg("failed to write recalled content")
				respond(dmapi.ResponseAbort, int(unix.EIO))
				return
			}
			offset += int64(n)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = obj.Close()
			log.Error().Err(readErr).Str("handle", handle.String()).Msg("failed to read store object for recall")
			respond(dmapi.ResponseAbort, int(unix.EIO))
			return
		}
	}
	_ = obj.Close()

	// Step 7: remove the attribute.
	if err := d.session.RemoveAttr(handle); err != nil {
		log.Error().Err(err).Str("handle", handle.String()).Msg("failed to remove attribute after recall")
		respond(dmapi.ResponseAbort, int(unix.EIO))
		return
	}

	// Step 8: unlink the store object. Non-fatal.
	if err := d.store.Remove(attr.Device, attr.Inode); err != nil {
		log.Warn().Err(err).Str("handle", handle.String()).Msg("failed to unlink store object after recall")
	}

	// Step 9: clear the managed region.
	if err := d.session.ClearManagedRegion(handle); err != nil {
		log.Error().Err(err).Str("handle", handle.String()).Msg("failed to clear managed region after recall")
	}

	// Step 10: let the trapping I/O retry against resident data.
	respond(dmapi.ResponseContinue, 0)
}
