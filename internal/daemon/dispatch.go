// SPDX-License-Identifier: Apache-2.0

package daemon

import (
	"context"
	"sync"
	"time"

	"github.com/automa-saga/logx"
	"github.com/hacksm-project/hacksm/internal/dmapi"
	"github.com/hacksm-project/hacksm/pkg/erx"
)

var fullDisposition = []dmapi.EventType{
	dmapi.EventRead,
	dmapi.EventWrite,
	dmapi.EventTruncate,
	dmapi.EventDestroy,
}

// dispatchBatch walks one fetched batch of messages in order. In the
// fork-per-event debug mode each message is handled on its own goroutine
// instead of an OS fork (Go cannot safely fork mid-process); in-batch
// ordering is explicitly not preserved in that mode.
func (d *Daemon) dispatchBatch(ctx context.Context, msgs []dmapi.Message, recallDelayCeiling time.Duration) {
	if !d.cfg.ForkPerEvent {
		for _, msg := range msgs {
			d.dispatchOne(ctx, msg, recallDelayCeiling)
		}
		return
	}

	var wg sync.WaitGroup
	for _, msg := range msgs {
		msg := msg
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.dispatchOne(ctx, msg, recallDelayCeiling)
		}()
	}
	wg.Wait()
}

// dispatchOne routes a single message to its handler by event type.
func (d *Daemon) dispatchOne(ctx context.Context, msg dmapi.Message, recallDelayCeiling time.Duration) {
	log := logx.As()

	switch msg.Type {
	case dmapi.EventMount:
		d.handleMount(ctx, msg)
	case dmapi.EventRead, dmapi.EventWrite, dmapi.EventTruncate:
		d.handleRecall(ctx, msg, recallDelayCeiling)
	case dmapi.EventDestroy:
		d.handleDestroy(msg)
	default:
		if msg.Token.ID == "" {
			return
		}
		if err := d.session.Respond(msg.Token, dmapi.ResponseContinue, 0); err != nil {
			log.Error().Err(err).Str("handle", msg.Handle.String()).Msg("failed to respond to unknown event")
		}
	}
}

// handleMount registers the full disposition once the filesystem is
// mounted: from this point user I/O on managed files traps. Failing to set
// the disposition or respond to the mount event leaves the daemon unable to
// see or release any future event, so both are fatal.
func (d *Daemon) handleMount(ctx context.Context, msg dmapi.Message) {
	log := logx.As()

	erx.TerminateIfError(ctx, d.session.SetDisposition(fullDisposition), *log)
	erx.TerminateIfError(ctx, d.session.Respond(msg.Token, dmapi.ResponseContinue, 0), *log)
}
