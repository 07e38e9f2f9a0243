// SPDX-License-Identifier: Apache-2.0

package daemon

import (
	"context"

	"golang.org/x/sys/unix"

	"github.com/automa-saga/logx"
	"github.com/hacksm-project/hacksm/internal/dmapi"
)

// runRecovery walks the tokens a previous incarnation of this daemon left
// outstanding on the recovered session and re-dispatches each against its
// original message, with the recall delay suppressed. A token whose
// original message can no longer be found is freed with ABORT/EINTR
// instead, since there is nothing left to re-drive.
func (d *Daemon) runRecovery(ctx context.Context) error {
	log := logx.As()

	tokens, err := d.session.OutstandingTokens()
	if err != nil {
		return err
	}

	for _, token := range tokens {
		msg, ok := d.session.FindEventMsg(token)
		if !ok || msg.Token.ID != token.ID {
			log.Warn().Str("token", token.String()).Msg("recovered token has no matching message, freeing")
			if err := d.session.Respond(token, dmapi.ResponseAbort, int(unix.EINTR)); err != nil {
				log.Error().Err(err).Str("token", token.String()).Msg("failed to free unmatched recovered token")
			}
			continue
		}

		log.Info().Str("handle", msg.Handle.String()).Str("type", msg.Type.String()).Msg("re-dispatching recovered event")
		d.dispatchOne(ctx, msg, 0)
	}

	return nil
}
