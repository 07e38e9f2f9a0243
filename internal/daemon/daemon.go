// SPDX-License-Identifier: Apache-2.0

// Package daemon implements hacksmd: the long-running process that answers
// trapped READ/WRITE/TRUNCATE accesses on migrated files by recalling their
// content, and cleans up attribute/store state when a managed file is
// destroyed.
package daemon

import (
	"context"
	"errors"
	"time"

	"github.com/automa-saga/logx"
	"github.com/hacksm-project/hacksm/internal/dmapi"
	"github.com/hacksm-project/hacksm/internal/store"
	"github.com/hacksm-project/hacksm/pkg/erx"
)

// Config is the subset of the process configuration the daemon needs.
type Config struct {
	SessionName        string
	PollInterval       time.Duration
	NonBlocking        bool
	ForkPerEvent       bool
	RecallDelayCeiling time.Duration
}

// Daemon answers data events on one recovered session.
type Daemon struct {
	session  dmapi.Session
	store    *store.Store
	provider dmapi.Provider
	cfg      Config
}

// Start retries session recovery until the data management service is
// ready, registers for MOUNT only, runs the startup recovery pass over any
// tokens left outstanding by a previous incarnation, and returns a Daemon
// ready for Run.
func Start(ctx context.Context, provider dmapi.Provider, st *store.Store, cfg Config) (*Daemon, error) {
	session, err := recoverOrCreateWithRetry(ctx, provider, cfg.SessionName)
	if err != nil {
		return nil, err
	}

	d := &Daemon{session: session, store: st, provider: provider, cfg: cfg}

	if err := d.session.SetDisposition([]dmapi.EventType{dmapi.EventMount}); err != nil {
		return nil, err
	}

	if err := d.runRecovery(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

// recoverOrCreateWithRetry retries RecoverOrCreateSession, logging only
// when the error changes, to ride out a data management service that is
// still coming up during boot.
func recoverOrCreateWithRetry(ctx context.Context, provider dmapi.Provider, name string) (dmapi.Session, error) {
	log := logx.As()
	const retryInterval = 500 * time.Millisecond

	var lastErr string
	for {
		session, err := provider.RecoverOrCreateSession(ctx, name)
		if err == nil {
			return session, nil
		}

		if msg := err.Error(); msg != lastErr {
			log.Warn().Err(err).Msg("data management service not ready, retrying")
			lastErr = msg
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

// Run is the event loop: fetch a batch of events, dispatch each by type,
// repeat until ctx is canceled. Non-blocking mode polls with a short sleep
// between empty fetches, matching the documented workaround for a
// non-interruptible blocking wait.
func (d *Daemon) Run(ctx context.Context) error {
	log := logx.As()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msgs, err := d.session.GetEvents(ctx, !d.cfg.NonBlocking)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// A stale transport means the data management service restarted
			// underneath us: reinitialize the session and carry on. Anything
			// else is fatal.
			if errors.Is(err, &erx.TransportError{}) && d.provider != nil {
				log.Warn().Err(err).Msg("event transport lost, reinitializing session")
				_ = d.session.Close()
				session, rerr := recoverOrCreateWithRetry(ctx, d.provider, d.cfg.SessionName)
				if rerr != nil {
					return rerr
				}
				d.session = session
				continue
			}
			log.Error().Err(err).Msg("fatal error fetching events")
			return err
		}

		if len(msgs) == 0 {
			if d.cfg.NonBlocking {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(d.cfg.PollInterval):
				}
			}
			continue
		}

		d.dispatchBatch(ctx, msgs, d.cfg.RecallDelayCeiling)
	}
}
