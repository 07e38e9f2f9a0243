// SPDX-License-Identifier: Apache-2.0

// Package migrator implements the user-facing migrate operation: copy a
// resident file's content into the store, mark it migrated, and punch the
// hole that frees its data blocks.
package migrator

import (
	"context"
	"os"
	"time"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"
	"github.com/hacksm-project/hacksm/internal/dmapi"
	"github.com/hacksm-project/hacksm/internal/state"
	"github.com/hacksm-project/hacksm/internal/store"
	"github.com/hacksm-project/hacksm/pkg/erx"
)

// Outcome is the result of migrating a single path.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeSkip
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeSkip:
		return "skip"
	default:
		return "error"
	}
}

// readChunkSize is the page-sized unit step 6 streams content in.
const readChunkSize = 4096

// Migrator drives migrate(path) against a single session and store.
type Migrator struct {
	session dmapi.Session
	store   *store.Store

	quiescenceDelay   time.Duration
	antiThrashWindow  time.Duration
	quiescenceRecheck bool
}

// New returns a Migrator. quiescenceDelay is the step-8/12 sleep,
// antiThrashWindow is the step-4 "recently started" threshold, and
// quiescenceRecheck gates whether step 12's downgrade-wait-upgrade dance
// runs at all.
func New(session dmapi.Session, st *store.Store, quiescenceDelay, antiThrashWindow time.Duration, quiescenceRecheck bool) *Migrator {
	return &Migrator{
		session:           session,
		store:             st,
		quiescenceDelay:   quiescenceDelay,
		antiThrashWindow:  antiThrashWindow,
		quiescenceRecheck: quiescenceRecheck,
	}
}

// Migrate runs the full migrate(path) procedure described by the state
// machine's step sequence, closing its event token on every exit path.
func (m *Migrator) Migrate(ctx context.Context, path string) (Outcome, error) {
	log := logx.As()

	// Step 1: resolve path to a handle.
	handle, size, err := m.session.Stat(path)
	if err != nil {
		return OutcomeError, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return OutcomeError, erx.NewStoreIOError(err, path)
	}
	if !info.Mode().IsRegular() || size == 0 {
		return OutcomeSkip, nil
	}

	// Step 2: a fresh, user-originated token scopes every following right
	// and must be responded to before returning.
	token, err := m.session.NewToken(dmapi.EventWrite, handle)
	if err != nil {
		return OutcomeError, err
	}
	defer func() {
		if respErr := m.session.Respond(token, dmapi.ResponseContinue, 0); respErr != nil {
			log.Error().Err(respErr).Str("path", path).Msg("failed to respond to migrate token")
		}
	}()

	// Step 3: EXCLUSIVE first to serialize against any racing migrator or
	// in-flight recall, then downgrade to SHARED so legitimate reads can
	// proceed during the copy.
	if err := m.session.RequestRight(ctx, handle, dmapi.RightExclusive, true); err != nil {
		return OutcomeError, err
	}
	defer func() { _ = m.session.ReleaseRight(handle) }()

	if err := m.session.DowngradeRight(handle, dmapi.RightShared); err != nil {
		return OutcomeError, err
	}

	// Step 4: attribute policy.
	outcome, fromState, err := m.applyAttributePolicy(handle)
	if outcome != OutcomeOK || err != nil {
		return outcome, err
	}

	// Step 5 (re-stat already folded into the handle/size resolved above;
	// the attribute policy may have changed the store object, not the file).

	return m.runPipeline(ctx, handle, size, fromState)
}

// applyAttributePolicy implements step 4's branching on the current
// attribute, if any. The returned State is the state write-start-attribute
// commits from: StateResident for a fresh migrate, StateStart for a stale
// START being resumed.
func (m *Migrator) applyAttributePolicy(handle dmapi.Handle) (Outcome, state.State, error) {
	raw, exists, err := m.session.GetAttr(handle)
	if err != nil {
		return OutcomeError, state.StateResident, err
	}
	if !exists {
		return OutcomeOK, state.StateResident, nil
	}

	attr, err := state.Unmarshal(raw)
	if err != nil {
		return OutcomeError, state.StateResident, err
	}

	switch attr.State {
	case state.StateStart:
		if time.Since(attr.MigrateTime) < m.antiThrashWindow {
			return OutcomeSkip, attr.State, nil
		}
		// Stale START: the prior migrator died. Discard its half-finished
		// store object and proceed as if this were a fresh migration.
		if err := m.store.Remove(attr.Device, attr.Inode); err != nil {
			return OutcomeError, attr.State, err
		}
		return OutcomeOK, state.StateStart, nil
	case state.StateMigrated, state.StateRecall:
		return OutcomeSkip, attr.State, nil
	default:
		return OutcomeOK, state.StateResident, nil
	}
}

// runPipeline executes steps 6-15 as a saga: any step failure unwinds every
// step that already committed, in reverse order, before returning. fromState
// is the state the transition table requires write-start-attribute to commit from
// (RESIDENT for a fresh migrate, START for a resumed stale one); it gates
// that step through state.CheckTransition.
func (m *Migrator) runPipeline(ctx context.Context, handle dmapi.Handle, size int64, fromState state.State) (Outcome, error) {
	log := logx.As()

	wb := automa.NewWorkflowBuilder().
		WithId("migrate-" + handle.String()).
		WithExecutionMode(automa.RollbackOnError).
		Steps(
			m.stepCopyToStore(handle),
			m.stepQuiesce(),
			m.stepUpgradeExclusive(handle),
			m.stepWriteStartAttribute(handle, size, fromState),
			m.stepInstallRegion(handle),
			m.stepRequiesce(handle),
			m.stepVerifyStart(handle),
			m.stepFinalize(handle, size),
		)

	wf, err := wb.Build()
	if err != nil {
		return OutcomeError, erx.NewProtocolError("failed to build migrate pipeline: " + err.Error())
	}

	report := wf.Execute(ctx)
	if report != nil && report.Error != nil {
		log.Warn().Err(report.Error).Str("path", handle.Path).Msg("migrate pipeline aborted")
		return OutcomeError, report.Error
	}

	return OutcomeOK, nil
}

// Cleanup responds CONTINUE/0 to every token left outstanding on the
// migrator's session by a crashed prior run.
func (m *Migrator) Cleanup() error {
	tokens, err := m.session.OutstandingTokens()
	if err != nil {
		return err
	}

	for _, token := range tokens {
		if err := m.session.Respond(token, dmapi.ResponseContinue, 0); err != nil {
			return err
		}
	}
	return nil
}
