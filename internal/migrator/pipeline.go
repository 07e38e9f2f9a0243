// SPDX-License-Identifier: Apache-2.0

package migrator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/automa-saga/automa"
	"github.com/hacksm-project/hacksm/internal/dmapi"
	"github.com/hacksm-project/hacksm/internal/state"
)

// stepCopyToStore implements steps 6-7: stream the file's content into a
// fresh store object via invisible reads, then fsync and close it. On any
// failure the partial store object is removed.
func (m *Migrator) stepCopyToStore(handle dmapi.Handle) automa.Builder {
	return automa.NewStepBuilder().WithId("copy-to-store").
		WithExecute(func(_ context.Context, stp automa.Step) *automa.Report {
			obj, err := m.store.Open(handle.Device, handle.Inode, false)
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			buf := make([]byte, readChunkSize)
			var offset int64
			for {
				n, readErr := m.session.InvisibleRead(handle, buf, offset)
				if n > 0 {
					if _, writeErr := obj.Write(buf[:n]); writeErr != nil {
						_ = obj.Close()
						_ = m.store.Remove(handle.Device, handle.Inode)
						return automa.FailureReport(stp, automa.WithError(writeErr))
					}
					offset += int64(n)
				}
				if readErr == io.EOF {
					break
				}
				if readErr != nil {
					_ = obj.Close()
					_ = m.store.Remove(handle.Device, handle.Inode)
					return automa.FailureReport(stp, automa.WithError(readErr))
				}
			}

			if err := obj.Close(); err != nil {
				_ = m.store.Remove(handle.Device, handle.Inode)
				return automa.FailureReport(stp, automa.WithError(err))
			}

			return automa.SuccessReport(stp)
		}).
		WithRollback(func(_ context.Context, stp automa.Step) *automa.Report {
			if err := m.store.Remove(handle.Device, handle.Inode); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			return automa.SuccessReport(stp)
		})
}

// stepQuiesce implements the step-8 quiescence gap: a short sleep giving
// any in-flight user read a chance to settle before a managed region goes
// up. Nothing is committed, so rollback is a no-op.
func (m *Migrator) stepQuiesce() automa.Builder {
	return automa.NewStepBuilder().WithId("quiesce").
		WithExecute(func(_ context.Context, stp automa.Step) *automa.Report {
			time.Sleep(m.quiescenceDelay)
			return automa.SuccessReport(stp)
		}).
		WithRollback(func(_ context.Context, stp automa.Step) *automa.Report {
			return automa.SkippedReport(stp, automa.WithDetail("nothing to undo"))
		})
}

// stepUpgradeExclusive implements step 9.
func (m *Migrator) stepUpgradeExclusive(handle dmapi.Handle) automa.Builder {
	return automa.NewStepBuilder().WithId("upgrade-exclusive").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			if err := m.session.UpgradeRight(ctx, handle, dmapi.RightExclusive); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			return automa.SuccessReport(stp)
		}).
		WithRollback(func(_ context.Context, stp automa.Step) *automa.Report {
			if err := m.session.DowngradeRight(handle, dmapi.RightShared); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			return automa.SuccessReport(stp)
		})
}

// stepWriteStartAttribute implements step 10, gated by the transition
// table: fromState -> START must be a migrator-driven transition the table
// allows before the attribute is committed.
func (m *Migrator) stepWriteStartAttribute(handle dmapi.Handle, size int64, fromState state.State) automa.Builder {
	return automa.NewStepBuilder().WithId("write-start-attribute").
		WithExecute(func(_ context.Context, stp automa.Step) *automa.Report {
			if err := state.CheckTransition(fromState, state.StateStart, state.ActorMigrate); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			attr := state.Attribute{
				MigrateTime: time.Now(),
				Size:        size,
				Device:      handle.Device,
				Inode:       handle.Inode,
				State:       state.StateStart,
			}
			if err := m.session.SetAttr(handle, attr.Marshal()); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			return automa.SuccessReport(stp)
		}).
		WithRollback(func(_ context.Context, stp automa.Step) *automa.Report {
			if err := m.session.RemoveAttr(handle); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			return automa.SuccessReport(stp)
		})
}

// stepInstallRegion implements step 11: the single whole-file managed
// region (zero length is this system's "whole file" convention).
func (m *Migrator) stepInstallRegion(handle dmapi.Handle) automa.Builder {
	return automa.NewStepBuilder().WithId("install-region").
		WithExecute(func(_ context.Context, stp automa.Step) *automa.Report {
			region := dmapi.ManagedRegion{Offset: 0, Length: 0, Read: true, Write: true}
			if err := m.session.SetManagedRegion(handle, region); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			return automa.SuccessReport(stp)
		}).
		WithRollback(func(_ context.Context, stp automa.Step) *automa.Report {
			if err := m.session.ClearManagedRegion(handle); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			return automa.SuccessReport(stp)
		})
}

// stepRequiesce implements step 12's optional downgrade-wait-upgrade dance,
// gated by QuiescenceRecheck. Disabled, it is a pass-through.
func (m *Migrator) stepRequiesce(handle dmapi.Handle) automa.Builder {
	return automa.NewStepBuilder().WithId("requiesce").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			if !m.quiescenceRecheck {
				return automa.SkippedReport(stp, automa.WithDetail("quiescence recheck disabled"))
			}
			if err := m.session.DowngradeRight(handle, dmapi.RightShared); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			time.Sleep(m.quiescenceDelay)
			if err := m.session.UpgradeRight(ctx, handle, dmapi.RightExclusive); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			return automa.SuccessReport(stp)
		}).
		WithRollback(func(_ context.Context, stp automa.Step) *automa.Report {
			return automa.SkippedReport(stp, automa.WithDetail("nothing to undo"))
		})
}

// stepVerifyStart implements step 13: a gate, not a commit. Its failure
// unwinds every prior step via the workflow's rollback chain, which is what
// leaves no partial state behind when a racing daemon recall has already
// taken the file over.
func (m *Migrator) stepVerifyStart(handle dmapi.Handle) automa.Builder {
	return automa.NewStepBuilder().WithId("verify-start").
		WithExecute(func(_ context.Context, stp automa.Step) *automa.Report {
			raw, exists, err := m.session.GetAttr(handle)
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			if !exists {
				return automa.FailureReport(stp, automa.WithError(
					fmt.Errorf("attribute disappeared before migrate could commit on %s", handle)))
			}

			attr, err := state.Unmarshal(raw)
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			if attr.State != state.StateStart {
				return automa.FailureReport(stp, automa.WithError(
					fmt.Errorf("attribute state changed to %s before migrate could commit on %s", attr.State, handle)))
			}

			return automa.SuccessReport(stp)
		}).
		WithRollback(func(_ context.Context, stp automa.Step) *automa.Report {
			return automa.SkippedReport(stp, automa.WithDetail("gate step, nothing to undo"))
		})
}

// stepFinalize implements steps 14-15: punch the hole and flip the
// attribute to MIGRATED. Once the hole is punched the store object is the
// only surviving copy of the data, so a failure here is not unwound the way
// earlier steps are, since that would discard the only copy.
func (m *Migrator) stepFinalize(handle dmapi.Handle, size int64) automa.Builder {
	return automa.NewStepBuilder().WithId("finalize").
		WithExecute(func(_ context.Context, stp automa.Step) *automa.Report {
			if err := state.CheckTransition(state.StateStart, state.StateMigrated, state.ActorMigrate); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			if err := m.session.PunchHole(handle, 0, size); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			attr := state.Attribute{
				MigrateTime: time.Now(),
				Size:        size,
				Device:      handle.Device,
				Inode:       handle.Inode,
				State:       state.StateMigrated,
			}
			if err := m.session.SetAttr(handle, attr.Marshal()); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			return automa.SuccessReport(stp)
		}).
		WithRollback(func(_ context.Context, stp automa.Step) *automa.Report {
			return automa.SkippedReport(stp, automa.WithDetail("data already punched, not reversible"))
		})
}
