//go:build integration

// SPDX-License-Identifier: Apache-2.0

package daemon

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hacksm-project/hacksm/internal/dmapi"
	"github.com/hacksm-project/hacksm/internal/dmapi/simprovider"
	"github.com/hacksm-project/hacksm/internal/lister"
	"github.com/hacksm-project/hacksm/internal/migrator"
	"github.com/hacksm-project/hacksm/internal/state"
	"github.com/hacksm-project/hacksm/internal/store"
	"github.com/hacksm-project/hacksm/pkg/fsx"
	"github.com/stretchr/testify/require"
)

// End-to-end drills over the full migrate/recall protocol, driving the real
// migrator against the same store and lock directory the daemon recalls
// from. Each test is one of the crash/restart scenarios the protocol must
// survive.

type e2eFixture struct {
	fsMgr    fsx.Manager
	provider *simprovider.Provider
	store    *store.Store
	workDir  string
	msess    dmapi.Session
	migrator *migrator.Migrator
}

func newE2EFixture(t *testing.T) *e2eFixture {
	t.Helper()
	req := require.New(t)

	fsMgr, err := fsx.NewManager()
	req.NoError(err)

	workDir := t.TempDir()
	p, err := simprovider.NewProvider(workDir, fsMgr)
	req.NoError(err)

	st, err := store.New(t.TempDir())
	req.NoError(err)

	msess, err := p.RecoverOrCreateSession(context.Background(), "hacksm_migrate")
	req.NoError(err)

	return &e2eFixture{
		fsMgr:    fsMgr,
		provider: p,
		store:    st,
		workDir:  workDir,
		msess:    msess,
		migrator: migrator.New(msess, st, time.Millisecond, time.Minute, true),
	}
}

func (f *e2eFixture) writeFile(t *testing.T, name string, content []byte) (string, dmapi.Handle) {
	t.Helper()
	req := require.New(t)

	path := filepath.Join(t.TempDir(), name)
	req.NoError(os.WriteFile(path, content, 0644))

	handle, _, err := f.msess.Stat(path)
	req.NoError(err)
	return path, handle
}

// patternedContent is deterministic non-repeating filler so a short write or
// a chunk delivered at the wrong offset shows up as a content mismatch.
func patternedContent(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i*7 + i>>8)
	}
	return buf
}

func TestEndToEnd_MigrateThenReadRoundTrip(t *testing.T) {
	req := require.New(t)
	f := newE2EFixture(t)

	content := []byte("hello")
	path, handle := f.writeFile(t, "A", content)

	outcome, err := f.migrator.Migrate(context.Background(), path)
	req.NoError(err)
	req.Equal(migrator.OutcomeOK, outcome)

	entries, err := lister.New(f.fsMgr).List([]string{path}, io.Discard)
	req.NoError(err)
	req.Len(entries, 1)
	req.Equal("m 5 1 "+path, entries[0].Format())

	d, dsess := newTestDaemon(t, f.workDir, f.store)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- d.Run(runCtx) }()

	// A user read traps in the kernel; the daemon recalls and responds
	// CONTINUE so the kernel retries it against now-resident data.
	resp, err := dsess.Trap(context.Background(), dmapi.EventRead, handle)
	req.NoError(err)
	req.Equal(dmapi.ResponseContinue, resp.Code)

	cancel()
	req.NoError(<-done)

	got, err := os.ReadFile(path)
	req.NoError(err)
	req.Equal(content, got)

	_, exists, err := dsess.GetAttr(handle)
	req.NoError(err)
	req.False(exists, "attribute must be gone after recall")
	req.False(f.store.Exists(handle.Device, handle.Inode), "store object must be gone after recall")
}

func TestEndToEnd_DaemonCrashMidRecallIsIdempotent(t *testing.T) {
	req := require.New(t)
	f := newE2EFixture(t)

	content := patternedContent(128 * 1024)
	path, handle := f.writeFile(t, "B", content)

	outcome, err := f.migrator.Migrate(context.Background(), path)
	req.NoError(err)
	req.Equal(migrator.OutcomeOK, outcome)

	// Simulate a daemon that died after marking the attribute RECALL but
	// before unlinking the store object: the attribute still points at a
	// store object that still exists, and the region is still set.
	raw, exists, err := f.msess.GetAttr(handle)
	req.NoError(err)
	req.True(exists)
	attr, err := state.Unmarshal(raw)
	req.NoError(err)
	attr.State = state.StateRecall
	req.NoError(f.msess.SetAttr(handle, attr.Marshal()))

	d, _ := newTestDaemon(t, t.TempDir(), f.store)
	token, err := d.session.NewToken(dmapi.EventRead, handle)
	req.NoError(err)

	// The restarted daemon's recall handler must re-enter cleanly.
	d.handleRecall(context.Background(), dmapi.Message{Type: dmapi.EventRead, Handle: handle, Token: token}, 0)

	got, err := os.ReadFile(path)
	req.NoError(err)
	req.Equal(content, got)

	_, exists, err = f.msess.GetAttr(handle)
	req.NoError(err)
	req.False(exists)
	req.False(f.store.Exists(handle.Device, handle.Inode))
}

func TestEndToEnd_DestroyAfterMigrateCleansUp(t *testing.T) {
	req := require.New(t)
	f := newE2EFixture(t)

	path, handle := f.writeFile(t, "C", []byte("doomed"))

	outcome, err := f.migrator.Migrate(context.Background(), path)
	req.NoError(err)
	req.Equal(migrator.OutcomeOK, outcome)
	req.True(f.store.Exists(handle.Device, handle.Inode))

	d, dsess := newTestDaemon(t, t.TempDir(), f.store)
	token, err := dsess.NewToken(dmapi.EventDestroy, handle)
	req.NoError(err)

	d.handleDestroy(dmapi.Message{Type: dmapi.EventDestroy, Handle: handle, Token: token})

	req.False(f.store.Exists(handle.Device, handle.Inode), "store object must be gone after destroy")
	_, exists, err := dsess.GetAttr(handle)
	req.NoError(err)
	req.False(exists, "attribute must be gone after destroy")
}

func TestEndToEnd_CrashBeforePunchFollowsAntiThrashRule(t *testing.T) {
	req := require.New(t)
	f := newE2EFixture(t)

	content := []byte("partially migrated")
	path, handle := f.writeFile(t, "D", content)

	// Reconstruct a migrator crash between region install and hole punch:
	// store object written, attribute in START, region set, data intact.
	obj, err := f.store.Open(handle.Device, handle.Inode, false)
	req.NoError(err)
	_, err = obj.Write(content)
	req.NoError(err)
	req.NoError(obj.Close())

	attr := state.Attribute{
		MigrateTime: time.Now(),
		Size:        int64(len(content)),
		Device:      handle.Device,
		Inode:       handle.Inode,
		State:       state.StateStart,
	}
	req.NoError(f.msess.SetAttr(handle, attr.Marshal()))
	req.NoError(f.msess.SetManagedRegion(handle, dmapi.ManagedRegion{Read: true, Write: true}))

	// Within the anti-thrash window the prior migrate might still be alive.
	outcome, err := f.migrator.Migrate(context.Background(), path)
	req.NoError(err)
	req.Equal(migrator.OutcomeSkip, outcome)

	// Past the window the START is stale and the migrate must resume.
	attr.MigrateTime = time.Now().Add(-2 * time.Minute)
	req.NoError(f.msess.SetAttr(handle, attr.Marshal()))

	outcome, err = f.migrator.Migrate(context.Background(), path)
	req.NoError(err)
	req.Equal(migrator.OutcomeOK, outcome)

	raw, exists, err := f.msess.GetAttr(handle)
	req.NoError(err)
	req.True(exists)
	got, err := state.Unmarshal(raw)
	req.NoError(err)
	req.Equal(state.StateMigrated, got.State)
	req.True(f.store.Exists(handle.Device, handle.Inode))
}
