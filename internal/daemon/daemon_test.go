//go:build integration

// SPDX-License-Identifier: Apache-2.0

package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hacksm-project/hacksm/internal/dmapi"
	"github.com/hacksm-project/hacksm/internal/dmapi/simprovider"
	"github.com/hacksm-project/hacksm/internal/state"
	"github.com/hacksm-project/hacksm/internal/store"
	"github.com/hacksm-project/hacksm/pkg/fsx"
	"github.com/stretchr/testify/require"
)

func newTestDaemon(t *testing.T, workDir string, st *store.Store) (*Daemon, dmapi.Session) {
	t.Helper()
	req := require.New(t)

	fsMgr, err := fsx.NewManager()
	req.NoError(err)

	p, err := simprovider.NewProvider(workDir, fsMgr)
	req.NoError(err)

	sess, err := p.RecoverOrCreateSession(context.Background(), "hacksmd")
	req.NoError(err)

	d := &Daemon{session: sess, store: st, cfg: Config{
		SessionName:  "hacksmd",
		PollInterval: time.Millisecond,
	}}
	return d, sess
}

// migratedFixture writes a resident file, stamps it MIGRATED by hand (the
// shape a crashed or completed migrator would leave it in), and punches its
// data the way step 14 of migrate(path) does, so recall has real sparse-file
// state to act on.
func migratedFixture(t *testing.T, sess dmapi.Session, st *store.Store, content []byte) (dmapi.Handle, string) {
	t.Helper()
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "target")
	req.NoError(os.WriteFile(path, content, 0644))

	handle, size, err := sess.Stat(path)
	req.NoError(err)

	obj, err := st.Open(handle.Device, handle.Inode, false)
	req.NoError(err)
	_, err = obj.Write(content)
	req.NoError(err)
	req.NoError(obj.Close())

	req.NoError(sess.RequestRight(context.Background(), handle, dmapi.RightExclusive, true))
	req.NoError(sess.PunchHole(handle, 0, size))

	attr := state.Attribute{
		MigrateTime: time.Now(),
		Size:        size,
		Device:      handle.Device,
		Inode:       handle.Inode,
		State:       state.StateMigrated,
	}
	req.NoError(sess.SetAttr(handle, attr.Marshal()))
	req.NoError(sess.SetManagedRegion(handle, dmapi.ManagedRegion{Read: true, Write: true}))
	req.NoError(sess.ReleaseRight(handle))

	return handle, path
}

func TestHandleRecall_RestoresContentAndClearsState(t *testing.T) {
	req := require.New(t)

	st, err := store.New(t.TempDir())
	req.NoError(err)

	d, sess := newTestDaemon(t, t.TempDir(), st)
	content := []byte("hello, migrated world")
	handle, path := migratedFixture(t, sess, st, content)

	token, err := sess.NewToken(dmapi.EventRead, handle)
	req.NoError(err)

	d.handleRecall(context.Background(), dmapi.Message{Type: dmapi.EventRead, Handle: handle, Token: token}, 0)

	_, exists, err := sess.GetAttr(handle)
	req.NoError(err)
	req.False(exists, "attribute must be gone once recall completes")

	req.False(st.Exists(handle.Device, handle.Inode), "store object must be unlinked once recall completes")
	req.False(sess.HasManagedRegion(handle), "managed region must be cleared once recall completes")

	got, err := os.ReadFile(path)
	req.NoError(err)
	req.Equal(content, got, "recalled content must be byte-identical to the original")
}

func TestHandleRecall_AlreadyRecalledByPeerRespondsContinue(t *testing.T) {
	req := require.New(t)

	st, err := store.New(t.TempDir())
	req.NoError(err)
	d, sess := newTestDaemon(t, t.TempDir(), st)

	path := filepath.Join(t.TempDir(), "resident")
	req.NoError(os.WriteFile(path, []byte("plain"), 0644))
	handle, _, err := sess.Stat(path)
	req.NoError(err)

	token, err := sess.NewToken(dmapi.EventRead, handle)
	req.NoError(err)

	// No attribute present: a peer handler (or the recovery pass) already
	// finished the recall. This must be a no-op success, not an error.
	d.handleRecall(context.Background(), dmapi.Message{Type: dmapi.EventRead, Handle: handle, Token: token}, 0)

	_, ok := sess.FindEventMsg(token)
	req.False(ok, "token must have been responded to and removed")
}

func TestHandleDestroy_RemovesStoreAndAttribute(t *testing.T) {
	req := require.New(t)

	st, err := store.New(t.TempDir())
	req.NoError(err)
	d, sess := newTestDaemon(t, t.TempDir(), st)

	handle, _ := migratedFixture(t, sess, st, []byte("doomed content"))

	token, err := sess.NewToken(dmapi.EventDestroy, handle)
	req.NoError(err)

	d.handleDestroy(dmapi.Message{Type: dmapi.EventDestroy, Handle: handle, Token: token})

	_, exists, err := sess.GetAttr(handle)
	req.NoError(err)
	req.False(exists)
	req.False(st.Exists(handle.Device, handle.Inode))
	req.False(sess.HasManagedRegion(handle))
}

func TestHandleDestroy_SentinelTokenSkipsResponse(t *testing.T) {
	req := require.New(t)

	st, err := store.New(t.TempDir())
	req.NoError(err)
	d, _ := newTestDaemon(t, t.TempDir(), st)

	// An empty token ID stands in for the sentinel some DMAPI
	// implementations deliver destroy events with: there is nothing to
	// respond to, and calling Respond would only produce a spurious error.
	d.handleDestroy(dmapi.Message{Type: dmapi.EventDestroy, Handle: dmapi.Handle{Path: "/gone"}, Token: dmapi.Token{}})
}

func TestRunRecovery_RedispatchesOutstandingRecallToken(t *testing.T) {
	req := require.New(t)

	st, err := store.New(t.TempDir())
	req.NoError(err)

	workDir := t.TempDir()
	d, sess := newTestDaemon(t, workDir, st)
	content := []byte("recovered after crash")
	handle, path := migratedFixture(t, sess, st, content)

	// Simulate the kernel having trapped a READ and handed the prior
	// daemon a token it never got to respond to before it died.
	token, err := sess.NewToken(dmapi.EventRead, handle)
	req.NoError(err)
	_ = token

	req.NoError(d.runRecovery(context.Background()))

	got, err := os.ReadFile(path)
	req.NoError(err)
	req.Equal(content, got)

	_, exists, err := sess.GetAttr(handle)
	req.NoError(err)
	req.False(exists)
}

func TestRunRecovery_TokenOnVanishedHandleIsStillFreed(t *testing.T) {
	req := require.New(t)

	st, err := store.New(t.TempDir())
	req.NoError(err)
	d, sess := newTestDaemon(t, t.TempDir(), st)

	// The handle's path no longer resolves to anything (the file vanished
	// between the trap and the crash). Recovery must still close out the
	// token rather than leaving it outstanding forever, even though the
	// re-dispatched handler can do nothing useful with it.
	handle := dmapi.Handle{Path: "/vanished", Device: 9, Inode: 9}
	_, err = sess.NewToken(dmapi.EventWrite, handle)
	req.NoError(err)

	req.NoError(d.runRecovery(context.Background()))

	outstanding, err := sess.OutstandingTokens()
	req.NoError(err)
	req.Empty(outstanding, "every outstanding token must eventually receive exactly one response")
}
