//go:build integration

// SPDX-License-Identifier: Apache-2.0

package migrator

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

func newTestMigrator(t *testing.T) *Migrator {
	t.Helper()
	req := require.New(t)

	fsMgr, err := fsx.NewManager()
	req.NoError(err)

	p, err := simprovider.NewProvider(t.TempDir(), fsMgr)
	req.NoError(err)

	sess, err := p.RecoverOrCreateSession(context.Background(), "hacksm_migrate")
	req.NoError(err)

	st, err := store.New(t.TempDir())
	req.NoError(err)

	return New(sess, st, time.Millisecond, time.Minute, true)
}

func statHandle(t *testing.T, m *Migrator, path string) dmapi.Handle {
	t.Helper()
	h, _, err := m.session.Stat(path)
	require.NoError(t, err)
	return h
}

func TestMigrate_ResidentFileBecomesMigrated(t *testing.T) {
	req := require.New(t)
	m := newTestMigrator(t)

	path := filepath.Join(t.TempDir(), "target")
	req.NoError(os.WriteFile(path, []byte("hello, managed world"), 0644))

	outcome, err := m.Migrate(context.Background(), path)
	req.NoError(err)
	req.Equal(OutcomeOK, outcome)

	raw, exists, err := m.session.GetAttr(statHandle(t, m, path))
	req.NoError(err)
	req.True(exists)

	attr, err := state.Unmarshal(raw)
	req.NoError(err)
	req.Equal(state.StateMigrated, attr.State)
}

func TestMigrate_SkipsAlreadyMigratedFile(t *testing.T) {
	req := require.New(t)
	m := newTestMigrator(t)

	path := filepath.Join(t.TempDir(), "target")
	req.NoError(os.WriteFile(path, []byte("content"), 0644))

	outcome, err := m.Migrate(context.Background(), path)
	req.NoError(err)
	req.Equal(OutcomeOK, outcome)

	outcome, err = m.Migrate(context.Background(), path)
	req.NoError(err)
	req.Equal(OutcomeSkip, outcome)
}

func TestMigrate_SkipsZeroLengthFile(t *testing.T) {
	req := require.New(t)
	m := newTestMigrator(t)

	path := filepath.Join(t.TempDir(), "empty")
	req.NoError(os.WriteFile(path, nil, 0644))

	outcome, err := m.Migrate(context.Background(), path)
	req.NoError(err)
	req.Equal(OutcomeSkip, outcome)
}

func TestCleanup_RespondsToOutstandingTokens(t *testing.T) {
	req := require.New(t)
	m := newTestMigrator(t)

	path := filepath.Join(t.TempDir(), "x")
	req.NoError(os.WriteFile(path, []byte("x"), 0644))
	handle := statHandle(t, m, path)

	_, err := m.session.NewToken(dmapi.EventWrite, handle)
	req.NoError(err)

	req.NoError(m.Cleanup())

	outstanding, err := m.session.OutstandingTokens()
	req.NoError(err)
	req.Empty(outstanding)
}
