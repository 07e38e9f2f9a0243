// SPDX-License-Identifier: Apache-2.0

// Package simprovider is the one shipped implementation of internal/dmapi's
// Provider/Session pair. No Go binding for the real Data Management API
// exists; simprovider stands in for the kernel side of that protocol using
// ordinary filesystem primitives: xattrs for DM attributes, advisory file
// locks for rights, fallocate punch-hole for space reclaim, and a process
// token directory for outstanding-event recovery across restarts.
package simprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hacksm-project/hacksm/internal/dmapi"
	"github.com/hacksm-project/hacksm/pkg/erx"
	"github.com/hacksm-project/hacksm/pkg/fsx"
	"github.com/hacksm-project/hacksm/pkg/plock"
)

var (
	_ dmapi.Provider = (*Provider)(nil)
	_ dmapi.Session  = (*Session)(nil)
)

// Provider roots every session it hands out under a single work directory,
// one subdirectory per session name.
type Provider struct {
	workDir string
	fsMgr   fsx.Manager
}

// NewProvider returns a Provider rooted at workDir, creating it if missing.
func NewProvider(workDir string, fsMgr fsx.Manager) (*Provider, error) {
	if fsMgr == nil {
		var err error
		fsMgr, err = fsx.NewManager()
		if err != nil {
			return nil, err
		}
	}
	if err := fsMgr.CreateDirectory(workDir, true); err != nil {
		return nil, dmapi.ErrTransport(err, "create provider work directory")
	}
	return &Provider{workDir: workDir, fsMgr: fsMgr}, nil
}

// RecoverOrCreateSession returns the Session for name, restoring any tokens
// left outstanding by a previous process under the same name so daemon
// restart recovery can re-dispatch or abort them.
//
// A session name is process-wide state: at most one live
// process may hold a given session name at a time, and a crashed holder's
// claim must be reclaimable rather than orphaning the name forever. That
// two-phase "is anyone alive under this name, and if not take it over"
// dance is exactly what pkg/plock's PID-lock implements, so session
// identity is backed by a named plock instead of bespoke bookkeeping.
func (p *Provider) RecoverOrCreateSession(_ context.Context, name string) (dmapi.Session, error) {
	dir := filepath.Join(p.workDir, name)
	tokenDir := filepath.Join(dir, "tokens")
	if err := p.fsMgr.CreateDirectory(tokenDir, true); err != nil {
		return nil, dmapi.ErrTransport(err, "create session directory")
	}

	sessionLock, err := claimSessionLock(p.workDir, name)
	if err != nil {
		return nil, err
	}

	s := &Session{
		name:        name,
		dir:         dir,
		tokenDir:    tokenDir,
		fsMgr:       p.fsMgr,
		lock:        sessionLock,
		events:      make(chan dmapi.Message, 256),
		rights:      map[string]*rightHolder{},
		tokens:      map[string]*tokenEntry{},
		regions:     map[string]dmapi.ManagedRegion{},
		disposition: map[dmapi.EventType]bool{},
	}

	if err := s.recoverTokens(); err != nil {
		_ = sessionLock.Release()
		return nil, err
	}

	return s, nil
}

// claimSessionLock acquires the named PID lock backing name's session
// identity. If the name is already locked by a PID that is no longer
// running, the stale lock is reclaimed (the "recover" half of
// recover-or-create); if it is held by a live process, the caller gets a
// loud error instead of two processes silently sharing one session.
func claimSessionLock(workDir, name string) (plock.Lock, error) {
	mgr, err := plock.NewLockManager(workDir)
	if err != nil {
		return nil, dmapi.ErrTransport(err, "open session lock manager")
	}

	lock, err := plock.NewLock(name, workDir, plock.InvalidPID)
	if err != nil {
		return nil, dmapi.ErrTransport(err, "prepare session lock")
	}

	if err := lock.Acquire(); err == nil {
		return lock, nil
	}

	existing, discErr := mgr.DiscoverByLockName(name)
	if discErr != nil || existing == nil {
		return nil, erx.NewLockError(err, "session "+name+" could not be locked")
	}

	if resetErr := mgr.ResetStaleLock(*existing); resetErr != nil {
		return nil, erx.NewLockError(err,
			"session "+name+" is held by pid "+itoa(existing.PID)+" and is not stale")
	}

	if err := lock.Acquire(); err != nil {
		return nil, erx.NewLockError(err, "session "+name+" could not be locked after reclaiming stale holder")
	}
	return lock, nil
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}

// persistedToken is the on-disk shape of one outstanding token, one file per
// token under the session's token directory: existence is the recovery state.
type persistedToken struct {
	Type   dmapi.EventType `json:"type"`
	Path   string          `json:"path"`
	Device uint64          `json:"device"`
	Inode  uint64          `json:"inode"`
}

func tokenFilePath(tokenDir, id string) string {
	return filepath.Join(tokenDir, id+".json")
}

func (s *Session) recoverTokens() error {
	entries, err := os.ReadDir(s.tokenDir)
	if err != nil {
		return dmapi.ErrTransport(err, "list outstanding tokens")
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.tokenDir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return erx.NewStoreIOError(err, path)
		}

		var pt persistedToken
		if err := json.Unmarshal(raw, &pt); err != nil {
			return erx.NewProtocolError(fmt.Sprintf("corrupt token file %q: %v", path, err))
		}

		id := tokenIDFromFilename(entry.Name())
		msg := dmapi.Message{
			Type:   pt.Type,
			Handle: dmapi.Handle{Path: pt.Path, Device: pt.Device, Inode: pt.Inode},
			Token:  dmapi.Token{ID: id},
		}
		// Recovered tokens have no blocked caller: the process that owned
		// respCh is gone. A handler recovers the message via FindEventMsg
		// and responds normally, which just deletes the token file.
		s.tokens[id] = &tokenEntry{msg: msg}
	}

	return nil
}
