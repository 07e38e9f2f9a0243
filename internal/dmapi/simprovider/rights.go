// SPDX-License-Identifier: Apache-2.0

package simprovider

import (
	"context"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/hacksm-project/hacksm/internal/dmapi"
)

// rightHolder is the advisory lock backing one handle's currently held
// right. SHARED maps to a read lock, EXCLUSIVE to a write lock; releasing
// drops both the Go-level record and the underlying flock.
type rightHolder struct {
	lock  *flock.Flock
	right dmapi.Right
}

const rightsRetryInterval = 5 * time.Millisecond

func lockPath(handle dmapi.Handle) string {
	dir := filepath.Dir(handle.Path)
	return filepath.Join(dir, "."+filepath.Base(handle.Path)+".hacksm.lock")
}

// RequestRight acquires right on handle. With wait false, a contended right
// returns RightsContentionError immediately; callers are expected to treat
// that as a retry signal, not a failure.
func (s *Session) RequestRight(ctx context.Context, handle dmapi.Handle, right dmapi.Right, wait bool) error {
	s.mu.Lock()
	if existing, ok := s.rights[handle.String()]; ok && existing.right >= right {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	lock := flock.New(lockPath(handle))

	acquire := lock.TryLock
	if right == dmapi.RightShared {
		acquire = lock.TryRLock
	}

	for {
		ok, err := acquire()
		if err != nil {
			return dmapi.ErrTransport(err, "acquire right")
		}
		if ok {
			break
		}
		if !wait {
			return dmapi.ErrRightsContention(handle)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rightsRetryInterval):
		}
	}

	s.mu.Lock()
	s.rights[handle.String()] = &rightHolder{lock: lock, right: right}
	s.mu.Unlock()
	return nil
}

// CurrentRight reports the right this session currently holds on handle.
func (s *Session) CurrentRight(handle dmapi.Handle) dmapi.Right {
	s.mu.Lock()
	defer s.mu.Unlock()

	holder, ok := s.rights[handle.String()]
	if !ok {
		return dmapi.RightNone
	}
	return holder.right
}

// DowngradeRight lowers a held right. Dropping to NONE releases it; dropping
// EXCLUSIVE to SHARED releases the write lock and then blocks until a read
// lock is granted, so another EXCLUSIVE holder can get in between.
func (s *Session) DowngradeRight(handle dmapi.Handle, to dmapi.Right) error {
	s.mu.Lock()
	holder, ok := s.rights[handle.String()]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	if to >= holder.right {
		return nil
	}

	if to == dmapi.RightNone {
		return s.ReleaseRight(handle)
	}

	// EXCLUSIVE -> SHARED: release the write lock and re-acquire a read
	// lock. There is a real, if narrow, window where another EXCLUSIVE
	// request can win first; callers that need atomic downgrade instead
	// rely on the anti-thrash window to make that acceptable.
	if err := holder.lock.Unlock(); err != nil {
		return dmapi.ErrTransport(err, "downgrade right")
	}
	lock := flock.New(lockPath(handle))
	if err := lock.RLock(); err != nil {
		return dmapi.ErrTransport(err, "downgrade right")
	}

	s.mu.Lock()
	s.rights[handle.String()] = &rightHolder{lock: lock, right: dmapi.RightShared}
	s.mu.Unlock()
	return nil
}

// UpgradeRight raises a held right, waiting for any contending holder to
// release first.
func (s *Session) UpgradeRight(ctx context.Context, handle dmapi.Handle, to dmapi.Right) error {
	s.mu.Lock()
	holder, ok := s.rights[handle.String()]
	s.mu.Unlock()
	if ok && holder.right >= to {
		return nil
	}
	if ok {
		if err := holder.lock.Unlock(); err != nil {
			return dmapi.ErrTransport(err, "upgrade right")
		}
		s.mu.Lock()
		delete(s.rights, handle.String())
		s.mu.Unlock()
	}

	return s.RequestRight(ctx, handle, to, true)
}

// ReleaseRight drops any right this session holds on handle.
func (s *Session) ReleaseRight(handle dmapi.Handle) error {
	s.mu.Lock()
	holder, ok := s.rights[handle.String()]
	if ok {
		delete(s.rights, handle.String())
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}
	if err := holder.lock.Unlock(); err != nil {
		return dmapi.ErrTransport(err, "release right")
	}
	return nil
}
