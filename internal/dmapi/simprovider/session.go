// SPDX-License-Identifier: Apache-2.0

package simprovider

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/hacksm-project/hacksm/internal/dmapi"
	"github.com/hacksm-project/hacksm/internal/state"
	"github.com/hacksm-project/hacksm/pkg/erx"
	"github.com/hacksm-project/hacksm/pkg/fsx"
	"github.com/hacksm-project/hacksm/pkg/plock"
)

// Session is the simulated, filesystem-backed implementation of
// dmapi.Session. One Session exists per process for its lifetime.
type Session struct {
	name     string
	dir      string
	tokenDir string
	fsMgr    fsx.Manager
	lock     plock.Lock

	events chan dmapi.Message

	mu          sync.Mutex
	disposition map[dmapi.EventType]bool
	rights      map[string]*rightHolder
	tokens      map[string]*tokenEntry
	regions     map[string]dmapi.ManagedRegion
	closed      bool
}

func (s *Session) Name() string { return s.name }

// Close releases this process's claim on the session name: a clean exit
// gives the name back immediately instead of waiting for a future process
// to notice this PID has died and reclaim it as stale.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.events)
	if s.lock != nil && s.lock.IsAcquired() {
		return s.lock.Release()
	}
	return nil
}

// SetDisposition registers the event types this session wants delivered.
// Disposition is advisory bookkeeping here: the simulated kernel has no
// separate delivery path to gate, and a trapped access raises its event
// whatever the disposition; HasDisposition only reports what was registered.
func (s *Session) SetDisposition(types []dmapi.EventType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposition = make(map[dmapi.EventType]bool, len(types))
	for _, t := range types {
		s.disposition[t] = true
	}
	return nil
}

// HasDisposition reports whether eventType is currently registered.
func (s *Session) HasDisposition(eventType dmapi.EventType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposition[eventType]
}

// GetEvents returns pending events. Blocking waits for at least one event
// or ctx cancellation; non-blocking drains whatever is queued right now and
// returns immediately, even if that is nothing.
func (s *Session) GetEvents(ctx context.Context, blocking bool) ([]dmapi.Message, error) {
	if !blocking {
		var msgs []dmapi.Message
		for {
			select {
			case msg, ok := <-s.events:
				if !ok {
					return msgs, nil
				}
				msgs = append(msgs, msg)
			default:
				return msgs, nil
			}
		}
	}

	select {
	case msg, ok := <-s.events:
		if !ok {
			return nil, nil
		}
		msgs := []dmapi.Message{msg}
		// Drain whatever else is already queued so a batch of events
		// trapped back to back is delivered together.
		for {
			select {
			case m, ok := <-s.events:
				if !ok {
					return msgs, nil
				}
				msgs = append(msgs, m)
			default:
				return msgs, nil
			}
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Session) GetAttr(handle dmapi.Handle) ([]byte, bool, error) {
	value, exists, err := s.fsMgr.GetAttr(handle.Path, state.AttrName)
	if err != nil {
		return nil, false, dmapi.ErrTransport(err, "get attribute")
	}
	return value, exists, nil
}

func (s *Session) SetAttr(handle dmapi.Handle, value []byte) error {
	if err := s.fsMgr.SetAttr(handle.Path, state.AttrName, value); err != nil {
		return dmapi.ErrTransport(err, "set attribute")
	}
	return nil
}

func (s *Session) RemoveAttr(handle dmapi.Handle) error {
	if err := s.fsMgr.RemoveAttr(handle.Path, state.AttrName); err != nil {
		return dmapi.ErrTransport(err, "remove attribute")
	}
	return nil
}

// SetManagedRegion installs the region that determines which accesses trap.
func (s *Session) SetManagedRegion(handle dmapi.Handle, region dmapi.ManagedRegion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions[handle.String()] = region
	return nil
}

func (s *Session) ClearManagedRegion(handle dmapi.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.regions, handle.String())
	return nil
}

func (s *Session) HasManagedRegion(handle dmapi.Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.regions[handle.String()]
	return ok
}

// InvisibleRead/InvisibleWrite bypass the managed-region trap: the real data
// manager's I/O on a file it itself administers must not recurse into its
// own event queue.
func (s *Session) InvisibleRead(handle dmapi.Handle, buf []byte, offset int64) (int, error) {
	f, err := os.OpenFile(handle.Path, os.O_RDONLY, 0)
	if err != nil {
		return 0, erx.NewStoreIOError(err, handle.Path)
	}
	defer fsx.Close(f)

	n, err := f.ReadAt(buf, offset)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return n, io.EOF
		}
		return n, erx.NewStoreIOError(err, handle.Path)
	}
	return n, nil
}

// InvisibleWrite opens with O_SYNC: recalled content must be durable before
// the trapped user I/O is allowed to retry against it.
func (s *Session) InvisibleWrite(handle dmapi.Handle, buf []byte, offset int64) (int, error) {
	f, err := os.OpenFile(handle.Path, os.O_WRONLY|os.O_SYNC, 0)
	if err != nil {
		return 0, erx.NewStoreIOError(err, handle.Path)
	}
	defer fsx.Close(f)

	n, err := f.WriteAt(buf, offset)
	if err != nil {
		return n, erx.NewStoreIOError(err, handle.Path)
	}
	return n, nil
}

func (s *Session) PunchHole(handle dmapi.Handle, offset, length int64) error {
	if err := s.fsMgr.PunchHole(handle.Path, offset, length); err != nil {
		return erx.NewStoreIOError(err, handle.Path)
	}
	return nil
}

// Stat resolves path to a Handle carrying its real device and inode, the
// identity the store and the attribute encoding key off of.
func (s *Session) Stat(path string) (dmapi.Handle, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return dmapi.Handle{}, 0, erx.NewStoreIOError(err, path)
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return dmapi.Handle{}, 0, erx.NewProtocolError("platform does not expose device/inode via syscall.Stat_t")
	}

	return dmapi.Handle{
		Path:   path,
		Device: uint64(stat.Dev),
		Inode:  uint64(stat.Ino),
	}, info.Size(), nil
}
