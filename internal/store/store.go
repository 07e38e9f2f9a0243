// SPDX-License-Identifier: Apache-2.0

// Package store implements the flat content store: a
// directory keyed by (device, inode) of the managed file, with no
// concurrency control of its own; callers serialize access through the
// DMAPI right handshake.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hacksm-project/hacksm/pkg/erx"
)

// Store is a flat directory of migrated file content, one object per
// managed (device, inode) pair.
type Store struct {
	basePath string
}

// New validates basePath is a directory and returns a Store rooted there.
// A base path that cannot be stat'ed is an error, not something to create.
func New(basePath string) (*Store, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, erx.NewStoreIOError(err, basePath)
	}
	if !info.IsDir() {
		return nil, erx.NewStoreIOError(fmt.Errorf("not a directory"), basePath)
	}
	return &Store{basePath: basePath}, nil
}

// Filename is the store's flat mapping: <basepath>/0x<device_hex>:0x<inode_hex>,
// lower-case hex, no zero-padding.
func Filename(basePath string, device, inode uint64) string {
	return filepath.Join(basePath, fmt.Sprintf("0x%x:0x%x", device, inode))
}

func (s *Store) path(device, inode uint64) string {
	return Filename(s.basePath, device, inode)
}

// Exists reports whether a store object exists for (device, inode).
func (s *Store) Exists(device, inode uint64) bool {
	_, err := os.Stat(s.path(device, inode))
	return err == nil
}

// Object is an open store object. It tracks whether it was opened writable
// so Close can fsync before closing.
type Object struct {
	f        *os.File
	path     string
	writable bool
}

// Open opens the store object for (device, inode). readonly selects
// O_RDONLY; otherwise the object is created/truncated with mode 0600.
func (s *Store) Open(device, inode uint64, readonly bool) (*Object, error) {
	path := s.path(device, inode)

	var f *os.File
	var err error
	if readonly {
		f, err = os.OpenFile(path, os.O_RDONLY, 0)
	} else {
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	}
	if err != nil {
		return nil, erx.NewStoreIOError(err, path)
	}

	return &Object{f: f, path: path, writable: !readonly}, nil
}

// Read is a pass-through read.
func (o *Object) Read(buf []byte) (int, error) {
	n, err := o.f.Read(buf)
	if err != nil && err != io.EOF {
		return n, erx.NewStoreIOError(err, o.path)
	}
	return n, err
}

// Write is a pass-through write; a short write is reported as an error.
func (o *Object) Write(buf []byte) (int, error) {
	n, err := o.f.Write(buf)
	if err != nil {
		return n, erx.NewStoreIOError(err, o.path)
	}
	if n != len(buf) {
		return n, erx.NewStoreIOError(fmt.Errorf("short write: wrote %d of %d bytes", n, len(buf)), o.path)
	}
	return n, nil
}

// Close fsyncs the object if it was opened writable, then closes it.
func (o *Object) Close() error {
	if o.writable {
		if err := o.f.Sync(); err != nil {
			_ = o.f.Close()
			return erx.NewStoreIOError(err, o.path)
		}
	}
	if err := o.f.Close(); err != nil {
		return erx.NewStoreIOError(err, o.path)
	}
	return nil
}

// Remove unlinks the store object for (device, inode). A missing object is
// treated as success: remove is idempotent.
func (s *Store) Remove(device, inode uint64) error {
	path := s.path(device, inode)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return erx.NewStoreIOError(err, path)
	}
	return nil
}
