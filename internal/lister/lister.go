// SPDX-License-Identifier: Apache-2.0

// Package lister implements hacksm-ls: report each given path's migration
// state by reading its attribute directly, without acquiring any DMAPI
// right. Listing is inherently racy against a concurrent migrate/recall;
// it is a diagnostic, not a lock holder.
package lister

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hacksm-project/hacksm/internal/state"
	"github.com/hacksm-project/hacksm/pkg/fsx"
)

// Entry is one reported line: a managed file carries Size/State, a plain
// file carries neither.
type Entry struct {
	Path    string
	Managed bool
	Size    int64
	State   state.State
}

// Lister walks a set of paths and classifies each as managed or plain.
type Lister struct {
	fsMgr fsx.Manager
}

// New returns a Lister backed by fsMgr.
func New(fsMgr fsx.Manager) *Lister {
	return &Lister{fsMgr: fsMgr}
}

// List resolves paths into Entries. A path that is a directory contributes
// its direct entries instead of itself, matching `ls`-style behavior. A
// path that does not exist is reported to errOut and does not abort the
// remaining paths.
func (l *Lister) List(paths []string, errOut io.Writer) ([]Entry, error) {
	var entries []Entry

	for _, p := range paths {
		info, exists, err := l.fsMgr.PathExists(p)
		if err != nil {
			return nil, err
		}
		if !exists {
			fmt.Fprintf(errOut, "hacksm-ls: %s: no such file or directory\n", p)
			continue
		}

		if l.fsMgr.IsDirectoryByFileInfo(info) {
			children, err := l.listDirectory(p, errOut)
			if err != nil {
				return nil, err
			}
			entries = append(entries, children...)
			continue
		}

		entry, err := l.classify(p)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (l *Lister) listDirectory(dir string, errOut io.Writer) ([]Entry, error) {
	children, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, child := range children {
		path := filepath.Join(dir, child.Name())
		if child.IsDir() {
			continue
		}
		entry, err := l.classify(path)
		if err != nil {
			fmt.Fprintf(errOut, "hacksm-ls: %s: %v\n", path, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (l *Lister) classify(path string) (Entry, error) {
	raw, exists, err := l.fsMgr.GetAttr(path, state.AttrName)
	if err != nil {
		return Entry{}, err
	}
	if !exists {
		return Entry{Path: path, Managed: false}, nil
	}

	attr, err := state.Unmarshal(raw)
	if err != nil {
		// A bad attribute is reported as plain rather than aborting the walk;
		// hacksm-ls is a diagnostic, not a validator.
		return Entry{Path: path, Managed: false}, nil
	}

	return Entry{Path: path, Managed: true, Size: attr.Size, State: attr.State}, nil
}

// Format renders an Entry the way hacksm-ls prints it: "m <size> <state> <path>"
// for managed files, "p           <path>" for plain ones. <state> is the
// numeric wire code (0=START, 1=MIGRATED, 2=RECALL), not the state's name.
func (e Entry) Format() string {
	if e.Managed {
		return fmt.Sprintf("m %d %d %s", e.Size, e.State.WireCode(), e.Path)
	}
	return fmt.Sprintf("p           %s", e.Path)
}
