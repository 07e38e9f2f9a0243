package lister

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hacksm-project/hacksm/internal/state"
	"github.com/hacksm-project/hacksm/pkg/fsx"
	"github.com/stretchr/testify/require"
)

func TestList_PlainAndManagedFiles(t *testing.T) {
	req := require.New(t)

	fsMgr, err := fsx.NewManager()
	req.NoError(err)

	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.txt")
	managed := filepath.Join(dir, "managed.txt")
	req.NoError(os.WriteFile(plain, []byte("hello"), 0644))
	req.NoError(os.WriteFile(managed, []byte("world"), 0644))

	attr := state.Attribute{
		MigrateTime: time.Now(),
		Size:        5,
		Device:      1,
		Inode:       2,
		State:       state.StateMigrated,
	}
	req.NoError(fsMgr.SetAttr(managed, state.AttrName, attr.Marshal()))

	l := New(fsMgr)
	var errOut bytes.Buffer
	entries, err := l.List([]string{plain, managed}, &errOut)
	req.NoError(err)
	req.Len(entries, 2)

	req.Equal(plain, entries[0].Path)
	req.False(entries[0].Managed)

	req.Equal(managed, entries[1].Path)
	req.True(entries[1].Managed)
	req.Equal(state.StateMigrated, entries[1].State)
	req.Equal(int64(5), entries[1].Size)
}

func TestEntry_Format_MigratedMatchesScenarioOne(t *testing.T) {
	req := require.New(t)

	// Migrate a 5-byte file "A", then `ls` prints exactly "m 5 1 A"
	// (size 5, wire state code 1 for MIGRATED).
	entry := Entry{Path: "A", Managed: true, Size: 5, State: state.StateMigrated}
	req.Equal("m 5 1 A", entry.Format())
}

func TestEntry_Format_Plain(t *testing.T) {
	req := require.New(t)

	entry := Entry{Path: "A", Managed: false}
	req.Equal("p           A", entry.Format())
}

func TestList_MissingPathReportedNotAborted(t *testing.T) {
	req := require.New(t)

	fsMgr, err := fsx.NewManager()
	req.NoError(err)

	dir := t.TempDir()
	present := filepath.Join(dir, "present.txt")
	req.NoError(os.WriteFile(present, []byte("x"), 0644))

	l := New(fsMgr)
	var errOut bytes.Buffer
	entries, err := l.List([]string{filepath.Join(dir, "missing.txt"), present}, &errOut)
	req.NoError(err)
	req.Len(entries, 1)
	req.Contains(errOut.String(), "missing.txt")
}

func TestList_DirectoryExpandsToDirectEntries(t *testing.T) {
	req := require.New(t)

	fsMgr, err := fsx.NewManager()
	req.NoError(err)

	dir := t.TempDir()
	req.NoError(os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))
	req.NoError(os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0644))
	req.NoError(os.Mkdir(filepath.Join(dir, "sub"), 0755))

	l := New(fsMgr)
	var errOut bytes.Buffer
	entries, err := l.List([]string{dir}, &errOut)
	req.NoError(err)
	req.Len(entries, 2)
}
