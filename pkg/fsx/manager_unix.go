// SPDX-License-Identifier: Apache-2.0

//go:build linux

package fsx

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/joomcode/errorx"
	"golang.org/x/sys/unix"
)

const (
	// defaultDirectoryMode is the default directory mode used when creating directories.
	defaultDirectoryMode = 0755
)

type unixManager struct{}

// NewManager returns a Manager backed by direct syscalls on a POSIX-compatible filesystem.
func NewManager() (Manager, error) {
	return &unixManager{}, nil
}

func (m *unixManager) PathExists(path string) (os.FileInfo, bool, error) {
	pi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return pi, true, nil
}

func (m *unixManager) IsRegularFile(path string) bool {
	pi, exists, err := m.PathExists(path)
	if err != nil || !exists {
		return false
	}

	return m.IsRegularFileByFileInfo(pi)
}

func (m *unixManager) IsRegularFileByFileInfo(fi os.FileInfo) bool {
	return fi.Mode().IsRegular()
}

func (m *unixManager) IsDirectory(path string) bool {
	pi, exists, err := m.PathExists(path)
	if err != nil || !exists {
		return false
	}

	return m.IsDirectoryByFileInfo(pi)
}

func (m *unixManager) IsDirectoryByFileInfo(fi os.FileInfo) bool {
	return fi.Mode().IsDir()
}

func (m *unixManager) IsHardLink(path string) bool {
	pi, exists, err := m.PathExists(path)
	if err != nil || !exists {
		return false
	}

	return m.IsHardLinkByFileInfo(pi)
}

func (m *unixManager) IsHardLinkByFileInfo(fi os.FileInfo) bool {
	if s, ok := fi.Sys().(*syscall.Stat_t); m.IsRegularFileByFileInfo(fi) && ok {
		return s.Nlink > 1
	}

	return false
}

func (m *unixManager) CreateDirectory(path string, recursive bool) error {
	var err error

	_, exists, err := m.PathExists(path)
	if err != nil {
		return FileSystemError.New("invalid path %q", path).WithUnderlyingErrors(err)
	}

	if exists {
		return nil
	}

	parentDir := filepath.Dir(path)
	pfi, exists, err := m.PathExists(parentDir)
	if err != nil {
		return FileSystemError.
			New("parent directory is not a valid path %q", parentDir).
			WithUnderlyingErrors(err)
	}

	if exists && !pfi.Mode().IsDir() {
		return FileTypeError.New("parent path %q is not a directory", parentDir)
	} else if !exists && !recursive {
		return FileNotFound.New("parent path %q not found", parentDir)
	}

	if recursive {
		err = os.MkdirAll(path, defaultDirectoryMode)
	} else {
		err = os.Mkdir(path, defaultDirectoryMode)
	}

	if err != nil {
		return FileSystemError.New("failed to create a directory %q", path).WithUnderlyingErrors(err)
	}

	return nil
}

func (m *unixManager) CopyFile(src string, dst string, overwrite bool) error {
	sfi, exists, err := m.PathExists(src)
	if err != nil || !exists {
		return FileNotFound.New("source file %q not found", src).WithUnderlyingErrors(err)
	}

	if !sfi.Mode().IsRegular() {
		return errorx.IllegalArgument.New("source path is not a file: %s", src)
	}

	dfi, exists, err := m.PathExists(dst)
	if err != nil {
		return FileSystemError.New("destination path is not a valid path: %s", dst).WithUnderlyingErrors(err)
	}

	if exists && os.SameFile(sfi, dfi) {
		return nil
	}

	if exists && !overwrite {
		return FileAlreadyExists.New("destination file %q already exists, overwrite is disabled.", dst)
	}

	dstParent := filepath.Dir(dst)
	info, exists, err := m.PathExists(dstParent)
	if err != nil {
		return FileSystemError.New("destination parent path is not a valid path: %s", dstParent).WithUnderlyingErrors(err)
	} else if !exists {
		return FileNotFound.New("destination parent path %q not found", dstParent)
	} else if !info.Mode().IsDir() {
		return FileSystemError.New("destination parent path %q is not a directory", dstParent)
	}

	return copyFileContents(src, dst)
}

func (m *unixManager) CreateHardLink(src string, dst string, overwrite bool) error {
	sfi, exists, err := m.PathExists(src)
	if err != nil || !exists {
		return FileNotFound.New("source file %q not found", src)
	}

	if !sfi.Mode().IsRegular() {
		return FileTypeError.New("source path %q is not a regular file", src)
	}

	if err = m.checkAndOverwritePath(dst, overwrite); err != nil {
		return err
	}

	if err = os.Link(src, dst); err != nil {
		return FileSystemError.New("failed to create hard link: %s", dst).WithUnderlyingErrors(err)
	}

	return nil
}

func (m *unixManager) ReadPermissions(path string) (fs.FileMode, error) {
	fileInfo, err := os.Lstat(path)
	if err != nil {
		return 0, FileSystemError.New("failed to stat path; %s", path).WithUnderlyingErrors(err)
	}

	return fileInfo.Mode().Perm(), nil
}

func (m *unixManager) ReadFile(path string, maxFileSize int64) ([]byte, error) {
	fileInfo, exists, err := m.PathExists(path)
	if err != nil || !exists {
		return nil, FileNotFound.New("path %q not found", path)
	}

	if maxFileSize > 0 && fileInfo.Size() > maxFileSize {
		return nil, errorx.IllegalArgument.New("file size is larger than %d bytes", maxFileSize)
	}

	if fileInfo.Size() <= 0 {
		return []byte{}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errorx.IllegalArgument.New("failed to open file at %q", path).WithUnderlyingErrors(err)
	}
	defer Close(file)

	buffer := make([]byte, fileInfo.Size())
	totalRead, err := io.ReadAtLeast(file, buffer, len(buffer))
	if err != nil {
		return nil, errorx.IllegalArgument.New("failed to read from file %q", path).WithUnderlyingErrors(err)
	}

	if totalRead != len(buffer) {
		return nil, errorx.IllegalArgument.
			New("failed to load full contents from file %q", path).
			WithUnderlyingErrors(err)
	}

	return buffer, nil
}

func (m *unixManager) WriteFile(path string, payload []byte) error {
	file, err := os.Create(path)
	if err != nil {
		return errorx.IllegalArgument.New("failed to open file at %q", path).WithUnderlyingErrors(err)
	}
	defer Close(file)

	n, err := file.Write(payload)
	if err != nil {
		return errorx.IllegalArgument.New("failed to write to file %q", path).WithUnderlyingErrors(err)
	}

	if n != len(payload) {
		return errorx.IllegalArgument.
			New("failed to write full payload to file %q", path).
			WithUnderlyingErrors(err)
	}

	return nil
}

func (m *unixManager) checkAndOverwritePath(path string, overwrite bool) error {
	_, exists, err := m.PathExists(path)
	if err != nil {
		return FileSystemError.New("destination path is not a valid path: %s", path).WithUnderlyingErrors(err)
	}

	if exists {
		if !overwrite {
			return FileAlreadyExists.New("destination path %q already exists, overwrite is disabled", path)
		}
		if err := os.Remove(path); err != nil {
			return FileSystemError.New("failed to remove existing path: %s", path).WithUnderlyingErrors(err)
		}
	}

	return nil
}

func copyFileContents(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return FileSystemError.New("failed to open the source file: %s", src).WithUnderlyingErrors(err)
	}
	defer Close(srcFile)

	dstFile, err := os.Create(dst)
	if err != nil {
		return FileSystemError.New("failed to create the destination file: %s", dst).WithUnderlyingErrors(err)
	}
	defer Close(dstFile)

	_, err = io.Copy(dstFile, srcFile)
	if err != nil {
		return FileSystemError.New("failed to copy the file contents: %s", src).WithUnderlyingErrors(err)
	}

	return dstFile.Sync()
}

func (m *unixManager) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// attrPrefix is the xattr namespace the simulated DMAPI provider uses to store the hacksm attribute.
// Linux restricts user.* attributes to regular files and directories, which matches the scope of a
// managed region (exactly one region, spanning the whole file).
const attrPrefix = "user."

func (m *unixManager) GetAttr(path string, name string) ([]byte, bool, error) {
	size, err := unix.Getxattr(path, attrPrefix+name, nil)
	if err != nil {
		if err == unix.ENODATA {
			return nil, false, nil
		}
		return nil, false, FileSystemError.New("failed to stat xattr %q on %q", name, path).WithUnderlyingErrors(err)
	}

	if size == 0 {
		return []byte{}, true, nil
	}

	buf := make([]byte, size)
	n, err := unix.Getxattr(path, attrPrefix+name, buf)
	if err != nil {
		return nil, false, FileSystemError.New("failed to read xattr %q on %q", name, path).WithUnderlyingErrors(err)
	}

	return buf[:n], true, nil
}

func (m *unixManager) SetAttr(path string, name string, value []byte) error {
	if err := unix.Setxattr(path, attrPrefix+name, value, 0); err != nil {
		return FileSystemError.New("failed to set xattr %q on %q", name, path).WithUnderlyingErrors(err)
	}
	return nil
}

func (m *unixManager) RemoveAttr(path string, name string) error {
	if err := unix.Removexattr(path, attrPrefix+name); err != nil {
		if err == unix.ENODATA {
			return nil
		}
		return FileSystemError.New("failed to remove xattr %q on %q", name, path).WithUnderlyingErrors(err)
	}
	return nil
}

// PunchHole deallocates [offset, offset+length) while preserving the file's apparent size, the same
// mechanism `fallocate --punch-hole` uses. This is how a migrated file gives its data blocks back to the
// filesystem once the content lives in the store.
func (m *unixManager) PunchHole(path string, offset int64, length int64) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return FileNotFound.New("path %q not found", path).WithUnderlyingErrors(err)
	}
	defer Close(f)

	if length <= 0 {
		return nil
	}

	err = unix.Fallocate(int(f.Fd()), unix.FALLOC_FL_PUNCH_HOLE|unix.FALLOC_FL_KEEP_SIZE, offset, length)
	if err != nil {
		return FileSystemError.New("failed to punch hole in %q", path).WithUnderlyingErrors(err)
	}

	return nil
}
