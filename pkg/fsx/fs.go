/*
 * Copyright (C) 2021-2023 Hedera Hashgraph, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package fsx

import (
	"io/fs"
	"os"
)

// Manager provides an operating system independent interface for managing files and directories.
type Manager interface {
	// PathExists determines if the source path exists. This method does not follow symlinks.
	PathExists(path string) (os.FileInfo, bool, error)
	// IsRegularFile returns true if the path is a regular file; otherwise, false is returned.
	IsRegularFile(path string) bool
	// IsRegularFileByFileInfo returns true if the file info is a regular file; otherwise, false is returned.
	IsRegularFileByFileInfo(fi os.FileInfo) bool
	// IsDirectory returns true if the path is a directory; otherwise, false is returned.
	IsDirectory(path string) bool
	// IsDirectoryByFileInfo returns true if the file info is a directory; otherwise, false is returned.
	IsDirectoryByFileInfo(fi os.FileInfo) bool
	// IsHardLink returns true if the path is a hard link; otherwise, false is returned.
	IsHardLink(path string) bool
	// IsHardLinkByFileInfo returns true if the file info is a hard link; otherwise, false is returned.
	IsHardLinkByFileInfo(fi os.FileInfo) bool
	// CreateDirectory creates a directory at the path specified by the path argument.
	// If the path argument refers to an existing directory, then no action is taken and no error is returned.
	// If the path argument refers to an existing file, then an error is returned.
	// If the path argument refers to a non-existent parent path, then an error is returned unless
	// the recursive argument is true.
	CreateDirectory(path string, recursive bool) error
	// CopyFile copies a single file.
	CopyFile(src string, dst string, overwrite bool) error
	// CreateHardLink creates a hard link at the path specified by the dst argument which points to the file
	// referenced by the src argument.
	CreateHardLink(src string, dst string, overwrite bool) error
	// ReadPermissions returns the permissions of the file at the given path.
	ReadPermissions(path string) (fs.FileMode, error)
	// ReadFile reads whole file as long as it's size is less than the maxFileSize argument.
	// This helper method ensures we avoid reading a very large file accidentally.
	// A negative maxFileSize will disable the file size check.
	ReadFile(path string, maxFileSize int64) ([]byte, error)
	// WriteFile writes payload to a file.
	// If a file exists at the path, it overwrites it with new contents.
	WriteFile(path string, payload []byte) error
	// RemoveAll removes the path and its contents.
	// It is a wrapper of os.RemoveAll. This interface exists to help us mock the functionality during tests.
	RemoveAll(path string) error

	// PunchHole deallocates the byte range [offset, offset+length) of the file at path while preserving its
	// apparent size. Used to free the data blocks of a regular file once its content has been migrated to the
	// external store.
	PunchHole(path string, offset int64, length int64) error

	// GetAttr reads the named extended attribute from path. It returns (nil, false, nil) if the attribute is
	// not set.
	GetAttr(path string, name string) ([]byte, bool, error)
	// SetAttr sets the named extended attribute on path to value.
	SetAttr(path string, name string, value []byte) error
	// RemoveAttr removes the named extended attribute from path. It is not an error if the attribute is unset.
	RemoveAttr(path string, name string) error
}
