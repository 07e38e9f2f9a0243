/*
 * Copyright 2016-2022 Hedera Hashgraph, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package plock

import "time"

const (
	// ProviderLocal identifies the local filesystem fileStore implementation.
	ProviderLocal = "local"

	// InvalidPID is the sentinel passed to NewLock when the caller wants
	// Acquire to stamp the calling process's own PID rather than a specific one.
	InvalidPID = -1

	// LockFileExtension suffixes every lock and pid file name.
	LockFileExtension = ".plock"

	// PidSeparator joins lockName and pid in a pid file's name:
	// {lockName}{PidSeparator}{pid}{LockFileExtension}.
	PidSeparator = "."

	// IdentifierSeparator joins the fields of Info.String().
	IdentifierSeparator = ":"

	// DefaultRetryDelay is the polling interval TryAcquire uses while
	// waiting for a contended lock to free up.
	DefaultRetryDelay = 200 * time.Millisecond

	// DefaultLocalWorkDir is the work directory NewLock falls back to when
	// none is supplied.
	DefaultLocalWorkDir = "/tmp/hacksm/plock"
)
