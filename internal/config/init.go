// SPDX-License-Identifier: Apache-2.0

package config

import "github.com/automa-saga/logx"

func init() {
	// initialize logging with defaults; Initialize(path) re-applies this
	// once a config file overrides the log block.
	_ = logx.Initialize(globalConfig.Log)
}
