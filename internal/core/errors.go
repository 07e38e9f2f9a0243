// SPDX-License-Identifier: Apache-2.0

package core

import "github.com/joomcode/errorx"

var (
	ErrNamespace = errorx.NewNamespace("hacksm")

	IllegalArgument = ErrNamespace.NewType("illegal_argument")
	ConfigNotFound  = ErrNamespace.NewType("config_not_found", errorx.NotFound())
)
