package fsx

import (
	"github.com/joomcode/errorx"
)

var (
	ErrorsNamespace   = errorx.NewNamespace("fsx")
	FileAlreadyExists = ErrorsNamespace.NewType("file_already_exists")
	FileNotFound      = ErrorsNamespace.NewType("file_not_found")
	FileSystemError   = ErrorsNamespace.NewType("filesystem_error")
	FileTypeError     = ErrorsNamespace.NewType("file_type_error")

	pathProperty = errorx.RegisterPrintableProperty("path")
)

// SafeErrorDetails emits a PII-safe slice describing the failing path, suitable for inclusion in
// diagnostic output without leaking file contents.
func SafeErrorDetails(err *errorx.Error) []string {
	var safeDetails []string
	if err == nil {
		return safeDetails
	}

	if val, ok := err.Property(pathProperty); ok {
		safeDetails = append(safeDetails, val.(string))
	}

	return safeDetails
}
