//go:build windows

package llio

import (
	"golang.org/x/sys/windows"
)

// kindFromWindowsError maps a Win32 error code to a Kind. This package
// reaches Windows through golang.org/x/sys/windows's Win32 wrappers rather
// than binding ntdll's NTSTATUS codes directly (see DESIGN.md); Win32
// error codes are the ones these wrappers actually surface.
func kindFromWindowsError(code windows.Errno) Kind {
	switch code {
	case windows.ERROR_INVALID_PARAMETER:
		return KindInvalidArgument
	case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_PATH_NOT_FOUND:
		return KindNotFound
	case windows.ERROR_FILE_EXISTS, windows.ERROR_ALREADY_EXISTS:
		return KindAlreadyExists
	case windows.ERROR_ACCESS_DENIED:
		return KindPermissionDenied
	case windows.ERROR_DIRECTORY:
		return KindNotADirectory
	case windows.ERROR_DISK_FULL, windows.ERROR_HANDLE_DISK_FULL:
		return KindNoSpace
	case windows.WAIT_TIMEOUT:
		return KindTimedOut
	case windows.ERROR_OPERATION_ABORTED:
		return KindOperationCanceled
	case windows.ERROR_NOT_SUPPORTED:
		return KindUnsupported
	case windows.ERROR_NOT_ENOUGH_MEMORY, windows.ERROR_OUTOFMEMORY:
		return KindOutOfMemory
	default:
		return KindOther
	}
}

// wrapErrno wraps a raw Windows error returned by a syscall into an *Error
// tagged with the operation and path that produced it.
func wrapErrno(op, path string, err error) error {
	if err == nil {
		return nil
	}
	errno, ok := err.(windows.Errno)
	if !ok {
		return newError(op, path, KindOther, 0, CategoryNTStatus)
	}
	return newError(op, path, kindFromWindowsError(errno), int(errno), CategoryNTStatus)
}
