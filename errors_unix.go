//go:build !windows

package llio

import (
	"golang.org/x/sys/unix"
)

// kindFromErrno maps a POSIX errno to a Kind, per the switch style
// fuseops/convert.go uses for its own errno tables.
func kindFromErrno(errno unix.Errno) Kind {
	switch errno {
	case unix.EINVAL:
		return KindInvalidArgument
	case unix.ENOENT:
		return KindNotFound
	case unix.EEXIST:
		return KindAlreadyExists
	case unix.EACCES, unix.EPERM:
		return KindPermissionDenied
	case unix.EISDIR:
		return KindIsADirectory
	case unix.ENOTDIR:
		return KindNotADirectory
	case unix.ENOSPC, unix.EDQUOT:
		return KindNoSpace
	case unix.EINTR:
		return KindInterrupted
	case unix.ETIMEDOUT:
		return KindTimedOut
	case unix.ECANCELED:
		return KindOperationCanceled
	case unix.EIO:
		return KindIO
	case unix.ENOMEM:
		return KindOutOfMemory
	case unix.ENOSYS, unix.EOPNOTSUPP:
		return KindUnsupported
	default:
		return KindOther
	}
}

// wrapErrno wraps a raw POSIX errno returned by a syscall into an *Error
// tagged with the operation and path that produced it.
func wrapErrno(op, path string, err error) error {
	if err == nil {
		return nil
	}
	errno, ok := err.(unix.Errno)
	if !ok {
		return newError(op, path, KindOther, 0, CategoryGeneric)
	}
	return newError(op, path, kindFromErrno(errno), int(errno), CategoryGeneric)
}
