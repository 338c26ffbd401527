//go:build !windows

package llio

import (
	"golang.org/x/sys/unix"
)

func closeNative(n NativeHandle) error {
	if !n.Valid() {
		return nil
	}
	for {
		err := unix.Close(n.rawFD())
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return wrapErrno("close", "", err)
		}
		return nil
	}
}

func fsyncNative(n NativeHandle) error {
	for {
		err := unix.Fsync(n.rawFD())
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return wrapErrno("fsync", "", err)
		}
		return nil
	}
}

func cloneNative(n NativeHandle) (NativeHandle, error) {
	fd, err := unix.Dup(n.rawFD())
	if err != nil {
		return NativeHandle{}, wrapErrno("dup", "", err)
	}
	return newNativeHandle(fd, n.caps), nil
}
