//go:build windows

package llio

import (
	"golang.org/x/sys/windows"
)

func closeNative(n NativeHandle) error {
	if !n.Valid() {
		return nil
	}
	if err := windows.CloseHandle(n.rawHandle()); err != nil {
		return wrapErrno("close", "", err)
	}
	return nil
}

func fsyncNative(n NativeHandle) error {
	if err := windows.FlushFileBuffers(n.rawHandle()); err != nil {
		return wrapErrno("fsync", "", err)
	}
	return nil
}

func cloneNative(n NativeHandle) (NativeHandle, error) {
	proc := windows.CurrentProcess()
	var dup windows.Handle
	err := windows.DuplicateHandle(
		proc, n.rawHandle(), proc, &dup, 0, true, windows.DUPLICATE_SAME_ACCESS)
	if err != nil {
		return NativeHandle{}, wrapErrno("duplicatehandle", "", err)
	}
	return newNativeHandle(dup, n.caps), nil
}
