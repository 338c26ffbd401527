//go:build windows

package llio

import "golang.org/x/sys/windows"

// nativeFD is a Windows kernel handle.
type nativeFD = windows.Handle

const invalidFD nativeFD = windows.InvalidHandle

func newNativeHandle(fd windows.Handle, caps Capability) NativeHandle {
	return NativeHandle{fd: fd, caps: caps}
}

// rawHandle returns the raw windows.Handle, for use by package-internal
// syscalls.
func (h NativeHandle) rawHandle() windows.Handle { return h.fd }
