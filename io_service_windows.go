//go:build windows

package llio

import (
	"sync"
	"time"

	"golang.org/x/sys/windows"
)

// pendingBuffer records which ReadState/WriteState buffer a given
// OVERLAPPED belongs to, so Run can route a GetQueuedCompletionStatus
// result back to the right state (spec.md section 4.5, "platform
// completion inputs").
type pendingBuffer struct {
	core     *ioStateCore
	index    int
	settle   func(index int, n int, err error)
	handle   windows.Handle
}

// ioServicePlatform on Windows is a real I/O completion port: file handles
// bound to an AsyncFileHandle are associated with it once, and Run drives
// GetQueuedCompletionStatus directly (spec.md section 4.6, "Windows model").
type ioServicePlatform struct {
	iocp windows.Handle

	mu         sync.Mutex
	associated map[windows.Handle]bool
	overlapped map[*windows.Overlapped]pendingBuffer
	byCore     map[uint64][]*windows.Overlapped
}

func initServicePlatform(s *IoService) error {
	h, err := windows.CreateIoCompletionPort(windows.InvalidHandle, 0, 0, 0)
	if err != nil {
		return wrapErrno("createiocompletionport", "", err)
	}
	s.platform.iocp = h
	s.platform.associated = make(map[windows.Handle]bool)
	s.platform.overlapped = make(map[*windows.Overlapped]pendingBuffer)
	s.platform.byCore = make(map[uint64][]*windows.Overlapped)
	return nil
}

// ensureAssociated associates h with the service's completion port exactly
// once; CreateIoCompletionPort errors if called twice for the same handle.
func ensureAssociated(s *IoService, h windows.Handle) error {
	s.platform.mu.Lock()
	defer s.platform.mu.Unlock()

	if s.platform.associated[h] {
		return nil
	}
	if _, err := windows.CreateIoCompletionPort(h, s.platform.iocp, uintptr(h), 0); err != nil {
		return wrapErrno("createiocompletionport", "", err)
	}
	s.platform.associated[h] = true
	return nil
}

func registerOverlapped(s *IoService, ov *windows.Overlapped, pb pendingBuffer) {
	s.platform.mu.Lock()
	s.platform.overlapped[ov] = pb
	s.platform.mu.Unlock()
}

func unregisterOverlapped(s *IoService, ov *windows.Overlapped) (pendingBuffer, bool) {
	s.platform.mu.Lock()
	defer s.platform.mu.Unlock()
	pb, ok := s.platform.overlapped[ov]
	if ok {
		delete(s.platform.overlapped, ov)
	}
	return pb, ok
}

func runServicePlatform(s *IoService, deadline Deadline) error {
	remaining, infinite := deadline.remaining(s.clock)

	timeout := uint32(windows.INFINITE)
	if !infinite {
		if remaining <= 0 {
			timeout = 0
		} else {
			timeout = uint32(remaining / time.Millisecond)
		}
	}

	var qty uint32
	var key uintptr
	var ov *windows.Overlapped
	err := windows.GetQueuedCompletionStatus(s.platform.iocp, &qty, &key, &ov, timeout)

	if ov == nil {
		if err == windows.WAIT_TIMEOUT {
			return newError("run", "", KindTimedOut, 0, CategoryGeneric)
		}
		return wrapErrno("getqueuedcompletionstatus", "", err)
	}

	pb, ok := unregisterOverlapped(s, ov)
	if !ok {
		return nil
	}

	nativeErr := err
	if nativeErr == windows.ERROR_HANDLE_EOF {
		nativeErr = nil
	}
	pb.settle(pb.index, int(qty), nativeErr)
	return nil
}

func closeServicePlatform(s *IoService) error {
	if s.platform.iocp == 0 {
		return nil
	}
	return wrapErrno("closehandle", "", windows.CloseHandle(s.platform.iocp))
}
