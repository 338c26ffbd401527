//go:build windows

package llio

import (
	"sync/atomic"

	"golang.org/x/sys/windows"
)

// submitReadNative issues one overlapped ReadFile per buffer, associating
// the handle with the service's completion port on first use (spec.md
// section 4.6, Windows model). Each buffer's completion is routed back
// through runServicePlatform independently; the state settles once every
// buffer's overlapped operation has completed.
func submitReadNative(svc *IoService, f *AsyncFileHandle, s *ReadState) error {
	h := f.Native().rawHandle()
	if err := ensureAssociated(svc, h); err != nil {
		return err
	}

	offset := s.request.Offset
	var overlapped []*windows.Overlapped
	for i, buf := range s.request.Buffers {
		ov := &windows.Overlapped{
			Offset:     uint32(offset),
			OffsetHigh: uint32(offset >> 32),
		}
		overlapped = append(overlapped, ov)
		registerOverlapped(svc, ov, pendingBuffer{
			core:   &s.ioStateCore,
			index:  i,
			handle: h,
			settle: func(index int, n int, nativeErr error) {
				completeReadBuffer(svc, s, index, n, nativeErr)
			},
		})
		offset += uint64(len(buf.Data))

		var done uint32
		err := windows.ReadFile(h, buf.Data, &done, ov)
		if err != nil && err != windows.ERROR_IO_PENDING {
			unregisterOverlapped(svc, ov)
			completeReadBuffer(svc, s, i, int(done), err)
		}
	}

	registerCancelable(svc, &s.ioStateCore, overlapped, func() {
		cancelOverlapped(svc, &s.ioStateCore)
	})
	return nil
}

func submitWriteNative(svc *IoService, f *AsyncFileHandle, s *WriteState) error {
	h := f.Native().rawHandle()
	if err := ensureAssociated(svc, h); err != nil {
		return err
	}

	offset := s.request.Offset
	var overlapped []*windows.Overlapped
	for i, buf := range s.request.Buffers {
		ov := &windows.Overlapped{
			Offset:     uint32(offset),
			OffsetHigh: uint32(offset >> 32),
		}
		overlapped = append(overlapped, ov)
		registerOverlapped(svc, ov, pendingBuffer{
			core:   &s.ioStateCore,
			index:  i,
			handle: h,
			settle: func(index int, n int, nativeErr error) {
				completeWriteBuffer(svc, s, index, n, nativeErr)
			},
		})
		offset += uint64(len(buf.Data))

		var done uint32
		err := windows.WriteFile(h, buf.Data, &done, ov)
		if err != nil && err != windows.ERROR_IO_PENDING {
			unregisterOverlapped(svc, ov)
			completeWriteBuffer(svc, s, i, int(done), err)
		}
	}

	registerCancelable(svc, &s.ioStateCore, overlapped, func() {
		cancelOverlapped(svc, &s.ioStateCore)
	})
	return nil
}

// registerCancelable wires core's cancelFunc the first time an operation is
// submitted. Cancel() may race a completion already in flight: CancelIoEx
// on an overlapped whose I/O already finished is a harmless no-op per the
// Win32 documentation.
func registerCancelable(svc *IoService, core *ioStateCore, overlapped []*windows.Overlapped, cancel func()) {
	svc.platform.mu.Lock()
	svc.platform.byCore[core.id] = overlapped
	svc.platform.mu.Unlock()

	core.mu.Lock()
	core.cancelFunc = cancel
	core.mu.Unlock()
}

// cancelOverlapped best-effort cancels every outstanding buffer operation
// for core. This is the one place a Run-external goroutine dispatches
// native completions: CancelIoEx's own completion still arrives through the
// port and is handled by runServicePlatform as usual, so this only asks the
// kernel to hurry that along.
func cancelOverlapped(svc *IoService, core *ioStateCore) {
	svc.platform.mu.Lock()
	ovs := svc.platform.byCore[core.id]
	svc.platform.mu.Unlock()

	for _, ov := range ovs {
		svc.platform.mu.Lock()
		pb, ok := svc.platform.overlapped[ov]
		svc.platform.mu.Unlock()
		if ok {
			_ = windows.CancelIoEx(pb.handle, ov)
		}
	}
}

func completeReadBuffer(svc *IoService, s *ReadState, index int, n int, nativeErr error) {
	if nativeErr == windows.ERROR_HANDLE_EOF {
		nativeErr = nil
	}
	s.mu.Lock()
	if s.result.Buffers == nil {
		s.result.Buffers = make([]Buffer, len(s.request.Buffers))
		copy(s.result.Buffers, s.request.Buffers)
	}
	s.mu.Unlock()
	s.result.Buffers[index].Data = s.request.Buffers[index].Data[:n]
	if nativeErr != nil && s.result.Err == nil {
		s.result.Err = wrapErrno("read", "", nativeErr)
	}

	if atomic.AddInt32(&s.itemsToGo, -1) == 0 {
		s.mu.Lock()
		cancelled := s.cancelled
		s.mu.Unlock()
		if cancelled && s.result.Err == nil {
			s.result.Err = newError("read", "", KindOperationCanceled, 0, CategoryGeneric)
		}
		svc.unregister(s.id)
		s.settle()
		s.report(s.result.Err)
		if s.completion != nil {
			s.completion(s.parent, s.result)
		}
	}
}

func completeWriteBuffer(svc *IoService, s *WriteState, index int, n int, nativeErr error) {
	if s.result.Buffers == nil {
		s.mu.Lock()
		if s.result.Buffers == nil {
			s.result.Buffers = make([]ConstBuffer, len(s.request.Buffers))
			copy(s.result.Buffers, s.request.Buffers)
		}
		s.mu.Unlock()
	}
	s.result.Buffers[index].Data = s.request.Buffers[index].Data[:n]
	if nativeErr != nil && s.result.Err == nil {
		s.result.Err = wrapErrno("write", "", nativeErr)
	}

	if atomic.AddInt32(&s.itemsToGo, -1) == 0 {
		s.mu.Lock()
		cancelled := s.cancelled
		s.mu.Unlock()
		if cancelled && s.result.Err == nil {
			s.result.Err = newError("write", "", KindOperationCanceled, 0, CategoryGeneric)
		}
		svc.unregister(s.id)
		s.settle()
		s.report(s.result.Err)
		if s.completion != nil {
			s.completion(s.parent, s.result)
		}
	}
}
