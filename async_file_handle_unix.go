//go:build !windows

package llio

// submitReadNative spawns a goroutine that performs the scatter-gather read
// synchronously and funnels the result back through the service's
// completion channel. This is a deliberate substitution for POSIX AIO: see
// io_service_unix.go's doc comment. cancelFunc is left unset here because a
// blocking pread(2) already in flight cannot be interrupted; requestCancel
// still marks the state cancelled and the completion closure below honors
// that flag if it wins the race against the syscall finishing naturally.
func submitReadNative(svc *IoService, f *AsyncFileHandle, s *ReadState) error {
	native := f.Native()
	flags := f.Flags()
	go func() {
		result, err := scatterRead(native, flags, s.request, DeadlineNone)
		svc.platform.completions <- func() {
			finishRead(svc, s, result, err)
		}
	}()
	return nil
}

func submitWriteNative(svc *IoService, f *AsyncFileHandle, s *WriteState) error {
	native := f.Native()
	flags := f.Flags()
	go func() {
		result, err := scatterWrite(native, flags, s.request, DeadlineNone)
		svc.platform.completions <- func() {
			finishWrite(svc, s, result, err)
		}
	}()
	return nil
}

func finishRead(svc *IoService, s *ReadState, result IoResult[Buffer], err error) {
	s.mu.Lock()
	cancelled := s.cancelled
	s.mu.Unlock()

	if cancelled && err == nil {
		err = newError("read", "", KindOperationCanceled, 0, CategoryGeneric)
	}
	result.Err = err
	s.result = result
	svc.unregister(s.id)
	s.settle()
	s.report(err)
	if s.completion != nil {
		s.completion(s.parent, result)
	}
}

func finishWrite(svc *IoService, s *WriteState, result IoResult[ConstBuffer], err error) {
	s.mu.Lock()
	cancelled := s.cancelled
	s.mu.Unlock()

	if cancelled && err == nil {
		err = newError("write", "", KindOperationCanceled, 0, CategoryGeneric)
	}
	result.Err = err
	s.result = result
	svc.unregister(s.id)
	s.settle()
	s.report(err)
	if s.completion != nil {
		s.completion(s.parent, result)
	}
}
