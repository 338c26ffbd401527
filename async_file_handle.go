package llio

import (
	"context"

	"github.com/jacobsa/reqtrace"

	"github.com/aio-go/llio/internal/osutil"
)

// AsyncFileHandle is a FileHandle bound to an IoService: AsyncRead and
// AsyncWrite submit scatter-gather I/O that completes asynchronously,
// dispatched when the service's Run is called (spec.md section 4.5). The
// service is borrowed, not owned; closing the AsyncFileHandle does not
// close the service, and the same service may back many handles.
type AsyncFileHandle struct {
	*FileHandle
	service *IoService
}

func newAsyncFileHandle(fh *FileHandle, svc *IoService) *AsyncFileHandle {
	return &AsyncFileHandle{FileHandle: fh, service: svc}
}

// AsyncFile opens path for asynchronous I/O, forcing FlagOverlapped so the
// underlying handle is always eligible for overlapped completion on
// Windows and is otherwise indistinguishable from FileHandle on POSIX
// (spec.md section 4.5: "an AsyncFileHandle is always opened overlapped").
func AsyncFile(service *IoService, path Path, mode Mode, creation Creation, caching Caching, flags Flag) (*AsyncFileHandle, error) {
	fh, err := File(path, mode, creation, caching, flags|FlagOverlapped)
	if err != nil {
		return nil, err
	}
	return newAsyncFileHandle(fh, service), nil
}

// AsyncRandomFile is RandomFile's asynchronous counterpart.
func AsyncRandomFile(service *IoService, dir Path, mode Mode, caching Caching, flags Flag) (*AsyncFileHandle, error) {
	for {
		name := osutil.RandomName(randomNameLength) + ".random"
		fh, err := AsyncFile(service, joinPath(dir, name), mode, CreationOnlyIfNotExist, caching, flags)
		if err == nil {
			return fh, nil
		}
		if !IsKind(err, KindAlreadyExists) {
			return nil, err
		}
	}
}

// AsyncTempFile is TempFile's asynchronous counterpart.
func AsyncTempFile(service *IoService, name Path, mode Mode, creation Creation, caching Caching, flags Flag) (*AsyncFileHandle, error) {
	flags |= FlagUnlinkOnClose
	if name == "" {
		return AsyncRandomFile(service, tempDir(), mode, caching, flags)
	}
	return AsyncFile(service, joinPath(tempDir(), name), mode, creation, caching, flags)
}

// AsyncTempInode is TempInode's asynchronous counterpart: it opens the
// anonymous inode synchronously (O_TMPFILE has no overlapped equivalent to
// race against) and then wraps it for async use.
func AsyncTempInode(service *IoService, dir Path, mode Mode, flags Flag) (*AsyncFileHandle, error) {
	fh, err := TempInode(dir, mode, flags|FlagOverlapped)
	if err != nil {
		return nil, err
	}
	return newAsyncFileHandle(fh, service), nil
}

// Clone duplicates the kernel handle and rebinds it to service, which may
// differ from the handle's current service.
func (f *AsyncFileHandle) Clone(service *IoService) (*AsyncFileHandle, error) {
	fh2, err := f.FileHandle.Clone()
	if err != nil {
		return nil, err
	}
	return newAsyncFileHandle(fh2, service), nil
}

// AsyncRead submits a scatter-gather read and returns immediately. completion,
// if non-nil, runs on whatever goroutine calls service.Run when the read
// settles (spec.md section 4.6).
func (f *AsyncFileHandle) AsyncRead(req IoRequest[Buffer], completion func(*AsyncFileHandle, IoResult[Buffer])) (*ReadState, error) {
	s := &ReadState{
		ioStateCore: newIoStateCore(f, ioOpRead, len(req.Buffers)),
		request:     req,
		completion:  completion,
	}
	_, s.report = reqtrace.StartSpan(context.Background(), "llio.AsyncRead")
	f.service.register(&s.ioStateCore)
	if err := submitReadNative(f.service, f, s); err != nil {
		f.service.unregister(s.id)
		s.report(err)
		return nil, err
	}
	return s, nil
}

// AsyncWrite submits a scatter-gather write and returns immediately.
func (f *AsyncFileHandle) AsyncWrite(req IoRequest[ConstBuffer], completion func(*AsyncFileHandle, IoResult[ConstBuffer])) (*WriteState, error) {
	s := &WriteState{
		ioStateCore: newIoStateCore(f, ioOpWrite, len(req.Buffers)),
		request:     req,
		completion:  completion,
	}
	_, s.report = reqtrace.StartSpan(context.Background(), "llio.AsyncWrite")
	f.service.register(&s.ioStateCore)
	if err := submitWriteNative(f.service, f, s); err != nil {
		f.service.unregister(s.id)
		s.report(err)
		return nil, err
	}
	return s, nil
}
