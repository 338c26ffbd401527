//go:build !windows

package llio

import (
	"os"

	"github.com/detailyang/go-fallocate"
	"golang.org/x/sys/unix"

	"github.com/aio-go/llio/internal/osutil"
)

func modeToOpenFlags(mode Mode) (flags int, caps Capability) {
	switch mode {
	case ModeAttrRead:
		return unix.O_RDONLY, CapReadable
	case ModeAttrWrite:
		return unix.O_WRONLY, CapWritable
	case ModeRead:
		return unix.O_RDONLY, CapReadable | CapSeekable
	case ModeWrite:
		return unix.O_RDWR, CapReadable | CapWritable | CapSeekable
	case ModeAppend:
		return unix.O_RDWR | unix.O_APPEND, CapReadable | CapWritable | CapSeekable | CapAppend
	default:
		return 0, 0
	}
}

func creationToOpenFlags(c Creation) int {
	switch c {
	case CreationOnlyIfNotExist:
		return unix.O_CREAT | unix.O_EXCL
	case CreationIfNeeded:
		return unix.O_CREAT
	case CreationTruncate:
		return unix.O_CREAT | unix.O_TRUNC
	default:
		return 0
	}
}

// openFile implements File for POSIX.
func openFile(path Path, mode Mode, creation Creation, caching Caching, flags Flag) (*FileHandle, error) {
	openFlags, caps := modeToOpenFlags(mode)
	openFlags |= creationToOpenFlags(creation)
	if flags.Has(FlagOverlapped) {
		caps |= CapOverlapped
	}
	if caching == CachingNone {
		openFlags |= directFlagIfSupported()
	}

	fd, err := unix.Open(path, openFlags, 0o600)
	if err != nil {
		if err == unix.EINTR {
			fd, err = unix.Open(path, openFlags, 0o600)
		}
		if err != nil {
			return nil, wrapErrno("open", path, err)
		}
	}

	if flags.Has(FlagUnlinkOnClose) {
		// POSIX: unlink at open, per spec.md section 6 ("Persisted state").
		_ = unix.Unlink(path)
	}

	return finishOpen(fd, caps, path, caching, flags)
}

// finishOpen captures (dev, ino) via fstat and wraps fd into a FileHandle.
func finishOpen(fd int, caps Capability, path Path, caching Caching, flags Flag) (*FileHandle, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		unix.Close(fd)
		return nil, wrapErrno("fstat", path, err)
	}

	native := newNativeHandle(fd, caps)
	h := newHandle(native, caching, flags)
	return newFileHandle(h, uint64(st.Dev), uint64(st.Ino), path), nil
}

// openTempInode opens an anonymous inode with O_TMPFILE when the kernel
// supports it, falling back to a named temp file that is unlinked
// immediately (the path becomes inaccessible the same way, though the
// directory entry existed momentarily).
func openTempInode(dir Path, mode Mode, flags Flag) (*FileHandle, error) {
	openFlags, caps := modeToOpenFlags(mode)
	if flags.Has(FlagOverlapped) {
		caps |= CapOverlapped
	}

	fd, err := unix.Open(dir, openFlags|unix.O_TMPFILE, 0o600)
	if err == nil {
		return finishOpen(fd, caps, "", CachingNone, flags|FlagUnlinkOnClose)
	}

	// O_TMPFILE unsupported (older kernel, or non-Linux POSIX): fall back to
	// a random named file, unlinked immediately after open.
	name := osutil.RandomName(randomNameLength) + ".tmp"
	path := joinPath(dir, name)
	fd, err = unix.Open(path, openFlags|unix.O_CREAT|unix.O_EXCL, 0o600)
	if err != nil {
		return nil, wrapErrno("open", path, err)
	}
	_ = unix.Unlink(path)
	return finishOpen(fd, caps, "", CachingNone, flags|FlagUnlinkOnClose)
}

func lengthNative(n NativeHandle) (uint64, error) {
	var st unix.Stat_t
	if err := unix.Fstat(n.rawFD(), &st); err != nil {
		return 0, wrapErrno("fstat", "", err)
	}
	return uint64(st.Size), nil
}

// preallocate extends the backing file to size bytes without leaving a
// sparse hole, using detailyang/go-fallocate (spec.md section 4.2,
// SectionHandle.Truncate "Windows extends the kernel section; POSIX simply
// updates the stored length", generalized here to actually reserve the
// space up front so later writes cannot hit ENOSPC mid-operation).
func preallocate(n NativeHandle, size uint64) error {
	dup, err := unix.Dup(n.rawFD())
	if err != nil {
		return wrapErrno("dup", "", err)
	}
	f := os.NewFile(uintptr(dup), "")
	defer f.Close() // closes only the duplicate descriptor, not n's.
	return fallocate.Fallocate(f, 0, int64(size))
}

func preadRetryEINTR(fd int, p []byte, offset int64) (int, error) {
	for {
		n, err := unix.Pread(fd, p, offset)
		if err == unix.EINTR {
			continue
		}
		return n, err
	}
}

func pwriteRetryEINTR(fd int, p []byte, offset int64) (int, error) {
	for {
		n, err := unix.Pwrite(fd, p, offset)
		if err == unix.EINTR {
			continue
		}
		return n, err
	}
}

// byteRangeLock and byteRangeUnlock back FlagByteLockInsanity: POSIX advisory
// locks are famously associated with (process, inode) rather than the file
// descriptor that took them, so closing any fd the process holds open on the
// same file silently drops locks taken through a different fd. Bracketing
// each transfer with its own lock/unlock at least gives callers who opted
// into the flag the same "no other locker can race this transfer" guarantee
// Windows gives by default, at the cost of that insanity remaining latent
// (spec.md section 3, FlagByteLockInsanity).
func byteRangeLock(fd int, offset int64, length int64, exclusive bool) error {
	typ := int16(unix.F_RDLCK)
	if exclusive {
		typ = unix.F_WRLCK
	}
	lk := unix.Flock_t{Type: typ, Whence: int16(unix.SEEK_SET), Start: offset, Len: length}
	for {
		err := unix.FcntlFlock(uintptr(fd), unix.F_SETLKW, &lk)
		if err == unix.EINTR {
			continue
		}
		return err
	}
}

func byteRangeUnlock(fd int, offset int64, length int64) error {
	lk := unix.Flock_t{Type: int16(unix.F_UNLCK), Whence: int16(unix.SEEK_SET), Start: offset, Len: length}
	return unix.FcntlFlock(uintptr(fd), unix.F_SETLK, &lk)
}

func scatterRead(n NativeHandle, flags Flag, req IoRequest[Buffer], deadline Deadline) (IoResult[Buffer], error) {
	if deadline.expired() {
		return IoResult[Buffer]{Buffers: req.Buffers}, newError("read", "", KindTimedOut, 0, CategoryGeneric)
	}

	insane := flags.Has(FlagByteLockInsanity)
	offset := int64(req.Offset)
	eof := false
	for i := range req.Buffers {
		buf := &req.Buffers[i]
		if eof {
			buf.Data = buf.Data[:0]
			continue
		}

		want := len(buf.Data)
		if insane && want > 0 {
			if err := byteRangeLock(n.rawFD(), offset, int64(want), false); err != nil {
				wrapped := wrapErrno("read", "", err)
				return IoResult[Buffer]{Buffers: req.Buffers, Err: wrapped}, wrapped
			}
		}
		got, err := preadRetryEINTR(n.rawFD(), buf.Data, offset)
		if insane && want > 0 {
			_ = byteRangeUnlock(n.rawFD(), offset, int64(want))
		}
		if err != nil {
			wrapped := wrapErrno("read", "", err)
			return IoResult[Buffer]{Buffers: req.Buffers, Err: wrapped}, wrapped
		}

		buf.Data = buf.Data[:got]
		offset += int64(got)
		if got < want {
			eof = true
		}
	}

	debugf("scatterRead: transferred %d bytes across %d buffers", TotalLen(req.Buffers), len(req.Buffers))
	return IoResult[Buffer]{Buffers: req.Buffers}, nil
}

func scatterWrite(n NativeHandle, flags Flag, req IoRequest[ConstBuffer], deadline Deadline) (IoResult[ConstBuffer], error) {
	if deadline.expired() {
		return IoResult[ConstBuffer]{Buffers: req.Buffers}, newError("write", "", KindTimedOut, 0, CategoryGeneric)
	}

	insane := flags.Has(FlagByteLockInsanity)
	offset := int64(req.Offset)
	for i := range req.Buffers {
		buf := &req.Buffers[i]
		remaining := buf.Data
		if insane && len(remaining) > 0 {
			if err := byteRangeLock(n.rawFD(), offset, int64(len(remaining)), true); err != nil {
				wrapped := wrapErrno("write", "", err)
				return IoResult[ConstBuffer]{Buffers: req.Buffers, Err: wrapped}, wrapped
			}
		}
		lockOffset, lockLen := offset, int64(len(remaining))
		for len(remaining) > 0 {
			got, err := pwriteRetryEINTR(n.rawFD(), remaining, offset)
			if err != nil {
				if insane && lockLen > 0 {
					_ = byteRangeUnlock(n.rawFD(), lockOffset, lockLen)
				}
				wrapped := wrapErrno("write", "", err)
				return IoResult[ConstBuffer]{Buffers: req.Buffers, Err: wrapped}, wrapped
			}
			remaining = remaining[got:]
			offset += int64(got)
		}
		if insane && lockLen > 0 {
			_ = byteRangeUnlock(n.rawFD(), lockOffset, lockLen)
		}
	}

	debugf("scatterWrite: transferred %d bytes across %d buffers", TotalLen(req.Buffers), len(req.Buffers))
	return IoResult[ConstBuffer]{Buffers: req.Buffers}, nil
}
