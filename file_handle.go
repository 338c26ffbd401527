package llio

import (
	"os"

	"github.com/aio-go/llio/internal/osutil"
)

// tempDir returns the platform temporary directory.
func tempDir() Path { return os.TempDir() }

// DeviceID and Inode identify a filesystem entry's stable identity,
// captured at open time (spec.md section 3, FileHandle).
type DeviceID = uint64
type Inode = uint64

// FileHandle extends Handle with the filesystem identity captured when it
// was opened: (DeviceID, Inode) is stable even if the file is later
// renamed; Path is the best-known path at open time and is not refreshed.
type FileHandle struct {
	*Handle
	dev  DeviceID
	ino  Inode
	path Path
}

var _ IoHandle = (*FileHandle)(nil)

func newFileHandle(h *Handle, dev DeviceID, ino Inode, path Path) *FileHandle {
	return &FileHandle{Handle: h, dev: dev, ino: ino, path: path}
}

// DeviceID returns the device identifier captured at open time.
func (f *FileHandle) DeviceID() DeviceID { return f.dev }

// Inode returns the inode number captured at open time.
func (f *FileHandle) Inode() Inode { return f.ino }

// Path returns the best-known path at open time. It is not refreshed if
// the file is later renamed or unlinked.
func (f *FileHandle) Path() Path { return f.path }

// File opens path with the given mode, creation disposition, caching
// policy and flags (spec.md section 4.1).
func File(path Path, mode Mode, creation Creation, caching Caching, flags Flag) (*FileHandle, error) {
	return openFile(path, mode, creation, caching, flags)
}

const randomNameLength = 32

// RandomFile repeatedly opens a random 32-character name with
// CreationOnlyIfNotExist inside dir; an EEXIST collision is retried, any
// other error surfaces (spec.md section 4.1).
func RandomFile(dir Path, mode Mode, caching Caching, flags Flag) (*FileHandle, error) {
	for {
		name := osutil.RandomName(randomNameLength) + ".random"
		fh, err := File(joinPath(dir, name), mode, CreationOnlyIfNotExist, caching, flags)
		if err == nil {
			return fh, nil
		}
		if !IsKind(err, KindAlreadyExists) {
			return nil, err
		}
		debugf("RandomFile: name collision %q in %q, retrying", name, dir)
	}
}

// TempFile opens name (or, if empty, a random name) in the platform
// temporary directory. Default flags include FlagUnlinkOnClose.
func TempFile(name Path, mode Mode, creation Creation, caching Caching, flags Flag) (*FileHandle, error) {
	flags |= FlagUnlinkOnClose
	if name == "" {
		return RandomFile(tempDir(), mode, caching, flags)
	}
	return File(joinPath(tempDir(), name), mode, creation, caching, flags)
}

// TempInode opens an anonymous inode inside dir: on POSIX via O_TMPFILE (or
// an open+unlink fallback), on Windows a hidden delete-on-close file. The
// resulting file has no accessible path (spec.md section 4.1).
func TempInode(dir Path, mode Mode, flags Flag) (*FileHandle, error) {
	return openTempInode(dir, mode, flags)
}

// Length returns the current size of the file in bytes.
func (f *FileHandle) Length() (uint64, error) {
	return lengthNative(f.Native())
}

// Read implements IoHandle.
func (f *FileHandle) Read(req IoRequest[Buffer], deadline Deadline) (IoResult[Buffer], error) {
	return scatterRead(f.Native(), f.Flags(), req, deadline)
}

// Write implements IoHandle.
func (f *FileHandle) Write(req IoRequest[ConstBuffer], deadline Deadline) (IoResult[ConstBuffer], error) {
	return scatterWrite(f.Native(), f.Flags(), req, deadline)
}

// Clone duplicates the kernel handle, preserving the captured filesystem
// identity and path.
func (f *FileHandle) Clone() (*FileHandle, error) {
	h2, err := f.Handle.Clone()
	if err != nil {
		return nil, err
	}
	return newFileHandle(h2, f.dev, f.ino, f.path), nil
}
