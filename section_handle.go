package llio

import (
	"runtime"

	"github.com/jacobsa/syncutil"

	"github.com/aio-go/llio/internal/osutil"
)

// SectionFlag is a bit set describing the protection and attributes a
// SectionHandle was created with (spec.md section 3).
type SectionFlag uint32

const (
	SectionRead SectionFlag = 1 << iota
	SectionWrite
	SectionCow
	SectionExecute
	SectionExecutableImage
	SectionNoCommit
	SectionPrefault
	SectionSingleton
)

func (f SectionFlag) Has(bit SectionFlag) bool { return f&bit != 0 }

// SectionHandle owns a section identity: on Windows a real kernel section
// object, on POSIX only bookkeeping state (spec.md section 3). It borrows,
// rather than owns, its backing FileHandle: the caller must keep the
// backing valid for the section's lifetime (spec.md section 5, "shared
// resources").
type SectionHandle struct {
	mu syncutil.InvariantMutex

	backing     *FileHandle   // borrowed, may be nil (anonymous section)
	maximumSize uint64        // GUARDED_BY(mu)
	flag        SectionFlag
	native      sectionNative // GUARDED_BY(mu); zero value on POSIX
	closed      bool          // GUARDED_BY(mu)
}

func (s *SectionHandle) checkInvariants() {
	if s.backing == nil && s.maximumSize%uint64(osutil.PageSize()) != 0 {
		panic("llio.SectionHandle: unbacked maximum_size is not page aligned")
	}
}

// Section constructs a SectionHandle over an optional backing FileHandle,
// per spec.md section 4.2. A zero maximumSize with a backing file defaults
// to the backing's current length; a zero maximumSize with no backing is
// invalid_argument. An anonymous (unbacked) section always rounds up to
// the page size.
func Section(backing *FileHandle, maximumSize uint64, flag SectionFlag) (*SectionHandle, error) {
	if maximumSize == 0 {
		if backing == nil {
			return nil, errLibrary("section", KindInvalidArgument, "maximum_size is zero and section has no backing file")
		}
		length, err := backing.Length()
		if err != nil {
			return nil, err
		}
		maximumSize = length
	}
	if backing == nil {
		maximumSize = uint64(osutil.RoundUpPage(uintptr(maximumSize)))
	}

	s := &SectionHandle{backing: backing, maximumSize: maximumSize, flag: flag}
	s.mu = syncutil.NewInvariantMutex(s.checkInvariants)

	native, err := createSectionNative(backing, maximumSize, flag)
	if err != nil {
		return nil, err
	}
	s.native = native

	runtime.SetFinalizer(s, finalizeSectionHandle)
	return s, nil
}

// finalizeSectionHandle stands in for SectionHandle's destructor, matching
// Handle's finalizer pattern (spec.md section 5: "a failed release aborts
// the process").
func finalizeSectionHandle(s *SectionHandle) {
	s.mu.Lock()
	closed := s.closed
	native := s.native
	s.closed = true
	s.mu.Unlock()

	if closed {
		return
	}
	if err := closeSectionNative(native); err != nil {
		panic("llio: fatal: section handle finalized while open and close failed: " + err.Error())
	}
}

// Backing returns the section's borrowed backing FileHandle, or nil for an
// anonymous section.
func (s *SectionHandle) Backing() *FileHandle { return s.backing }

// MaximumSize returns the section's current maximum size.
func (s *SectionHandle) MaximumSize() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maximumSize
}

// Flag returns the protection/attribute flags the section was created with.
func (s *SectionHandle) Flag() SectionFlag { return s.flag }

// Truncate sets maximumSize to a page-rounded value, per spec.md section
// 4.2: on Windows this extends the kernel section object; on POSIX it
// updates the stored length and, when backed, preallocates the backing
// file so a later map does not race a growing file.
func (s *SectionHandle) Truncate(newSize uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rounded := uint64(osutil.RoundUpPage(uintptr(newSize)))
	if err := truncateSectionNative(s, rounded); err != nil {
		return err
	}
	s.maximumSize = rounded
	return nil
}

// Close releases the section's kernel object, if any. Idempotent.
func (s *SectionHandle) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	if err := closeSectionNative(s.native); err != nil {
		return err
	}
	s.closed = true
	runtime.SetFinalizer(s, nil)
	return nil
}
