//go:build windows

package llio

import (
	"golang.org/x/sys/windows"
)

// sectionNative is the kernel section object handle on Windows.
type sectionNative struct {
	handle windows.Handle
}

// Windows attribute bits for CreateFileMapping's flProtect, not exposed by
// golang.org/x/sys/windows (they live in winnt.h alongside the PAGE_*
// constants x/sys does export).
const (
	secImage   = 0x1000000
	secReserve = 0x4000000
)

func sectionProtection(flag SectionFlag, backed bool) uint32 {
	switch {
	case flag.Has(SectionCow) && flag.Has(SectionExecute):
		return windows.PAGE_EXECUTE_WRITECOPY
	case flag.Has(SectionExecute):
		return windows.PAGE_EXECUTE
	case flag.Has(SectionCow):
		return windows.PAGE_WRITECOPY
	case flag.Has(SectionWrite):
		return windows.PAGE_READWRITE
	case flag.Has(SectionRead) && backed:
		return windows.PAGE_READONLY | secReserve
	case flag.Has(SectionRead):
		return windows.PAGE_READONLY
	case !backed:
		return windows.PAGE_READWRITE | secReserve
	default:
		return windows.PAGE_READONLY
	}
}

func createSectionNative(backing *FileHandle, maximumSize uint64, flag SectionFlag) (sectionNative, error) {
	protect := sectionProtection(flag, backing != nil)
	if flag.Has(SectionExecutableImage) {
		protect |= secImage
	}

	var fileHandle windows.Handle = windows.InvalidHandle
	if backing != nil {
		fileHandle = backing.Native().rawHandle()
	}

	sizeHigh := uint32(maximumSize >> 32)
	sizeLow := uint32(maximumSize)

	h, err := windows.CreateFileMapping(fileHandle, nil, protect, sizeHigh, sizeLow, nil)
	if err != nil {
		return sectionNative{}, wrapErrno("createfilemapping", "", err)
	}
	return sectionNative{handle: h}, nil
}

func truncateSectionNative(s *SectionHandle, rounded uint64) error {
	old := s.native
	native, err := createSectionNative(s.backing, rounded, s.flag)
	if err != nil {
		return err
	}
	if old.handle != 0 {
		windows.CloseHandle(old.handle)
	}
	s.native = native
	return nil
}

func closeSectionNative(n sectionNative) error {
	if n.handle == 0 || n.handle == windows.InvalidHandle {
		return nil
	}
	if err := windows.CloseHandle(n.handle); err != nil {
		return wrapErrno("closehandle", "", err)
	}
	return nil
}
