//go:build windows

package llio

import (
	"golang.org/x/sys/windows"

	"github.com/aio-go/llio/internal/osutil"
)

func viewAccess(flag SectionFlag) uint32 {
	access := uint32(0)
	switch {
	case flag.Has(SectionCow):
		access = windows.FILE_MAP_COPY
	case flag.Has(SectionWrite):
		access = windows.FILE_MAP_WRITE | windows.FILE_MAP_READ
	case flag.Has(SectionRead):
		access = windows.FILE_MAP_READ
	}
	if flag.Has(SectionExecute) {
		access |= windows.FILE_MAP_EXECUTE
	}
	return access
}

func mapNative(section *SectionHandle, bytes uint64, offset uint64, flag SectionFlag) (uintptr, uintptr, error) {
	access := viewAccess(flag)

	offsetHigh := uint32(offset >> 32)
	offsetLow := uint32(offset)

	addr, err := windows.MapViewOfFile(section.native.handle, access, offsetHigh, offsetLow, uintptr(bytes))
	if err != nil {
		return 0, 0, wrapErrno("mapviewoffile", "", err)
	}
	return addr, uintptr(bytes), nil
}

func unmapNative(addr, length uintptr) error {
	if addr == 0 {
		return nil
	}
	if err := windows.FlushViewOfFile(addr, 0); err != nil {
		debugf("unmapNative: flush before unmap failed, continuing: %v", err)
	}
	if err := windows.UnmapViewOfFile(addr); err != nil {
		return wrapErrno("unmapviewoffile", "", err)
	}
	return nil
}

func prefaultNative(addr, length uintptr) error {
	b := mapBytes(addr, length)
	page := int(osutil.PageSize())
	for i := 0; i < len(b); i += page {
		_ = b[i]
	}
	return nil
}

func protectNative(r Region, flag SectionFlag) error {
	protect := windows.PAGE_NOACCESS
	switch {
	case flag.Has(SectionCow) && flag.Has(SectionExecute):
		protect = windows.PAGE_EXECUTE_WRITECOPY
	case flag.Has(SectionCow):
		protect = windows.PAGE_WRITECOPY
	case flag.Has(SectionWrite) && flag.Has(SectionExecute):
		protect = windows.PAGE_EXECUTE_READWRITE
	case flag.Has(SectionWrite):
		protect = windows.PAGE_READWRITE
	case flag.Has(SectionRead) && flag.Has(SectionExecute):
		protect = windows.PAGE_EXECUTE_READ
	case flag.Has(SectionRead):
		protect = windows.PAGE_READONLY
	}

	var old uint32
	return wrapErrno("virtualprotect", "", windows.VirtualProtect(r.Addr, r.Length, uint32(protect), &old))
}

func adviseWillNeedNative(r Region) error {
	// No PrefetchVirtualMemory wrapper in golang.org/x/sys/windows; touching
	// the pages achieves the same fault-in effect.
	return prefaultNative(r.Addr, r.Length)
}

func adviseDontNeedNative(r Region) error {
	return nil
}

func zeroHoleNative(r Region) error {
	return errLibrary("discardvirtualmemory", KindUnsupported, "hole punching has no wrapper in this build")
}

func doNotStoreNative(region Region) (bool, error) {
	return false, nil
}

func prefetchNative(regions []Region) error {
	for _, r := range regions {
		if err := adviseWillNeedNative(r); err != nil {
			debugf("Prefetch: touch failed for region, continuing degraded: %v", err)
		}
	}
	return nil
}
