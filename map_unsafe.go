package llio

import "unsafe"

// mapBytes views length bytes starting at addr as a []byte without copying.
// addr/length always come from a successful platform map call, so the
// region is guaranteed to be valid virtual memory for the life of the
// MapHandle that produced them.
func mapBytes(addr, length uintptr) []byte {
	if addr == 0 || length == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(length))
}

// mapAddr returns the address of data's backing array, for stashing the
// base address of a just-established mapping.
func mapAddr(data []byte) uintptr {
	if len(data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(data)))
}

// memsetRegion zeroes region in place. Used for the non-page-aligned
// head/tail of MapHandle.Zero, where no OS hole-punching advice applies.
func memsetRegion(region Region) {
	b := mapBytes(region.Addr, region.Length)
	for i := range b {
		b[i] = 0
	}
}
