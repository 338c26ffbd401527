//go:build !windows

package llio

import (
	"golang.org/x/sys/unix"

	"github.com/aio-go/llio/internal/osutil"
)

func protectionBits(flag SectionFlag) int {
	if flag.Has(SectionNoCommit) && flag == SectionNoCommit {
		return unix.PROT_NONE
	}
	prot := 0
	switch {
	case flag.Has(SectionCow):
		prot = unix.PROT_READ | unix.PROT_WRITE
	case flag.Has(SectionWrite):
		prot = unix.PROT_READ | unix.PROT_WRITE
	case flag.Has(SectionRead):
		prot = unix.PROT_READ
	}
	if flag.Has(SectionExecute) {
		prot |= unix.PROT_EXEC
	}
	if prot == 0 {
		prot = unix.PROT_NONE
	}
	return prot
}

func mapNative(section *SectionHandle, bytes uint64, offset uint64, flag SectionFlag) (uintptr, uintptr, error) {
	prot := protectionBits(flag)

	fd := -1
	mmapFlags := unix.MAP_SHARED
	if flag.Has(SectionCow) {
		mmapFlags = unix.MAP_PRIVATE
	}
	if section.Backing() != nil {
		fd = section.Backing().Native().rawFD()
	} else {
		mmapFlags = unix.MAP_PRIVATE | unix.MAP_ANONYMOUS
	}
	if flag.Has(SectionNoCommit) {
		mmapFlags |= unix.MAP_NORESERVE
	}

	data, err := unix.Mmap(fd, int64(offset), int(bytes), prot, mmapFlags)
	if err != nil {
		return 0, 0, wrapErrno("mmap", "", err)
	}
	return mapAddr(data), uintptr(len(data)), nil
}

func unmapNative(addr, length uintptr) error {
	if addr == 0 {
		return nil
	}
	return wrapErrno("munmap", "", unix.Munmap(mapBytes(addr, length)))
}

func prefaultNative(addr, length uintptr) error {
	b := mapBytes(addr, length)
	if err := unix.Madvise(b, unix.MADV_WILLNEED); err == nil {
		return nil
	}
	// Kernel lacks MADV_WILLNEED for this mapping kind: touch one byte per
	// page so the fault-in happens now instead of on first real access.
	page := int(osutil.PageSize())
	for i := 0; i < len(b); i += page {
		_ = b[i]
	}
	return nil
}

func protectNative(r Region, flag SectionFlag) error {
	prot := protectionBits(flag)
	if flag == 0 {
		prot = unix.PROT_NONE
	}
	return wrapErrno("mprotect", "", unix.Mprotect(mapBytes(r.Addr, r.Length), prot))
}

func adviseWillNeedNative(r Region) error {
	return wrapErrno("madvise", "", unix.Madvise(mapBytes(r.Addr, r.Length), unix.MADV_WILLNEED))
}

func adviseDontNeedNative(r Region) error {
	return wrapErrno("madvise", "", unix.Madvise(mapBytes(r.Addr, r.Length), unix.MADV_DONTNEED))
}

func doNotStoreNative(region Region) (bool, error) {
	r := roundRegionOutward(region)
	if err := unix.Madvise(mapBytes(r.Addr, r.Length), unix.MADV_FREE); err != nil {
		if err == unix.ENOSYS || err == unix.EINVAL {
			return false, nil
		}
		return false, wrapErrno("madvise", "", err)
	}
	return true, nil
}

func prefetchNative(regions []Region) error {
	for _, r := range regions {
		if err := adviseWillNeedNative(r); err != nil {
			debugf("Prefetch: madvise failed for region, continuing degraded: %v", err)
		}
	}
	return nil
}
