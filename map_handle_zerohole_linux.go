//go:build linux

package llio

import "golang.org/x/sys/unix"

// zeroHoleNative punches a hole in r using MADV_REMOVE, available on Linux
// for tmpfs/shmem-backed mappings (spec.md section 4.3).
func zeroHoleNative(r Region) error {
	return wrapErrno("madvise", "", unix.Madvise(mapBytes(r.Addr, r.Length), unix.MADV_REMOVE))
}
