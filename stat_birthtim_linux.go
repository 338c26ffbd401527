//go:build linux

package llio

import (
	"time"

	"golang.org/x/sys/unix"
)

// fillBirthtim uses statx(2) to recover creation time on filesystems that
// report it (ext4, btrfs, xfs); Stat_t carries no birth time field on Linux.
func fillBirthtim(fd int, s *Stat) {
	var stx unix.Statx_t
	if err := unix.Statx(fd, "", unix.AT_EMPTY_PATH, unix.STATX_BTIME, &stx); err != nil {
		return
	}
	if stx.Mask&unix.STATX_BTIME != 0 {
		s.Birthtim = time.Unix(int64(stx.Btime.Sec), int64(stx.Btime.Nsec))
	}
}
