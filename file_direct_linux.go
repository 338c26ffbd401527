//go:build linux

package llio

import "golang.org/x/sys/unix"

// directFlagIfSupported returns O_DIRECT on Linux, where CachingNone can be
// honored by bypassing the page cache entirely (spec.md section 4.1,
// Caching.none).
func directFlagIfSupported() int { return unix.O_DIRECT }
