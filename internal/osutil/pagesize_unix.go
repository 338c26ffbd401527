//go:build !windows

package osutil

import (
	"sync"

	"golang.org/x/sys/unix"
)

var pageSizeOnce sync.Once
var pageSize uintptr

// PageSize returns the system memory page size, queried once and cached.
func PageSize() uintptr {
	pageSizeOnce.Do(func() {
		pageSize = uintptr(unix.Getpagesize())
	})
	return pageSize
}
