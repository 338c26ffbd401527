//go:build windows

package osutil

import (
	"sync"

	"golang.org/x/sys/windows"
)

var pageSizeOnce sync.Once
var pageSize uintptr

// PageSize returns the system memory page size, queried once via
// GetSystemInfo and cached.
func PageSize() uintptr {
	pageSizeOnce.Do(func() {
		var info windows.SystemInfo
		windows.GetSystemInfo(&info)
		pageSize = uintptr(info.PageSize)
	})
	return pageSize
}
