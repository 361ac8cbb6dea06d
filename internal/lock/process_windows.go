//go:build windows

package lock

import (
	"errors"

	"golang.org/x/sys/windows"
)

// processAlive opens pid with the least access right. Access denied means
// the process exists under another account.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return errors.Is(err, windows.ERROR_ACCESS_DENIED)
	}
	windows.CloseHandle(h)
	return true
}
