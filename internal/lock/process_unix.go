//go:build !windows

package lock

import (
	"errors"
	"os"
	"syscall"
)

// processAlive probes pid with signal 0. EPERM still means the process
// exists, it just belongs to someone else.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = p.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
