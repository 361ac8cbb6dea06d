// Package lock guards a storage root against two crawls writing their
// snapshots at the same time.
package lock

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Ning0612/foldercrawler/internal/domain"
)

const (
	// FileName is the lock file created inside the storage root
	FileName = ".foldercrawler.lock"

	// DefaultStaleTimeout is how old a lock from another host must be to be reclaimed
	DefaultStaleTimeout = 30 * time.Minute
)

// Holder describes the process owning the lock
type Holder struct {
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	StartTime time.Time `json:"start_time"`
	CrawlRoot string    `json:"crawl_root,omitempty"`
}

// StorageLock is a PID file lock on one storage root
type StorageLock struct {
	path         string
	staleTimeout time.Duration
	held         *Holder
}

// New creates a lock for storageRoot, creating the directory if needed
func New(storageRoot string) (*StorageLock, error) {
	if storageRoot == "" {
		return nil, fmt.Errorf("storage root cannot be empty")
	}
	if err := os.MkdirAll(storageRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}

	return &StorageLock{
		path:         filepath.Join(storageRoot, FileName),
		staleTimeout: DefaultStaleTimeout,
	}, nil
}

// Path returns the lock file path
func (l *StorageLock) Path() string {
	return l.path
}

// SetStaleTimeout sets the age after which a lock from another host is stale
func (l *StorageLock) SetStaleTimeout(d time.Duration) {
	l.staleTimeout = d
}

// Acquire takes the lock on behalf of a crawl of crawlRoot. A live holder
// yields a *LockError; a stale lock is removed and taken over.
func (l *StorageLock) Acquire(crawlRoot string) error {
	if l.held != nil {
		if current, err := l.read(); err == nil && l.ownedBy(current) {
			return nil
		}
		l.held = nil
	}

	if current, err := l.read(); err == nil {
		if !l.isStale(current) {
			return &LockError{Holder: current, Reason: "another crawl is writing to this storage root"}
		}
		if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove stale lock: %w", err)
		}
	}

	hostname, _ := os.Hostname()
	holder := &Holder{
		PID:       os.Getpid(),
		Hostname:  hostname,
		StartTime: time.Now(),
		CrawlRoot: crawlRoot,
	}

	// O_EXCL makes creation the single point of arbitration between racers
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			current, readErr := l.read()
			if readErr != nil {
				return fmt.Errorf("lock acquisition race: %w", err)
			}
			return &LockError{Holder: current, Reason: "lock taken during acquisition"}
		}
		return fmt.Errorf("failed to create lock file: %w", err)
	}

	encErr := json.NewEncoder(f).Encode(holder)
	closeErr := f.Close()
	if encErr != nil || closeErr != nil {
		os.Remove(l.path)
		return fmt.Errorf("failed to write lock file: %w", errors.Join(encErr, closeErr))
	}

	l.held = holder
	return nil
}

// Release removes the lock if this instance still owns it
func (l *StorageLock) Release() error {
	if l.held == nil {
		return nil
	}
	defer func() { l.held = nil }()

	current, err := l.read()
	if err != nil {
		return nil
	}
	if !l.ownedBy(current) {
		return fmt.Errorf("lock was taken over by PID %d", current.PID)
	}

	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// IsLocked reports whether a live lock exists
func (l *StorageLock) IsLocked() bool {
	current, err := l.read()
	return err == nil && !l.isStale(current)
}

// ForceRelease removes the lock file whoever holds it
func (l *StorageLock) ForceRelease() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to force remove lock: %w", err)
	}
	l.held = nil
	return nil
}

func (l *StorageLock) read() (*Holder, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}

	var h Holder
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("invalid lock file format: %w", err)
	}
	return &h, nil
}

// isStale reports whether the holder is gone. On the same host this is a
// liveness check of the PID; across hosts only the age can tell.
func (l *StorageLock) isStale(h *Holder) bool {
	hostname, _ := os.Hostname()
	if h.Hostname == hostname {
		return !processAlive(h.PID)
	}
	return time.Since(h.StartTime) > l.staleTimeout
}

func (l *StorageLock) ownedBy(h *Holder) bool {
	if l.held == nil {
		return false
	}
	return h.PID == l.held.PID &&
		h.Hostname == l.held.Hostname &&
		h.StartTime.Equal(l.held.StartTime)
}

// LockError is returned when a live crawl holds the lock
type LockError struct {
	Holder *Holder
	Reason string
}

func (e *LockError) Error() string {
	if e.Holder == nil {
		return fmt.Sprintf("cannot acquire lock: %s", e.Reason)
	}
	return fmt.Sprintf("cannot acquire lock: %s (PID %d on %s since %s, crawling %s)",
		e.Reason,
		e.Holder.PID,
		e.Holder.Hostname,
		e.Holder.StartTime.Format(time.RFC3339),
		e.Holder.CrawlRoot,
	)
}

// Unwrap lets callers match the error with domain.ErrCrawlInProgress
func (e *LockError) Unwrap() error {
	return domain.ErrCrawlInProgress
}

// IsLockError checks if an error is or wraps a LockError
func IsLockError(err error) bool {
	var le *LockError
	return errors.As(err, &le)
}
