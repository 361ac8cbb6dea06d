package crawl

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"

	"github.com/Ning0612/foldercrawler/internal/domain"
)

// Resolve reads the size and modification time of one candidate.
//
// A path that vanished or became unreadable after it was listed yields an
// unresolved entry and a nil error. Any other I/O failure is returned as
// an error and should abort the crawl.
//
// Resolve touches only its own path, so it is safe to call concurrently.
func Resolve(path string, isDir bool) (domain.Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		if isSoftFailure(err) {
			return domain.Unresolved(path, isDir), nil
		}
		return domain.Entry{}, fmt.Errorf("stat %s: %w", path, err)
	}

	var size uint64
	if isDir {
		size, err = dirSize(path)
		if err != nil {
			if isSoftFailure(err) {
				return domain.Unresolved(path, isDir), nil
			}
			return domain.Entry{}, fmt.Errorf("size of %s: %w", path, err)
		}
	} else {
		size = uint64(info.Size())
	}

	return domain.Resolved(path, isDir, size, info.ModTime()), nil
}

// dirSize sums the sizes of all regular files below root. Directory
// entries contribute nothing. A linked root is followed, links below it
// are not. Files that disappear during the walk are left out of the sum;
// only a missing root is reported.
func dirSize(root string) (uint64, error) {
	root, err := filepath.EvalSymlinks(root)
	if err != nil {
		return 0, err
	}

	var total atomic.Uint64

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return walkError(root, path, err)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			if isSoftFailure(err) {
				return nil
			}
			return err
		}
		total.Add(uint64(info.Size()))
		return nil
	}

	// One walker per call: the builder's pool already provides the parallelism
	conf := fastwalk.Config{Follow: false, NumWorkers: 1}
	if err := fastwalk.Walk(&conf, root, walkFn); err != nil {
		return 0, err
	}
	return total.Load(), nil
}

// walkError decides whether a walk error stops the walk. Errors on the
// root always do; below it only gone or unreadable paths are tolerated.
func walkError(root, path string, err error) error {
	if path == root || !isSoftFailure(err) {
		return err
	}
	return nil
}

// isSoftFailure reports whether err means the path is gone or unreadable
func isSoftFailure(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission)
}
