// Package crawl lists a directory tree, resolves each entry's size and
// modification time in parallel and classifies the results into files,
// folders and skipped items.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/Ning0612/foldercrawler/internal/domain"
)

// Candidate is a listed path awaiting property resolution
type Candidate struct {
	Path  string
	IsDir bool
}

// Enumerator lists the candidate entries below a crawl root.
// It never stats the entries it yields.
type Enumerator struct {
	ignore *ignore.GitIgnore
}

// NewEnumerator creates an enumerator. Entries whose root-relative path
// matches one of the gitignore-style patterns are left out; an empty list
// disables matching.
func NewEnumerator(patterns []string) *Enumerator {
	e := &Enumerator{}
	lines := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, p)
		}
	}
	if len(lines) > 0 {
		e.ignore = ignore.CompileIgnoreLines(lines...)
	}
	return e
}

// Enumerate lists the entries under root. With deep=false only the
// immediate children are returned; with deep=true every descendant is
// returned exactly once. The root itself is never part of the result and
// the order is unspecified.
//
// Returns domain.ErrRootNotFound if root does not exist.
func (e *Enumerator) Enumerate(ctx context.Context, root string, deep bool) ([]Candidate, error) {
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("stat crawl root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotDirectory, root)
	}

	var (
		mu         sync.Mutex
		candidates []Candidate
	)

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// Unreadable subtrees are left out, the listing goes on
			return walkError(root, path, err)
		}
		if path == root {
			return nil
		}

		isDir := d.IsDir()
		if d.Type()&fs.ModeSymlink != 0 {
			// Linked directories are listed as folders but never descended
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				if e.ignored(root, path, true) {
					return nil
				}
				mu.Lock()
				candidates = append(candidates, Candidate{Path: path, IsDir: true})
				mu.Unlock()
				return nil
			}
		}
		if e.ignored(root, path, isDir) {
			if isDir {
				return fastwalk.SkipDir
			}
			return nil
		}

		mu.Lock()
		candidates = append(candidates, Candidate{Path: path, IsDir: isDir})
		mu.Unlock()

		if isDir && !deep {
			return fastwalk.SkipDir
		}
		return nil
	}

	conf := fastwalk.Config{Follow: false}
	if err := fastwalk.Walk(&conf, root, walkFn); err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", root, err)
	}

	return candidates, nil
}

// ignored reports whether path matches the ignore patterns
func (e *Enumerator) ignored(root, path string, isDir bool) bool {
	if e.ignore == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir && e.ignore.MatchesPath(rel+"/") {
		return true
	}
	return e.ignore.MatchesPath(rel)
}
