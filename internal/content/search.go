// Package content searches the text of crawled files line by line.
package content

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/Ning0612/foldercrawler/internal/domain"
	"github.com/Ning0612/foldercrawler/internal/logger"
)

// DefaultExtensions are the file types searched when none are configured
var DefaultExtensions = []string{".txt", ".py"}

const maxLineSize = 1024 * 1024

// Line is one matching line of a file
type Line struct {
	Number int
	Text   string
}

// FileMatch holds the matching lines of one file. Unreadable is set when
// the file is not valid UTF-8; Lines is empty then.
type FileMatch struct {
	Path       string
	Lines      []Line
	Unreadable bool
}

// Options selects the files and lines to report
type Options struct {
	// PathFilter keeps files whose path contains it, ignoring case
	PathFilter string

	// Text keeps lines containing it, ignoring case; empty keeps all
	Text string

	// Extensions limits the searched file types (defaults to DefaultExtensions)
	Extensions []string
}

// Searcher reads files through an afero filesystem
type Searcher struct {
	fs afero.Fs
}

// NewSearcher creates a searcher over fsys
func NewSearcher(fsys afero.Fs) *Searcher {
	return &Searcher{fs: fsys}
}

// Search scans every file of the partition accepted by opts. Files with
// no matching line are left out; unreadable files are reported with
// Unreadable set. Files that vanished since the crawl are skipped. The
// result keeps the partition's order.
func (s *Searcher) Search(files domain.Partition, opts Options) ([]FileMatch, error) {
	log := logger.With("component", "content")

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	pathFilter := strings.ToLower(opts.PathFilter)
	text := strings.ToLower(opts.Text)

	var matches []FileMatch
	for _, e := range files.Entries {
		lower := strings.ToLower(e.Path)
		if !strings.Contains(lower, pathFilter) || !hasExtension(lower, exts) {
			continue
		}

		m, err := s.searchFile(e.Path, text)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				log.Warn("skipping file", "path", e.Path, "error", err)
				continue
			}
			return nil, err
		}
		if m.Unreadable {
			log.Warn("file is not valid UTF-8", "path", e.Path)
		}
		if m.Unreadable || len(m.Lines) > 0 {
			matches = append(matches, m)
		}
	}

	log.Info("content search finished", "files", len(matches))
	return matches, nil
}

func (s *Searcher) searchFile(path, text string) (FileMatch, error) {
	m := FileMatch{Path: path}

	f, err := s.fs.Open(path)
	if err != nil {
		return m, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	number := 0
	for scanner.Scan() {
		raw := scanner.Bytes()
		if !utf8.Valid(raw) {
			return FileMatch{Path: path, Unreadable: true}, nil
		}
		if strings.Contains(strings.ToLower(string(raw)), text) {
			m.Lines = append(m.Lines, Line{Number: number, Text: strings.TrimSpace(string(raw))})
		}
		number++
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return FileMatch{Path: path, Unreadable: true}, nil
		}
		return m, fmt.Errorf("read %s: %w", path, err)
	}
	return m, nil
}

func hasExtension(path string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(path, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
