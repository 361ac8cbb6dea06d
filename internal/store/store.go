// Package store persists inventory partitions as CSV files under a fixed
// storage root and reads them back.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/Ning0612/foldercrawler/internal/domain"
	"github.com/Ning0612/foldercrawler/internal/logger"
)

const (
	// DefaultRoot is the storage root relative to the working directory
	DefaultRoot = "saved_crawls"

	// DefaultExtension is appended to the partition kind to name its file
	DefaultExtension = ".txt"
)

// Store saves and loads the three partitions of an inventory
type Store struct {
	fs         afero.Fs
	root       string
	extension  string
	formatSize SizeFormatter
}

// Option configures a Store
type Option func(*Store)

// WithFs sets the filesystem (defaults to the OS filesystem)
func WithFs(fsys afero.Fs) Option {
	return func(s *Store) { s.fs = fsys }
}

// WithExtension sets the file extension of persisted partitions
func WithExtension(ext string) Option {
	return func(s *Store) { s.extension = ext }
}

// WithSizeFormatter sets the renderer of the "Size readable" column
func WithSizeFormatter(f SizeFormatter) Option {
	return func(s *Store) { s.formatSize = f }
}

// New creates a store rooted at root
func New(root string, opts ...Option) *Store {
	if root == "" {
		root = DefaultRoot
	}
	s := &Store{
		fs:         afero.NewOsFs(),
		root:       root,
		extension:  DefaultExtension,
		formatSize: humanize.IBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the storage root
func (s *Store) Root() string {
	return s.root
}

// Fs returns the filesystem the store writes to
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// Path returns the file holding the partition of the given kind
func (s *Store) Path(kind domain.Kind) string {
	return filepath.Join(s.root, string(kind)+s.extension)
}

// Init creates the storage root and an empty file per kind if missing.
// Existing files are left untouched.
func (s *Store) Init() error {
	if err := s.fs.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("create storage root %s: %w", s.root, err)
	}
	for _, kind := range domain.Kinds() {
		f, err := s.fs.OpenFile(s.Path(kind), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("create %s: %w", s.Path(kind), err)
		}
		f.Close()
	}
	return nil
}

// Save replaces the persisted file of p's kind with the full partition
func (s *Store) Save(p domain.Partition) error {
	if !p.Kind.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidKind, p.Kind)
	}
	path := s.Path(p.Kind)

	if err := s.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove previous %s: %w", path, err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create storage root: %w", err)
	}

	f, err := s.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	encErr := Encode(f, p, s.formatSize)
	closeErr := f.Close()
	if encErr != nil {
		return fmt.Errorf("write %s: %w", path, encErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", path, closeErr)
	}

	logger.Get().Info("saved partition", "kind", string(p.Kind), "entries", p.Len(), "path", path)
	return nil
}

// SaveAll saves the three partitions of inv
func (s *Store) SaveAll(inv domain.Inventory) error {
	for _, kind := range domain.Kinds() {
		if err := s.Save(inv.Partition(kind)); err != nil {
			return err
		}
	}
	return nil
}

// Load returns current unchanged when it already holds entries; otherwise
// it reads the persisted partition of the given kind. This lets a caller
// skip the crawl and work on the last snapshot.
func (s *Store) Load(kind domain.Kind, current domain.Partition) (domain.Partition, error) {
	if !current.IsEmpty() {
		return current, nil
	}
	if !kind.IsValid() {
		return domain.Partition{}, fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}

	p, err := ReadSnapshot(s.fs, s.Path(kind), kind)
	if err != nil {
		return domain.Partition{}, err
	}

	logger.Get().Debug("loaded partition", "kind", string(kind), "entries", p.Len())
	return p, nil
}

// LoadAll applies Load to each partition of current
func (s *Store) LoadAll(current domain.Inventory) (domain.Inventory, error) {
	inv := current
	for _, kind := range domain.Kinds() {
		p, err := s.Load(kind, current.Partition(kind))
		if err != nil {
			return domain.Inventory{}, err
		}
		inv.Set(p)
	}
	return inv, nil
}

// ReadSnapshot reads one persisted partition from any path
func ReadSnapshot(fsys afero.Fs, path string, kind domain.Kind) (domain.Partition, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return domain.Partition{}, fmt.Errorf("read snapshot: %w", err)
	}
	defer f.Close()

	p, err := Decode(f, kind)
	if err != nil {
		return domain.Partition{}, fmt.Errorf("read %s: %w", path, err)
	}
	return p, nil
}
