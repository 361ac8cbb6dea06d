package compare

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Ning0612/foldercrawler/internal/domain"
	"github.com/Ning0612/foldercrawler/internal/logger"
)

// DefaultDestination is where differing files are copied by default
const DefaultDestination = "saved_crawls/differences"

// Materialize recreates dest and copies every record's file into it by
// file name. Records with the same name overwrite each other. The first
// failed copy aborts the run.
func Materialize(fsys afero.Fs, recs []Record, dest string) (int, error) {
	if dest == "" {
		dest = DefaultDestination
	}
	log := logger.Get().With("component", "materialize", "dest", dest)

	if err := fsys.RemoveAll(dest); err != nil {
		return 0, fmt.Errorf("%w: clear %s: %v", domain.ErrDestination, dest, err)
	}
	if err := fsys.MkdirAll(dest, 0755); err != nil {
		return 0, fmt.Errorf("%w: create %s: %v", domain.ErrDestination, dest, err)
	}

	for i, r := range recs {
		target := filepath.Join(dest, r.FileName)
		if err := copyFile(fsys, r.Path, target); err != nil {
			return i, fmt.Errorf("copy %s: %w", r.Path, err)
		}
		log.Debug("copied difference", "path", r.Path)
	}

	log.Info("copied differences", "count", len(recs))
	return len(recs), nil
}

func copyFile(fsys afero.Fs, src, dst string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
