package domain

import "time"

// Properties are the attributes resolved for an entry.
// They exist as a pair: an entry has both or neither.
type Properties struct {
	// Size in bytes; for directories the sum of all regular files beneath it
	Size uint64

	// ModTime is the entry's own modification time, never a descendant's
	ModTime time.Time
}

// Entry represents one filesystem object discovered during a crawl
type Entry struct {
	// Path as produced by the enumerator (root joined with the relative path)
	Path string

	// IsDir is true for directories
	IsDir bool

	// Props is nil when the entry could not be resolved
	Props *Properties
}

// Resolved creates an entry carrying both size and modification time
func Resolved(path string, isDir bool, size uint64, modTime time.Time) Entry {
	return Entry{
		Path:  path,
		IsDir: isDir,
		Props: &Properties{Size: size, ModTime: modTime},
	}
}

// Unresolved creates an entry whose properties could not be read
func Unresolved(path string, isDir bool) Entry {
	return Entry{Path: path, IsDir: isDir}
}

// IsResolved returns true if size and modification time are known
func (e Entry) IsResolved() bool {
	return e.Props != nil
}

// Size returns the byte size and whether it is known
func (e Entry) Size() (uint64, bool) {
	if e.Props == nil {
		return 0, false
	}
	return e.Props.Size, true
}

// ModTime returns the modification time and whether it is known
func (e Entry) ModTime() (time.Time, bool) {
	if e.Props == nil {
		return time.Time{}, false
	}
	return e.Props.ModTime, true
}

// Kind returns the partition this entry belongs to
func (e Entry) Kind() Kind {
	switch {
	case !e.IsResolved():
		return KindSkipped
	case e.IsDir:
		return KindFolders
	default:
		return KindFiles
	}
}
