package domain

import (
	"fmt"
	"strings"
)

// Kind identifies one of the three classification buckets
type Kind string

const (
	// KindFiles holds resolved regular files
	KindFiles Kind = "files"

	// KindFolders holds resolved directories
	KindFolders Kind = "folders"

	// KindSkipped holds entries of either type that could not be resolved
	KindSkipped Kind = "skipped_items"
)

// Kinds returns every partition kind in persistence order
func Kinds() []Kind {
	return []Kind{KindFiles, KindFolders, KindSkipped}
}

// IsValid checks if the kind is a known value
func (k Kind) IsValid() bool {
	switch k {
	case KindFiles, KindFolders, KindSkipped:
		return true
	}
	return false
}

// ParseKind parses a kind name (case-insensitive). "skipped" is accepted
// as a short form of "skipped_items".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "files":
		return KindFiles, nil
	case "folders":
		return KindFolders, nil
	case "skipped", "skipped_items":
		return KindSkipped, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Partition is an ordered collection of entries sharing a classification.
// Filtering produces new partitions; the receiver is never modified.
type Partition struct {
	Kind    Kind
	Entries []Entry
}

// NewPartition creates a partition of the given kind
func NewPartition(kind Kind, entries []Entry) Partition {
	return Partition{Kind: kind, Entries: entries}
}

// Len returns the number of entries
func (p Partition) Len() int {
	return len(p.Entries)
}

// IsEmpty returns true if the partition has no entries
func (p Partition) IsEmpty() bool {
	return len(p.Entries) == 0
}

// Paths returns the entry paths in partition order
func (p Partition) Paths() []string {
	paths := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		paths[i] = e.Path
	}
	return paths
}

// Where returns a new partition holding the entries for which keep is true
func (p Partition) Where(keep func(Entry) bool) Partition {
	out := make([]Entry, 0, len(p.Entries))
	for _, e := range p.Entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return Partition{Kind: p.Kind, Entries: out}
}

// Inventory is the classified output of one crawl
type Inventory struct {
	Files   Partition
	Folders Partition
	Skipped Partition
}

// NewInventory creates an inventory with three empty partitions
func NewInventory() Inventory {
	return Inventory{
		Files:   NewPartition(KindFiles, nil),
		Folders: NewPartition(KindFolders, nil),
		Skipped: NewPartition(KindSkipped, nil),
	}
}

// Partition returns the partition of the given kind
func (inv Inventory) Partition(kind Kind) Partition {
	switch kind {
	case KindFolders:
		return inv.Folders
	case KindSkipped:
		return inv.Skipped
	default:
		return inv.Files
	}
}

// Set replaces the partition of p's kind
func (inv *Inventory) Set(p Partition) {
	switch p.Kind {
	case KindFiles:
		inv.Files = p
	case KindFolders:
		inv.Folders = p
	case KindSkipped:
		inv.Skipped = p
	}
}

// Total returns the number of entries across all partitions
func (inv Inventory) Total() int {
	return inv.Files.Len() + inv.Folders.Len() + inv.Skipped.Len()
}
