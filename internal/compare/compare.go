// Package compare diffs two saved crawls by file name and modification
// time, and copies the differing files out.
package compare

import (
	"sort"
	"strings"
	"time"

	"github.com/Ning0612/foldercrawler/internal/domain"
)

// Record is a snapshot entry with its derived file name
type Record struct {
	domain.Entry
	FileName string
}

// key identifies the logical file: same name, same modification time
type key struct {
	name    string
	changed int64
}

// FileName returns the last element of path, splitting on both slash
// kinds so snapshots taken on another OS compare correctly.
func FileName(path string) string {
	path = strings.TrimRight(path, `/\`)
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

func records(p domain.Partition) []Record {
	out := make([]Record, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = Record{Entry: e, FileName: FileName(e.Path)}
	}
	return out
}

func (r Record) changed() time.Time {
	t, _ := r.ModTime()
	return t
}

func (r Record) key() key {
	t, ok := r.ModTime()
	if !ok {
		return key{name: r.FileName}
	}
	return key{name: r.FileName, changed: t.UnixNano()}
}

// Compare returns the entries of a and b that differ.
//
// Symmetric: the union of both snapshots loses every row whose
// (file name, changed) pair occurs more than once; of the rows left, only
// the newest per file name is kept. The result is ordered by changed.
//
// One-sided: the rows of a whose (file name, changed) pair does not
// occur in b, in a's order.
func Compare(a, b domain.Partition, symmetric bool) []Record {
	if symmetric {
		return symmetricDifference(records(a), records(b))
	}
	return leftOnly(records(a), records(b))
}

func symmetricDifference(a, b []Record) []Record {
	all := append(append([]Record{}, a...), b...)

	counts := make(map[key]int, len(all))
	for _, r := range all {
		counts[r.key()]++
	}

	unique := make([]Record, 0, len(all))
	for _, r := range all {
		if counts[r.key()] == 1 {
			unique = append(unique, r)
		}
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].changed().Before(unique[j].changed())
	})

	// Last occurrence per name wins, i.e. the newest.
	last := make(map[string]int, len(unique))
	for i, r := range unique {
		last[r.FileName] = i
	}

	out := make([]Record, 0, len(last))
	for i, r := range unique {
		if last[r.FileName] == i {
			out = append(out, r)
		}
	}
	return out
}

func leftOnly(a, b []Record) []Record {
	inB := make(map[key]struct{}, len(b))
	for _, r := range b {
		inB[r.key()] = struct{}{}
	}

	out := make([]Record, 0)
	for _, r := range a {
		if _, ok := inB[r.key()]; !ok {
			out = append(out, r)
		}
	}
	return out
}

// Partition converts compare output back into a partition for display
func Partition(kind domain.Kind, recs []Record) domain.Partition {
	entries := make([]domain.Entry, len(recs))
	for i, r := range recs {
		entries[i] = r.Entry
	}
	return domain.NewPartition(kind, entries)
}
