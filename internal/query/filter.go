// Package query filters inventory partitions by path, size and date and
// summarizes the result.
package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Ning0612/foldercrawler/internal/domain"
)

// Sign selects the direction of a threshold comparison
type Sign string

const (
	// AtLeast keeps values greater than or equal to the threshold
	AtLeast Sign = ">="

	// AtMost keeps values less than or equal to the threshold
	AtMost Sign = "<="
)

// ParseSign parses a comparison sign. An empty string means AtLeast.
func ParseSign(s string) (Sign, error) {
	switch strings.TrimSpace(s) {
	case "", ">=":
		return AtLeast, nil
	case "<=":
		return AtMost, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidSign, s)
}

// holds reports whether a comparison result (-1, 0, 1 of value against
// threshold) satisfies the sign
func (s Sign) holds(cmp int) bool {
	if s == AtMost {
		return cmp <= 0
	}
	return cmp >= 0
}

// Filter is the set of predicates applied by Apply. The zero value keeps
// everything: empty path, size 0 with AtLeast, zero date with AtLeast.
type Filter struct {
	Path     string
	Size     uint64
	SizeSign Sign
	Date     time.Time
	DateSign Sign
}

// Validate checks both signs
func (f Filter) Validate() error {
	if _, err := ParseSign(string(f.SizeSign)); err != nil {
		return err
	}
	if _, err := ParseSign(string(f.DateSign)); err != nil {
		return err
	}
	return nil
}

// Apply runs the filter chain for p's kind. Skipped entries carry no size
// or date: they go through subdirectory elimination and path filtering
// only. Files and folders go through path, size and date filtering.
func (f Filter) Apply(p domain.Partition) (domain.Partition, error) {
	if err := f.Validate(); err != nil {
		return domain.Partition{}, err
	}

	if p.Kind == domain.KindSkipped {
		return FilterPaths(FilterSubdirectories(p), f.Path), nil
	}

	out := FilterPaths(p, f.Path)
	out = FilterSizes(out, f.Size, f.SizeSign)
	out = FilterDates(out, f.Date, f.DateSign)
	return out, nil
}

// FilterPaths keeps entries whose path contains substr, ignoring case
func FilterPaths(p domain.Partition, substr string) domain.Partition {
	needle := strings.ToLower(substr)
	return p.Where(func(e domain.Entry) bool {
		return strings.Contains(strings.ToLower(e.Path), needle)
	})
}

// FilterSizes keeps entries whose size satisfies sign against threshold.
// Entries without a size are dropped.
func FilterSizes(p domain.Partition, threshold uint64, sign Sign) domain.Partition {
	return p.Where(func(e domain.Entry) bool {
		size, ok := e.Size()
		if !ok {
			return false
		}
		return sign.holds(compareUint(size, threshold))
	})
}

// FilterDates keeps entries whose modification time satisfies sign against
// threshold. Entries without a time are dropped.
func FilterDates(p domain.Partition, threshold time.Time, sign Sign) domain.Partition {
	return p.Where(func(e domain.Entry) bool {
		mod, ok := e.ModTime()
		if !ok {
			return false
		}
		return sign.holds(mod.Compare(threshold))
	})
}

// FilterSubdirectories sorts p by path and drops every entry whose path
// occurs as a substring of a later path in that order, so only the
// deepest entries of each chain survive. Duplicated paths are dropped
// together.
func FilterSubdirectories(p domain.Partition) domain.Partition {
	entries := make([]domain.Entry, len(p.Entries))
	copy(entries, p.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	dominated := make(map[string]bool)
	for i := range entries {
		for j := i + 1; j < len(entries); j++ {
			if strings.Contains(entries[j].Path, entries[i].Path) {
				dominated[entries[i].Path] = true
				break
			}
		}
	}

	kept := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if !dominated[e.Path] {
			kept = append(kept, e)
		}
	}
	return domain.NewPartition(p.Kind, kept)
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
