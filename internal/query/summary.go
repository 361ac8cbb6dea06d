package query

import "github.com/Ning0612/foldercrawler/internal/domain"

// Summary is the count and total size of a filtered partition
type Summary struct {
	Count      int
	TotalBytes uint64

	// ShowTotal is false when TotalBytes would be misleading: folder
	// sizes from a deep crawl overlap, and skipped entries have no size.
	ShowTotal bool
}

// Summarize totals p. deep reports whether the inventory came from a
// recursive crawl.
func Summarize(p domain.Partition, deep bool) Summary {
	s := Summary{Count: p.Len()}
	for _, e := range p.Entries {
		if size, ok := e.Size(); ok {
			s.TotalBytes += size
		}
	}

	switch p.Kind {
	case domain.KindSkipped:
		s.ShowTotal = false
	case domain.KindFolders:
		s.ShowTotal = !deep
	default:
		s.ShowTotal = true
	}
	return s
}
