package compare

import (
	"sort"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/Ning0612/foldercrawler/internal/domain"
	"github.com/Ning0612/foldercrawler/internal/store"
)

// Unified renders a unified diff of two snapshots, one line per entry
// ("name<TAB>changed"), sorted so that reordering alone shows no change.
func Unified(a, b domain.Partition, nameA, nameB string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        snapshotLines(a),
		B:        snapshotLines(b),
		FromFile: nameA,
		ToFile:   nameB,
		Context:  0,
	}
	return difflib.GetUnifiedDiffString(diff)
}

func snapshotLines(p domain.Partition) []string {
	lines := make([]string, 0, p.Len())
	for _, r := range records(p) {
		changed := "-"
		if t, ok := r.ModTime(); ok {
			changed = t.Format(store.TimeLayout)
		}
		lines = append(lines, r.FileName+"\t"+changed+"\n")
	}
	sort.Strings(lines)
	return lines
}
