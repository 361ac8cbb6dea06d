package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/Ning0612/foldercrawler/internal/domain"
	"github.com/Ning0612/foldercrawler/internal/store"
)

// Table is a header plus rows of cells
type Table struct {
	Header []string
	Rows   [][]string
}

// PartitionTable lays out p with the persisted column set. Sizes are
// decorated by d; unresolved entries show only their path.
func PartitionTable(p domain.Partition, d Decorator) Table {
	t := Table{Header: store.Header, Rows: make([][]string, 0, p.Len())}
	for _, e := range p.Entries {
		if e.Props == nil {
			t.Rows = append(t.Rows, []string{e.Path, "", "", ""})
			continue
		}
		short, raw := d.Size(e.Props.Size)
		t.Rows = append(t.Rows, []string{
			e.Path,
			e.Props.ModTime.Format(store.TimeLayout),
			short,
			raw,
		})
	}
	return t
}

// Render writes t as aligned columns with a separator under the header
func (t Table) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	fmt.Fprintln(tw, strings.Join(t.Header, "\t| "))
	sep := make([]string, len(t.Header))
	for i, h := range t.Header {
		sep[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t+ "))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t| "))
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "(%s rows)\n", humanize.Comma(int64(len(t.Rows))))
	return err
}

// Total renders the summary line printed under a partition listing
func Total(count int, totalBytes uint64, showTotal bool) string {
	if !showTotal {
		return fmt.Sprintf("%s items", humanize.Comma(int64(count)))
	}
	return fmt.Sprintf("%s items, total %s (%s bytes)",
		humanize.Comma(int64(count)), humanize.IBytes(totalBytes), humanize.Comma(int64(totalBytes)))
}
