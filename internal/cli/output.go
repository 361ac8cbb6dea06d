package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Ning0612/foldercrawler/internal/domain"
	"github.com/Ning0612/foldercrawler/internal/format"
	"github.com/Ning0612/foldercrawler/internal/progress"
	"github.com/Ning0612/foldercrawler/internal/query"
)

const separator = "----------------------------------------"

// decoratorFor colours sizes only when w is a terminal
func decoratorFor(w io.Writer) format.Decorator {
	if f, ok := w.(*os.File); ok {
		return format.NewDecorator(f)
	}
	return format.Decorator{}
}

// printKinds filters and prints every selected partition
func (a *app) printKinds(w io.Writer, kinds []domain.Kind, filter query.Filter, deep bool) error {
	d := decoratorFor(w)
	for _, kind := range kinds {
		res, err := a.svc.Query(kind, filter, deep)
		if err != nil {
			return err
		}
		if res.Partition.IsEmpty() {
			continue
		}

		fmt.Fprintln(w, strings.ToUpper(string(kind)))
		if err := format.PartitionTable(res.Partition, d).Render(w); err != nil {
			return err
		}
		fmt.Fprintln(w, format.Total(res.Summary.Count, res.Summary.TotalBytes, res.Summary.ShowTotal))
		fmt.Fprintln(w, separator)
	}
	return nil
}

// attachProgress draws a resolution progress bar on stderr when it is a terminal
func (a *app) attachProgress() {
	if !format.IsTerminal(os.Stderr) {
		return
	}
	draw := progress.Throttle(100*time.Millisecond, func(u progress.Update) {
		fmt.Fprintf(os.Stderr, "\r%s %d/%d", progress.FormatProgress(int64(u.Done), int64(u.Total), 30), u.Done, u.Total)
		if u.Done == u.Total {
			fmt.Fprintln(os.Stderr)
		}
	})
	a.svc.SetProgressReporter(progress.NewCallbackReporter(draw))
}

func printElapsed(w io.Writer, start time.Time) {
	fmt.Fprintf(w, "THE WHOLE PROCESS TOOK: %s\n", format.FormatDuration(time.Since(start)))
}
