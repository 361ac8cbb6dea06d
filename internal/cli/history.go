package cli

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Ning0612/foldercrawler/internal/format"
)

func (a *app) newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent crawls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := a.svc.History(limit)
			if err != nil {
				return err
			}

			t := format.Table{Header: []string{"Run", "Root", "Mode", "Status", "Files", "Folders", "Skipped", "Size", "Started", "Took"}}
			for _, r := range runs {
				mode := "shallow"
				if r.Deep {
					mode = "deep"
				}
				t.Rows = append(t.Rows, []string{
					r.RunID[:8],
					r.Root,
					mode,
					r.Status,
					humanize.Comma(int64(r.Files)),
					humanize.Comma(int64(r.Folders)),
					strconv.Itoa(r.Skipped),
					humanize.IBytes(uint64(r.TotalBytes)),
					humanize.Time(r.StartTime),
					format.FormatDuration(r.Duration()),
				})
			}
			return t.Render(cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	return cmd
}
