package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ning0612/foldercrawler/internal/compare"
	"github.com/Ning0612/foldercrawler/internal/domain"
	"github.com/Ning0612/foldercrawler/internal/format"
)

func (a *app) newCompareCommand() *cobra.Command {
	var (
		oneSided bool
		copyDiff bool
		copyTo   string
		unified  bool
	)

	cmd := &cobra.Command{
		Use:   "compare SNAPSHOT_A SNAPSHOT_B",
		Short: "List files that differ between two saved file snapshots",
		Long: `compare matches files by name and modification time.

By default the difference is symmetric and, when the same name appears with
different times, only the newest copy is listed. With --one-sided only the
files of SNAPSHOT_A missing from SNAPSHOT_B are listed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if unified {
				diff, err := a.svc.CompareUnified(args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprint(out, diff)
				return nil
			}

			recs, err := a.svc.Compare(args[0], args[1], !oneSided)
			if err != nil {
				return err
			}

			table := format.PartitionTable(compare.Partition(domain.KindFiles, recs), decoratorFor(out))
			if err := table.Render(out); err != nil {
				return err
			}

			if copyDiff || copyTo != "" {
				n, err := a.svc.Materialize(recs, copyTo)
				if err != nil {
					return err
				}
				dest := copyTo
				if dest == "" {
					dest = a.cfg.DifferencesDir()
				}
				fmt.Fprintf(out, "Number of files copied to '%s': %d\n", dest, n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneSided, "one-sided", false, "list only files of A missing from B")
	cmd.Flags().BoolVar(&copyDiff, "copy", false, "copy the differing files to the differences folder")
	cmd.Flags().StringVar(&copyTo, "copy-to", "", "copy the differing files to this folder (emptied first)")
	cmd.Flags().BoolVar(&unified, "unified", false, "print a unified diff of both snapshots instead")
	return cmd
}
