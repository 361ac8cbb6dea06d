package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func (a *app) newCrawlCommand() *cobra.Command {
	var (
		shallow bool
		kinds   kindFlags
		filters filterFlags
	)

	cmd := &cobra.Command{
		Use:   "crawl PATH",
		Short: "Crawl a directory, save the snapshot and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			filter, err := filters.build()
			if err != nil {
				return err
			}

			a.attachProgress()
			deep := !shallow
			if _, err := a.svc.Crawl(cmd.Context(), args[0], deep); err != nil {
				return err
			}

			if err := a.printKinds(cmd.OutOrStdout(), kinds.selected(), filter, deep); err != nil {
				return err
			}
			printElapsed(cmd.OutOrStdout(), start)
			return nil
		},
	}

	cmd.Flags().BoolVar(&shallow, "shallow", false, "list only the immediate children of PATH")
	kinds.register(cmd)
	filters.register(cmd)
	return cmd
}

func (a *app) newShowCommand() *cobra.Command {
	var (
		deep    bool
		kinds   kindFlags
		filters filterFlags
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved snapshot without crawling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := filters.build()
			if err != nil {
				return err
			}
			return a.printKinds(cmd.OutOrStdout(), kinds.selected(), filter, deep)
		},
	}

	cmd.Flags().BoolVar(&deep, "deep", true, "the snapshot came from a deep crawl (hides the folder total)")
	kinds.register(cmd)
	filters.register(cmd)
	return cmd
}
