package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ning0612/foldercrawler/internal/content"
)

func (a *app) newGrepCommand() *cobra.Command {
	var (
		pathFilter string
		extensions []string
	)

	cmd := &cobra.Command{
		Use:   "grep [TEXT]",
		Short: "Print lines containing TEXT from the saved text files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := content.Options{PathFilter: pathFilter, Extensions: extensions}
			if len(args) == 1 {
				opts.Text = args[0]
			}

			matches, err := a.svc.Grep(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, m := range matches {
				if m.Unreadable {
					fmt.Fprintf(out, "File at '%s' is not valid UTF-8. Skipping this file.\n", m.Path)
					fmt.Fprintln(out, separator)
					continue
				}
				fmt.Fprintln(out, m.Path)
				for _, l := range m.Lines {
					fmt.Fprintf(out, "Row %d: %s\n", l.Number, l.Text)
				}
				fmt.Fprintln(out, separator)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pathFilter, "path", "", "search only files whose path contains this text")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "file extensions to read (default from config: .txt, .py)")
	return cmd
}
