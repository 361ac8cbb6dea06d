// Package cli implements the foldercrawler command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ning0612/foldercrawler/internal/config"
	"github.com/Ning0612/foldercrawler/internal/logger"
	"github.com/Ning0612/foldercrawler/internal/service"
)

// app carries the state shared by all subcommands of one invocation
type app struct {
	configPath string
	logLevel   string

	cfg       *config.Config
	svc       *service.CrawlerService
	logActive bool
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	cmd, a := newRootCommand()
	err := cmd.Execute()
	a.close()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// run executes args against a fresh command tree writing to out
func run(args []string, out io.Writer) error {
	cmd, a := newRootCommand()
	defer a.close()

	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(out)
	return cmd.Execute()
}

func newRootCommand() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:   "foldercrawler",
		Short: "Inventory a directory tree and query the saved snapshot",
		Long: `foldercrawler lists every file and folder under a root, records size and
modification time for each, saves the result as CSV snapshots and lets you
filter, compare and search them later without crawling again.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: search ./config.yaml and user config dirs)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(
		a.newCrawlCommand(),
		a.newShowCommand(),
		a.newCompareCommand(),
		a.newGrepCommand(),
		a.newHistoryCommand(),
	)

	return root, a
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	if err := logger.Init(cfg.LoggerConfig()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logActive = true

	svc, err := service.NewCrawlerService(cfg)
	if err != nil {
		return err
	}
	a.svc = svc

	logger.Get().Debug("configuration loaded", "storage", cfg.StorageRoot(), "history", cfg.History.Enabled)
	return nil
}

func (a *app) close() {
	var errs []error
	if a.svc != nil {
		errs = append(errs, a.svc.Close())
		a.svc = nil
	}
	if a.logActive {
		errs = append(errs, logger.Shutdown())
		a.logActive = false
	}
	if err := errors.Join(errs...); err != nil {
		fmt.Fprintln(os.Stderr, "cleanup:", err)
	}
}
