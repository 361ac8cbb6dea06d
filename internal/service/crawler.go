package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"

	"github.com/Ning0612/foldercrawler/internal/compare"
	"github.com/Ning0612/foldercrawler/internal/config"
	"github.com/Ning0612/foldercrawler/internal/content"
	"github.com/Ning0612/foldercrawler/internal/crawl"
	"github.com/Ning0612/foldercrawler/internal/domain"
	"github.com/Ning0612/foldercrawler/internal/history"
	"github.com/Ning0612/foldercrawler/internal/lock"
	"github.com/Ning0612/foldercrawler/internal/logger"
	"github.com/Ning0612/foldercrawler/internal/progress"
	"github.com/Ning0612/foldercrawler/internal/query"
	"github.com/Ning0612/foldercrawler/internal/store"
)

// ErrHistoryDisabled is returned by History when no database is open
var ErrHistoryDisabled = errors.New("crawl history is disabled")

// CrawlerService runs crawls and answers queries over the saved snapshot
type CrawlerService struct {
	config   *config.Config
	fs       afero.Fs
	store    *store.Store
	builder  *crawl.Builder
	lock     *lock.StorageLock
	history  *history.Manager
	searcher *content.Searcher

	// inventory holds the last crawl of this process; empty partitions
	// fall back to the persisted snapshot
	inventory domain.Inventory
}

// Option configures a CrawlerService
type Option func(*CrawlerService)

// WithFs sets the filesystem used for snapshots, copies and content reads
func WithFs(fsys afero.Fs) Option {
	return func(s *CrawlerService) { s.fs = fsys }
}

// NewCrawlerService creates a service from cfg. A history database that
// cannot be opened is logged and left out.
func NewCrawlerService(cfg *config.Config, opts ...Option) (*CrawlerService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	s := &CrawlerService{
		config:    cfg,
		fs:        afero.NewOsFs(),
		inventory: domain.NewInventory(),
	}
	for _, opt := range opts {
		opt(s)
	}

	root := cfg.StorageRoot()
	s.store = store.New(root, store.WithFs(s.fs), store.WithExtension(cfg.Storage.Extension))
	s.builder = crawl.NewBuilder(crawl.NewEnumerator(cfg.Crawl.Ignore))
	s.searcher = content.NewSearcher(s.fs)

	storageLock, err := lock.New(root)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage lock: %w", err)
	}
	s.lock = storageLock

	if cfg.History.Enabled {
		m, err := history.NewManager(cfg.HistoryDir())
		if err != nil {
			logger.Get().Warn("crawl history unavailable", "dir", cfg.HistoryDir(), "error", err)
		} else {
			s.history = m
		}
	}

	return s, nil
}

// SetProgressReporter sets the reporter notified while entries resolve
func (s *CrawlerService) SetProgressReporter(reporter progress.Reporter) {
	s.builder.SetProgressReporter(reporter)
}

// Store returns the snapshot store
func (s *CrawlerService) Store() *store.Store {
	return s.store
}

// CrawlResult summarizes a finished crawl
type CrawlResult struct {
	Run       history.Run
	Inventory domain.Inventory
}

// Crawl builds the inventory of root, replaces the saved snapshot with it
// and keeps it in memory for later queries. The storage lock is held for
// the whole run. Every outcome is recorded in the history when enabled.
func (s *CrawlerService) Crawl(ctx context.Context, root string, deep bool) (*CrawlResult, error) {
	log := logger.With("component", "crawler", "root", root)

	log.Info("acquiring storage lock", "storage", s.store.Root())
	if err := s.lock.Acquire(root); err != nil {
		log.Error("failed to acquire storage lock", "error", err)
		return nil, fmt.Errorf("failed to acquire storage lock: %w", err)
	}
	defer func() {
		if err := s.lock.Release(); err != nil {
			log.Error("failed to release storage lock", "error", err)
		}
	}()

	run := history.NewRun(root, deep)
	inv, err := s.crawl(ctx, root, deep)
	run.EndTime = time.Now()

	if err != nil {
		run.Status = history.StatusFailed
		run.Error = err.Error()
		s.record(run)
		return nil, err
	}

	run.Status = history.StatusSuccess
	run.Files = inv.Files.Len()
	run.Folders = inv.Folders.Len()
	run.Skipped = inv.Skipped.Len()
	run.TotalBytes = int64(query.Summarize(inv.Files, deep).TotalBytes)
	s.record(run)

	log.Info("crawl completed",
		"files", run.Files,
		"folders", run.Folders,
		"skipped", run.Skipped,
		"duration", run.Duration(),
	)

	return &CrawlResult{Run: run, Inventory: inv}, nil
}

func (s *CrawlerService) crawl(ctx context.Context, root string, deep bool) (domain.Inventory, error) {
	if err := s.store.Init(); err != nil {
		return domain.Inventory{}, fmt.Errorf("failed to initialize storage: %w", err)
	}

	inv, err := s.builder.Build(ctx, root, deep)
	if err != nil {
		return domain.Inventory{}, err
	}

	if err := s.store.SaveAll(inv); err != nil {
		return domain.Inventory{}, fmt.Errorf("failed to save inventory: %w", err)
	}

	s.inventory = inv
	return inv, nil
}

func (s *CrawlerService) record(run history.Run) {
	if s.history == nil {
		return
	}
	if err := s.history.Save(run); err != nil {
		logger.Get().Warn("failed to record crawl", "run_id", run.RunID, "error", err)
	}
}

// QueryResult is a filtered partition and its summary
type QueryResult struct {
	Partition domain.Partition
	Summary   query.Summary
}

// Query filters one partition. The in-memory crawl is used when it holds
// entries of that kind, otherwise the saved snapshot is read; a storage
// root that was never crawled yields empty partitions. deep tells
// the summary whether the data came from a recursive crawl.
func (s *CrawlerService) Query(kind domain.Kind, filter query.Filter, deep bool) (*QueryResult, error) {
	if err := s.store.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	p, err := s.store.Load(kind, s.inventory.Partition(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", kind, err)
	}

	out, err := filter.Apply(p)
	if err != nil {
		return nil, err
	}

	logger.Get().Debug("query applied", "kind", string(kind), "before", p.Len(), "after", out.Len())
	return &QueryResult{Partition: out, Summary: query.Summarize(out, deep)}, nil
}

// Compare diffs two saved file partitions
func (s *CrawlerService) Compare(pathA, pathB string, symmetric bool) ([]compare.Record, error) {
	a, b, err := s.readPair(pathA, pathB)
	if err != nil {
		return nil, err
	}

	recs := compare.Compare(a, b, symmetric)
	logger.Get().Info("snapshots compared",
		"left", pathA,
		"right", pathB,
		"symmetric", symmetric,
		"differences", len(recs),
	)
	return recs, nil
}

// CompareUnified renders a unified diff of two saved file partitions
func (s *CrawlerService) CompareUnified(pathA, pathB string) (string, error) {
	a, b, err := s.readPair(pathA, pathB)
	if err != nil {
		return "", err
	}
	return compare.Unified(a, b, pathA, pathB)
}

func (s *CrawlerService) readPair(pathA, pathB string) (domain.Partition, domain.Partition, error) {
	a, err := store.ReadSnapshot(s.fs, pathA, domain.KindFiles)
	if err != nil {
		return domain.Partition{}, domain.Partition{}, err
	}
	b, err := store.ReadSnapshot(s.fs, pathB, domain.KindFiles)
	if err != nil {
		return domain.Partition{}, domain.Partition{}, err
	}
	return a, b, nil
}

// Materialize copies the compared files into dest (the configured
// differences folder when empty)
func (s *CrawlerService) Materialize(recs []compare.Record, dest string) (int, error) {
	if dest == "" {
		dest = s.config.DifferencesDir()
	}
	return compare.Materialize(s.fs, recs, dest)
}

// Grep searches the contents of the files partition
func (s *CrawlerService) Grep(opts content.Options) ([]content.FileMatch, error) {
	if err := s.store.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	files, err := s.store.Load(domain.KindFiles, s.inventory.Files)
	if err != nil {
		return nil, fmt.Errorf("failed to load files: %w", err)
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = s.config.Content.Extensions
	}
	return s.searcher.Search(files, opts)
}

// History returns the latest crawl runs
func (s *CrawlerService) History(limit int) ([]history.Run, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.GetHistory(limit)
}

// LastSuccess returns the latest successful crawl of root, or nil
func (s *CrawlerService) LastSuccess(root string) (*history.Run, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.GetLastSuccess(root)
}

// Close releases the history database
func (s *CrawlerService) Close() error {
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}

var _ io.Closer = (*CrawlerService)(nil)
