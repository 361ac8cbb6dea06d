package crawl

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/Ning0612/foldercrawler/internal/domain"
	"github.com/Ning0612/foldercrawler/internal/logger"
	"github.com/Ning0612/foldercrawler/internal/progress"
)

// Builder enumerates a root and resolves every entry on a worker pool
// sized to the host's available parallelism.
type Builder struct {
	enumerator *Enumerator
	reporter   progress.Reporter
	workers    int
	resolve    func(path string, isDir bool) (domain.Entry, error)
}

// NewBuilder creates a builder using the given enumerator
func NewBuilder(enumerator *Enumerator) *Builder {
	if enumerator == nil {
		enumerator = NewEnumerator(nil)
	}
	return &Builder{
		enumerator: enumerator,
		reporter:   progress.NullReporter{},
		workers:    runtime.NumCPU(),
		resolve:    Resolve,
	}
}

// SetProgressReporter sets the reporter notified as entries resolve
func (b *Builder) SetProgressReporter(reporter progress.Reporter) {
	if reporter == nil {
		reporter = progress.NullReporter{}
	}
	b.reporter = reporter
}

// Build crawls root and returns the classified inventory. Enumeration
// completes before resolution starts and classification happens only
// after every dispatched entry has returned.
func (b *Builder) Build(ctx context.Context, root string, deep bool) (domain.Inventory, error) {
	log := logger.With("component", "builder", "root", root)

	mode := "shallow"
	if deep {
		mode = "deep"
	}
	log.Info("enumerating entries", "mode", mode)

	candidates, err := b.enumerator.Enumerate(ctx, root, deep)
	if err != nil {
		log.Error("enumeration failed", "error", err)
		return domain.Inventory{}, err
	}

	log.Info("resolving entries", "entries", len(candidates), "workers", b.workers)
	b.reporter.SetTotal(len(candidates))
	start := time.Now()

	p := pool.NewWithResults[domain.Entry]().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(b.workers)

	for _, c := range candidates {
		c := c
		p.Go(func(ctx context.Context) (domain.Entry, error) {
			if err := ctx.Err(); err != nil {
				return domain.Entry{}, err
			}
			entry, err := b.resolve(c.Path, c.IsDir)
			if err != nil {
				return entry, err
			}
			b.reporter.Resolved(c.Path, entry.IsResolved())
			return entry, nil
		})
	}

	entries, err := p.Wait()
	if err != nil {
		log.Error("resolution failed", "error", err)
		return domain.Inventory{}, fmt.Errorf("resolve entries: %w", err)
	}

	inv := Classify(entries)
	log.Info("crawl classified",
		"files", inv.Files.Len(),
		"folders", inv.Folders.Len(),
		"skipped", inv.Skipped.Len(),
		"duration", time.Since(start),
	)
	if inv.Skipped.Len() > 0 {
		log.Warn("some entries could not be resolved", "skipped", inv.Skipped.Len())
	}

	return inv, nil
}

// Classify splits resolved entries into files and folders and collects
// every unresolved entry, whatever its type, into skipped.
func Classify(entries []domain.Entry) domain.Inventory {
	inv := domain.NewInventory()
	for _, e := range entries {
		switch e.Kind() {
		case domain.KindFolders:
			inv.Folders.Entries = append(inv.Folders.Entries, e)
		case domain.KindFiles:
			inv.Files.Entries = append(inv.Files.Entries, e)
		default:
			inv.Skipped.Entries = append(inv.Skipped.Entries, e)
		}
	}
	return inv
}
