package progress

import (
	"fmt"
	"sync"
	"time"
)

// Reporter receives progress of the parallel resolution phase.
// Implementations must be safe for concurrent use: Resolved is called
// from pool workers.
type Reporter interface {
	// SetTotal sets the number of entries that will be resolved
	SetTotal(total int)
	// Resolved reports one finished entry; ok is false for skipped entries
	Resolved(path string, ok bool)
}

// Callback is a function that receives progress updates
type Callback func(update Update)

// Update represents a progress update
type Update struct {
	Path           string
	Done           int
	Skipped        int
	Total          int
	ItemsPerSecond float64
}

// Fraction returns the completed share in [0, 1]
func (u Update) Fraction() float64 {
	if u.Total == 0 {
		return 0
	}
	return float64(u.Done) / float64(u.Total)
}

// CallbackReporter implements Reporter with a callback function
type CallbackReporter struct {
	callback  Callback
	mu        sync.Mutex
	total     int
	done      int
	skipped   int
	startTime time.Time
}

// NewCallbackReporter creates a new CallbackReporter
func NewCallbackReporter(callback Callback) *CallbackReporter {
	return &CallbackReporter{
		callback: callback,
	}
}

// SetTotal resets the counters and sets the expected number of entries
func (r *CallbackReporter) SetTotal(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
	r.done = 0
	r.skipped = 0
	r.startTime = time.Now()
}

// Resolved records one finished entry
func (r *CallbackReporter) Resolved(path string, ok bool) {
	r.mu.Lock()
	r.done++
	if !ok {
		r.skipped++
	}

	var perSecond float64
	if elapsed := time.Since(r.startTime).Seconds(); elapsed > 0 {
		perSecond = float64(r.done) / elapsed
	}

	update := Update{
		Path:           path,
		Done:           r.done,
		Skipped:        r.skipped,
		Total:          r.total,
		ItemsPerSecond: perSecond,
	}
	callback := r.callback
	r.mu.Unlock()

	// Call callback outside lock to prevent deadlock
	if callback != nil {
		callback(update)
	}
}

// Snapshot returns the current counters
func (r *CallbackReporter) Snapshot() Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Update{Done: r.done, Skipped: r.skipped, Total: r.total}
}

// NullReporter is a no-op reporter
type NullReporter struct{}

func (NullReporter) SetTotal(total int)            {}
func (NullReporter) Resolved(path string, ok bool) {}

// Throttle wraps a callback so it fires at most once per interval.
// The final update (Done == Total) is always delivered.
func Throttle(interval time.Duration, callback Callback) Callback {
	var (
		mu   sync.Mutex
		last time.Time
	)
	return func(u Update) {
		mu.Lock()
		now := time.Now()
		if u.Done < u.Total && now.Sub(last) < interval {
			mu.Unlock()
			return
		}
		last = now
		mu.Unlock()
		callback(u)
	}
}

// FormatProgress returns a progress bar string
func FormatProgress(current, total int64, width int) string {
	if total == 0 {
		return ""
	}

	percent := float64(current) / float64(total)
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}

	bar := make([]byte, width)
	for i := 0; i < width; i++ {
		switch {
		case i < filled:
			bar[i] = '='
		case i == filled:
			bar[i] = '>'
		default:
			bar[i] = ' '
		}
	}

	return fmt.Sprintf("[%s] %5.1f%%", string(bar), percent*100)
}
