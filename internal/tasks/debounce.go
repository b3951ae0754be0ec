package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/desertthunder/waxlog/internal/models"
)

// DefaultDebounceInterval is how long input must be quiet before a search fires.
const DefaultDebounceInterval = time.Second

// SearchFunc performs the actual catalog lookup for a settled query.
type SearchFunc func(ctx context.Context, query string) ([]models.Album, error)

// SearchResult carries a completed search back to the UI. Seq identifies
// which input generation produced it.
type SearchResult struct {
	Seq    uint64
	Query  string
	Albums []models.Album
	Err    error
}

// Debouncer coalesces a stream of query edits into rate-limited searches.
//
// Each Input restarts the quiet-period timer and bumps the sequence number.
// When the timer fires, the search runs in its own goroutine; its result is
// delivered only if no newer input arrived in the meantime and no newer
// result already went out. Stale results are dropped, never reordered.
type Debouncer struct {
	interval time.Duration
	search   SearchFunc
	results  chan SearchResult

	mu            sync.Mutex
	timer         *time.Timer
	seq           uint64
	lastDelivered uint64
	stopped       bool
}

func NewDebouncer(interval time.Duration, search SearchFunc) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	return &Debouncer{
		interval: interval,
		search:   search,
		results:  make(chan SearchResult, 8),
	}
}

// Results is the channel search results arrive on.
func (d *Debouncer) Results() <-chan SearchResult {
	return d.results
}

// Input registers a new query state. Empty queries cancel any pending search
// without firing one.
func (d *Debouncer) Input(ctx context.Context, query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if query == "" {
		return
	}

	seq := d.seq
	d.timer = time.AfterFunc(d.interval, func() {
		d.fire(ctx, seq, query)
	})
}

func (d *Debouncer) fire(ctx context.Context, seq uint64, query string) {
	d.mu.Lock()
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	albums, err := d.search(ctx, query)
	d.deliver(SearchResult{Seq: seq, Query: query, Albums: albums, Err: err})
}

// deliver drops results that are stale by the time the search returns: a
// newer input superseded them, or a newer result already shipped.
func (d *Debouncer) deliver(res SearchResult) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || res.Seq < d.seq || res.Seq <= d.lastDelivered {
		return
	}

	select {
	case d.results <- res:
		d.lastDelivered = res.Seq
	default:
	}
}

// Stop cancels any pending search and closes the results channel.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	close(d.results)
}
