package seen

import (
	"sync"
	"time"

	"homefeed/internal/logging"
	"homefeed/internal/metrics"
	"homefeed/internal/store"
)

const (
	// defaultBatchSize flushes the buffer once this many marks accumulate.
	defaultBatchSize = 20

	// defaultFlushInterval flushes any buffered marks after this long.
	defaultFlushInterval = 5 * time.Second
)

// Recorder is the subset of the tracker the feed controller depends on.
type Recorder interface {
	Mark(path string)
	SetSuppressed(suppressed bool)
}

// Marker persists seen batches. The store package satisfies this interface.
type Marker interface {
	MarkSeenBatch(paths []string) (store.SeenData, error)
}

// Tracker batches seen marks and writes them through the store either when
// the buffer fills or on a timer, so scrolling does not issue one write per
// slide. Marks are fire-and-forget: callers never wait on persistence, and a
// failed flush is logged and retried with the next batch.
type Tracker struct {
	marker        Marker
	batchSize     int
	flushInterval time.Duration

	mu         sync.Mutex
	pending    []string
	suppressed bool

	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithBatchSize overrides the count-based flush threshold.
func WithBatchSize(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.batchSize = n
		}
	}
}

// WithFlushInterval overrides the time-based flush interval.
func WithFlushInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.flushInterval = d
		}
	}
}

// New creates a Tracker and starts its background flush loop.
func New(marker Marker, opts ...Option) *Tracker {
	t := &Tracker{
		marker:        marker,
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		stopChan:      make(chan struct{}),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}

	go t.loop()
	return t
}

// Mark buffers a path as seen. While recording is suppressed (trash
// browsing) the mark is dropped entirely.
func (t *Tracker) Mark(path string) {
	t.MarkBatch([]string{path})
}

// MarkBatch buffers several paths as seen.
func (t *Tracker) MarkBatch(paths []string) {
	if len(paths) == 0 {
		return
	}

	t.mu.Lock()
	if t.suppressed {
		t.mu.Unlock()
		metrics.SeenMarksSuppressed.Add(float64(len(paths)))
		return
	}
	t.pending = append(t.pending, paths...)
	shouldFlush := len(t.pending) >= t.batchSize
	metrics.SeenMarksTotal.Add(float64(len(paths)))
	metrics.SeenPending.Set(float64(len(t.pending)))
	t.mu.Unlock()

	if shouldFlush {
		t.flush("count")
	}
}

// SetSuppressed toggles recording. Suppression also drops anything already
// buffered, since those marks were made in the same browsing context.
func (t *Tracker) SetSuppressed(suppressed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.suppressed = suppressed
	if suppressed {
		t.pending = nil
		metrics.SeenPending.Set(0)
	}
}

// Suppressed reports whether recording is currently suppressed.
func (t *Tracker) Suppressed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.suppressed
}

// Flush writes any buffered marks immediately.
func (t *Tracker) Flush() {
	t.flush("explicit")
}

// Close flushes remaining marks and stops the background loop.
func (t *Tracker) Close() {
	t.stopOnce.Do(func() {
		close(t.stopChan)
	})
	<-t.done
}

func (t *Tracker) flush(trigger string) {
	t.mu.Lock()
	batch := t.pending
	t.pending = nil
	metrics.SeenPending.Set(0)
	t.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	metrics.SeenFlushesTotal.WithLabelValues(trigger).Inc()
	metrics.SeenBatchSize.Observe(float64(len(batch)))

	if _, err := t.marker.MarkSeenBatch(batch); err != nil {
		logging.Error("failed to flush seen batch (%d paths): %v", len(batch), err)
		// Requeue so the next flush retries, unless suppression kicked in.
		t.mu.Lock()
		if !t.suppressed {
			t.pending = append(batch, t.pending...)
			metrics.SeenPending.Set(float64(len(t.pending)))
		}
		t.mu.Unlock()
	}
}

func (t *Tracker) loop() {
	defer close(t.done)

	ticker := time.NewTicker(t.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.flush("interval")
		case <-t.stopChan:
			t.flush("close")
			return
		}
	}
}
