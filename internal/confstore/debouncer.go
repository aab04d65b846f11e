package confstore

import (
	"sync"
	"time"

	"zapperd/internal/models"
)

// Debouncer coalesces configuration writes: every Schedule call keeps
// only the latest value and arms the flush timer anew, so a burst of
// edits produces a single disk write after the idle window. Flush
// writes any pending value synchronously.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending *models.Configuration
	flushFn func(*models.Configuration)
}

func NewDebouncer(delay time.Duration, flushFn func(*models.Configuration)) *Debouncer {
	return &Debouncer{
		delay:   delay,
		flushFn: flushFn,
	}
}

func (d *Debouncer) Schedule(conf *models.Configuration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = conf
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flushPending)
}

func (d *Debouncer) flushPending() {
	d.mu.Lock()
	conf := d.pending
	d.pending = nil
	d.mu.Unlock()

	if conf != nil {
		d.flushFn(conf)
	}
}

// Flush writes any pending value immediately, canceling the timer.
// Used on shutdown.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.flushPending()
}
