package confstore

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapperd/internal/models"
)

type flushRecorder struct {
	mu    sync.Mutex
	confs []*models.Configuration
}

func (r *flushRecorder) flush(conf *models.Configuration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confs = append(r.confs, conf)
}

func (r *flushRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.confs)
}

func (r *flushRecorder) last() *models.Configuration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.confs) == 0 {
		return nil
	}
	return r.confs[len(r.confs)-1]
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	rec := &flushRecorder{}
	d := NewDebouncer(30*time.Millisecond, rec.flush)

	var last *models.Configuration
	for i := 0; i < 10; i++ {
		last = models.NewDefaultConfiguration()
		d.Schedule(last)
	}

	require.Eventually(t, func() bool { return rec.count() > 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, rec.count())
	assert.Same(t, last, rec.last())
}

func TestDebouncer_FlushWritesPendingImmediately(t *testing.T) {
	rec := &flushRecorder{}
	d := NewDebouncer(time.Hour, rec.flush)

	conf := models.NewDefaultConfiguration()
	d.Schedule(conf)
	d.Flush()

	assert.Equal(t, 1, rec.count())
	assert.Same(t, conf, rec.last())
}

func TestDebouncer_FlushWithoutPendingIsNoop(t *testing.T) {
	rec := &flushRecorder{}
	d := NewDebouncer(time.Hour, rec.flush)

	d.Flush()
	assert.Zero(t, rec.count())
}

func TestDebouncer_FlushDrainsPending(t *testing.T) {
	rec := &flushRecorder{}
	d := NewDebouncer(time.Hour, rec.flush)

	d.Schedule(models.NewDefaultConfiguration())
	d.Flush()
	d.Flush()

	assert.Equal(t, 1, rec.count())
}
