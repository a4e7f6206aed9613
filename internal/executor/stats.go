package executor

import (
	"sync"
	"time"
)

// Stats summarizes task durations.
// Only tasks with both a start and an end timestamp are counted; with none,
// Max and Mean are zero.
type Stats struct {
	Max     time.Duration
	Mean    time.Duration
	Timed   int
	Started int
}

// MaxMillis returns Max in whole milliseconds
func (s Stats) MaxMillis() int64 {
	return s.Max.Milliseconds()
}

// MeanMillis returns Mean in whole milliseconds
func (s Stats) MeanMillis() int64 {
	return s.Mean.Milliseconds()
}

type timing struct {
	start time.Time
	end   time.Time
	ended bool
}

// Recorder stores wall-clock start and end timestamps per task.
// Every task writes only under its own ID, so concurrent writers never share an entry.
type Recorder struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[TaskID]*timing
}

// RecorderOption configures a Recorder
type RecorderOption func(*Recorder)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecorder creates an empty recorder
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		now:     time.Now,
		entries: make(map[TaskID]*timing),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start records the current time as id's start. Repeated calls are ignored.
func (r *Recorder) Start(id TaskID) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; ok {
		return
	}
	r.entries[id] = &timing{start: now}
}

// End records the current time as id's end.
// It is ignored for IDs that were never started or have already ended.
func (r *Recorder) End(id TaskID) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.entries[id]
	if !ok || t.ended {
		return
	}
	t.end = now
	t.ended = true
}

// Duration returns id's measured duration, if it has both timestamps
func (r *Recorder) Duration(id TaskID) (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.entries[id]
	if !ok || !t.ended {
		return 0, false
	}
	return t.end.Sub(t.start), true
}

// Snapshot computes max and mean duration over the tasks that ended.
// Intended to be called once the pool has quiesced.
func (r *Recorder) Snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := Stats{Started: len(r.entries)}

	var total time.Duration
	for _, t := range r.entries {
		if !t.ended {
			continue
		}
		d := t.end.Sub(t.start)
		if d < 0 {
			d = 0
		}
		if d > stats.Max {
			stats.Max = d
		}
		total += d
		stats.Timed++
	}

	if stats.Timed > 0 {
		stats.Mean = total / time.Duration(stats.Timed)
	}
	return stats
}
