package trace

import (
	"io"
	"sync"

	"go.uber.org/zap"
)

// RingTracer keeps the most recent events of a run in memory. It backs
// `--trace-mode=ring`: nothing is written until the run ends, then the
// tail is dumped to stderr.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	total  uint64 // сколько событий записано за всё время
	level  Level
}

// NewRingTracer creates a RingTracer that holds up to capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{events: make([]Event, 0, capacity), level: level}
}

// Emit stores ev, overwriting the oldest event once the ring is full.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	stored := *ev
	stored.Seq = NextSeq()

	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.events) < cap(t.events) {
		t.events = append(t.events, stored)
	} else {
		t.events[t.total%uint64(cap(t.events))] = stored
	}
	t.total++
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, len(t.events))
	if len(t.events) < cap(t.events) {
		return append(out, t.events...)
	}
	head := int(t.total % uint64(cap(t.events)))
	out = append(out, t.events[head:]...)
	return append(out, t.events[:head]...)
}

// Overwritten reports how many events were lost to wrap-around.
func (t *RingTracer) Overwritten() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total - uint64(len(t.events))
}

// Dump writes the stored events through a zap encoder, followed by a
// warning when older events were lost.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	log := NewZap(w, format, true)
	for _, ev := range t.Snapshot() {
		log.Debug(ev.Name, eventFields(&ev)...)
	}
	if lost := t.Overwritten(); lost > 0 {
		log.Warn("trace ring overwrote older events", zap.Uint64("lost", lost))
	}
	return log.Sync()
}

func (t *RingTracer) Flush() error { return nil }

func (t *RingTracer) Close() error { return nil }

func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
