package trace

import (
	"io"
	"sync"
	"time"
)

// RingTracer keeps the most recent events in a fixed-size buffer.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	next  int
	full  bool
	level Level
	start time.Time

	// sink получает содержимое буфера при Close
	sink   io.Writer
	format Format
}

func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = 4096
	}
	return &RingTracer{buf: make([]Event, size), level: level, start: time.Now()}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf[t.next] = *ev
	t.next++
	if t.next == len(t.buf) {
		t.next = 0
		t.full = true
	}
}

// Snapshot returns the buffered events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return append([]Event(nil), t.buf[:t.next]...)
	}
	out := make([]Event, 0, len(t.buf))
	out = append(out, t.buf[t.next:]...)
	return append(out, t.buf[:t.next]...)
}

// Dump writes the buffered events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format, t.start)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }

// Close dumps the buffer to the sink configured by New, if any.
func (t *RingTracer) Close() error {
	if t.sink == nil {
		return nil
	}
	err := t.Dump(t.sink, t.format)
	if c, ok := t.sink.(io.Closer); ok && !isStdStream(t.sink) {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
