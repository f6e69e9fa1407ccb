package uci

import (
	"sync"
	"time"
)

// DefaultCapacity is the line buffer capacity used when none is configured.
const DefaultCapacity = 1000

// LineBuffer is a bounded FIFO of engine output lines. It is safe for one producer and one consumer
// running on different goroutines.
type LineBuffer struct {
	lines chan string

	// faulted is closed once fault is set
	faulted   chan struct{}
	fault     error
	faultOnce sync.Once
}

// NewLineBuffer creates a LineBuffer. A capacity below 1 falls back to DefaultCapacity.
func NewLineBuffer(capacity int) *LineBuffer {
	if capacity < 1 {
		capacity = DefaultCapacity
	}

	return &LineBuffer{
		lines:   make(chan string, capacity),
		faulted: make(chan struct{}),
	}
}

// Capacity returns the maximum number of undequeued lines.
func (b *LineBuffer) Capacity() int {
	return cap(b.lines)
}

// Len returns the number of undequeued lines.
func (b *LineBuffer) Len() int {
	return len(b.lines)
}

// Enqueue adds a line. It never blocks and never drops: a full buffer returns ErrStreamCapacityExceeded.
func (b *LineBuffer) Enqueue(line string) error {
	select {
	case b.lines <- line:
		return nil
	default:
		return ErrStreamCapacityExceeded
	}
}

// Fail latches err. Every following Dequeue returns it. Only the first call has effect.
func (b *LineBuffer) Fail(err error) {
	b.faultOnce.Do(func() {
		b.fault = err
		close(b.faulted)
	})
}

// Err returns the latched fault, if any.
func (b *LineBuffer) Err() error {
	select {
	case <-b.faulted:
		return b.fault
	default:
		return nil
	}
}

// Dequeue removes the oldest line, waiting up to timeout for one to arrive.
// A timeout of zero or less waits indefinitely.
func (b *LineBuffer) Dequeue(timeout time.Duration) (string, error) {
	// a fault wins over lines that are still queued
	if err := b.Err(); err != nil {
		return "", err
	}

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case line := <-b.lines:
		return line, nil
	case <-b.faulted:
		return "", b.fault
	case <-deadline:
		return "", ErrTimeoutExceeded
	}
}
