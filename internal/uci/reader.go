package uci

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// reader copies lines from an engine output stream into a LineBuffer on its own goroutine.
type reader struct {
	stream io.ReadCloser
	buffer *LineBuffer

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func startReader(stream io.ReadCloser, buffer *LineBuffer) *reader {
	r := &reader{
		stream: stream,
		buffer: buffer,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	go r.run()
	return r
}

func (r *reader) run() {
	defer close(r.done)
	defer r.closeStream()

	lineReader := bufio.NewReader(r.stream)

	for {
		line, err := lineReader.ReadString('\n')

		if line != "" && !r.stopped() {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")

			if enqueueErr := r.buffer.Enqueue(line); enqueueErr != nil {
				slog.Error("Engine output buffer is full", "capacity", r.buffer.Capacity(), "line", line)
				r.buffer.Fail(enqueueErr)
				return
			}
		}

		if err != nil {
			// EOF means the engine closed its output, any other error after stop is caused by closing the stream.
			if !errors.Is(err, io.EOF) && !r.stopped() {
				slog.Error("Failed to read engine output", "error", err)
			}
			return
		}

		if r.stopped() {
			return
		}
	}
}

func (r *reader) stopped() bool {
	select {
	case <-r.stop:
		return true
	default:
		return false
	}
}

func (r *reader) closeStream() {
	if err := r.stream.Close(); err != nil {
		slog.Debug("Failed to close engine output stream", "error", err)
	}
}

// shutdown signals the goroutine, closes the stream to unblock a pending read and waits for the goroutine to end.
func (r *reader) shutdown() {
	r.stopOnce.Do(func() {
		close(r.stop)
		r.closeStream()
	})

	<-r.done
}
