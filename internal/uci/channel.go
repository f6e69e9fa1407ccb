package uci

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Channel is a command/response session over one engine process. Reads must come from a single goroutine.
type Channel struct {
	writeMu sync.Mutex
	writer  *bufio.Writer

	buffer *LineBuffer
	reader *reader

	closeOnce sync.Once
}

// NewChannel starts a background reader on source and returns a Channel writing to sink.
// The reader owns source: it is closed when reading ends or when the Channel is closed.
func NewChannel(sink io.Writer, source io.ReadCloser, capacity int) *Channel {
	buffer := NewLineBuffer(capacity)

	return &Channel{
		writer: bufio.NewWriter(sink),
		buffer: buffer,
		reader: startReader(source, buffer),
	}
}

// Write sends command followed by a newline and flushes right away.
func (c *Channel) Write(command string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	slog.Debug("Engine stdin", "command", command)

	if _, err := c.writer.WriteString(command + "\n"); err != nil {
		return fmt.Errorf("failed to write command: %w", err)
	}

	if err := c.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush command: %w", err)
	}

	return nil
}

// Read returns the next engine line. A timeout of zero or less waits indefinitely.
func (c *Channel) Read(timeout time.Duration) (string, error) {
	line, err := c.buffer.Dequeue(timeout)
	if err != nil {
		return "", err
	}

	slog.Debug("Engine stdout", "line", line)
	return line, nil
}

// WaitForExact reads lines until one equals target. It returns every line read, the match included.
//
// The timeout applies to each read, not to the whole wait: an engine that keeps emitting non-matching
// lines keeps the call running. On timeout the lines read so far are discarded.
func (c *Channel) WaitForExact(target string, timeout time.Duration) ([]string, error) {
	return c.waitFor(func(line string) bool { return line == target }, timeout)
}

// WaitForPrefix reads lines until one starts with prefix. It has the same timeout behavior as WaitForExact.
func (c *Channel) WaitForPrefix(prefix string, timeout time.Duration) ([]string, error) {
	return c.waitFor(func(line string) bool { return strings.HasPrefix(line, prefix) }, timeout)
}

func (c *Channel) waitFor(match func(string) bool, timeout time.Duration) ([]string, error) {
	var lines []string

	for {
		line, err := c.Read(timeout)
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)

		if match(line) {
			return lines, nil
		}
	}
}

// Err returns the fault that stopped the channel, if any.
func (c *Channel) Err() error {
	return c.buffer.Err()
}

// Close stops the background reader and waits for it to exit. Reads after Close return ErrChannelClosed,
// unless the channel already failed with another error. Close does not touch the sink.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		c.reader.shutdown()
		c.buffer.Fail(ErrChannelClosed)
	})
}
