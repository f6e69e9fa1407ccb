package uci

import (
	"bufio"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTimeout = time.Second

// pipes connects a Channel to in-memory engine stdin and stdout.
type pipes struct {
	channel *Channel
	stdin   *bufio.Reader
	stdout  *io.PipeWriter
}

func newPipes(t *testing.T, capacity int) *pipes {
	t.Helper()

	stdinReader, stdinWriter := io.Pipe()
	stdoutReader, stdoutWriter := io.Pipe()

	p := &pipes{
		channel: NewChannel(stdinWriter, stdoutReader, capacity),
		stdin:   bufio.NewReader(stdinReader),
		stdout:  stdoutWriter,
	}

	t.Cleanup(func() {
		stdoutWriter.Close()
		stdinReader.Close()
		p.channel.Close()
	})

	return p
}

// emit writes engine output without blocking the test goroutine.
func (p *pipes) emit(output string) {
	go func() {
		_, _ = io.WriteString(p.stdout, output)
	}()
}

func TestChannelWrite(t *testing.T) {
	p := newPipes(t, 10)

	received := make(chan string, 1)
	go func() {
		line, _ := p.stdin.ReadString('\n')
		received <- line
	}()

	require.NoError(t, p.channel.Write("uci"))
	assert.Equal(t, "uci\n", <-received)
}

func TestChannelRead(t *testing.T) {
	p := newPipes(t, 10)
	p.emit("id name Fakefish\r\nuciok\n")

	line, err := p.channel.Read(testTimeout)
	require.NoError(t, err)
	assert.Equal(t, "id name Fakefish", line)

	line, err = p.channel.Read(testTimeout)
	require.NoError(t, err)
	assert.Equal(t, "uciok", line)
}

func TestChannelWaitForExact(t *testing.T) {
	p := newPipes(t, 10)
	p.emit("id name Fakefish\nuciokay\nuciok\nreadyok\n")

	lines, err := p.channel.WaitForExact("uciok", testTimeout)
	require.NoError(t, err)
	assert.Equal(t, []string{"id name Fakefish", "uciokay", "uciok"}, lines)

	line, err := p.channel.Read(testTimeout)
	require.NoError(t, err)
	assert.Equal(t, "readyok", line)
}

func TestChannelWaitForPrefix(t *testing.T) {
	p := newPipes(t, 10)
	p.emit("info depth 1 score cp 13\nbestmove e2e4 ponder e7e5\ninfo string after\n")

	lines, err := p.channel.WaitForPrefix("bestmove", testTimeout)
	require.NoError(t, err)
	assert.Equal(t, []string{"info depth 1 score cp 13", "bestmove e2e4 ponder e7e5"}, lines)
}

func TestChannelWaitTimeoutDiscardsTranscript(t *testing.T) {
	p := newPipes(t, 10)
	p.emit("info string one\n")

	lines, err := p.channel.WaitForExact("readyok", 50*time.Millisecond)
	require.ErrorIs(t, err, ErrTimeoutExceeded)
	assert.Nil(t, lines)
}

func TestChannelEndOfStream(t *testing.T) {
	p := newPipes(t, 10)

	go func() {
		_, _ = io.WriteString(p.stdout, "first\nunterminated")
		p.stdout.Close()
	}()

	lines, err := p.channel.WaitForExact("unterminated", testTimeout)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "unterminated"}, lines)

	// no sentinel is pushed, the read just times out
	_, err = p.channel.Read(50 * time.Millisecond)
	require.ErrorIs(t, err, ErrTimeoutExceeded)
	assert.NoError(t, p.channel.Err())
}

func TestChannelCapacityExceeded(t *testing.T) {
	p := newPipes(t, 2)
	p.emit("a\nb\nc\n")

	require.Eventually(t, func() bool {
		return p.channel.Err() != nil
	}, testTimeout, 5*time.Millisecond)

	_, err := p.channel.Read(testTimeout)
	require.ErrorIs(t, err, ErrStreamCapacityExceeded)

	// the fault sticks
	_, err = p.channel.WaitForExact("a", testTimeout)
	require.ErrorIs(t, err, ErrStreamCapacityExceeded)
}

func TestChannelClose(t *testing.T) {
	p := newPipes(t, 10)

	p.channel.Close()
	p.channel.Close()

	_, err := p.channel.Read(testTimeout)
	require.ErrorIs(t, err, ErrChannelClosed)
}

func TestChannelCloseKeepsEarlierFault(t *testing.T) {
	p := newPipes(t, 1)
	p.emit("a\nb\n")

	require.Eventually(t, func() bool {
		return p.channel.Err() != nil
	}, testTimeout, 5*time.Millisecond)

	p.channel.Close()

	_, err := p.channel.Read(testTimeout)
	require.ErrorIs(t, err, ErrStreamCapacityExceeded)
}
