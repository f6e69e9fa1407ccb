package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/lk16/patzer/internal/config"
	"github.com/lk16/patzer/internal/uci"
)

// Process is a running UCI engine with its protocol channel attached.
type Process struct {
	cmd     *exec.Cmd
	cfg     *config.EngineConfig
	stdin   io.WriteCloser
	channel *uci.Channel
	driver  *uci.Driver
	exited  chan error
}

// Start launches the engine binary and attaches a protocol channel to its pipes.
func Start(cfg *config.EngineConfig) (*Process, error) {
	cmd := exec.Command(cfg.Path, cfg.Args...)

	slog.Debug("Starting engine", "path", cfg.Path, "cmd.Args", cmd.Args)

	if cmd.Err != nil {
		return nil, fmt.Errorf("failed to resolve engine path: %w", cmd.Err)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	// cmd.StdoutPipe would be closed by cmd.Wait, possibly before the reader drained it
	stdout, stdoutWriter, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	cmd.Stdout = stdoutWriter

	err = cmd.Start()
	stdoutWriter.Close()
	if err != nil {
		stdout.Close()
		return nil, fmt.Errorf("failed to start engine process: %w", err)
	}

	channel := uci.NewChannel(stdin, stdout, cfg.BufferCapacity)

	p := &Process{
		cmd:     cmd,
		cfg:     cfg,
		stdin:   stdin,
		channel: channel,
		driver:  uci.NewDriver(channel),
		exited:  make(chan error, 1),
	}

	go func() {
		p.exited <- cmd.Wait()
	}()

	slog.Info("Engine process started", "path", cfg.Path, "pid", cmd.Process.Pid)
	return p, nil
}

// Driver returns the UCI session of this process.
func (p *Process) Driver() *uci.Driver {
	return p.driver
}

// PID returns the OS process ID.
func (p *Process) PID() int {
	return p.cmd.Process.Pid
}

// Close asks the engine to quit and kills it if it has not exited within the configured grace period.
func (p *Process) Close() error {
	// the engine may already be gone, in which case the write fails harmlessly
	if err := p.channel.Write("quit"); err != nil {
		slog.Debug("Failed to send quit to engine", "error", err)
	}

	if err := p.stdin.Close(); err != nil {
		slog.Debug("Failed to close engine stdin", "error", err)
	}

	var killErr error

	select {
	case err := <-p.exited:
		slog.Info("Engine process exited", "pid", p.PID(), "error", err)
	case <-time.After(p.cfg.StopGrace):
		slog.Warn("Engine did not quit in time, killing it", "pid", p.PID())

		if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			killErr = fmt.Errorf("failed to kill engine process: %w", err)
		}
		<-p.exited
	}

	p.channel.Close()
	return killErr
}
