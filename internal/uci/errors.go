package uci

import (
	"errors"
	"fmt"
)

var (
	// ErrStreamCapacityExceeded is returned when the engine produced more lines than the buffer can hold.
	// It is fatal for the channel.
	ErrStreamCapacityExceeded = errors.New("stream capacity exceeded")

	// ErrTimeoutExceeded is returned when no line arrived within the allotted time.
	ErrTimeoutExceeded = errors.New("timeout exceeded")

	// ErrChannelClosed is returned when reading from a channel after Close.
	ErrChannelClosed = errors.New("channel closed")

	// ErrMalformedBestMove is returned when a bestmove line does not match `bestmove <move> [ponder <move>]`.
	ErrMalformedBestMove = errors.New("malformed bestmove line")

	// ErrInvalidState is returned when an operation is not allowed in the current session state.
	ErrInvalidState = errors.New("invalid session state")
)

// ParseError is returned by ParseBestMove.
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Line)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StateError is returned by Driver when an operation is rejected by the transition table.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%v: cannot %s while %s", ErrInvalidState, e.Op, e.State)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}
