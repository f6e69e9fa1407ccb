package uci

import "fmt"

// State is the position of a Driver in the UCI session.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StatePositionSet
	StateSearching
	StateResultAvailable
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StatePositionSet:
		return "position set"
	case StateSearching:
		return "searching"
	case StateResultAvailable:
		return "result available"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type operation string

const (
	opInitialize    operation = "initialize"
	opSetOption     operation = "set option"
	opIsReady       operation = "check readiness"
	opNewGame       operation = "start new game"
	opSetPosition   operation = "set position"
	opGo            operation = "go"
	opStop          operation = "stop"
	opGetBestMove   operation = "get best move"
	opCustomCommand operation = "send custom command"
)

// keepState marks transitions that leave the state unchanged.
const keepState State = -1

type transition struct {
	from []State
	to   State
}

var idleStates = []State{StateReady, StatePositionSet, StateResultAvailable}

var transitions = map[operation]transition{
	opInitialize:    {from: []State{StateUninitialized}, to: StateReady},
	opSetOption:     {from: idleStates, to: keepState},
	opIsReady:       {from: idleStates, to: keepState},
	opCustomCommand: {from: idleStates, to: keepState},
	opNewGame:       {from: idleStates, to: StateReady},
	opSetPosition:   {from: idleStates, to: StatePositionSet},
	opGo:            {from: []State{StatePositionSet, StateResultAvailable}, to: StateSearching},
	opStop:          {from: []State{StateSearching}, to: keepState},
	opGetBestMove:   {from: []State{StateSearching}, to: StateResultAvailable},
}

// check returns a *StateError if op is not allowed from state.
func check(op operation, state State) error {
	for _, allowed := range transitions[op].from {
		if allowed == state {
			return nil
		}
	}
	return &StateError{Op: string(op), State: state}
}

// next returns the state after op succeeded in state.
func next(op operation, state State) State {
	if to := transitions[op].to; to != keepState {
		return to
	}
	return state
}
