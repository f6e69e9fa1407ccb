package uci

import (
	"fmt"
	"strings"
	"time"
)

const (
	// InitializeTimeout bounds the wait for uciok. Engines can take a while to start.
	InitializeTimeout = 10 * time.Second

	// ReadyTimeout is the isready wait used by SetOption and NewGame.
	ReadyTimeout = 10 * time.Second
)

// Transport is the line-level connection a Driver talks through. *Channel implements it.
type Transport interface {
	Write(command string) error
	WaitForExact(target string, timeout time.Duration) ([]string, error)
	WaitForPrefix(prefix string, timeout time.Duration) ([]string, error)
}

// EngineID is what an engine tells about itself during the handshake.
type EngineID struct {
	Name    string
	Author  string
	Options []string
}

// Driver runs a UCI session. It is not safe for concurrent use.
type Driver struct {
	transport Transport
	state     State
}

// NewDriver creates a Driver in StateUninitialized.
func NewDriver(transport Transport) *Driver {
	return &Driver{
		transport: transport,
		state:     StateUninitialized,
	}
}

// State returns the current session state.
func (d *Driver) State() State {
	return d.state
}

// Initialize does the uci/uciok handshake.
func (d *Driver) Initialize() (EngineID, error) {
	if err := check(opInitialize, d.state); err != nil {
		return EngineID{}, err
	}

	if err := d.transport.Write("uci"); err != nil {
		return EngineID{}, err
	}

	lines, err := d.transport.WaitForExact("uciok", InitializeTimeout)
	if err != nil {
		return EngineID{}, fmt.Errorf("failed to wait for uciok: %w", err)
	}

	d.state = next(opInitialize, d.state)
	return parseEngineID(lines), nil
}

func parseEngineID(lines []string) EngineID {
	var id EngineID

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "id name "):
			id.Name = strings.TrimPrefix(line, "id name ")
		case strings.HasPrefix(line, "id author "):
			id.Author = strings.TrimPrefix(line, "id author ")
		case strings.HasPrefix(line, "option name "):
			id.Options = append(id.Options, strings.TrimPrefix(line, "option name "))
		}
	}

	return id
}

// SetOption sets an engine option and waits until the engine processed it.
func (d *Driver) SetOption(name string, value any) error {
	if err := check(opSetOption, d.state); err != nil {
		return err
	}

	if err := d.transport.Write(fmt.Sprintf("setoption name %s value %v", name, value)); err != nil {
		return err
	}

	if _, err := d.isReady(ReadyTimeout); err != nil {
		return err
	}

	return nil
}

// IsReady sends isready and returns every line up to and including readyok.
func (d *Driver) IsReady(timeout time.Duration) ([]string, error) {
	if err := check(opIsReady, d.state); err != nil {
		return nil, err
	}

	return d.isReady(timeout)
}

func (d *Driver) isReady(timeout time.Duration) ([]string, error) {
	if err := d.transport.Write("isready"); err != nil {
		return nil, err
	}

	lines, err := d.transport.WaitForExact("readyok", timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for readyok: %w", err)
	}

	return lines, nil
}

// NewGame tells the engine the next position belongs to a different game.
func (d *Driver) NewGame() error {
	if err := check(opNewGame, d.state); err != nil {
		return err
	}

	if err := d.transport.Write("ucinewgame"); err != nil {
		return err
	}

	if _, err := d.isReady(ReadyTimeout); err != nil {
		return err
	}

	d.state = next(opNewGame, d.state)
	return nil
}

// SetStartPosition sets the standard start position with optional moves played from it.
func (d *Driver) SetStartPosition(moves ...string) error {
	return d.setPosition("startpos", moves)
}

// SetFENPosition sets the position described by fen with optional moves played from it.
func (d *Driver) SetFENPosition(fen string, moves ...string) error {
	return d.setPosition("fen "+fen, moves)
}

func (d *Driver) setPosition(position string, moves []string) error {
	if err := check(opSetPosition, d.state); err != nil {
		return err
	}

	command := "position " + position
	if len(moves) > 0 {
		command += " moves " + strings.Join(moves, " ")
	}

	// the engine does not answer position commands
	if err := d.transport.Write(command); err != nil {
		return err
	}

	d.state = next(opSetPosition, d.state)
	return nil
}

// Go starts a search on the current position.
func (d *Driver) Go(params GoParams) error {
	if err := check(opGo, d.state); err != nil {
		return err
	}

	if err := d.transport.Write(params.Command()); err != nil {
		return err
	}

	d.state = next(opGo, d.state)
	return nil
}

// Stop asks the engine to end the current search. It is required for ponder and infinite searches.
func (d *Driver) Stop() error {
	if err := check(opStop, d.state); err != nil {
		return err
	}

	return d.transport.Write("stop")
}

// GetBestMove waits for the bestmove line of the running search. The timeout applies per line.
func (d *Driver) GetBestMove(timeout time.Duration) (BestMoveResult, error) {
	if err := check(opGetBestMove, d.state); err != nil {
		return BestMoveResult{}, err
	}

	lines, err := d.transport.WaitForPrefix("bestmove", timeout)
	if err != nil {
		return BestMoveResult{}, fmt.Errorf("failed to wait for bestmove: %w", err)
	}

	// the search is over even when the line is malformed
	d.state = next(opGetBestMove, d.state)

	return ParseBestMove(lines)
}

// GoAndGetBestMove runs Go and GetBestMove.
func (d *Driver) GoAndGetBestMove(params GoParams, timeout time.Duration) (BestMoveResult, error) {
	if err := d.Go(params); err != nil {
		return BestMoveResult{}, err
	}

	return d.GetBestMove(timeout)
}

// CustomCommand sends a command without a terminator of its own. It synchronizes with isready and returns
// the lines the engine printed before readyok.
func (d *Driver) CustomCommand(command string, timeout time.Duration) ([]string, error) {
	if err := check(opCustomCommand, d.state); err != nil {
		return nil, err
	}

	if err := d.transport.Write(command); err != nil {
		return nil, err
	}

	lines, err := d.isReady(timeout)
	if err != nil {
		return nil, err
	}

	return lines[:len(lines)-1], nil
}
