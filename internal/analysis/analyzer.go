package analysis

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lk16/patzer/internal/config"
	"github.com/lk16/patzer/internal/models"
	"github.com/lk16/patzer/internal/uci"
)

const (
	// NoMove is what engines answer when the side to move has no legal moves.
	NoMove = "(none)"

	fenPrefix = "Fen: "
)

// ErrNoFEN is returned when the engine does not print a Fen: line for the `d` command.
var ErrNoFEN = errors.New("engine did not report a fen")

// Session is the part of uci.Driver the Analyzer needs.
type Session interface {
	Initialize() (uci.EngineID, error)
	SetOption(name string, value any) error
	NewGame() error
	SetStartPosition(moves ...string) error
	SetFENPosition(fen string, moves ...string) error
	GoAndGetBestMove(params uci.GoParams, timeout time.Duration) (uci.BestMoveResult, error)
	Stop() error
	GetBestMove(timeout time.Duration) (uci.BestMoveResult, error)
	CustomCommand(command string, timeout time.Duration) ([]string, error)
}

var _ Session = (*uci.Driver)(nil)

// Analyzer computes single best moves with one engine session. It is safe for concurrent use,
// calls are handled one at a time.
type Analyzer struct {
	mu       sync.Mutex
	session  Session
	options  []config.EngineOption
	timeout  time.Duration
	engineID uci.EngineID
}

// NewAnalyzer creates an Analyzer. Timeout bounds each line read while waiting for a best move.
func NewAnalyzer(session Session, options []config.EngineOption, timeout time.Duration) *Analyzer {
	return &Analyzer{
		session: session,
		options: options,
		timeout: timeout,
	}
}

// Initialize does the handshake and sets all configured options.
func (a *Analyzer) Initialize() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	engineID, err := a.session.Initialize()
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}

	a.engineID = engineID
	slog.Info("Engine initialized", "name", engineID.Name, "author", engineID.Author, "options", len(engineID.Options))

	for _, option := range a.options {
		if err = a.session.SetOption(option.Name, option.Value); err != nil {
			return fmt.Errorf("failed to set option %s: %w", option.Name, err)
		}
	}

	return nil
}

// EngineID returns what the engine reported during Initialize.
func (a *Analyzer) EngineID() uci.EngineID {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.engineID
}

// MakeBestMove searches fen in a new game and leaves the engine at the position after the best move.
// An empty fen is the start position.
func (a *Analyzer) MakeBestMove(fen string, params uci.GoParams) (uci.BestMoveResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.makeBestMove(fen, nil, params)
}

func (a *Analyzer) makeBestMove(fen string, moves []string, params uci.GoParams) (uci.BestMoveResult, error) {
	if err := a.session.NewGame(); err != nil {
		return uci.BestMoveResult{}, fmt.Errorf("failed to start new game: %w", err)
	}

	if err := a.setPosition(fen, moves); err != nil {
		return uci.BestMoveResult{}, err
	}

	result, err := a.session.GoAndGetBestMove(params, a.timeout)
	if errors.Is(err, uci.ErrTimeoutExceeded) {
		a.abandonSearch()
	}
	if err != nil {
		return uci.BestMoveResult{}, fmt.Errorf("failed to get best move: %w", err)
	}

	if result.BestMove != NoMove {
		played := append(append([]string{}, moves...), result.BestMove)
		if err = a.setPosition(fen, played); err != nil {
			return uci.BestMoveResult{}, err
		}
	}

	return result, nil
}

// abandonSearch stops a search that timed out and drains its bestmove line, so the session accepts
// the next game.
func (a *Analyzer) abandonSearch() {
	if err := a.session.Stop(); err != nil {
		slog.Error("Failed to stop search", "error", err)
		return
	}

	if _, err := a.session.GetBestMove(a.timeout); err != nil {
		slog.Error("Engine did not finish stopped search", "error", err)
	}
}

func (a *Analyzer) setPosition(fen string, moves []string) error {
	var err error
	if fen == "" {
		err = a.session.SetStartPosition(moves...)
	} else {
		err = a.session.SetFENPosition(fen, moves...)
	}

	if err != nil {
		return fmt.Errorf("failed to set position: %w", err)
	}

	return nil
}

// Analyze runs a request and returns a new Analysis.
func (a *Analyzer) Analyze(request models.AnalysisRequest) (*models.Analysis, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis request: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	params := request.GoParams()
	startTime := time.Now()

	result, err := a.makeBestMove(request.FEN, request.Moves, params)
	if err != nil {
		return nil, err
	}

	moves := request.Moves
	if moves == nil {
		moves = []string{}
	}

	analysis := &models.Analysis{
		ID:              uuid.New(),
		FEN:             request.FEN,
		Moves:           moves,
		GoCommand:       params.Command(),
		BestMove:        result.BestMove,
		Ponder:          result.Ponder,
		Score:           models.Score(result.Score),
		ComputationTime: time.Since(startTime).Seconds(),
		CreatedAt:       startTime.UTC(),
	}

	slog.Debug("Analysis done", "id", analysis.ID, "best_move", analysis.BestMove, "score", result.Score)
	return analysis, nil
}

// CurrentFEN asks the engine for the FEN of its current position with the `d` command.
// Not every engine supports it.
func (a *Analyzer) CurrentFEN(timeout time.Duration) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	lines, err := a.session.CustomCommand("d", timeout)
	if err != nil {
		return "", fmt.Errorf("failed to display board: %w", err)
	}

	for _, line := range lines {
		if strings.HasPrefix(line, fenPrefix) {
			return strings.TrimPrefix(line, fenPrefix), nil
		}
	}

	return "", ErrNoFEN
}
