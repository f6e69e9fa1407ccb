package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/lk16/patzer/internal/uci"
)

const (
	MaxAnalysisDepth    = 60
	MaxAnalysisMoveTime = 5 * time.Minute
	MaxAnalysisMoves    = 600

	cacheKeySeparator = "|"
)

// AnalysisRequest asks for the best move in a position.
type AnalysisRequest struct {
	// FEN is the position to start from. Empty means the standard start position.
	FEN        string   `json:"fen"`
	Moves      []string `json:"moves"`
	Depth      int      `json:"depth"`
	MoveTimeMs int      `json:"movetime_ms"`
	Nodes      int      `json:"nodes"`
}

// Validate checks that the request is bounded and well formed.
func (r *AnalysisRequest) Validate() error {
	if r.Depth == 0 && r.MoveTimeMs == 0 && r.Nodes == 0 {
		return errors.New("one of depth, movetime_ms or nodes is required")
	}

	if r.Depth < 0 || r.Depth > MaxAnalysisDepth {
		return fmt.Errorf("depth must be between 0 and %d", MaxAnalysisDepth)
	}

	if r.MoveTimeMs < 0 || time.Duration(r.MoveTimeMs)*time.Millisecond > MaxAnalysisMoveTime {
		return fmt.Errorf("movetime_ms must be between 0 and %d", MaxAnalysisMoveTime.Milliseconds())
	}

	if r.Nodes < 0 {
		return errors.New("nodes cannot be negative")
	}

	if len(r.Moves) > MaxAnalysisMoves {
		return fmt.Errorf("at most %d moves are allowed", MaxAnalysisMoves)
	}

	for _, move := range r.Moves {
		if move == "" || strings.ContainsAny(move, " \t\r\n"+cacheKeySeparator) {
			return fmt.Errorf("invalid move %q", move)
		}
	}

	// a newline would end the position command early
	if strings.ContainsAny(r.FEN, "\r\n") {
		return errors.New("fen cannot contain line breaks")
	}

	if strings.Contains(r.FEN, cacheKeySeparator) {
		return fmt.Errorf("fen cannot contain %q", cacheKeySeparator)
	}

	return nil
}

// GoParams converts the search limits of the request.
func (r *AnalysisRequest) GoParams() uci.GoParams {
	return uci.GoParams{
		Depth:    r.Depth,
		MoveTime: time.Duration(r.MoveTimeMs) * time.Millisecond,
		Nodes:    r.Nodes,
	}
}

// CacheKey identifies requests that give the same answer. The position part is the argument of the
// position command, so an empty FEN and a FEN that reads "startpos" do not share a key.
func (r *AnalysisRequest) CacheKey() string {
	position := "startpos"
	if r.FEN != "" {
		position = "fen " + r.FEN
	}

	return "analysis:" + strings.Join([]string{
		position,
		strings.Join(r.Moves, " "),
		r.GoParams().Command(),
	}, cacheKeySeparator)
}

// Analysis is a computed best move.
type Analysis struct {
	ID              uuid.UUID      `json:"id"               db:"id"`
	FEN             string         `json:"fen"              db:"fen"`
	Moves           pq.StringArray `json:"moves"            db:"moves"`
	GoCommand       string         `json:"go_command"       db:"go_command"`
	BestMove        string         `json:"best_move"        db:"best_move"`
	Ponder          string         `json:"ponder,omitempty" db:"ponder"`
	Score           Score          `json:"score"            db:"score"`
	ComputationTime float64        `json:"computation_time" db:"computation_time"`
	CreatedAt       time.Time      `json:"created_at"       db:"created_at"`
}

// Result returns the engine answer stored in the analysis.
func (a *Analysis) Result() uci.BestMoveResult {
	return uci.BestMoveResult{
		BestMove: a.BestMove,
		Ponder:   a.Ponder,
		Score:    uci.Score(a.Score),
	}
}
