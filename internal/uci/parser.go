package uci

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Score is the classification derived from the last `info depth` line before `bestmove`.
type Score int

const (
	ScoreNone Score = iota
	ScoreMateInZero
	ScoreMateInOne
	ScoreDrawn
)

var (
	scoreNames = map[Score]string{
		ScoreNone:       "none",
		ScoreMateInZero: "mate_in_zero",
		ScoreMateInOne:  "mate_in_one",
		ScoreDrawn:      "drawn",
	}

	mateRegex = regexp.MustCompile(`score mate ([01])(?:$|[^0-9])`)
)

func (s Score) String() string {
	if name, ok := scoreNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Score(%d)", int(s))
}

// ParseScoreName is the inverse of Score.String.
func ParseScoreName(name string) (Score, error) {
	for score, scoreName := range scoreNames {
		if scoreName == name {
			return score, nil
		}
	}
	return ScoreNone, fmt.Errorf("unknown score %q", name)
}

func (s Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Score) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	score, err := ParseScoreName(name)
	if err != nil {
		return err
	}

	*s = score
	return nil
}

// BestMoveResult is what the engine answered to a search.
type BestMoveResult struct {
	BestMove string `json:"best_move"`

	// Ponder is empty when the engine did not suggest a reply.
	Ponder string `json:"ponder,omitempty"`

	Score Score `json:"score"`
}

// HasPonder reports whether the engine suggested a ponder move.
func (r BestMoveResult) HasPonder() bool {
	return r.Ponder != ""
}

// Tokens is a whitespace split protocol line.
type Tokens []string

// Tokenize splits a protocol line on whitespace.
func Tokenize(line string) Tokens {
	return strings.Fields(line)
}

// At returns the token at index i, if there is one.
func (t Tokens) At(i int) (string, bool) {
	if i < 0 || i >= len(t) {
		return "", false
	}
	return t[i], true
}

// ParseScore classifies the last `info depth` line of a transcript.
//
// Only mate in zero, mate in one and the `depth 0` / `score cp 0` draw are recognized.
// Info lines without depth are skipped entirely and multiple principal variations are not told apart.
func ParseScore(lines []string) Score {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(lines[i], "info depth") {
			return parseInfoLine(lines[i])
		}
	}

	return ScoreNone
}

func parseInfoLine(line string) Score {
	if matches := mateRegex.FindStringSubmatch(line); matches != nil {
		if matches[1] == "0" {
			return ScoreMateInZero
		}
		return ScoreMateInOne
	}

	if strings.Contains(line, "depth 0") && strings.Contains(line, "score cp 0") {
		return ScoreDrawn
	}

	return ScoreNone
}

// ParseBestMove builds a BestMoveResult from a transcript ending with a bestmove line.
// The bestmove line is parsed by position: `bestmove <move> [ponder <move>]`.
func ParseBestMove(lines []string) (BestMoveResult, error) {
	if len(lines) == 0 {
		return BestMoveResult{}, &ParseError{Err: ErrMalformedBestMove}
	}

	line := lines[len(lines)-1]
	tokens := Tokenize(line)

	if keyword, _ := tokens.At(0); keyword != "bestmove" {
		return BestMoveResult{}, &ParseError{Line: line, Err: ErrMalformedBestMove}
	}

	bestMove, ok := tokens.At(1)
	if !ok {
		return BestMoveResult{}, &ParseError{Line: line, Err: ErrMalformedBestMove}
	}

	result := BestMoveResult{
		BestMove: bestMove,
		Score:    ParseScore(lines),
	}

	if strings.Contains(line, "ponder") {
		ponder, ok := tokens.At(3)
		if !ok {
			return BestMoveResult{}, &ParseError{Line: line, Err: ErrMalformedBestMove}
		}
		result.Ponder = ponder
	}

	return result, nil
}
