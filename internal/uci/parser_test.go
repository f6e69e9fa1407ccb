package uci

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBestMove(t *testing.T) {
	tests := []struct {
		lines []string
		want  BestMoveResult
	}{
		{
			lines: []string{"info depth 10 score cp 0", "bestmove e2e4"},
			want:  BestMoveResult{BestMove: "e2e4", Score: ScoreNone},
		},
		{
			lines: []string{"info depth 1 score mate 1", "bestmove d1h5 ponder h8h5"},
			want:  BestMoveResult{BestMove: "d1h5", Ponder: "h8h5", Score: ScoreMateInOne},
		},
		{
			lines: []string{"info depth 0 score cp 0", "bestmove (none)"},
			want:  BestMoveResult{BestMove: "(none)", Score: ScoreDrawn},
		},
		{
			lines: []string{"info depth 3 score mate 0", "bestmove e1g1"},
			want:  BestMoveResult{BestMove: "e1g1", Score: ScoreMateInZero},
		},
		{
			lines: []string{"bestmove a2a4"},
			want:  BestMoveResult{BestMove: "a2a4", Score: ScoreNone},
		},
		{
			// Stockfish style output with extra fields around the score
			lines: []string{
				"info string NNUE evaluation using nn-5af11540bbfe.nnue enabled",
				"info depth 5 seldepth 3 multipv 1 score mate 1 nodes 218 nps 218000 tbhits 0 time 1 pv d8h4",
				"bestmove d8h4",
			},
			want: BestMoveResult{BestMove: "d8h4", Score: ScoreMateInOne},
		},
	}

	for testIndex, test := range tests {
		testName := fmt.Sprintf("Transcript-%d", testIndex+1)
		t.Run(testName, func(t *testing.T) {
			got, err := ParseBestMove(test.lines)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestParseBestMoveMalformed(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{name: "Empty", lines: nil},
		{name: "NoMove", lines: []string{"bestmove"}},
		{name: "NotBestMove", lines: []string{"info depth 1 score cp 3"}},
		{name: "PonderWithoutMove", lines: []string{"bestmove e2e4 ponder"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseBestMove(test.lines)
			require.ErrorIs(t, err, ErrMalformedBestMove)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		lines []string
		want  Score
	}{
		{lines: nil, want: ScoreNone},
		{lines: []string{"info string hello", "bestmove e2e4"}, want: ScoreNone},
		{lines: []string{"info depth 2 score mate 1 pv a1a8"}, want: ScoreMateInOne},
		{lines: []string{"info depth 2 score mate 0"}, want: ScoreMateInZero},
		{lines: []string{"info depth 2 score mate 10 pv a1a8"}, want: ScoreNone},
		{lines: []string{"info depth 2 score mate 12"}, want: ScoreNone},
		{lines: []string{"info depth 2 score mate -1 pv a1a8"}, want: ScoreNone},
		{lines: []string{"info depth 0 score cp 0"}, want: ScoreDrawn},
		{lines: []string{"info depth 0 score cp 35"}, want: ScoreNone},
		{lines: []string{"info depth 20 score cp 0"}, want: ScoreNone},
		{
			// only the last info depth line counts
			lines: []string{"info depth 1 score mate 1", "info depth 2 score cp 500", "info nodes 12 score mate 0"},
			want:  ScoreNone,
		},
		{
			lines: []string{"info depth 2 score cp 500", "info depth 3 score mate 1", "info hashfull 3"},
			want:  ScoreMateInOne,
		},
	}

	for testIndex, test := range tests {
		testName := fmt.Sprintf("Lines-%d", testIndex+1)
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, test.want, ParseScore(test.lines))
		})
	}
}

func TestScoreJSON(t *testing.T) {
	bytes, err := json.Marshal(BestMoveResult{BestMove: "d1h5", Ponder: "h8h5", Score: ScoreMateInOne})
	require.NoError(t, err)
	assert.JSONEq(t, `{"best_move":"d1h5","ponder":"h8h5","score":"mate_in_one"}`, string(bytes))

	var result BestMoveResult
	require.NoError(t, json.Unmarshal([]byte(`{"best_move":"e2e4","score":"drawn"}`), &result))
	assert.Equal(t, BestMoveResult{BestMove: "e2e4", Score: ScoreDrawn}, result)
	assert.False(t, result.HasPonder())

	require.Error(t, json.Unmarshal([]byte(`{"score":"mate_in_two"}`), &result))
}

func TestTokensAt(t *testing.T) {
	tokens := Tokenize("  bestmove   e2e4 ponder\te7e5 ")
	assert.Equal(t, Tokens{"bestmove", "e2e4", "ponder", "e7e5"}, tokens)

	token, ok := tokens.At(3)
	assert.True(t, ok)
	assert.Equal(t, "e7e5", token)

	_, ok = tokens.At(4)
	assert.False(t, ok)

	_, ok = tokens.At(-1)
	assert.False(t, ok)
}
