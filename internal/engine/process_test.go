package engine

import (
	"os/exec"
	"testing"
	"time"

	"github.com/lk16/patzer/internal/config"
	"github.com/lk16/patzer/internal/uci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shellFish is a tiny UCI engine written in POSIX shell.
const shellFish = `
while read -r line; do
	case "$line" in
		uci) echo "id name ShellFish"; echo "id author sh"; echo "uciok" ;;
		isready) echo "readyok" ;;
		go*) echo "info depth 1 score mate 1"; echo "bestmove d1h5 ponder h8h5" ;;
		quit) exit 0 ;;
	esac
done
`

func newShellFishConfig(t *testing.T, script string) *config.EngineConfig {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available")
	}

	return &config.EngineConfig{
		Path:           "sh",
		Args:           []string{"-c", script},
		BufferCapacity: uci.DefaultCapacity,
		MoveTimeout:    time.Second,
		StopGrace:      time.Second,
	}
}

func TestProcessSession(t *testing.T) {
	process, err := Start(newShellFishConfig(t, shellFish))
	require.NoError(t, err)

	driver := process.Driver()

	id, err := driver.Initialize()
	require.NoError(t, err)
	assert.Equal(t, "ShellFish", id.Name)

	require.NoError(t, driver.NewGame())
	require.NoError(t, driver.SetStartPosition("f2f3", "e7e5", "g2g4"))

	result, err := driver.GoAndGetBestMove(uci.GoParams{Depth: 1}, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, uci.BestMoveResult{BestMove: "d1h5", Ponder: "h8h5", Score: uci.ScoreMateInOne}, result)

	require.NoError(t, process.Close())
}

func TestProcessCloseKillsStubbornEngine(t *testing.T) {
	cfg := newShellFishConfig(t, `trap "" TERM; while true; do sleep 1; done`)
	cfg.StopGrace = 50 * time.Millisecond

	process, err := Start(cfg)
	require.NoError(t, err)

	require.NoError(t, process.Close())
}

func TestStartMissingBinary(t *testing.T) {
	_, err := Start(&config.EngineConfig{Path: "/nonexistent/engine"})
	require.Error(t, err)
}
