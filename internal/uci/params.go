package uci

import (
	"strconv"
	"strings"
	"time"
)

// Clock is the remaining time and increment of both sides. When set, all four values are sent,
// zeros included: a side can have no time left.
type Clock struct {
	WTime time.Duration
	BTime time.Duration
	WInc  time.Duration
	BInc  time.Duration
}

// GoParams are the search parameters of a `go` command. Apart from Clock, zero values mean unset and
// are left out. Durations are sent in milliseconds, a positive duration below one millisecond is
// sent as 1.
type GoParams struct {
	Ponder    bool
	Clock     *Clock
	MovesToGo int
	Depth     int
	Nodes     int
	Mate      int
	MoveTime  time.Duration
	Infinite  bool

	// SearchMoves restricts the search. It is always emitted last since it takes a variable number of moves.
	SearchMoves []string
}

// Args returns the parameters in canonical order. Boolean parameters are bare flags that only appear when set.
func (p GoParams) Args() []string {
	var args []string

	addFlag := func(name string, value bool) {
		if value {
			args = append(args, name)
		}
	}

	addInt := func(name string, value int) {
		if value != 0 {
			args = append(args, name, strconv.Itoa(value))
		}
	}

	addClock := func(name string, value time.Duration) {
		args = append(args, name, formatMilliseconds(value))
	}

	addDuration := func(name string, value time.Duration) {
		if value != 0 {
			addClock(name, value)
		}
	}

	addFlag("ponder", p.Ponder)
	if p.Clock != nil {
		addClock("wtime", p.Clock.WTime)
		addClock("btime", p.Clock.BTime)
		addClock("winc", p.Clock.WInc)
		addClock("binc", p.Clock.BInc)
	}
	addInt("movestogo", p.MovesToGo)
	addInt("depth", p.Depth)
	addInt("nodes", p.Nodes)
	addInt("mate", p.Mate)
	addDuration("movetime", p.MoveTime)
	addFlag("infinite", p.Infinite)

	if len(p.SearchMoves) > 0 {
		args = append(args, "searchmoves")
		args = append(args, p.SearchMoves...)
	}

	return args
}

func formatMilliseconds(value time.Duration) string {
	if value > 0 && value < time.Millisecond {
		return "1"
	}
	return strconv.FormatInt(value.Milliseconds(), 10)
}

// Command returns the full `go` command line.
func (p GoParams) Command() string {
	args := p.Args()
	if len(args) == 0 {
		return "go"
	}
	return "go " + strings.Join(args, " ")
}
