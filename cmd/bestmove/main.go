package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lk16/patzer/internal/analysis"
	"github.com/lk16/patzer/internal/api"
	"github.com/lk16/patzer/internal/config"
	"github.com/lk16/patzer/internal/engine"
	"github.com/lk16/patzer/internal/models"
)

func main() {
	fen := flag.String("fen", "", "position to analyze, defaults to the start position")
	moves := flag.String("moves", "", "space separated moves played from the position")
	depth := flag.Int("depth", 0, "search depth")
	moveTime := flag.Int("movetime", 0, "search time in milliseconds")
	nodes := flag.Int("nodes", 0, "search node limit")
	showFEN := flag.Bool("show-fen", false, "print the position after the best move, if the engine supports the d command")
	remote := flag.Bool("remote", false, "ask the server at PATZER_SERVER_URL instead of starting an engine")
	flag.Parse()

	config.LoadDotEnv()
	config.SetLogLevel()

	request := models.AnalysisRequest{
		FEN:        *fen,
		Moves:      strings.Fields(*moves),
		Depth:      *depth,
		MoveTimeMs: *moveTime,
		Nodes:      *nodes,
	}

	var err error
	if *remote {
		err = runRemote(config.LoadClientConfig(), request)
	} else {
		err = run(config.LoadEngineConfig(), request, *showFEN)
	}

	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(cfg *config.EngineConfig, request models.AnalysisRequest, showFEN bool) error {
	if err := request.Validate(); err != nil {
		return err
	}

	process, err := engine.Start(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := process.Close(); err != nil {
			slog.Error("Failed to stop engine", "error", err)
		}
	}()

	analyzer := analysis.NewAnalyzer(process.Driver(), cfg.Options, cfg.MoveTimeout)
	if err = analyzer.Initialize(); err != nil {
		return err
	}

	result, err := analyzer.Analyze(request)
	if err != nil {
		return err
	}

	if err = printAnalysis(result); err != nil {
		return err
	}

	if showFEN {
		fen, err := analyzer.CurrentFEN(cfg.MoveTimeout)
		if err != nil {
			return err
		}
		fmt.Println(fen)
	}

	return nil
}

func runRemote(cfg *config.ClientConfig, request models.AnalysisRequest) error {
	if err := request.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	result, err := api.NewClient(cfg).Analyze(ctx, request)
	if err != nil {
		return err
	}

	return printAnalysis(result)
}

func printAnalysis(analysis *models.Analysis) error {
	output, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling analysis: %w", err)
	}

	fmt.Println(string(output))
	return nil
}
