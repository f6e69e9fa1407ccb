package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lk16/patzer/internal"
	"github.com/lk16/patzer/internal/config"
)

func main() {
	config.LoadDotEnv()
	config.SetLogLevel()

	// Setup app
	app, cfg, cleanup, err := internal.SetupApp()
	if err != nil {
		slog.Error("Failed to setup app", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		<-signals

		slog.Info("Shutting down")
		if err := app.Shutdown(); err != nil {
			slog.Error("Failed to shut down server", "error", err)
		}
	}()

	// Start server
	address := cfg.ServerHost + ":" + cfg.ServerPort
	if err = app.Listen(address); err != nil {
		slog.Error("Server stopped", "error", err)
	}
}
