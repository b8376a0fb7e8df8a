package main

import (
	"log/slog"
	"os"

	"taskmanager/config"
	"taskmanager/connection"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := connection.StartServer(cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
