package main

import (
	"log/slog"
	"os"

	"crowdfund-client/internal/app"
	"crowdfund-client/internal/config"
	"crowdfund-client/internal/logger"
)

func main() {
	cfg, err := config.LoadDevAPI()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger.New(os.Stdout, cfg.LogLevel))

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
