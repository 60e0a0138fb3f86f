package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"crowdfund-client/internal/cli"
	"crowdfund-client/internal/config"
	"crowdfund-client/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.ErrorText(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("crowdfund", flag.ContinueOnError)
	fs.SetOutput(stderr)

	apiURL := fs.String("api", "", "backend base URL (overrides API_BASE_URL)")
	driver := fs.String("store", "", "credential store: file, sqlite or memory (overrides STORE_DRIVER)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *apiURL != "" {
		cfg.APIBaseURL = *apiURL
	}
	if *driver != "" {
		cfg.StoreDriver = strings.ToLower(strings.TrimSpace(*driver))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(stderr, cfg.LogLevel)
	slog.SetDefault(log)

	app, err := cli.New(cfg, stdin, stdout, cli.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			log.Warn("failed to close credential store", "error", closeErr)
		}
	}()

	return app.Execute(ctx, fs.Args())
}
