package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crowdfund-client/internal/config"
	"crowdfund-client/internal/devapi"
	"crowdfund-client/internal/handler"
	"crowdfund-client/internal/middleware"
	"crowdfund-client/internal/router"
)

// App is the development backend: an HTTP server in front of the in-memory
// crowdfunding store.
type App struct {
	server  *http.Server
	handler http.Handler
}

func New(cfg *config.DevAPIConfig, opts ...devapi.AuthOption) (*App, error) {
	store := devapi.NewStore()

	authService, err := devapi.NewAuthService(store, cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	projectService := devapi.NewProjectService(store)

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Projects: handler.NewProjectHandler(projectService),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{server: server, handler: appRouter}, nil
}

// Handler exposes the routed API, for httptest servers.
func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
