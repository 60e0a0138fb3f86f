// Package cli is the terminal front end of the crowdfunding client. Each
// screen of the client is a command; the shell command keeps one session of
// screens running interactively.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"crowdfund-client/internal/config"
	"crowdfund-client/internal/credential"
	"crowdfund-client/internal/gateway"
	"crowdfund-client/internal/repository"
	"crowdfund-client/internal/service"
	"crowdfund-client/internal/session"
	"crowdfund-client/internal/view"
)

// ErrUsage marks a malformed command line.
var ErrUsage = errors.New("usage")

type App struct {
	cfg      *config.Config
	store    *credential.Store
	closers  []func() error
	resolver *session.Resolver
	auth     *service.AuthService
	projects *service.ProjectService
	screens  *view.Gatekeeper
	routes   chan string
	prompt   *prompter
	out      io.Writer
	logger   *slog.Logger
}

type Option func(*App)

func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func New(cfg *config.Config, in io.Reader, out io.Writer, opts ...Option) (*App, error) {
	a := &App{
		cfg:    cfg,
		routes: make(chan string, 1),
		prompt: newPrompter(in, out),
		out:    out,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	backend, err := a.openBackend()
	if err != nil {
		return nil, err
	}

	a.store = credential.NewStore(backend, nil)
	a.resolver = session.NewResolver(a.store)

	gw := gateway.New(cfg.APIBaseURL, a.store,
		gateway.WithHTTPClient(gateway.NewHTTPClient(cfg.RequestTimeout)),
		gateway.WithExpiryCheck(cfg.CheckTokenExpiry),
		gateway.WithLogger(a.logger),
	)
	a.auth = service.NewAuthService(gw, a.resolver)
	a.projects = service.NewProjectService(gw)
	a.screens = view.NewGatekeeper(a.resolver, a.store, view.NavigatorFunc(a.navigate),
		view.WithRedirectDelay(cfg.UpdateRedirectDelay),
		view.WithLogger(a.logger),
	)

	return a, nil
}

func (a *App) openBackend() (credential.Backend, error) {
	switch a.cfg.StoreDriver {
	case config.DriverMemory:
		return repository.NewMemoryCredentials(), nil
	case config.DriverSQLite:
		backend, err := repository.NewSQLiteCredentials(a.cfg.CredentialsDB)
		if err != nil {
			return nil, fmt.Errorf("open credential database: %w", err)
		}
		a.closers = append(a.closers, backend.Close)
		return backend, nil
	default:
		backend, err := repository.NewFileCredentials(a.cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("open credential file: %w", err)
		}
		return backend, nil
	}
}

// Close unmounts every screen and releases the credential backend.
func (a *App) Close() error {
	a.screens.Close()

	var errs []error
	for _, closeFn := range a.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}

// navigate records the route a screen asked for. Only the latest request
// is kept.
func (a *App) navigate(route string) {
	for {
		select {
		case a.routes <- route:
			return
		default:
		}
		select {
		case <-a.routes:
		default:
		}
	}
}

// redirectGrace bounds how long past the redirect delay followRedirect waits.
const redirectGrace = time.Second

// followRedirect waits for a scheduled navigation and shows the target
// screen. A redirect that was cancelled, because its screen was unmounted or
// the session ended, leaves the current output as it is.
func (a *App) followRedirect(ctx context.Context) error {
	timer := time.NewTimer(a.cfg.UpdateRedirectDelay + redirectGrace)
	defer timer.Stop()

	select {
	case route := <-a.routes:
		a.logger.Debug("navigate", "route", route)
		return a.Execute(ctx, []string{route})
	case <-timer.C:
		a.logger.Debug("redirect cancelled")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Execute runs one command line.
func (a *App) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printUsage()
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	name, rest := args[0], args[1:]
	for _, cmd := range a.commands() {
		if cmd.name == name {
			return cmd.run(ctx, rest)
		}
	}
	a.printUsage()
	return fmt.Errorf("%w: unknown command %q", ErrUsage, name)
}
