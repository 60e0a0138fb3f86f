package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"crowdfund-client/internal/app"
	"crowdfund-client/internal/config"
	"crowdfund-client/internal/credential"
	"crowdfund-client/internal/devapi"
	"crowdfund-client/internal/repository"
	"crowdfund-client/internal/view"
	"crowdfund-client/pkg/apierror"
)

// backend is the development API behind an httptest server that records
// every request it sees.
type backend struct {
	server *httptest.Server
	mu     sync.Mutex
	calls  []string

	// rejectUpdates answers every update with 401, as for a token revoked
	// between loading the edit screen and submitting it.
	rejectUpdates atomic.Bool
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	application, err := app.New(&config.DevAPIConfig{
		RequestTimeout:   5 * time.Second,
		JWTSecret:        "test-secret",
		JWTAccessTTL:     15 * time.Minute,
		JWTRefreshTTL:    time.Hour,
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
	}, devapi.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)

	b := &backend{}
	api := application.Handler()
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		if r.Method == http.MethodPut && b.rejectUpdates.Load() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
			return
		}
		api.ServeHTTP(w, r)
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// profile is one user of the client with their own credential file.
type profile struct {
	t   *testing.T
	cfg *config.Config
}

func newProfile(t *testing.T, b *backend) *profile {
	t.Helper()
	dir := t.TempDir()
	return &profile{t: t, cfg: &config.Config{
		APIBaseURL:          b.server.URL,
		StoreDriver:         config.DriverFile,
		CredentialsFile:     filepath.Join(dir, "credentials.json"),
		CredentialsDB:       filepath.Join(dir, "credentials.db"),
		UpdateRedirectDelay: 10 * time.Millisecond,
		CheckTokenExpiry:    true,
	}}
}

func (p *profile) run(stdin string, args ...string) (string, error) {
	p.t.Helper()

	var out bytes.Buffer
	a, err := New(p.cfg, strings.NewReader(stdin), &out, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(p.t, err)
	defer func() { require.NoError(p.t, a.Close()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = a.Execute(ctx, args)
	return out.String(), err
}

func (p *profile) mustRun(args ...string) string {
	p.t.Helper()
	out, err := p.run("", args...)
	require.NoError(p.t, err, out)
	return out
}

func (p *profile) signUp(email string) {
	p.t.Helper()
	p.mustRun("register",
		"-first-name", "Ada", "-last-name", "Lovelace",
		"-email", email, "-phone", "01012345678",
		"-password", "analytical", "-confirm", "analytical",
	)
	p.mustRun("login", "-email", email, "-password", "analytical")
}

func projectFlagsFor(title string) []string {
	return []string{"-title", title, "-description", "Wells for three villages", "-target", "1500", "-start", "2025-01-01", "-end", "2025-06-30"}
}

func TestRegisterShowsWelcome(t *testing.T) {
	t.Parallel()

	p := newProfile(t, newBackend(t))
	out := p.mustRun("register",
		"-first-name", "Ada", "-last-name", "Lovelace",
		"-email", "ada@example.com", "-phone", "01012345678",
		"-password", "analytical", "-confirm", "analytical",
	)
	assert.Contains(t, out, "Welcome, Ada Lovelace!")

	// The session survives a restart of the client.
	assert.Contains(t, p.mustRun("home"), "Welcome, Ada Lovelace!")
}

func TestLoginPromptsForMissingPassword(t *testing.T) {
	t.Parallel()

	p := newProfile(t, newBackend(t))
	p.signUp("ada@example.com")
	p.mustRun("logout")

	out, err := p.run("analytical\n", "login", "-email", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "Welcome, Ada Lovelace!")
}

func TestLoginRejected(t *testing.T) {
	t.Parallel()

	p := newProfile(t, newBackend(t))
	_, err := p.run("", "login", "-email", "nobody@example.com", "-password", "whatever1")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password.", ErrorText(err))

	_, statErr := os.Stat(p.cfg.CredentialsFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestScreensRequireLogin(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	p := newProfile(t, b)

	for _, cmd := range [][]string{{"home"}, {"projects"}, {"my-projects"}, {"project", "1"}, {"create", "-title", "x"}} {
		_, err := p.run("", cmd...)
		var screenErr *ScreenError
		require.ErrorAs(t, err, &screenErr, "command %v", cmd)
		assert.Equal(t, view.Unauthenticated, screenErr.Status)
		assert.Equal(t, view.MsgLoginRequired+" "+loginHint, ErrorText(err))
	}
	assert.Empty(t, b.Calls())
}

func TestLogoutStopsFurtherRequests(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	p := newProfile(t, b)
	p.signUp("ada@example.com")
	p.mustRun("my-projects")

	p.mustRun("logout")
	before := len(b.Calls())

	_, err := p.run("", "my-projects")
	var screenErr *ScreenError
	require.ErrorAs(t, err, &screenErr)
	assert.Equal(t, view.Unauthenticated, screenErr.Status)
	assert.Len(t, b.Calls(), before)
}

func TestOwnerEditRedirectsToMyProjects(t *testing.T) {
	t.Parallel()

	p := newProfile(t, newBackend(t))
	p.signUp("ada@example.com")

	out := p.mustRun(append([]string{"create"}, projectFlagsFor("Clean water")...)...)
	assert.Contains(t, out, MsgProjectCreated)
	assert.Contains(t, out, "Project 1: Clean water")

	out = p.mustRun("project", "1")
	assert.Contains(t, out, "Clean water (project 1)")
	assert.Contains(t, out, "Raised 0.00 of 1500.00")
	assert.Contains(t, out, "Runs 2025-01-01 to 2025-06-30")

	out = p.mustRun("project", "1", "-title", "Clean water, phase two")
	assert.Contains(t, out, MsgProjectUpdated)
	assert.Contains(t, out, "Clean water, phase two (yours)")
	assert.Less(t, strings.Index(out, MsgProjectUpdated), strings.Index(out, "TITLE"))
}

func TestNonOwnerCannotEdit(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	owner := newProfile(t, b)
	owner.signUp("owner@example.com")
	owner.mustRun(append([]string{"create"}, projectFlagsFor("Clean water")...)...)

	other := newProfile(t, b)
	other.signUp("other@example.com")

	out := other.mustRun("projects")
	assert.Contains(t, out, "Clean water")
	assert.NotContains(t, out, "(yours)")
	assert.Contains(t, other.mustRun("my-projects"), "You have not created any projects yet.")

	_, err := other.run("", "project", "1", "-title", "Hijacked")
	var screenErr *ScreenError
	require.ErrorAs(t, err, &screenErr)
	assert.Equal(t, view.Forbidden, screenErr.Status)
	assert.Equal(t, "You are not the owner of this project.", ErrorText(err))

	for _, call := range b.Calls() {
		assert.NotContains(t, call, "PUT", "the guard must stop the update client side")
	}
}

func TestUpdateRejectedTokenEndsSession(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	p := newProfile(t, b)
	p.signUp("ada@example.com")
	p.mustRun(append([]string{"create"}, projectFlagsFor("Clean water")...)...)

	b.rejectUpdates.Store(true)
	out, err := p.run("", "project", "1", "-title", "Clean water, phase two")
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.KindAuthRejected))
	assert.Contains(t, ErrorText(err), loginHint)
	assert.NotContains(t, out, MsgProjectUpdated)
	assert.Contains(t, b.Calls(), "PUT /api/projects/1/update/")

	_, statErr := os.Stat(p.cfg.CredentialsFile)
	assert.True(t, os.IsNotExist(statErr), "credentials must be removed after a 401")

	before := len(b.Calls())
	_, err = p.run("", "my-projects")
	var screenErr *ScreenError
	require.ErrorAs(t, err, &screenErr)
	assert.Equal(t, view.Unauthenticated, screenErr.Status)
	assert.Len(t, b.Calls(), before)
}

func TestFollowRedirectGivesUpWhenCancelled(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	a, err := New(&config.Config{
		APIBaseURL:          "http://127.0.0.1:1",
		StoreDriver:         config.DriverMemory,
		UpdateRedirectDelay: 10 * time.Millisecond,
	}, strings.NewReader(""), &out, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	started := time.Now()
	require.NoError(t, a.followRedirect(ctx))
	assert.Less(t, time.Since(started), 5*time.Second)
	assert.Empty(t, out.String())

	a.navigate(view.RouteHome)
	err = a.followRedirect(ctx)
	var screenErr *ScreenError
	require.ErrorAs(t, err, &screenErr)
	assert.Equal(t, view.Unauthenticated, screenErr.Status)
}

func TestProjectNotFound(t *testing.T) {
	t.Parallel()

	p := newProfile(t, newBackend(t))
	p.signUp("ada@example.com")

	_, err := p.run("", "project", "42")
	require.Error(t, err)
	assert.Equal(t, "Project not found.", ErrorText(err))
}

func TestRejectedTokenEndsSession(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	p := newProfile(t, b)
	p.signUp("ada@example.com")

	backendFile, err := repository.NewFileCredentials(p.cfg.CredentialsFile)
	require.NoError(t, err)
	require.NoError(t, backendFile.Put(map[string]string{credential.KeyAccessToken: "revoked-token"}))

	_, err = p.run("", "projects")
	var screenErr *ScreenError
	require.ErrorAs(t, err, &screenErr)
	assert.Equal(t, view.Unauthenticated, screenErr.Status)
	assert.Contains(t, ErrorText(err), loginHint)

	_, statErr := os.Stat(p.cfg.CredentialsFile)
	assert.True(t, os.IsNotExist(statErr), "credentials must be removed after a 401")

	before := len(b.Calls())
	_, err = p.run("", "projects")
	require.Error(t, err)
	assert.Len(t, b.Calls(), before)
}

func TestCreateValidatesLocally(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	p := newProfile(t, b)
	p.signUp("ada@example.com")
	before := len(b.Calls())

	_, err := p.run("", "create", "-title", "Clean water", "-target", "lots")
	require.Error(t, err)
	assert.Equal(t, "Target amount must be a positive number", ErrorText(err))
	assert.Len(t, b.Calls(), before)
}

func TestCreatePromptsWithoutFlags(t *testing.T) {
	t.Parallel()

	p := newProfile(t, newBackend(t))
	p.signUp("ada@example.com")

	out, err := p.run("School roof\nA new roof\n800\n2025-03-01\n2025-09-01\n", "create")
	require.NoError(t, err)
	assert.Contains(t, out, "Title: ")
	assert.Contains(t, out, MsgProjectCreated)
}

func TestBackendFieldErrorsAreShown(t *testing.T) {
	t.Parallel()

	p := newProfile(t, newBackend(t))
	p.signUp("ada@example.com")

	_, err := p.run("", "create", "-title", "Clean water")
	require.Error(t, err)
	assert.Contains(t, ErrorText(err), "This field may not be blank.")
}

func TestSQLiteStoreSurvivesRestart(t *testing.T) {
	t.Parallel()

	p := newProfile(t, newBackend(t))
	p.cfg.StoreDriver = config.DriverSQLite
	p.signUp("ada@example.com")

	assert.Contains(t, p.mustRun("home"), "Welcome, Ada Lovelace!")
	_, err := os.Stat(p.cfg.CredentialsDB)
	require.NoError(t, err)
	_, err = os.Stat(p.cfg.CredentialsFile)
	assert.True(t, os.IsNotExist(err))
}

func TestShell(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	seed := newProfile(t, b)
	seed.signUp("ada@example.com")

	p := newProfile(t, b)
	script := strings.Join([]string{
		"login -email ada@example.com -password analytical",
		"projects",
		`create -title "Clean water" -description "Wells for three villages" -target 1500 -start 2025-01-01 -end 2025-06-30`,
		"my-projects",
		"bogus",
		"",
		"exit",
		"projects",
	}, "\n") + "\n"

	out, err := p.run(script, "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "crowdfund> ")
	assert.Contains(t, out, "Welcome, Ada Lovelace!")
	assert.Contains(t, out, "No projects yet.")
	assert.Contains(t, out, "Clean water (yours)")
	assert.Contains(t, out, `Error: usage: unknown command "bogus"`)
	assert.Equal(t, 1, strings.Count(out, "No projects yet."))
}

func TestShellEndsOnEOF(t *testing.T) {
	t.Parallel()

	p := newProfile(t, newBackend(t))
	out, err := p.run("home\n", "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "Error: "+view.MsgLoginRequired)
}

func TestExecuteUsage(t *testing.T) {
	t.Parallel()

	p := newProfile(t, newBackend(t))

	out, err := p.run("")
	require.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, out, "Usage: crowdfund")
	assert.Contains(t, out, "my-projects")

	_, err = p.run("", "project")
	require.ErrorIs(t, err, ErrUsage)

	_, err = p.run("", "projects", "extra")
	require.ErrorIs(t, err, ErrUsage)
}
