// Package gateway performs every call to the crowdfunding backend and turns
// each outcome into either decoded data or an *apierror.APIError.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"crowdfund-client/internal/credential"
	"crowdfund-client/pkg/apierror"
)

// User-facing messages for the error kinds that carry no backend text.
const (
	MsgUnauthenticated   = "Please log in to continue."
	MsgAuthRejected      = "Authentication failed. Please login again."
	MsgServerUnavailable = "Server connection error. Please try again."
	MsgNotFound          = "The requested resource was not found."
	MsgInvalidResponse   = "Unexpected response from server. Please try again."
	MsgInvalidCredential = "Invalid email or password."
)

const maxBodyBytes = 4 << 20

type Gateway struct {
	baseURL     string
	client      *http.Client
	store       *credential.Store
	checkExpiry bool
	now         func() time.Time
	logger      *slog.Logger
}

type Option func(*Gateway)

func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		if client != nil {
			g.client = client
		}
	}
}

// WithExpiryCheck toggles the local JWT exp inspection done before each call.
func WithExpiryCheck(enabled bool) Option {
	return func(g *Gateway) { g.checkExpiry = enabled }
}

func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func New(baseURL string, store *credential.Store, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:      NewHTTPClient(0),
		store:       store,
		checkExpiry: true,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Call issues an authenticated request. Without a stored session it fails with
// KindUnauthenticated before touching the network. A 401 answer clears the
// credential store before the KindAuthRejected error is returned.
func (g *Gateway) Call(ctx context.Context, method string, path string, body any, out any) error {
	session, ok := g.store.Load()
	if !ok {
		return apierror.New(apierror.KindUnauthenticated, MsgUnauthenticated, "", 0)
	}

	if g.checkExpiry && tokenExpired(session.AccessToken, g.now()) {
		g.reject("access token expired")
		return apierror.New(apierror.KindAuthRejected, MsgAuthRejected, "access token expired", 0)
	}

	return g.do(ctx, method, path, body, out, session.AccessToken)
}

// CallPublic issues a request without credentials, for login and registration.
// A 401 here rejects the submitted credentials, not a session, so the store
// is left alone.
func (g *Gateway) CallPublic(ctx context.Context, method string, path string, body any, out any) error {
	return g.do(ctx, method, path, body, out, "")
}

func (g *Gateway) do(ctx context.Context, method string, path string, body any, out any, token string) error {
	req, err := g.newRequest(ctx, method, path, body, token)
	if err != nil {
		return err
	}

	started := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("backend unreachable", "method", method, "path", path, "error", err)
		return apierror.Wrap(apierror.KindServerUnavailable, MsgServerUnavailable, 0, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return apierror.Wrap(apierror.KindServerUnavailable, MsgServerUnavailable, resp.StatusCode, err)
	}

	g.logger.Debug("backend call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return apierror.Wrap(apierror.KindServerUnavailable, MsgInvalidResponse, resp.StatusCode, err)
		}
		return nil
	}

	return g.classify(resp.StatusCode, data, token != "")
}

func (g *Gateway) newRequest(ctx context.Context, method string, path string, body any, token string) (*http.Request, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func (g *Gateway) classify(status int, body []byte, authenticated bool) *apierror.APIError {
	payload := ParseErrorPayload(body)

	switch {
	case status == http.StatusUnauthorized && authenticated:
		g.reject(fmt.Sprintf("backend answered %d", status))
		return apierror.New(apierror.KindAuthRejected, MsgAuthRejected, payload.Message(), status)
	case status == http.StatusUnauthorized:
		return apierror.New(apierror.KindValidationFailed, messageOr(payload, MsgInvalidCredential), "", status)
	case status == http.StatusNotFound:
		return apierror.New(apierror.KindNotFound, messageOr(payload, MsgNotFound), "", status)
	case status >= 400 && status < 500:
		fallback := fmt.Sprintf("Request rejected by server (status %d).", status)
		return apierror.New(apierror.KindValidationFailed, messageOr(payload, fallback), "", status)
	case status >= 500:
		g.logger.Warn("backend error", "status", status, "message", payload.Message())
		return apierror.New(apierror.KindServerUnavailable, MsgServerUnavailable, payload.Message(), status)
	default:
		return apierror.New(apierror.KindServerUnavailable, MsgInvalidResponse, fmt.Sprintf("status %d", status), status)
	}
}

// reject drops the stored session. It runs before the caller sees the error so
// the next resolve already observes the logged-out state.
func (g *Gateway) reject(reason string) {
	if err := g.store.Clear(); err != nil {
		g.logger.Error("failed to clear rejected session", "reason", reason, "error", err)
		return
	}
	g.logger.Info("session cleared", "reason", reason)
}

func messageOr(payload ErrorPayload, fallback string) string {
	if payload.Structured() {
		return payload.Message()
	}
	return fallback
}
