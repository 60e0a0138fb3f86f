//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"crowdfund-client/internal/config"
	"crowdfund-client/internal/devapi"
	"crowdfund-client/internal/handler"
	"crowdfund-client/internal/middleware"
	"crowdfund-client/internal/router"
)

func testConfig() *config.DevAPIConfig {
	return &config.DevAPIConfig{
		Port:               "8000",
		ServerReadTimeout:  15 * time.Second,
		ServerWriteTimeout: 30 * time.Second,
		ServerIdleTimeout:  120 * time.Second,
		RequestTimeout:     5 * time.Second,
		JWTSecret:          "test-secret",
		JWTAccessTTL:       15 * time.Minute,
		JWTRefreshTTL:      24 * time.Hour,
		CORSOrigins:        []string{"*"},
		RateLimitRPM:       1000,
		AuthRateLimitRPM:   1000,
	}
}

func newServer(t *testing.T, cfg *config.DevAPIConfig) *httptest.Server {
	t.Helper()

	store := devapi.NewStore()
	authService, err := devapi.NewAuthService(store, cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, devapi.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)

	server := httptest.NewServer(router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Projects: handler.NewProjectHandler(devapi.NewProjectService(store)),
	}))
	t.Cleanup(server.Close)
	return server
}

// registerAndLogin creates an account and returns its access token.
func registerAndLogin(t *testing.T, server *httptest.Server, email string) string {
	t.Helper()

	registerResp := doRequest(t, mustNewRequest(t, http.MethodPost, server.URL+"/api/register/", mustJSON(t, map[string]string{
		"first_name":       "Ada",
		"last_name":        "Lovelace",
		"email":            email,
		"phone_number":     "01012345678",
		"password":         "analytical",
		"confirm_password": "analytical",
	})))
	_ = registerResp.Body.Close()
	require.Equal(t, http.StatusCreated, registerResp.StatusCode)

	loginResp := doRequest(t, mustNewRequest(t, http.MethodPost, server.URL+"/api/login/", mustJSON(t, map[string]string{
		"email":    email,
		"password": "analytical",
	})))
	t.Cleanup(func() { _ = loginResp.Body.Close() })
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var parsed struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
		User    struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(loginResp.Body).Decode(&parsed))
	require.NotEmpty(t, parsed.Access)
	require.NotEmpty(t, parsed.Refresh)
	require.Equal(t, email, parsed.User.Email)

	return parsed.Access
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()

	body, err := json.Marshal(v)
	require.NoError(t, err)
	return body
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func newAuthRequest(t *testing.T, method string, url string, body []byte, accessToken string) *http.Request {
	t.Helper()

	req := mustNewRequest(t, method, url, body)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return req
}

func doRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func doAuthRequest(t *testing.T, method string, url string, body []byte, accessToken string) *http.Response {
	t.Helper()

	return doRequest(t, newAuthRequest(t, method, url, body, accessToken))
}

func mustNewRequest(t *testing.T, method string, url string, body []byte) *http.Request {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}
