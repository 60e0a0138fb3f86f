package service

import (
	"context"
	"net/http"
	"strings"

	"crowdfund-client/internal/gateway"
	"crowdfund-client/internal/model"
	"crowdfund-client/internal/session"
	"crowdfund-client/pkg/apierror"
)

const (
	pathLogin    = "/api/login/"
	pathRegister = "/api/register/"
)

// AuthService acquires sessions from the backend and hands them to the
// session resolver for storage.
type AuthService struct {
	gateway  *gateway.Gateway
	resolver *session.Resolver
}

func NewAuthService(gw *gateway.Gateway, resolver *session.Resolver) *AuthService {
	return &AuthService{gateway: gw, resolver: resolver}
}

// Login stores the returned tokens and user. The user is returned so the
// caller can hand it to the next screen.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.UserProfile, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := ValidateLogin(req); err != nil {
		return model.UserProfile{}, err
	}

	var tokens model.TokenResponse
	if err := s.gateway.CallPublic(ctx, http.MethodPost, pathLogin, req, &tokens); err != nil {
		return model.UserProfile{}, err
	}

	user := model.UserProfile{Email: req.Email}
	if tokens.User != nil {
		user = *tokens.User
	}
	if err := s.establish(tokens, user); err != nil {
		return model.UserProfile{}, err
	}
	return user, nil
}

// Register creates the account. When the backend does not echo the user, the
// submitted profile is stored instead.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.UserProfile, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if err := ValidateRegistration(req); err != nil {
		return model.UserProfile{}, err
	}

	var tokens model.TokenResponse
	if err := s.gateway.CallPublic(ctx, http.MethodPost, pathRegister, req, &tokens); err != nil {
		return model.UserProfile{}, err
	}

	user := req.Profile()
	if tokens.User != nil {
		user = *tokens.User
	}
	if err := s.establish(tokens, user); err != nil {
		return model.UserProfile{}, err
	}
	return user, nil
}

func (s *AuthService) Logout() error {
	return s.resolver.Logout()
}

func (s *AuthService) establish(tokens model.TokenResponse, user model.UserProfile) error {
	if strings.TrimSpace(tokens.Access) == "" {
		return apierror.New(apierror.KindServerUnavailable, gateway.MsgInvalidResponse, "response carries no access token", http.StatusOK)
	}
	return s.resolver.Establish(model.Session{
		AccessToken:  tokens.Access,
		RefreshToken: tokens.Refresh,
		User:         user,
	})
}
