package devapi

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"crowdfund-client/internal/model"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var phonePattern = regexp.MustCompile(`^01[0125][0-9]{8}$`)

type AuthOption func(*AuthService)

// WithBcryptCost lowers the hashing cost, for tests.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.bcryptCost = cost }
}

// WithClock replaces the clock used for token timestamps.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

type AuthService struct {
	store      *Store
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(store *Store, jwtSecret string, accessTTL time.Duration, refreshTTL time.Duration, opts ...AuthOption) (*AuthService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}

	service := &AuthService{
		store:      store,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		bcryptCost: 12,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Login answers with a token pair and the user profile.
func (s *AuthService) Login(email string, password string) (model.TokenResponse, error) {
	errs := FieldErrors{}
	if strings.TrimSpace(email) == "" {
		errs.Add("email", "This field may not be blank.")
	}
	if password == "" {
		errs.Add("password", "This field may not be blank.")
	}
	if err := errs.orNil(); err != nil {
		return model.TokenResponse{}, err
	}

	user, err := s.store.UserByEmail(email)
	if err != nil {
		return model.TokenResponse{}, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.TokenResponse{}, model.ErrInvalidCredentials
	}

	tokens, err := s.issueTokenPair(user)
	if err != nil {
		return model.TokenResponse{}, err
	}
	profile := user.Profile()
	tokens.User = &profile
	return tokens, nil
}

// Register creates the account and answers with a token pair only; the
// profile is not echoed back.
func (s *AuthService) Register(req model.RegisterRequest) (model.TokenResponse, error) {
	if err := validateRegistration(req); err != nil {
		return model.TokenResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return model.TokenResponse{}, fmt.Errorf("hash password: %w", err)
	}

	email := strings.TrimSpace(req.Email)
	user, err := s.store.CreateUser(User{
		Username:     normalizeEmail(email),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, model.ErrUserAlreadyExists) {
		return model.TokenResponse{}, FieldErrors{"email": {"user with this email already exists."}}
	}
	if err != nil {
		return model.TokenResponse{}, err
	}

	return s.issueTokenPair(user)
}

func (s *AuthService) ValidateToken(tokenString string, expectedType string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, model.ErrUnauthorized
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrInvalidClaims
	}

	typ, _ := claimsMap["token_type"].(string)
	if expectedType != "" && typ != expectedType {
		return nil, model.ErrInvalidClaims
	}

	claims := &model.AuthClaims{Type: typ}
	subject, _ := claimsMap["sub"].(string)
	claims.Email, _ = claimsMap["email"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	claims.UserID, err = strconv.ParseInt(subject, 10, 64)
	if err != nil || claims.UserID <= 0 {
		return nil, model.ErrInvalidClaims
	}

	if _, err := s.store.UserByID(claims.UserID); err != nil {
		return nil, model.ErrUnauthorized
	}

	return claims, nil
}

func (s *AuthService) issueTokenPair(user User) (model.TokenResponse, error) {
	now := s.now().UTC()

	access, err := s.signToken(user, tokenTypeAccess, now, s.accessTTL)
	if err != nil {
		return model.TokenResponse{}, err
	}

	refresh, err := s.signToken(user, tokenTypeRefresh, now, s.refreshTTL)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) signToken(user User, typ string, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        formatID(user.ID),
		"email":      user.Email,
		"token_type": typ,
		"jti":        uuid.NewString(),
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

func validateRegistration(req model.RegisterRequest) error {
	errs := FieldErrors{}
	required := []struct {
		field string
		value string
	}{
		{"first_name", req.FirstName},
		{"last_name", req.LastName},
		{"email", req.Email},
		{"phone_number", req.PhoneNumber},
		{"password", req.Password},
		{"confirm_password", req.ConfirmPassword},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs.Add(r.field, "This field may not be blank.")
		}
	}

	if email := strings.TrimSpace(req.Email); email != "" && !strings.Contains(email, "@") {
		errs.Add("email", "Enter a valid email address.")
	}
	if phone := strings.TrimSpace(req.PhoneNumber); phone != "" && !phonePattern.MatchString(phone) {
		errs.Add("phone_number", "Enter a valid Egyptian phone number.")
	}
	if req.Password != "" && len(req.Password) < 8 {
		errs.Add("password", "This password is too short. It must contain at least 8 characters.")
	}
	if req.Password != "" && req.ConfirmPassword != "" && req.Password != req.ConfirmPassword {
		errs.Add("non_field_errors", "Passwords do not match.")
	}

	return errs.orNil()
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
