package model

import "strings"

// UserProfile is the user payload echoed by the backend. Only ID takes part in
// authorization decisions; the rest is display data.
type UserProfile struct {
	ID          Ident  `json:"id,omitempty"`
	Username    string `json:"username,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// DisplayName picks the friendliest non-empty name the profile carries.
func (u UserProfile) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	if u.Email != "" {
		return u.Email
	}
	return "there"
}

// Session is the authenticated identity currently held by the client.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         UserProfile
}

// TokenResponse is returned by the login and register endpoints. User is
// absent on registration with some backends.
type TokenResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    *UserProfile `json:"user,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Profile is the display profile known right after a registration, before
// the backend echoes a user id.
func (r RegisterRequest) Profile() UserProfile {
	return UserProfile{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
	}
}
