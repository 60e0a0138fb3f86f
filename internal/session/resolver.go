// Package session derives who the current user is from the credential store.
package session

import (
	"fmt"

	"crowdfund-client/internal/credential"
	"crowdfund-client/internal/model"
)

type Kind int

const (
	Anonymous Kind = iota
	Active
)

func (k Kind) String() string {
	if k == Active {
		return "active"
	}
	return "anonymous"
}

// State is the outcome of a resolve. User is only meaningful when Active.
type State struct {
	Kind Kind
	User model.UserProfile
}

func (s State) Active() bool {
	return s.Kind == Active
}

// Resolver is stateless on purpose: every screen mount resolves again, so a
// logout performed on one screen is visible on the next.
type Resolver struct {
	store *credential.Store
}

func NewResolver(store *credential.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve prefers the stored session. nav is the user handed over by the
// login or registration transition and is only consulted when the store holds
// no complete session yet.
func (r *Resolver) Resolve(nav *model.UserProfile) State {
	if session, ok := r.store.Load(); ok {
		return State{Kind: Active, User: session.User}
	}
	if nav != nil {
		return State{Kind: Active, User: *nav}
	}
	return State{Kind: Anonymous}
}

// Establish persists a freshly issued session.
func (r *Resolver) Establish(session model.Session) error {
	if err := r.store.Save(session); err != nil {
		return fmt.Errorf("establish session: %w", err)
	}
	return nil
}

// Logout drops the stored session. Logging out twice is not an error.
func (r *Resolver) Logout() error {
	if err := r.store.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
