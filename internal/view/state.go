// Package view drives the per-screen lifecycle: resolve the session, fetch
// the screen data, authorize it, and expose a single state to the renderer.
package view

import "errors"

type Status int

const (
	Unauthenticated Status = iota
	Loading
	Ready
	NotFound
	Forbidden
	Errored
)

var statusNames = map[Status]string{
	Unauthenticated: "unauthenticated",
	Loading:         "loading",
	Ready:           "ready",
	NotFound:        "not_found",
	Forbidden:       "forbidden",
	Errored:         "errored",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Messages shown for the terminal states that carry no backend text.
const (
	MsgLoginRequired = "Please log in to continue."
	MsgNotFound      = "Project not found."
	MsgForbidden     = "You are not the owner of this project."
)

// Routes a screen may navigate to.
const (
	RouteLogin      = "login"
	RouteHome       = "home"
	RouteProjects   = "projects"
	RouteMyProjects = "my-projects"
)

var ErrUnmounted = errors.New("screen is no longer mounted")

// State is what a renderer draws. Data is only set when Status is Ready.
type State[T any] struct {
	Status  Status
	Data    T
	Message string
}

// Settled reports whether the screen has left Loading.
func (s State[T]) Settled() bool {
	return s.Status != Loading
}

// Navigator moves the client to another screen.
type Navigator interface {
	Navigate(route string)
}

type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) {
	f(route)
}
