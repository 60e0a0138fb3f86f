// Package ownership decides whether the current user may edit a project. The
// answer only shapes the client UI; the backend still enforces ownership.
package ownership

import (
	"crowdfund-client/internal/model"
	"crowdfund-client/internal/session"
)

// CanEdit is true only for an active session whose user id numerically
// equals the project owner. Unparsable ids on either side deny.
func CanEdit(project model.Project, state session.State) bool {
	if !state.Active() {
		return false
	}
	return Owns(project.Owner, state.User)
}

func Owns(owner model.Ident, user model.UserProfile) bool {
	ownerID, ok := owner.Numeric()
	if !ok {
		return false
	}
	userID, ok := user.ID.Numeric()
	if !ok {
		return false
	}
	return ownerID == userID
}

// Filter keeps the projects the user owns, preserving order.
func Filter(projects []model.Project, state session.State) []model.Project {
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if CanEdit(p, state) {
			out = append(out, p)
		}
	}
	return out
}
