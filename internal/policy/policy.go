// Package policy holds the role-based visibility and delegation rules.
// Everything here is a pure function over already-loaded records.
package policy

import (
	"strconv"
	"strings"

	"github.com/tvhoang/workunit-api/internal/constants"
	"github.com/tvhoang/workunit-api/internal/models"
)

// CanView decides whether the actor may see the task.
//
// Admins see everything. Unit leads see every task snapshotted to their own
// unit. Everyone else sees only tasks they created, lead, or collaborate on.
func CanView(actor models.User, task models.Task) bool {
	if actor.IsAdmin() {
		return true
	}
	if actor.IsUnitLead() && task.Unit == actor.Unit {
		return true
	}
	return task.UserID == actor.ID || task.LeadID == actor.ID || task.HasCollaborator(actor.ID)
}

// ParseRank extracts the numeric part of a delegation level token such as
// "X2". A token with no digits, or an empty one, yields UnknownRank so the
// holder ends up with the lowest possible authority.
func ParseRank(level string) int {
	var digits strings.Builder
	for _, r := range level {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return constants.UnknownRank
	}
	return n
}

// CanDelegateTo reports whether the actor may assign work to someone holding
// targetLevel. Delegation only flows downward: the target's parsed rank must
// be strictly greater than the actor's. Equal ranks are rejected, which also
// rules out self-delegation.
func CanDelegateTo(actor models.User, targetLevel string) bool {
	return ParseRank(targetLevel) > ParseRank(actor.DelegateLevel)
}

// VisibleUsers returns the slice of users the actor may see in staff pickers
// and performance rankings: all users for an admin, same-unit users for
// everyone else. Input order is preserved.
func VisibleUsers(actor models.User, users []models.User) []models.User {
	if actor.IsAdmin() {
		return users
	}
	visible := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Unit == actor.Unit {
			visible = append(visible, u)
		}
	}
	return visible
}

// VisibleTasks filters the task collection down to what the actor may view,
// preserving input order.
func VisibleTasks(actor models.User, tasks []models.Task) []models.Task {
	if actor.IsAdmin() {
		return tasks
	}
	visible := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if CanView(actor, t) {
			visible = append(visible, t)
		}
	}
	return visible
}
