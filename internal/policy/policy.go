// Package policy is the single place where role and ownership rules
// live. Handlers resolve the target resource first (missing resources
// are reported as not found before any permission check), then ask this
// package for a decision. Every mutation happens only after an allow.
package policy

import "github.com/smartsprint-dev/smartsprint/internal/types"

type Action int

const (
	CreateProject Action = iota
	UpdateProject
	DeleteProject
	CreateTask
	UpdateTask
	DeleteTask
	LogTime
	CreateComment
	UpdateComment
	DeleteComment
	CreateUser
	UpdateUser
	DeleteUser
	ViewUserPerformance
	ViewTeamAnalytics
	ViewRecommendations
)

// Actor is the authenticated caller.
type Actor struct {
	ID   uint
	Role types.Role
}

// Resource describes the target of an action. Only the fields the action
// consults need to be set.
type Resource struct {
	// OwnerID is the identity the resource belongs to: the comment
	// author, the user record being modified, or the subject of a
	// performance query.
	OwnerID uint

	// AssigneeID is the task's current assignee, if any.
	AssigneeID *uint

	// TargetRole is the current role of the user record being modified.
	TargetRole types.Role

	// RequestedRole is the role a create/update request asks for. Empty
	// means the request does not touch the role.
	RequestedRole types.Role

	// StatusOnly is true when a task update touches no field other than
	// status.
	StatusOnly bool
}

// Allows decides whether actor may perform action on the resource.
// There is deliberately no role hierarchy: each action enumerates the
// roles and identity relations that satisfy it. Unknown roles always
// deny.
func Allows(actor Actor, action Action, res Resource) bool {
	if !actor.Role.Valid() {
		return false
	}

	switch action {
	case CreateProject, UpdateProject, CreateTask, DeleteTask,
		ViewTeamAnalytics, ViewRecommendations:
		return actor.Role.Privileged()

	case DeleteProject, DeleteUser:
		return actor.Role == types.RoleAdmin

	case UpdateTask:
		if actor.Role.Privileged() {
			return true
		}
		// Developers and testers may only move their own task's status.
		return res.StatusOnly && isAssignee(actor, res)

	case LogTime:
		if actor.Role.Privileged() {
			return true
		}
		return isAssignee(actor, res)

	case CreateComment:
		return true

	case UpdateComment:
		return actor.Role == types.RoleAdmin || actor.ID == res.OwnerID

	case DeleteComment:
		return actor.Role.Privileged() || actor.ID == res.OwnerID

	case CreateUser:
		if actor.Role == types.RoleAdmin {
			return true
		}
		if actor.Role == types.RoleProjectManager {
			return !res.RequestedRole.Privileged()
		}
		return false

	case UpdateUser:
		if actor.Role == types.RoleAdmin {
			return true
		}
		if actor.Role == types.RoleProjectManager {
			// A project manager can never hand out an admin or project
			// manager role, not even on their own record.
			if res.RequestedRole.Privileged() {
				return false
			}
			return actor.ID == res.OwnerID || !res.TargetRole.Privileged()
		}
		return actor.ID == res.OwnerID

	case ViewUserPerformance:
		return actor.Role.Privileged() || actor.ID == res.OwnerID
	}

	return false
}

func isAssignee(actor Actor, res Resource) bool {
	return res.AssigneeID != nil && *res.AssigneeID == actor.ID
}
