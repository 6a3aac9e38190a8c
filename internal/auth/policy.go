package auth

import "github.com/connect4change/platform/internal/domain"

// Action identifies a requested operation for policy decisions.
type Action string

const (
	ActionProfileRead        Action = "profile:read"
	ActionProfileUpdate      Action = "profile:update"
	ActionIssueCreate        Action = "issue:create"
	ActionIssueReview        Action = "issue:review"
	ActionProjectCreate      Action = "project:create"
	ActionProjectTransition  Action = "project:transition"
	ActionProjectJoin        Action = "project:join"
	ActionEventSchedule      Action = "project:schedule-event"
	ActionCommentCreate      Action = "comment:create"
	ActionContributionRecord Action = "contribution:record"
)

// DenyReason distinguishes why access was refused so the boundary can map
// it to the right status code (401 vs 403).
type DenyReason string

const (
	ReasonUnauthenticated DenyReason = "unauthenticated"
	ReasonRoleForbidden   DenyReason = "role-forbidden"
	ReasonNotOwner        DenyReason = "not-owner"
)

// Caller is the identity attempting an action. A zero Caller is anonymous.
type Caller struct {
	ID            string
	Role          domain.Role
	Authenticated bool
}

// Resource describes the target of an action; OwnerID is the user that
// owns the resource, when ownership applies.
type Resource struct {
	OwnerID string
}

// Decision is the result of an authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// Authorize is a pure decision function: no side effects, no I/O.
func Authorize(caller Caller, action Action, resource Resource) Decision {
	if !caller.Authenticated {
		return deny(ReasonUnauthenticated)
	}

	switch action {
	case ActionProfileRead, ActionProfileUpdate:
		if caller.ID != resource.OwnerID {
			return deny(ReasonNotOwner)
		}
		return allow()

	case ActionProjectCreate, ActionIssueReview:
		if !caller.Role.IsOrganization() {
			return deny(ReasonRoleForbidden)
		}
		return allow()

	case ActionProjectTransition, ActionEventSchedule:
		if !caller.Role.IsOrganization() {
			return deny(ReasonRoleForbidden)
		}
		if caller.ID != resource.OwnerID {
			return deny(ReasonNotOwner)
		}
		return allow()

	case ActionProjectJoin, ActionContributionRecord:
		if caller.Role != domain.RoleVolunteer {
			return deny(ReasonRoleForbidden)
		}
		return allow()

	case ActionIssueCreate, ActionCommentCreate:
		return allow()
	}

	return deny(ReasonRoleForbidden)
}
