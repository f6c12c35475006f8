// Package policy decides who may drive which club lifecycle transition
// and who may write or read club posts.
// It is pure: no storage access, no side effects.
package policy

import (
	"fmt"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
)

type Action string

const (
	ActionApproveClub Action = "ApproveClub"
	ActionSuspendClub Action = "SuspendClub"

	ActionUpdateClub         Action = "UpdateClub"
	ActionApproveJoinRequest Action = "ApproveJoinRequest"
	ActionRejectJoinRequest  Action = "RejectJoinRequest"
	ActionListJoinRequests   Action = "ListJoinRequests"
	ActionApproveMember      Action = "ApproveMember"
	ActionRemoveMember       Action = "RemoveMember"

	ActionSubmitJoinRequest Action = "SubmitJoinRequest"
	ActionCancelJoinRequest Action = "CancelJoinRequest"
	ActionLeaveClub         Action = "LeaveClub"

	ActionViewClub    Action = "ViewClub"
	ActionViewMembers Action = "ViewMembers"

	ActionCreateClubPost  Action = "CreateClubPost"
	ActionViewMembersPost Action = "ViewMembersPost"
	ActionUpdatePost      Action = "UpdatePost"
	ActionDeletePost      Action = "DeletePost"
)

type scope int

const (
	scopeAdmin scope = iota
	scopeClub
	scopeSelf
	scopeMember
)

var actionScopes = map[Action]scope{
	ActionApproveClub:        scopeAdmin,
	ActionSuspendClub:        scopeAdmin,
	ActionUpdateClub:         scopeClub,
	ActionApproveJoinRequest: scopeClub,
	ActionRejectJoinRequest:  scopeClub,
	ActionListJoinRequests:   scopeClub,
	ActionApproveMember:      scopeClub,
	ActionRemoveMember:       scopeClub,
	ActionSubmitJoinRequest:  scopeSelf,
	ActionCancelJoinRequest:  scopeSelf,
	ActionLeaveClub:          scopeSelf,
	ActionViewClub:           scopeMember,
	ActionViewMembers:        scopeMember,
	ActionCreateClubPost:     scopeMember,
	ActionViewMembersPost:    scopeMember,
	ActionUpdatePost:         scopeSelf,
	ActionDeletePost:         scopeSelf,
}

// Target is the row an action applies to, reduced to what the policy needs.
type Target struct {
	UserID int32
	// Approved is set when the target is an Approved membership row.
	Approved bool
}

func MembershipTarget(m *domain.ClubMember) *Target {
	if m == nil {
		return nil
	}
	return &Target{UserID: m.UserID, Approved: m.IsApproved()}
}

func UserTarget(userID int32) *Target {
	return &Target{UserID: userID}
}

// CanAct evaluates, in order: admin role, then the action's scope. Unknown actions are denied.
//
// For scopeMember the target must be the actor's own membership row in club.
func CanAct(actor domain.Actor, club *domain.Club, action Action, target *Target) bool {
	if actor.IsAdmin() {
		return true
	}
	sc, ok := actionScopes[action]
	if !ok {
		return false
	}
	switch sc {
	case scopeClub:
		return club != nil && club.IsPresident(actor.UserID)
	case scopeSelf:
		return target != nil && target.UserID == actor.UserID
	case scopeMember:
		if club != nil && club.IsPresident(actor.UserID) {
			return true
		}
		return target != nil && target.UserID == actor.UserID && target.Approved
	default:
		return false
	}
}

// Authorize is CanAct reported as an error wrapping domain.ErrForbidden.
func Authorize(actor domain.Actor, club *domain.Club, action Action, target *Target) error {
	if CanAct(actor, club, action, target) {
		return nil
	}
	return fmt.Errorf("%s: %w", action, domain.ErrForbidden)
}
