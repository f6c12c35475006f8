package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
)

func TestCanAct(t *testing.T) {
	presidentID := int32(10)
	club := &domain.Club{ID: 1, PresidentID: &presidentID, Status: domain.ClubStatusActive}

	admin := domain.Actor{UserID: 1, Roles: []domain.Role{domain.RoleAdmin}}
	president := domain.Actor{UserID: 10, Roles: []domain.Role{domain.RoleClubLeader}}
	student := domain.Actor{UserID: 20, Roles: []domain.Role{domain.RoleStudent}}

	tests := []struct {
		name   string
		actor  domain.Actor
		action Action
		target *Target
		want   bool
	}{
		{"admin approves club", admin, ActionApproveClub, nil, true},
		{"admin removes member of any club", admin, ActionRemoveMember, UserTarget(20), true},
		{"admin acts on unknown action", admin, Action("Whatever"), nil, true},
		{"president cannot approve club", president, ActionApproveClub, nil, false},
		{"president cannot suspend club", president, ActionSuspendClub, nil, false},
		{"president updates club", president, ActionUpdateClub, nil, true},
		{"president approves join request", president, ActionApproveJoinRequest, UserTarget(20), true},
		{"president rejects join request", president, ActionRejectJoinRequest, UserTarget(20), true},
		{"president removes member", president, ActionRemoveMember, UserTarget(20), true},
		{"student cannot approve join request", student, ActionApproveJoinRequest, UserTarget(20), false},
		{"student cannot remove member", student, ActionRemoveMember, UserTarget(21), false},
		{"student submits own request", student, ActionSubmitJoinRequest, UserTarget(20), true},
		{"student cannot submit for someone else", student, ActionSubmitJoinRequest, UserTarget(21), false},
		{"student cancels own request", student, ActionCancelJoinRequest, UserTarget(20), true},
		{"student leaves club", student, ActionLeaveClub, UserTarget(20), true},
		{"self-scoped without target", student, ActionLeaveClub, nil, false},
		{"president is not owner of other rows", president, ActionCancelJoinRequest, UserTarget(20), false},
		{"approved member views members", student, ActionViewMembers, &Target{UserID: 20, Approved: true}, true},
		{"pending member cannot view members", student, ActionViewMembers, &Target{UserID: 20}, false},
		{"president views members", president, ActionViewMembers, nil, true},
		{"outsider cannot view club", student, ActionViewClub, nil, false},
		{"approved member posts to club", student, ActionCreateClubPost, &Target{UserID: 20, Approved: true}, true},
		{"pending member cannot post to club", student, ActionCreateClubPost, &Target{UserID: 20}, false},
		{"president posts to club", president, ActionCreateClubPost, nil, true},
		{"outsider cannot read members post", student, ActionViewMembersPost, nil, false},
		{"author edits own post", student, ActionUpdatePost, UserTarget(20), true},
		{"president cannot edit member post", president, ActionUpdatePost, UserTarget(20), false},
		{"admin deletes any post", admin, ActionDeletePost, UserTarget(20), true},
		{"student cannot delete other post", student, ActionDeletePost, UserTarget(21), false},
		{"unknown action denied", student, Action("Whatever"), UserTarget(20), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAct(tt.actor, club, tt.action, tt.target))
		})
	}
}

func TestCanAct_ClubWithoutPresident(t *testing.T) {
	club := &domain.Club{ID: 2}
	actor := domain.Actor{UserID: 10}

	assert.False(t, CanAct(actor, club, ActionUpdateClub, nil))
	assert.False(t, CanAct(actor, nil, ActionRemoveMember, nil))
}

func TestAuthorize(t *testing.T) {
	presidentID := int32(10)
	club := &domain.Club{ID: 1, PresidentID: &presidentID}

	err := Authorize(domain.Actor{UserID: 99}, club, ActionRemoveMember, UserTarget(5))
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))

	assert.NoError(t, Authorize(domain.Actor{UserID: 10}, club, ActionRemoveMember, UserTarget(5)))
	assert.Nil(t, MembershipTarget(nil))
}
