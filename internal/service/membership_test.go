package service_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/metrics"
	"github.com/huyhqq/Student-Club-Management-System/internal/service"
)

type membershipFixture struct {
	clubs    *MockClubRepo
	members  *MockClubMemberRepo
	requests *MockJoinRequestRepo
	notifier *recordingNotifier
	svc      service.MembershipService
}

func newMembershipFixture() *membershipFixture {
	f := &membershipFixture{
		clubs:    new(MockClubRepo),
		members:  new(MockClubMemberRepo),
		requests: new(MockJoinRequestRepo),
		notifier: &recordingNotifier{},
	}
	f.svc = service.NewMembershipService(f.clubs, f.members, f.requests, f.notifier, metrics.New())
	return f
}

func approvedMember(id, clubID, userID int32) *domain.ClubMember {
	return &domain.ClubMember{ID: id, ClubID: clubID, UserID: userID, Status: domain.MemberStatusApproved}
}

func TestMembershipService_RemoveMember(t *testing.T) {
	ctx := context.Background()

	t.Run("Scenario: admin removes then student reapplies", func(t *testing.T) {
		f := newMembershipFixture()
		f.members.On("GetByID", mock.Anything, int32(50)).Return(approvedMember(50, 1, student.UserID), nil).Once()
		f.clubs.On("GetByID", mock.Anything, int32(1)).Return(activeClub(1), nil).Once()
		f.members.On("UpdateStatus", mock.Anything, int32(50), domain.MemberStatusRemoved).Return(nil).Once()

		require.NoError(t, f.svc.RemoveMember(ctx, admin, 50))
		assert.Equal(t, []int32{student.UserID}, f.notifier.recipients("Removed from club"))

		// The removed row no longer counts as a membership, so a new application goes through.
		jr := newJoinRequestFixture()
		jr.clubs.On("GetByID", mock.Anything, int32(1)).Return(activeClub(1), nil).Once()
		jr.members.On("GetActive", mock.Anything, int32(1), student.UserID).Return(nil, domain.ErrMemberNotFound).Once()
		jr.requests.On("GetPending", mock.Anything, int32(1), student.UserID).Return(nil, domain.ErrJoinRequestNotFound).Once()
		jr.requests.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := jr.svc.SubmitJoinRequest(ctx, student, 1, newApplicant(gofakeit.New(7)))
		require.NoError(t, err)
	})

	t.Run("CannotRemovePresident", func(t *testing.T) {
		f := newMembershipFixture()
		f.members.On("GetByID", mock.Anything, int32(51)).Return(approvedMember(51, 1, president.UserID), nil).Once()
		f.clubs.On("GetByID", mock.Anything, int32(1)).Return(activeClub(1), nil).Once()

		assert.ErrorIs(t, f.svc.RemoveMember(ctx, admin, 51), domain.ErrCannotRemovePresident)
		f.members.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NotApproved", func(t *testing.T) {
		f := newMembershipFixture()
		m := approvedMember(52, 1, student.UserID)
		m.Status = domain.MemberStatusPending
		f.members.On("GetByID", mock.Anything, int32(52)).Return(m, nil).Once()
		f.clubs.On("GetByID", mock.Anything, int32(1)).Return(activeClub(1), nil).Once()

		assert.ErrorIs(t, f.svc.RemoveMember(ctx, president, 52), domain.ErrMemberNotApproved)
	})

	t.Run("AuthorizationCheckedFirst", func(t *testing.T) {
		f := newMembershipFixture()
		f.members.On("GetByID", mock.Anything, int32(51)).Return(approvedMember(51, 1, president.UserID), nil).Once()
		f.clubs.On("GetByID", mock.Anything, int32(1)).Return(activeClub(1), nil).Once()

		assert.ErrorIs(t, f.svc.RemoveMember(ctx, student, 51), domain.ErrForbidden)
	})
}

func TestMembershipService_LeaveClub(t *testing.T) {
	ctx := context.Background()

	t.Run("Scenario: president cannot leave", func(t *testing.T) {
		f := newMembershipFixture()
		f.clubs.On("GetByID", mock.Anything, int32(1)).Return(activeClub(1), nil).Once()
		f.members.On("GetActive", mock.Anything, int32(1), president.UserID).Return(approvedMember(51, 1, president.UserID), nil).Once()

		assert.ErrorIs(t, f.svc.LeaveClub(ctx, president, 1), domain.ErrPresidentMustTransfer)
		f.members.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		f.clubs.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.notifier.sent)
	})

	t.Run("MemberLeaves", func(t *testing.T) {
		f := newMembershipFixture()
		f.clubs.On("GetByID", mock.Anything, int32(1)).Return(activeClub(1), nil).Once()
		f.members.On("GetActive", mock.Anything, int32(1), student.UserID).Return(approvedMember(50, 1, student.UserID), nil).Once()
		f.members.On("UpdateStatus", mock.Anything, int32(50), domain.MemberStatusRemoved).Return(nil).Once()

		require.NoError(t, f.svc.LeaveClub(ctx, student, 1))
		assert.Equal(t, []int32{president.UserID}, f.notifier.recipients("Member left"))
	})

	t.Run("NotMember", func(t *testing.T) {
		f := newMembershipFixture()
		f.clubs.On("GetByID", mock.Anything, int32(1)).Return(activeClub(1), nil).Once()
		f.members.On("GetActive", mock.Anything, int32(1), outsider.UserID).Return(nil, domain.ErrMemberNotFound).Once()

		assert.ErrorIs(t, f.svc.LeaveClub(ctx, outsider, 1), domain.ErrNotMember)
	})
}

func TestMembershipService_ListMembers(t *testing.T) {
	ctx := context.Background()
	roster := []domain.ClubMember{
		{ID: 51, ClubID: 1, UserID: president.UserID, Status: domain.MemberStatusApproved, Role: domain.RoleClubLeader},
		{ID: 50, ClubID: 1, UserID: student.UserID, Status: domain.MemberStatusApproved, Role: domain.RoleMember},
	}

	f := newMembershipFixture()
	f.clubs.On("GetByID", mock.Anything, int32(1)).Return(activeClub(1), nil)
	f.members.On("ListByClub", mock.Anything, int32(1), domain.MemberStatusApproved).Return(roster, nil)
	f.members.On("GetActive", mock.Anything, int32(1), student.UserID).Return(approvedMember(50, 1, student.UserID), nil)
	f.members.On("GetActive", mock.Anything, int32(1), outsider.UserID).Return(nil, domain.ErrMemberNotFound)

	got, err := f.svc.ListMembers(ctx, president, 1)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.svc.ListMembers(ctx, student, 1)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = f.svc.ListMembers(ctx, outsider, 1)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMembershipService_DirectJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("JoinThenApprove", func(t *testing.T) {
		f := newMembershipFixture()
		f.clubs.On("GetByID", mock.Anything, int32(1)).Return(activeClub(1), nil)
		f.members.On("GetActive", mock.Anything, int32(1), student.UserID).Return(nil, domain.ErrMemberNotFound).Once()
		f.requests.On("GetPending", mock.Anything, int32(1), student.UserID).Return(nil, domain.ErrJoinRequestNotFound).Once()
		f.members.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.ClubMember) bool {
			return m.Status == domain.MemberStatusPending && m.UserID == student.UserID
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.ClubMember).ID = 60
		}).Return(nil).Once()

		m, err := f.svc.JoinClubDirect(ctx, student, 1)
		require.NoError(t, err)
		assert.Equal(t, int32(60), m.ID)
		assert.Equal(t, []int32{president.UserID}, f.notifier.recipients("New membership request"))

		f.members.On("GetByID", mock.Anything, int32(60)).Return(m, nil).Once()
		f.members.On("UpdateStatus", mock.Anything, int32(60), domain.MemberStatusApproved).Return(nil).Once()

		approved, err := f.svc.ApproveMember(ctx, president, 60)
		require.NoError(t, err)
		assert.Equal(t, domain.MemberStatusApproved, approved.Status)
		assert.Equal(t, []int32{student.UserID}, f.notifier.recipients("Membership approved"))
	})

	t.Run("ExistingRows", func(t *testing.T) {
		f := newMembershipFixture()
		pending := approvedMember(61, 1, outsider.UserID)
		pending.Status = domain.MemberStatusPending
		f.clubs.On("GetByID", mock.Anything, int32(1)).Return(activeClub(1), nil)
		f.members.On("GetActive", mock.Anything, int32(1), student.UserID).Return(approvedMember(50, 1, student.UserID), nil).Once()
		f.members.On("GetActive", mock.Anything, int32(1), outsider.UserID).Return(pending, nil).Once()

		_, err := f.svc.JoinClubDirect(ctx, student, 1)
		assert.ErrorIs(t, err, domain.ErrAlreadyMember)
		_, err = f.svc.JoinClubDirect(ctx, outsider, 1)
		assert.ErrorIs(t, err, domain.ErrDuplicateRequest)
	})

	t.Run("PendingJoinRequestBlocksDirectJoin", func(t *testing.T) {
		f := newMembershipFixture()
		f.clubs.On("GetByID", mock.Anything, int32(1)).Return(activeClub(1), nil).Once()
		f.members.On("GetActive", mock.Anything, int32(1), student.UserID).Return(nil, domain.ErrMemberNotFound).Once()
		f.requests.On("GetPending", mock.Anything, int32(1), student.UserID).
			Return(&domain.JoinRequest{ID: 100, ClubID: 1, UserID: student.UserID, Status: domain.JoinRequestStatusPending}, nil).Once()

		_, err := f.svc.JoinClubDirect(ctx, student, 1)
		assert.ErrorIs(t, err, domain.ErrDuplicateRequest)
		f.members.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, f.notifier.sent)
	})

	t.Run("ApproveNonPending", func(t *testing.T) {
		f := newMembershipFixture()
		f.members.On("GetByID", mock.Anything, int32(50)).Return(approvedMember(50, 1, student.UserID), nil).Once()
		f.clubs.On("GetByID", mock.Anything, int32(1)).Return(activeClub(1), nil).Once()

		_, err := f.svc.ApproveMember(ctx, president, 50)
		assert.ErrorIs(t, err, domain.ErrMemberNotPending)
	})
}
