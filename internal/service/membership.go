package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/metrics"
	"github.com/huyhqq/Student-Club-Management-System/internal/policy"
	"github.com/huyhqq/Student-Club-Management-System/internal/repository"
)

type membershipService struct {
	clubRepo repository.ClubRepository
	members  repository.ClubMemberRepository
	requests repository.JoinRequestRepository
	notifier Notifier
	tel      telemetry
	now      func() time.Time
}

func NewMembershipService(
	clubRepo repository.ClubRepository,
	members repository.ClubMemberRepository,
	requests repository.JoinRequestRepository,
	notifier Notifier,
	m *metrics.Metrics,
) MembershipService {
	return &membershipService{
		clubRepo: clubRepo,
		members:  members,
		requests: requests,
		notifier: notifier,
		tel:      newTelemetry("MembershipService", m),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RemoveMember marks an Approved membership Removed. The president cannot be removed.
func (s *membershipService) RemoveMember(ctx context.Context, actor domain.Actor, memberID int32) error {
	_, err := withTelemetry(ctx, s.tel, "RemoveMember", actor, func(ctx context.Context) (struct{}, error) {
		member, club, err := s.load(ctx, memberID)
		if err != nil {
			return struct{}{}, err
		}
		if err := policy.Authorize(actor, club, policy.ActionRemoveMember, policy.MembershipTarget(member)); err != nil {
			return struct{}{}, err
		}
		if !member.IsApproved() {
			return struct{}{}, domain.ErrMemberNotApproved
		}
		if club.IsPresident(member.UserID) {
			return struct{}{}, domain.ErrCannotRemovePresident
		}

		if err := s.members.UpdateStatus(ctx, member.ID, domain.MemberStatusRemoved); err != nil {
			return struct{}{}, err
		}

		s.notifier.Notify(ctx, member.UserID, "Removed from club",
			fmt.Sprintf("You have been removed from %q.", club.Name))
		return struct{}{}, nil
	})
	return err
}

// LeaveClub ends the actor's own Approved membership. The president must hand over leadership first.
func (s *membershipService) LeaveClub(ctx context.Context, actor domain.Actor, clubID int32) error {
	_, err := withTelemetry(ctx, s.tel, "LeaveClub", actor, func(ctx context.Context) (struct{}, error) {
		club, err := s.clubRepo.GetByID(ctx, clubID)
		if err != nil {
			return struct{}{}, err
		}
		member, err := s.members.GetActive(ctx, clubID, actor.UserID)
		if errors.Is(err, domain.ErrMemberNotFound) {
			return struct{}{}, domain.ErrNotMember
		}
		if err != nil {
			return struct{}{}, err
		}
		if !member.IsApproved() {
			return struct{}{}, domain.ErrNotMember
		}
		if err := policy.Authorize(actor, club, policy.ActionLeaveClub, policy.MembershipTarget(member)); err != nil {
			return struct{}{}, err
		}
		if club.IsPresident(actor.UserID) {
			return struct{}{}, domain.ErrPresidentMustTransfer
		}

		if err := s.members.UpdateStatus(ctx, member.ID, domain.MemberStatusRemoved); err != nil {
			return struct{}{}, err
		}

		if club.PresidentID != nil {
			s.notifier.Notify(ctx, *club.PresidentID, "Member left",
				fmt.Sprintf("A member has left %q.", club.Name))
		}
		return struct{}{}, nil
	})
	return err
}

// ListMembers lists Approved members to an admin, the president, or another Approved member.
func (s *membershipService) ListMembers(ctx context.Context, actor domain.Actor, clubID int32) ([]domain.ClubMember, error) {
	return withTelemetry(ctx, s.tel, "ListMembers", actor, func(ctx context.Context) ([]domain.ClubMember, error) {
		club, err := s.clubRepo.GetByID(ctx, clubID)
		if err != nil {
			return nil, err
		}
		var target *policy.Target
		if !actor.IsAdmin() && !club.IsPresident(actor.UserID) {
			if target, err = activeMembershipTarget(ctx, s.members, clubID, actor.UserID); err != nil {
				return nil, err
			}
		}
		if err := policy.Authorize(actor, club, policy.ActionViewMembers, target); err != nil {
			return nil, err
		}
		return s.members.ListByClub(ctx, clubID, domain.MemberStatusApproved)
	})
}

// JoinClubDirect records a Pending membership for the actor, to be approved by the president.
// It refuses while the actor holds any membership row or a Pending join request for the club.
func (s *membershipService) JoinClubDirect(ctx context.Context, actor domain.Actor, clubID int32) (*domain.ClubMember, error) {
	return withTelemetry(ctx, s.tel, "JoinClubDirect", actor, func(ctx context.Context) (*domain.ClubMember, error) {
		club, err := s.clubRepo.GetByID(ctx, clubID)
		if errors.Is(err, domain.ErrClubNotFound) {
			return nil, domain.ErrClubNotAvailable
		}
		if err != nil {
			return nil, err
		}
		if club.Status != domain.ClubStatusActive {
			return nil, domain.ErrClubNotAvailable
		}

		existing, err := s.members.GetActive(ctx, clubID, actor.UserID)
		switch {
		case err == nil && existing.IsApproved():
			return nil, domain.ErrAlreadyMember
		case err == nil:
			return nil, domain.ErrDuplicateRequest
		case !errors.Is(err, domain.ErrMemberNotFound):
			return nil, err
		}

		// A Pending join request would collide with this row once approved.
		_, err = s.requests.GetPending(ctx, clubID, actor.UserID)
		switch {
		case err == nil:
			return nil, domain.ErrDuplicateRequest
		case !errors.Is(err, domain.ErrJoinRequestNotFound):
			return nil, err
		}

		member := &domain.ClubMember{
			ClubID:   clubID,
			UserID:   actor.UserID,
			Status:   domain.MemberStatusPending,
			JoinedAt: s.now(),
		}
		if err := s.members.Create(ctx, member); err != nil {
			return nil, err
		}

		if club.PresidentID != nil {
			s.notifier.Notify(ctx, *club.PresidentID, "New membership request",
				fmt.Sprintf("A student has asked to join %q.", club.Name))
		}
		return member, nil
	})
}

func (s *membershipService) ApproveMember(ctx context.Context, actor domain.Actor, memberID int32) (*domain.ClubMember, error) {
	return withTelemetry(ctx, s.tel, "ApproveMember", actor, func(ctx context.Context) (*domain.ClubMember, error) {
		member, club, err := s.load(ctx, memberID)
		if err != nil {
			return nil, err
		}
		if err := policy.Authorize(actor, club, policy.ActionApproveMember, policy.MembershipTarget(member)); err != nil {
			return nil, err
		}
		if member.Status != domain.MemberStatusPending {
			return nil, domain.ErrMemberNotPending
		}

		if err := s.members.UpdateStatus(ctx, member.ID, domain.MemberStatusApproved); err != nil {
			return nil, err
		}
		member.Status = domain.MemberStatusApproved

		s.notifier.Notify(ctx, member.UserID, "Membership approved",
			fmt.Sprintf("You are now a member of %q.", club.Name))
		return member, nil
	})
}

func (s *membershipService) load(ctx context.Context, memberID int32) (*domain.ClubMember, *domain.Club, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, nil, err
	}
	club, err := s.clubRepo.GetByID(ctx, member.ClubID)
	if err != nil {
		return nil, nil, err
	}
	return member, club, nil
}
