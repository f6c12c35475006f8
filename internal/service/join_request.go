package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
	"github.com/huyhqq/Student-Club-Management-System/internal/metrics"
	"github.com/huyhqq/Student-Club-Management-System/internal/notify"
	"github.com/huyhqq/Student-Club-Management-System/internal/policy"
	"github.com/huyhqq/Student-Club-Management-System/internal/repository"
)

type joinRequestService struct {
	tx       repository.TransactionManager
	clubRepo repository.ClubRepository
	members  repository.ClubMemberRepository
	requests repository.JoinRequestRepository
	notifier Notifier
	tel      telemetry
	now      func() time.Time
}

func NewJoinRequestService(
	tx repository.TransactionManager,
	clubRepo repository.ClubRepository,
	members repository.ClubMemberRepository,
	requests repository.JoinRequestRepository,
	notifier Notifier,
	m *metrics.Metrics,
) JoinRequestService {
	return &joinRequestService{
		tx:       tx,
		clubRepo: clubRepo,
		members:  members,
		requests: requests,
		notifier: notifier,
		tel:      newTelemetry("JoinRequestService", m),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SubmitJoinRequest checks, in order: the club is Active, the actor is not already an
// Approved member, and the actor has neither a Pending request nor a Pending membership for the club.
func (s *joinRequestService) SubmitJoinRequest(ctx context.Context, actor domain.Actor, clubID int32, profile domain.ApplicantProfile) (*domain.JoinRequest, error) {
	return withTelemetry(ctx, s.tel, "SubmitJoinRequest", actor, func(ctx context.Context) (*domain.JoinRequest, error) {
		if err := validateApplicant(profile); err != nil {
			return nil, err
		}

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
		if err := policy.Authorize(actor, club, policy.ActionSubmitJoinRequest, policy.UserTarget(actor.UserID)); err != nil {
			return nil, err
		}

		member, err := s.members.GetActive(ctx, clubID, actor.UserID)
		switch {
		case err == nil && member.IsApproved():
			return nil, domain.ErrAlreadyMember
		case err == nil:
			// A Pending membership from a direct join already occupies the slot approval would fill.
			return nil, domain.ErrDuplicateRequest
		case !errors.Is(err, domain.ErrMemberNotFound):
			return nil, err
		}

		_, err = s.requests.GetPending(ctx, clubID, actor.UserID)
		switch {
		case err == nil:
			return nil, domain.ErrDuplicateRequest
		case !errors.Is(err, domain.ErrJoinRequestNotFound):
			return nil, err
		}

		req := &domain.JoinRequest{
			ClubID:           clubID,
			UserID:           actor.UserID,
			ApplicantProfile: profile,
			Status:           domain.JoinRequestStatusPending,
			CreatedAt:        s.now(),
		}
		if err := s.requests.Create(ctx, req); err != nil {
			return nil, err
		}

		s.notifyPresident(ctx, club, "New join request",
			fmt.Sprintf("Student %s has asked to join %q.", profile.StudentID, club.Name))
		return req, nil
	})
}

// ApproveJoinRequest moves the request to Approved and creates the Approved membership in one
// transaction. Any storage failure leaves the request Pending and reports ErrProcessing.
func (s *joinRequestService) ApproveJoinRequest(ctx context.Context, actor domain.Actor, clubID, requestID int32) (*domain.JoinRequest, error) {
	return withTelemetry(ctx, s.tel, "ApproveJoinRequest", actor, func(ctx context.Context) (*domain.JoinRequest, error) {
		req, club, err := s.loadForDecision(ctx, actor, clubID, requestID, policy.ActionApproveJoinRequest)
		if err != nil {
			return nil, err
		}

		approvedAt := s.now()
		err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
			if err := s.requests.UpdateStatus(ctx, req.ID, domain.JoinRequestStatusApproved, &approvedAt); err != nil {
				return err
			}
			return s.members.Create(ctx, &domain.ClubMember{
				ClubID:   req.ClubID,
				UserID:   req.UserID,
				Status:   domain.MemberStatusApproved,
				JoinedAt: approvedAt,
			})
		})
		if err != nil {
			if errors.Is(err, domain.ErrRequestAlreadyProcessed) {
				return nil, err
			}
			logger.ErrorContext(ctx, "Join request approval rolled back", "requestID", req.ID, "clubID", req.ClubID, "error", err)
			return nil, domain.Processing(err)
		}

		req.Status = domain.JoinRequestStatusApproved
		req.ApprovedAt = &approvedAt

		s.notifier.Notify(ctx, req.UserID, "Join request approved",
			fmt.Sprintf("Welcome! Your request to join %q has been approved.", club.Name))

		clubID := club.ID
		others := notify.Except(func(ctx context.Context) ([]int32, error) {
			return s.members.ListApprovedUserIDs(ctx, clubID)
		}, req.UserID)
		s.notifier.NotifyAudience(ctx, others, "New member",
			fmt.Sprintf("A new member has joined %q.", club.Name))
		return req, nil
	})
}

func (s *joinRequestService) RejectJoinRequest(ctx context.Context, actor domain.Actor, clubID, requestID int32) (*domain.JoinRequest, error) {
	return withTelemetry(ctx, s.tel, "RejectJoinRequest", actor, func(ctx context.Context) (*domain.JoinRequest, error) {
		req, club, err := s.loadForDecision(ctx, actor, clubID, requestID, policy.ActionRejectJoinRequest)
		if err != nil {
			return nil, err
		}

		if err := s.requests.UpdateStatus(ctx, req.ID, domain.JoinRequestStatusRejected, nil); err != nil {
			return nil, err
		}
		req.Status = domain.JoinRequestStatusRejected

		s.notifier.Notify(ctx, req.UserID, "Join request rejected",
			fmt.Sprintf("Your request to join %q was not accepted.", club.Name))
		return req, nil
	})
}

// CancelJoinRequest deletes the actor's own Pending request for the club.
func (s *joinRequestService) CancelJoinRequest(ctx context.Context, actor domain.Actor, clubID int32) error {
	_, err := withTelemetry(ctx, s.tel, "CancelJoinRequest", actor, func(ctx context.Context) (struct{}, error) {
		req, err := s.requests.GetPending(ctx, clubID, actor.UserID)
		if err != nil {
			return struct{}{}, err
		}
		if err := policy.Authorize(actor, nil, policy.ActionCancelJoinRequest, policy.UserTarget(req.UserID)); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, s.requests.Delete(ctx, req.ID)
	})
	return err
}

func (s *joinRequestService) ListJoinRequests(ctx context.Context, actor domain.Actor, clubID int32, status *domain.JoinRequestStatus) ([]domain.JoinRequest, error) {
	return withTelemetry(ctx, s.tel, "ListJoinRequests", actor, func(ctx context.Context) ([]domain.JoinRequest, error) {
		club, err := s.clubRepo.GetByID(ctx, clubID)
		if err != nil {
			return nil, err
		}
		if err := policy.Authorize(actor, club, policy.ActionListJoinRequests, nil); err != nil {
			return nil, err
		}
		return s.requests.ListByClub(ctx, clubID, status)
	})
}

// loadForDecision loads the request and its club, authorizes the decision and requires the request to be Pending.
// A request filed under another club is reported as not found.
func (s *joinRequestService) loadForDecision(ctx context.Context, actor domain.Actor, clubID, requestID int32, action policy.Action) (*domain.JoinRequest, *domain.Club, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if req.ClubID != clubID {
		return nil, nil, domain.ErrJoinRequestNotFound
	}
	club, err := s.clubRepo.GetByID(ctx, req.ClubID)
	if err != nil {
		return nil, nil, err
	}
	if err := policy.Authorize(actor, club, action, policy.UserTarget(req.UserID)); err != nil {
		return nil, nil, err
	}
	if !req.IsPending() {
		return nil, nil, domain.ErrRequestAlreadyProcessed
	}
	return req, club, nil
}

func (s *joinRequestService) notifyPresident(ctx context.Context, club *domain.Club, title, body string) {
	if club.PresidentID == nil {
		return
	}
	s.notifier.Notify(ctx, *club.PresidentID, title, body)
}
