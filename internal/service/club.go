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

type clubService struct {
	tx       repository.TransactionManager
	clubRepo repository.ClubRepository
	members  repository.ClubMemberRepository
	fees     repository.FeeScheduleRepository
	users    repository.UserRepository
	notifier Notifier
	tel      telemetry
	now      func() time.Time
}

func NewClubService(
	tx repository.TransactionManager,
	clubRepo repository.ClubRepository,
	members repository.ClubMemberRepository,
	fees repository.FeeScheduleRepository,
	users repository.UserRepository,
	notifier Notifier,
	m *metrics.Metrics,
) ClubService {
	return &clubService{
		tx:       tx,
		clubRepo: clubRepo,
		members:  members,
		fees:     fees,
		users:    users,
		notifier: notifier,
		tel:      newTelemetry("ClubService", m),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateClub founds a Pending club led by the actor, with the actor as its first Approved member.
func (s *clubService) CreateClub(ctx context.Context, actor domain.Actor, in CreateClubInput) (*domain.Club, error) {
	return withTelemetry(ctx, s.tel, "CreateClub", actor, func(ctx context.Context) (*domain.Club, error) {
		if err := validateClub(in.Name, in.Description, in.JoinFee); err != nil {
			return nil, err
		}
		name := domain.NormalizeClubName(in.Name)

		taken, err := s.clubRepo.NameTaken(ctx, name, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrDuplicateName
		}

		now := s.now()
		presidentID := actor.UserID
		club := &domain.Club{
			Name:        name,
			Description: in.Description,
			Status:      domain.ClubStatusPending,
			PresidentID: &presidentID,
			CreatedAt:   now,
		}

		err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
			if err := s.clubRepo.Create(ctx, club); err != nil {
				return err
			}
			founder := &domain.ClubMember{
				ClubID:   club.ID,
				UserID:   actor.UserID,
				Status:   domain.MemberStatusApproved,
				JoinedAt: now,
			}
			if err := s.members.Create(ctx, founder); err != nil {
				return err
			}
			if in.JoinFee != nil && *in.JoinFee > 0 {
				return s.fees.UpsertOneTimeFee(ctx, club.ID, *in.JoinFee, now.Add(domain.JoinFeeDueIn))
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateName) {
				return nil, err
			}
			return nil, domain.Processing(err)
		}

		club.MemberCount = 1
		if in.JoinFee != nil && *in.JoinFee > 0 {
			club.JoinFee = in.JoinFee
		}

		s.notifier.NotifyAudience(ctx, s.users.ListAdminIDs, "New club awaiting approval",
			fmt.Sprintf("Club %q was created and is waiting for approval.", club.Name))
		return club, nil
	})
}

func (s *clubService) ApproveClub(ctx context.Context, actor domain.Actor, clubID int32) (*domain.Club, error) {
	return withTelemetry(ctx, s.tel, "ApproveClub", actor, func(ctx context.Context) (*domain.Club, error) {
		if err := policy.Authorize(actor, nil, policy.ActionApproveClub, nil); err != nil {
			return nil, err
		}
		club, err := s.clubRepo.GetByID(ctx, clubID)
		if err != nil {
			return nil, err
		}
		switch club.Status {
		case domain.ClubStatusActive:
			return nil, domain.ErrAlreadyActive
		case domain.ClubStatusSuspended:
			return nil, domain.ErrClubSuspended
		}

		if err := s.clubRepo.UpdateStatus(ctx, club.ID, domain.ClubStatusActive); err != nil {
			return nil, err
		}
		club.Status = domain.ClubStatusActive

		s.notifyPresident(ctx, club, "Club approved",
			fmt.Sprintf("Your club %q has been approved and is now active.", club.Name))
		return club, nil
	})
}

// SuspendClub always succeeds on an existing club, including one that is already suspended.
func (s *clubService) SuspendClub(ctx context.Context, actor domain.Actor, clubID int32) (*domain.Club, error) {
	return withTelemetry(ctx, s.tel, "SuspendClub", actor, func(ctx context.Context) (*domain.Club, error) {
		if err := policy.Authorize(actor, nil, policy.ActionSuspendClub, nil); err != nil {
			return nil, err
		}
		club, err := s.clubRepo.GetByID(ctx, clubID)
		if err != nil {
			return nil, err
		}

		if err := s.clubRepo.UpdateStatus(ctx, club.ID, domain.ClubStatusSuspended); err != nil {
			return nil, err
		}
		club.Status = domain.ClubStatusSuspended

		s.notifyPresident(ctx, club, "Club suspended",
			fmt.Sprintf("Your club %q has been suspended.", club.Name))
		return club, nil
	})
}

func (s *clubService) UpdateClub(ctx context.Context, actor domain.Actor, clubID int32, in UpdateClubInput) (*domain.Club, error) {
	return withTelemetry(ctx, s.tel, "UpdateClub", actor, func(ctx context.Context) (*domain.Club, error) {
		if err := validateClub(in.Name, in.Description, in.JoinFee); err != nil {
			return nil, err
		}
		club, err := s.clubRepo.GetByID(ctx, clubID)
		if err != nil {
			return nil, err
		}
		if err := policy.Authorize(actor, club, policy.ActionUpdateClub, nil); err != nil {
			return nil, err
		}

		name := domain.NormalizeClubName(in.Name)
		taken, err := s.clubRepo.NameTaken(ctx, name, club.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrDuplicateName
		}

		club.Name = name
		club.Description = in.Description
		err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
			if err := s.clubRepo.Update(ctx, club); err != nil {
				return err
			}
			if in.JoinFee == nil {
				return nil
			}
			if *in.JoinFee > 0 {
				return s.fees.UpsertOneTimeFee(ctx, club.ID, *in.JoinFee, s.now().Add(domain.JoinFeeDueIn))
			}
			return s.fees.RemoveOneTimeFee(ctx, club.ID)
		})
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateName) {
				return nil, err
			}
			return nil, domain.Processing(err)
		}

		return s.clubRepo.GetByID(ctx, club.ID)
	})
}

// GetClub shows a club to an admin, its president, or an Approved member while the club is Active.
func (s *clubService) GetClub(ctx context.Context, actor domain.Actor, clubID int32) (*domain.Club, error) {
	return withTelemetry(ctx, s.tel, "GetClub", actor, func(ctx context.Context) (*domain.Club, error) {
		club, err := s.clubRepo.GetByID(ctx, clubID)
		if err != nil {
			return nil, err
		}
		if actor.IsAdmin() || club.IsPresident(actor.UserID) {
			return club, nil
		}
		if club.Status != domain.ClubStatusActive {
			return nil, domain.ErrClubNotFound
		}
		target, err := activeMembershipTarget(ctx, s.members, club.ID, actor.UserID)
		if err != nil {
			return nil, err
		}
		if err := policy.Authorize(actor, club, policy.ActionViewClub, target); err != nil {
			return nil, err
		}
		return club, nil
	})
}

// GetPublicClub reports Pending and Suspended clubs as not found.
func (s *clubService) GetPublicClub(ctx context.Context, clubID int32) (*domain.Club, error) {
	return withTelemetry(ctx, s.tel, "GetPublicClub", domain.Actor{}, func(ctx context.Context) (*domain.Club, error) {
		club, err := s.clubRepo.GetByID(ctx, clubID)
		if err != nil {
			return nil, err
		}
		if club.Status != domain.ClubStatusActive {
			return nil, domain.ErrClubNotFound
		}
		return club, nil
	})
}

func (s *clubService) ListPublicClubs(ctx context.Context) ([]domain.Club, error) {
	return withTelemetry(ctx, s.tel, "ListPublicClubs", domain.Actor{}, func(ctx context.Context) ([]domain.Club, error) {
		active := domain.ClubStatusActive
		return s.clubRepo.List(ctx, domain.ClubFilter{Status: &active})
	})
}

// ListClubs returns every club to admins; others see Active clubs plus the Pending clubs they lead.
func (s *clubService) ListClubs(ctx context.Context, actor domain.Actor, status *domain.ClubStatus) ([]domain.Club, error) {
	return withTelemetry(ctx, s.tel, "ListClubs", actor, func(ctx context.Context) ([]domain.Club, error) {
		filter := domain.ClubFilter{Status: status}
		if !actor.IsAdmin() {
			userID := actor.UserID
			filter.VisibleTo = &userID
		}
		return s.clubRepo.List(ctx, filter)
	})
}

func (s *clubService) ListMyClubs(ctx context.Context, actor domain.Actor) ([]domain.MyClub, error) {
	return withTelemetry(ctx, s.tel, "ListMyClubs", actor, func(ctx context.Context) ([]domain.MyClub, error) {
		return s.clubRepo.ListByMember(ctx, actor.UserID)
	})
}

func (s *clubService) notifyPresident(ctx context.Context, club *domain.Club, title, body string) {
	if club.PresidentID == nil {
		return
	}
	s.notifier.Notify(ctx, *club.PresidentID, title, body)
}

// activeMembershipTarget returns the user's current membership as a policy target, or nil when there is none.
func activeMembershipTarget(ctx context.Context, members repository.ClubMemberRepository, clubID, userID int32) (*policy.Target, error) {
	m, err := members.GetActive(ctx, clubID, userID)
	if errors.Is(err, domain.ErrMemberNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return policy.MembershipTarget(m), nil
}
