package repository

import (
	"context"
	"time"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
)

// TransactionManager runs fn inside one store transaction. Repositories called with the
// context passed to fn take part in that transaction.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	ListAdminIDs(ctx context.Context) ([]int32, error)
}

type ClubRepository interface {
	Create(ctx context.Context, club *domain.Club) error
	GetByID(ctx context.Context, id int32) (*domain.Club, error)
	Update(ctx context.Context, club *domain.Club) error
	UpdateStatus(ctx context.Context, id int32, status domain.ClubStatus) error
	// NameTaken compares trimmed names case-insensitively, ignoring excludeID (0 for none).
	NameTaken(ctx context.Context, name string, excludeID int32) (bool, error)
	List(ctx context.Context, filter domain.ClubFilter) ([]domain.Club, error)
	ListByMember(ctx context.Context, userID int32) ([]domain.MyClub, error)
}

type ClubMemberRepository interface {
	Create(ctx context.Context, member *domain.ClubMember) error
	GetByID(ctx context.Context, id int32) (*domain.ClubMember, error)
	// GetActive returns the caller's Pending or Approved row in the club.
	GetActive(ctx context.Context, clubID, userID int32) (*domain.ClubMember, error)
	UpdateStatus(ctx context.Context, id int32, status domain.MemberStatus) error
	ListByClub(ctx context.Context, clubID int32, status domain.MemberStatus) ([]domain.ClubMember, error)
	ListApprovedUserIDs(ctx context.Context, clubID int32) ([]int32, error)
}

type JoinRequestRepository interface {
	Create(ctx context.Context, req *domain.JoinRequest) error
	GetByID(ctx context.Context, id int32) (*domain.JoinRequest, error)
	GetPending(ctx context.Context, clubID, userID int32) (*domain.JoinRequest, error)
	// UpdateStatus only moves Pending rows; a row already processed reports ErrRequestAlreadyProcessed.
	UpdateStatus(ctx context.Context, id int32, status domain.JoinRequestStatus, approvedAt *time.Time) error
	Delete(ctx context.Context, id int32) error
	ListByClub(ctx context.Context, clubID int32, status *domain.JoinRequestStatus) ([]domain.JoinRequest, error)
	ListStale(ctx context.Context, olderThan time.Time) ([]domain.StaleJoinRequests, error)
}

type FeeScheduleRepository interface {
	UpsertOneTimeFee(ctx context.Context, clubID int32, amount float64, dueDate time.Time) error
	RemoveOneTimeFee(ctx context.Context, clubID int32) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
	DeleteReadBefore(ctx context.Context, before time.Time) (int64, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id int32) (*domain.Post, error)
	UpdateContent(ctx context.Context, id int32, content string, updatedAt time.Time) error
	Delete(ctx context.Context, id int32) error
	// List returns one page and the total number of matching rows.
	List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, int32, error)
}
