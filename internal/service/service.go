package service

import (
	"context"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/notify"
)

// Notifier is the fire-and-forget delivery capability handed to every lifecycle service.
// Implementations must return immediately and never report delivery failures.
type Notifier interface {
	Notify(ctx context.Context, userID int32, title, body string)
	NotifyAudience(ctx context.Context, audience notify.Audience, title, body string)
}

type CreateClubInput struct {
	Name        string
	Description string
	JoinFee     *float64
}

// UpdateClubInput replaces name and description. A nil JoinFee leaves the fee untouched;
// a positive one upserts it and zero removes it.
type UpdateClubInput struct {
	Name        string
	Description string
	JoinFee     *float64
}

type ClubService interface {
	CreateClub(ctx context.Context, actor domain.Actor, in CreateClubInput) (*domain.Club, error)
	ApproveClub(ctx context.Context, actor domain.Actor, clubID int32) (*domain.Club, error)
	SuspendClub(ctx context.Context, actor domain.Actor, clubID int32) (*domain.Club, error)
	UpdateClub(ctx context.Context, actor domain.Actor, clubID int32, in UpdateClubInput) (*domain.Club, error)
	GetClub(ctx context.Context, actor domain.Actor, clubID int32) (*domain.Club, error)
	GetPublicClub(ctx context.Context, clubID int32) (*domain.Club, error)
	ListPublicClubs(ctx context.Context) ([]domain.Club, error)
	ListClubs(ctx context.Context, actor domain.Actor, status *domain.ClubStatus) ([]domain.Club, error)
	ListMyClubs(ctx context.Context, actor domain.Actor) ([]domain.MyClub, error)
}

type JoinRequestService interface {
	SubmitJoinRequest(ctx context.Context, actor domain.Actor, clubID int32, profile domain.ApplicantProfile) (*domain.JoinRequest, error)
	ApproveJoinRequest(ctx context.Context, actor domain.Actor, clubID, requestID int32) (*domain.JoinRequest, error)
	RejectJoinRequest(ctx context.Context, actor domain.Actor, clubID, requestID int32) (*domain.JoinRequest, error)
	CancelJoinRequest(ctx context.Context, actor domain.Actor, clubID int32) error
	ListJoinRequests(ctx context.Context, actor domain.Actor, clubID int32, status *domain.JoinRequestStatus) ([]domain.JoinRequest, error)
}

type MembershipService interface {
	RemoveMember(ctx context.Context, actor domain.Actor, memberID int32) error
	LeaveClub(ctx context.Context, actor domain.Actor, clubID int32) error
	ListMembers(ctx context.Context, actor domain.Actor, clubID int32) ([]domain.ClubMember, error)
	JoinClubDirect(ctx context.Context, actor domain.Actor, clubID int32) (*domain.ClubMember, error)
	ApproveMember(ctx context.Context, actor domain.Actor, memberID int32) (*domain.ClubMember, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, actor domain.Actor, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, actor domain.Actor, notificationID int32) error
}

type CreatePostInput struct {
	Content    string
	Visibility domain.PostVisibility
	ClubID     *int32
}

// PostQuery is a page request. Page is 1-based; zero values pick the defaults.
type PostQuery struct {
	ClubID     *int32
	Visibility *domain.PostVisibility
	Search     string
	Sort       domain.PostSort
	Page       int32
	PageSize   int32
}

type PostPage struct {
	Items    []domain.Post `json:"items"`
	Total    int32         `json:"total"`
	Page     int32         `json:"page"`
	PageSize int32         `json:"page_size"`
}

type PostService interface {
	CreatePost(ctx context.Context, actor domain.Actor, in CreatePostInput) (*domain.Post, error)
	UpdatePost(ctx context.Context, actor domain.Actor, postID int32, content string) (*domain.Post, error)
	DeletePost(ctx context.Context, actor domain.Actor, postID int32) error
	GetPost(ctx context.Context, actor domain.Actor, postID int32) (*domain.Post, error)
	ListPosts(ctx context.Context, actor domain.Actor, q PostQuery) (*PostPage, error)
	GetPublicPost(ctx context.Context, postID int32) (*domain.Post, error)
	ListPublicPosts(ctx context.Context, q PostQuery) (*PostPage, error)
}
