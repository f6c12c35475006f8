package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/service"
)

type MockClubService struct{ mock.Mock }

func (m *MockClubService) CreateClub(ctx context.Context, actor domain.Actor, in service.CreateClubInput) (*domain.Club, error) {
	args := m.Called(ctx, actor, in)
	return clubOrNil(args.Get(0)), args.Error(1)
}
func (m *MockClubService) ApproveClub(ctx context.Context, actor domain.Actor, clubID int32) (*domain.Club, error) {
	args := m.Called(ctx, actor, clubID)
	return clubOrNil(args.Get(0)), args.Error(1)
}
func (m *MockClubService) SuspendClub(ctx context.Context, actor domain.Actor, clubID int32) (*domain.Club, error) {
	args := m.Called(ctx, actor, clubID)
	return clubOrNil(args.Get(0)), args.Error(1)
}
func (m *MockClubService) UpdateClub(ctx context.Context, actor domain.Actor, clubID int32, in service.UpdateClubInput) (*domain.Club, error) {
	args := m.Called(ctx, actor, clubID, in)
	return clubOrNil(args.Get(0)), args.Error(1)
}
func (m *MockClubService) GetClub(ctx context.Context, actor domain.Actor, clubID int32) (*domain.Club, error) {
	args := m.Called(ctx, actor, clubID)
	return clubOrNil(args.Get(0)), args.Error(1)
}
func (m *MockClubService) GetPublicClub(ctx context.Context, clubID int32) (*domain.Club, error) {
	args := m.Called(ctx, clubID)
	return clubOrNil(args.Get(0)), args.Error(1)
}
func (m *MockClubService) ListPublicClubs(ctx context.Context) ([]domain.Club, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Club), args.Error(1)
}
func (m *MockClubService) ListClubs(ctx context.Context, actor domain.Actor, status *domain.ClubStatus) ([]domain.Club, error) {
	args := m.Called(ctx, actor, status)
	return args.Get(0).([]domain.Club), args.Error(1)
}
func (m *MockClubService) ListMyClubs(ctx context.Context, actor domain.Actor) ([]domain.MyClub, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.MyClub), args.Error(1)
}

func clubOrNil(v any) *domain.Club {
	if v == nil {
		return nil
	}
	return v.(*domain.Club)
}

type MockJoinRequestService struct{ mock.Mock }

func (m *MockJoinRequestService) SubmitJoinRequest(ctx context.Context, actor domain.Actor, clubID int32, profile domain.ApplicantProfile) (*domain.JoinRequest, error) {
	args := m.Called(ctx, actor, clubID, profile)
	return requestOrNil(args.Get(0)), args.Error(1)
}
func (m *MockJoinRequestService) ApproveJoinRequest(ctx context.Context, actor domain.Actor, clubID, requestID int32) (*domain.JoinRequest, error) {
	args := m.Called(ctx, actor, clubID, requestID)
	return requestOrNil(args.Get(0)), args.Error(1)
}
func (m *MockJoinRequestService) RejectJoinRequest(ctx context.Context, actor domain.Actor, clubID, requestID int32) (*domain.JoinRequest, error) {
	args := m.Called(ctx, actor, clubID, requestID)
	return requestOrNil(args.Get(0)), args.Error(1)
}
func (m *MockJoinRequestService) CancelJoinRequest(ctx context.Context, actor domain.Actor, clubID int32) error {
	return m.Called(ctx, actor, clubID).Error(0)
}
func (m *MockJoinRequestService) ListJoinRequests(ctx context.Context, actor domain.Actor, clubID int32, status *domain.JoinRequestStatus) ([]domain.JoinRequest, error) {
	args := m.Called(ctx, actor, clubID, status)
	return args.Get(0).([]domain.JoinRequest), args.Error(1)
}

func requestOrNil(v any) *domain.JoinRequest {
	if v == nil {
		return nil
	}
	return v.(*domain.JoinRequest)
}

type MockMembershipService struct{ mock.Mock }

func (m *MockMembershipService) RemoveMember(ctx context.Context, actor domain.Actor, memberID int32) error {
	return m.Called(ctx, actor, memberID).Error(0)
}
func (m *MockMembershipService) LeaveClub(ctx context.Context, actor domain.Actor, clubID int32) error {
	return m.Called(ctx, actor, clubID).Error(0)
}
func (m *MockMembershipService) ListMembers(ctx context.Context, actor domain.Actor, clubID int32) ([]domain.ClubMember, error) {
	args := m.Called(ctx, actor, clubID)
	return args.Get(0).([]domain.ClubMember), args.Error(1)
}
func (m *MockMembershipService) JoinClubDirect(ctx context.Context, actor domain.Actor, clubID int32) (*domain.ClubMember, error) {
	args := m.Called(ctx, actor, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClubMember), args.Error(1)
}
func (m *MockMembershipService) ApproveMember(ctx context.Context, actor domain.Actor, memberID int32) (*domain.ClubMember, error) {
	args := m.Called(ctx, actor, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClubMember), args.Error(1)
}

type MockNotificationService struct{ mock.Mock }

func (m *MockNotificationService) GetNotifications(ctx context.Context, actor domain.Actor, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, actor, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, actor domain.Actor, notificationID int32) error {
	return m.Called(ctx, actor, notificationID).Error(0)
}

type MockPostService struct{ mock.Mock }

func postOrNil(v any) *domain.Post {
	if v == nil {
		return nil
	}
	return v.(*domain.Post)
}

func pageOrNil(v any) *service.PostPage {
	if v == nil {
		return nil
	}
	return v.(*service.PostPage)
}

func (m *MockPostService) CreatePost(ctx context.Context, actor domain.Actor, in service.CreatePostInput) (*domain.Post, error) {
	args := m.Called(ctx, actor, in)
	return postOrNil(args.Get(0)), args.Error(1)
}
func (m *MockPostService) UpdatePost(ctx context.Context, actor domain.Actor, postID int32, content string) (*domain.Post, error) {
	args := m.Called(ctx, actor, postID, content)
	return postOrNil(args.Get(0)), args.Error(1)
}
func (m *MockPostService) DeletePost(ctx context.Context, actor domain.Actor, postID int32) error {
	return m.Called(ctx, actor, postID).Error(0)
}
func (m *MockPostService) GetPost(ctx context.Context, actor domain.Actor, postID int32) (*domain.Post, error) {
	args := m.Called(ctx, actor, postID)
	return postOrNil(args.Get(0)), args.Error(1)
}
func (m *MockPostService) ListPosts(ctx context.Context, actor domain.Actor, q service.PostQuery) (*service.PostPage, error) {
	args := m.Called(ctx, actor, q)
	return pageOrNil(args.Get(0)), args.Error(1)
}
func (m *MockPostService) GetPublicPost(ctx context.Context, postID int32) (*domain.Post, error) {
	args := m.Called(ctx, postID)
	return postOrNil(args.Get(0)), args.Error(1)
}
func (m *MockPostService) ListPublicPosts(ctx context.Context, q service.PostQuery) (*service.PostPage, error) {
	args := m.Called(ctx, q)
	return pageOrNil(args.Get(0)), args.Error(1)
}
