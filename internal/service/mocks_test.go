package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/mock"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/notify"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) ListAdminIDs(ctx context.Context) ([]int32, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int32), args.Error(1)
}

// MockClubRepo
type MockClubRepo struct {
	mock.Mock
}

func (m *MockClubRepo) Create(ctx context.Context, club *domain.Club) error {
	args := m.Called(ctx, club)
	return args.Error(0)
}
func (m *MockClubRepo) GetByID(ctx context.Context, id int32) (*domain.Club, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Club), args.Error(1)
}
func (m *MockClubRepo) Update(ctx context.Context, club *domain.Club) error {
	args := m.Called(ctx, club)
	return args.Error(0)
}
func (m *MockClubRepo) UpdateStatus(ctx context.Context, id int32, status domain.ClubStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockClubRepo) NameTaken(ctx context.Context, name string, excludeID int32) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *MockClubRepo) List(ctx context.Context, filter domain.ClubFilter) ([]domain.Club, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Club), args.Error(1)
}
func (m *MockClubRepo) ListByMember(ctx context.Context, userID int32) ([]domain.MyClub, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.MyClub), args.Error(1)
}

// MockClubMemberRepo
type MockClubMemberRepo struct {
	mock.Mock
}

func (m *MockClubMemberRepo) Create(ctx context.Context, member *domain.ClubMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockClubMemberRepo) GetByID(ctx context.Context, id int32) (*domain.ClubMember, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClubMember), args.Error(1)
}
func (m *MockClubMemberRepo) GetActive(ctx context.Context, clubID, userID int32) (*domain.ClubMember, error) {
	args := m.Called(ctx, clubID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClubMember), args.Error(1)
}
func (m *MockClubMemberRepo) UpdateStatus(ctx context.Context, id int32, status domain.MemberStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockClubMemberRepo) ListByClub(ctx context.Context, clubID int32, status domain.MemberStatus) ([]domain.ClubMember, error) {
	args := m.Called(ctx, clubID, status)
	return args.Get(0).([]domain.ClubMember), args.Error(1)
}
func (m *MockClubMemberRepo) ListApprovedUserIDs(ctx context.Context, clubID int32) ([]int32, error) {
	args := m.Called(ctx, clubID)
	return args.Get(0).([]int32), args.Error(1)
}

// MockJoinRequestRepo
type MockJoinRequestRepo struct {
	mock.Mock
}

func (m *MockJoinRequestRepo) Create(ctx context.Context, req *domain.JoinRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockJoinRequestRepo) GetByID(ctx context.Context, id int32) (*domain.JoinRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) GetPending(ctx context.Context, clubID, userID int32) (*domain.JoinRequest, error) {
	args := m.Called(ctx, clubID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) UpdateStatus(ctx context.Context, id int32, status domain.JoinRequestStatus, approvedAt *time.Time) error {
	args := m.Called(ctx, id, status, approvedAt)
	return args.Error(0)
}
func (m *MockJoinRequestRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockJoinRequestRepo) ListByClub(ctx context.Context, clubID int32, status *domain.JoinRequestStatus) ([]domain.JoinRequest, error) {
	args := m.Called(ctx, clubID, status)
	return args.Get(0).([]domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) ListStale(ctx context.Context, olderThan time.Time) ([]domain.StaleJoinRequests, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).([]domain.StaleJoinRequests), args.Error(1)
}

// MockFeeScheduleRepo
type MockFeeScheduleRepo struct {
	mock.Mock
}

func (m *MockFeeScheduleRepo) UpsertOneTimeFee(ctx context.Context, clubID int32, amount float64, dueDate time.Time) error {
	args := m.Called(ctx, clubID, amount, dueDate)
	return args.Error(0)
}
func (m *MockFeeScheduleRepo) RemoveOneTimeFee(ctx context.Context, clubID int32) error {
	args := m.Called(ctx, clubID)
	return args.Error(0)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
func (m *MockNotificationRepo) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockPostRepo
type MockPostRepo struct {
	mock.Mock
}

func (m *MockPostRepo) Create(ctx context.Context, post *domain.Post) error {
	args := m.Called(ctx, post)
	if args.Error(0) == nil {
		post.ID = 900
	}
	return args.Error(0)
}
func (m *MockPostRepo) GetByID(ctx context.Context, id int32) (*domain.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}
func (m *MockPostRepo) UpdateContent(ctx context.Context, id int32, content string, updatedAt time.Time) error {
	args := m.Called(ctx, id, content, updatedAt)
	return args.Error(0)
}
func (m *MockPostRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPostRepo) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Post), args.Get(1).(int32), args.Error(2)
}

// passThroughTx runs fn directly, recording how often a transaction was opened.
type passThroughTx struct {
	calls int
}

func (t *passThroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type sentNotice struct {
	UserID int32
	Title  string
}

// recordingNotifier resolves audiences inline so tests can see every recipient.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotice
}

func (n *recordingNotifier) Notify(_ context.Context, userID int32, title, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotice{UserID: userID, Title: title})
}

func (n *recordingNotifier) NotifyAudience(ctx context.Context, audience notify.Audience, title, body string) {
	ids, err := audience(ctx)
	if err != nil {
		return
	}
	for _, id := range ids {
		n.Notify(ctx, id, title, body)
	}
}

func (n *recordingNotifier) recipients(title string) []int32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	var ids []int32
	for _, s := range n.sent {
		if s.Title == title {
			ids = append(ids, s.UserID)
		}
	}
	return ids
}

func ptr[T any](v T) *T {
	return &v
}

var (
	admin     = domain.Actor{UserID: 1, Roles: []domain.Role{domain.RoleAdmin}}
	president = domain.Actor{UserID: 10, Roles: []domain.Role{domain.RoleClubLeader}}
	student   = domain.Actor{UserID: 20, Roles: []domain.Role{domain.RoleStudent}}
	outsider  = domain.Actor{UserID: 30, Roles: []domain.Role{domain.RoleStudent}}
)

func activeClub(id int32) *domain.Club {
	return &domain.Club{ID: id, Name: "Chess Society", Status: domain.ClubStatusActive, PresidentID: ptr(president.UserID)}
}

func newApplicant(f *gofakeit.Faker) domain.ApplicantProfile {
	year := f.Number(2020, 2030)
	return domain.ApplicantProfile{
		StudentID:    f.Numerify("SE######"),
		Major:        f.RandomString([]string{"Software Engineering", "Information Assurance", "Digital Art"}),
		AcademicYear: fmt.Sprintf("%d-%d", year, year+1),
		Introduction: "I am a second year student who loves " + f.Hobby() + ".",
		Reason:       "I would like to practise " + f.Hobby() + " with other students.",
	}
}
